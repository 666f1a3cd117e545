package matching

import (
	"sort"
	"strconv"
	"strings"
)

// Pair is a two-user combination in canonical ascending-id order.
type Pair struct {
	A int64
	B int64
}

// NewPair canonicalizes the id order so (4,1) and (1,4) are the same pair.
func NewPair(a, b int64) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

type PairSet map[Pair]struct{}

func (s PairSet) Add(p Pair) {
	s[p] = struct{}{}
}

func (s PairSet) Has(p Pair) bool {
	_, ok := s[p]
	return ok
}

// AllPairs returns every 2-combination of the given ids.
func AllPairs(ids []int64) PairSet {
	pairs := make(PairSet)
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			pairs.Add(NewPair(ids[i], ids[j]))
		}
	}
	return pairs
}

// MeetingGroup is the ascending user ids of one historical meeting.
// Meetings normally have two participants, but malformed records with any
// other participant count are carried through as-is rather than rejected.
type MeetingGroup []int64

func NewMeetingGroup(ids []int64) MeetingGroup {
	g := make(MeetingGroup, len(ids))
	copy(g, ids)
	sort.Slice(g, func(i, j int) bool { return g[i] < g[j] })
	return g
}

func (g MeetingGroup) key() string {
	parts := make([]string, len(g))
	for i, id := range g {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

// GroupSet is an order-independent set of meeting groups.
type GroupSet map[string]MeetingGroup

func NewGroupSet() GroupSet {
	return make(GroupSet)
}

func (s GroupSet) Add(g MeetingGroup) {
	s[g.key()] = g
}

func (s GroupSet) AddPair(p Pair) {
	s.Add(MeetingGroup{p.A, p.B})
}

func (s GroupSet) HasPair(p Pair) bool {
	_, ok := s[MeetingGroup{p.A, p.B}.key()]
	return ok
}

func (s GroupSet) Clone() GroupSet {
	out := make(GroupSet, len(s))
	for k, g := range s {
		out[k] = g
	}
	return out
}

// Pairs returns only the two-participant groups. Groups of any other size
// cannot correspond to a candidate pair and are inert for exclusion.
func (s GroupSet) Pairs() PairSet {
	pairs := make(PairSet)
	for _, g := range s {
		if len(g) == 2 {
			pairs.Add(NewPair(g[0], g[1]))
		}
	}
	return pairs
}
