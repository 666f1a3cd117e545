package matching

import (
	"context"
	"log/slog"
	"sort"

	meetingmodel "github.com/peerconnect/pairing-service/internal/core/datamodel/meeting"
	usermodel "github.com/peerconnect/pairing-service/internal/core/datamodel/user"
	"github.com/peerconnect/pairing-service/internal/directory"
)

// DirectoryAPI supplies the per-run employee snapshot.
type DirectoryAPI interface {
	FetchRoster(ctx context.Context) (*directory.Roster, error)
}

// HistoryAPI reconstructs recent meeting groups for a subscription.
type HistoryAPI interface {
	PreviousMeetings(ctx context.Context, subscriptionID int64, cooldownWeeks *int) (GroupSet, error)
}

// PreferenceAPI resolves a user's preferred time slot for a subscription.
// Looked up once per matched pair, using the first user's preference.
type PreferenceAPI interface {
	PreferredTimeSlot(ctx context.Context, userID, subscriptionID int64) (*meetingmodel.SubscriptionTimeSlot, error)
}

// Match is one generated pairing. UserA.ID < UserB.ID always holds.
type Match struct {
	UserA    *usermodel.User
	UserB    *usermodel.User
	TimeSlot *meetingmodel.SubscriptionTimeSlot
}

// Engine computes a maximum-weight pairing over a subscription's cohort.
type Engine struct {
	history     HistoryAPI
	directory   DirectoryAPI
	preferences PreferenceAPI
	logger      *slog.Logger
}

func NewEngine(history HistoryAPI, dir DirectoryAPI, preferences PreferenceAPI, logger *slog.Logger) *Engine {
	return &Engine{
		history:     history,
		directory:   dir,
		preferences: preferences,
		logger:      logger,
	}
}

// GeneratePairMeetings matches the cohort into pairs, honoring recent
// history and subscription rules, and returns the matches plus every user
// left unmatched. A nil previous lets the engine look history up itself.
func (e *Engine) GeneratePairMeetings(ctx context.Context, users []*usermodel.User, sub *meetingmodel.MeetingSubscription, previous GroupSet) ([]Match, []*usermodel.User, error) {
	if previous == nil {
		var err error
		previous, err = e.history.PreviousMeetings(ctx, sub.ID, sub.CooldownWeeks)
		if err != nil {
			return nil, nil, err
		}
	}

	byID := make(map[int64]*usermodel.User, len(users))
	ids := make([]int64, 0, len(users))
	for _, u := range users {
		byID[u.ID] = u
		ids = append(ids, u.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	if len(ids) < 2 {
		unmatched := make([]*usermodel.User, 0, len(ids))
		for _, id := range ids {
			unmatched = append(unmatched, byID[id])
		}
		return nil, unmatched, nil
	}

	disallowed := DisallowedMeetings(users, previous, sub)

	allowed := make(PairSet)
	for pair := range AllPairs(ids) {
		if !disallowed.HasPair(pair) {
			allowed.Add(pair)
		}
	}

	matched, err := e.matchPairs(ctx, ids, allowed)
	if err != nil {
		return nil, nil, err
	}

	matches := make([]Match, 0, len(matched))
	matchedIDs := make(map[int64]struct{}, 2*len(matched))
	for _, pair := range matched {
		userA := byID[pair.A]
		userB := byID[pair.B]
		slot, err := e.preferences.PreferredTimeSlot(ctx, userA.ID, sub.ID)
		if err != nil {
			return nil, nil, err
		}
		matches = append(matches, Match{UserA: userA, UserB: userB, TimeSlot: slot})
		matchedIDs[pair.A] = struct{}{}
		matchedIDs[pair.B] = struct{}{}
	}

	var unmatched []*usermodel.User
	for _, id := range ids {
		if _, ok := matchedIDs[id]; !ok {
			unmatched = append(unmatched, byID[id])
		}
	}

	e.logger.Info("matching complete",
		"subscription_id", sub.ID,
		"matched_users", 2*len(matches),
		"unmatched_users", len(unmatched))

	return matches, unmatched, nil
}

// matchPairs builds the weighted candidate graph over the sorted cohort ids
// and runs exact maximum-weight matching on it. The raw matcher reports
// each pairing from both ends; canonicalizing through NewPair collapses the
// duplicates.
func (e *Engine) matchPairs(ctx context.Context, ids []int64, allowed PairSet) ([]Pair, error) {
	if len(allowed) == 0 {
		return nil, nil
	}

	roster, err := e.directory.FetchRoster(ctx)
	if err != nil {
		return nil, err
	}

	weights, err := MeetingWeights(allowed, roster)
	if err != nil {
		return nil, err
	}

	index := make(map[int64]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	defaulted := 0
	edges := make([]weightedEdge, 0, len(allowed))
	for pair := range allowed {
		weight, ok := weights[pair]
		if !ok {
			// unscored pairs carry a neutral weight; too many of these
			// means a degraded-fairness run, so make it visible
			weight = 1.0
			defaulted++
		}
		edges = append(edges, weightedEdge{i: index[pair.A], j: index[pair.B], w: weight})
	}
	if defaulted > 0 {
		e.logger.Warn("pairs missing affinity scores matched at default weight", "count", defaulted)
	}

	mate := maxWeightMatching(edges)

	seen := make(PairSet)
	var pairs []Pair
	for v, w := range mate {
		if w < 0 {
			continue
		}
		pair := NewPair(ids[v], ids[w])
		if seen.Has(pair) {
			continue
		}
		seen.Add(pair)
		pairs = append(pairs, pair)
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
	return pairs, nil
}
