package matching

import (
	"sort"

	meetingmodel "github.com/peerconnect/pairing-service/internal/core/datamodel/meeting"
	usermodel "github.com/peerconnect/pairing-service/internal/core/datamodel/user"
)

// DisallowedMeetings combines the previous-meeting groups with every cohort
// pair flagged by the subscription's equality rules. Rules only ever add
// exclusions; multiple rules union their results.
//
// The full pairwise cross-product is intentional: cohorts are tens to low
// hundreds of users per subscription.
func DisallowedMeetings(users []*usermodel.User, previous GroupSet, sub *meetingmodel.MeetingSubscription) GroupSet {
	disallowed := previous.Clone()

	ids := make([]int64, len(users))
	byID := make(map[int64]*usermodel.User, len(users))
	for i, u := range users {
		ids[i] = u.ID
		byID[u.ID] = u
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, rule := range sub.DeptRules {
		for pair := range AllPairs(ids) {
			if isSame(rule.Name, pair, byID) {
				disallowed.AddPair(pair)
			}
		}
	}
	return disallowed
}

// isSame reports whether both users carry the metadata field with an equal
// value. A user missing the field never matches the rule.
func isSame(field string, pair Pair, users map[int64]*usermodel.User) bool {
	a, okA := users[pair.A].MetaData[field]
	b, okB := users[pair.B].MetaData[field]
	return okA && okB && a == b
}
