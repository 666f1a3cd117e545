package matching

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	meetingmodel "github.com/peerconnect/pairing-service/internal/core/datamodel/meeting"
	usermodel "github.com/peerconnect/pairing-service/internal/core/datamodel/user"
)

func ruleUser(id int64, meta map[string]string) *usermodel.User {
	return &usermodel.User{ID: id, MetaData: meta}
}

var _ = Describe("DisallowedMeetings", func() {
	var sub *meetingmodel.MeetingSubscription

	BeforeEach(func() {
		sub = &meetingmodel.MeetingSubscription{ID: 1}
	})

	It("returns only the previous meetings when no rules are set", func() {
		previous := NewGroupSet()
		previous.AddPair(NewPair(1, 2))

		users := []*usermodel.User{
			ruleUser(1, map[string]string{"department": "eng"}),
			ruleUser(2, map[string]string{"department": "eng"}),
		}

		disallowed := DisallowedMeetings(users, previous, sub)
		Expect(disallowed).To(HaveLen(1))
		Expect(disallowed.HasPair(NewPair(1, 2))).To(BeTrue())
	})

	It("does not mutate the previous set", func() {
		previous := NewGroupSet()
		sub.DeptRules = []meetingmodel.SubscriptionRule{{Name: "department"}}

		users := []*usermodel.User{
			ruleUser(1, map[string]string{"department": "eng"}),
			ruleUser(2, map[string]string{"department": "eng"}),
		}

		DisallowedMeetings(users, previous, sub)
		Expect(previous).To(BeEmpty())
	})

	It("flags every pair sharing the rule field's value", func() {
		sub.DeptRules = []meetingmodel.SubscriptionRule{{Name: "department"}}

		users := []*usermodel.User{
			ruleUser(1, map[string]string{"department": "eng"}),
			ruleUser(2, map[string]string{"department": "eng"}),
			ruleUser(3, map[string]string{"department": "sales"}),
		}

		disallowed := DisallowedMeetings(users, NewGroupSet(), sub)
		Expect(disallowed.HasPair(NewPair(1, 2))).To(BeTrue())
		Expect(disallowed.HasPair(NewPair(1, 3))).To(BeFalse())
		Expect(disallowed.HasPair(NewPair(2, 3))).To(BeFalse())
	})

	It("unions the exclusions of multiple rules", func() {
		sub.DeptRules = []meetingmodel.SubscriptionRule{{Name: "department"}, {Name: "office"}}

		users := []*usermodel.User{
			ruleUser(1, map[string]string{"department": "eng", "office": "berlin"}),
			ruleUser(2, map[string]string{"department": "sales", "office": "berlin"}),
			ruleUser(3, map[string]string{"department": "sales", "office": "london"}),
		}

		disallowed := DisallowedMeetings(users, NewGroupSet(), sub)
		Expect(disallowed.HasPair(NewPair(1, 2))).To(BeTrue())
		Expect(disallowed.HasPair(NewPair(2, 3))).To(BeTrue())
		Expect(disallowed.HasPair(NewPair(1, 3))).To(BeFalse())
	})

	It("never matches a rule against a missing metadata field", func() {
		sub.DeptRules = []meetingmodel.SubscriptionRule{{Name: "department"}}

		users := []*usermodel.User{
			ruleUser(1, nil),
			ruleUser(2, nil),
			ruleUser(3, map[string]string{"department": "eng"}),
		}

		disallowed := DisallowedMeetings(users, NewGroupSet(), sub)
		Expect(disallowed).To(BeEmpty())
	})
})
