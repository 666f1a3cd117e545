package matching

import (
	"context"
	"errors"
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	meetingmodel "github.com/peerconnect/pairing-service/internal/core/datamodel/meeting"
	usermodel "github.com/peerconnect/pairing-service/internal/core/datamodel/user"
	"github.com/peerconnect/pairing-service/internal/directory"
)

type mockHistory struct {
	groups GroupSet
	err    error
	calls  int
}

func (m *mockHistory) PreviousMeetings(_ context.Context, _ int64, _ *int) (GroupSet, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.groups, nil
}

type mockDirectory struct {
	roster *directory.Roster
	err    error
	calls  int
}

func (m *mockDirectory) FetchRoster(_ context.Context) (*directory.Roster, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.roster, nil
}

type mockPreferences struct {
	slots map[int64]*meetingmodel.SubscriptionTimeSlot
}

func (m *mockPreferences) PreferredTimeSlot(_ context.Context, userID, _ int64) (*meetingmodel.SubscriptionTimeSlot, error) {
	return m.slots[userID], nil
}

var _ = Describe("Engine", func() {
	var (
		history     *mockHistory
		dir         *mockDirectory
		preferences *mockPreferences
		engine      *Engine
		sub         *meetingmodel.MeetingSubscription
		users       []*usermodel.User
		ctx         context.Context
	)

	cohortUser := func(id int64, department string) *usermodel.User {
		return &usermodel.User{ID: id, Username: "user", MetaData: map[string]string{"department": department}}
	}

	BeforeEach(func() {
		ctx = context.Background()
		history = &mockHistory{groups: NewGroupSet()}
		preferences = &mockPreferences{slots: map[int64]*meetingmodel.SubscriptionTimeSlot{}}

		// everyone reports to employee 100; attributes vary so no two
		// pairs score identically
		dir = &mockDirectory{roster: directory.NewRoster([]directory.EmployeeProfile{
			{EmployeeID: 1, ManagerID: 100, Location: "Berlin, Germany", DaysSinceStart: 100, Languages: []string{"en", "de"}},
			{EmployeeID: 2, ManagerID: 100, Location: "Berlin, Germany", DaysSinceStart: 900, Languages: []string{"en", "fr"}},
			{EmployeeID: 3, ManagerID: 100, Location: "London, UK", DaysSinceStart: 400, Languages: []string{"en"}},
			{EmployeeID: 4, ManagerID: 100, Location: "Tokyo, Japan", DaysSinceStart: 1500, Languages: []string{"en", "ja"}},
			{EmployeeID: 100, ManagerID: 100, Location: "Berlin, Germany", DaysSinceStart: 3000, Languages: []string{"en"}},
		})}

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		engine = NewEngine(history, dir, preferences, logger)

		sub = &meetingmodel.MeetingSubscription{ID: 7}
		users = []*usermodel.User{
			cohortUser(1, "eng"),
			cohortUser(2, "sales"),
			cohortUser(3, "design"),
			cohortUser(4, "product"),
		}
	})

	Context("with an even cohort, no history, no rules", func() {
		It("matches everyone into id-ascending pairs", func() {
			matches, unmatched, err := engine.GeneratePairMeetings(ctx, users, sub, nil)

			Expect(err).ToNot(HaveOccurred())
			Expect(matches).To(HaveLen(2))
			Expect(unmatched).To(BeEmpty())
			for _, match := range matches {
				Expect(match.UserA.ID).To(BeNumerically("<", match.UserB.ID))
			}
		})

		It("places each user in at most one pair", func() {
			matches, unmatched, err := engine.GeneratePairMeetings(ctx, users, sub, nil)
			Expect(err).ToNot(HaveOccurred())

			seen := map[int64]int{}
			for _, match := range matches {
				seen[match.UserA.ID]++
				seen[match.UserB.ID]++
			}
			for _, u := range unmatched {
				seen[u.ID]++
			}
			for id, count := range seen {
				Expect(count).To(Equal(1), "user %d appeared %d times", id, count)
			}
		})
	})

	Context("with an odd cohort and recent history", func() {
		It("avoids the pair that met inside the cooldown window", func() {
			history.groups.AddPair(NewPair(1, 2))
			users = users[:3]

			matches, unmatched, err := engine.GeneratePairMeetings(ctx, users, sub, nil)

			Expect(err).ToNot(HaveOccurred())
			Expect(matches).To(HaveLen(1))
			Expect(unmatched).To(HaveLen(1))

			pair := NewPair(matches[0].UserA.ID, matches[0].UserB.ID)
			Expect(pair).ToNot(Equal(NewPair(1, 2)))
		})
	})

	Context("with a department rule", func() {
		It("avoids same-department pairs even at high affinity", func() {
			sub.DeptRules = []meetingmodel.SubscriptionRule{{Name: "department"}}
			users = []*usermodel.User{
				cohortUser(1, "eng"),
				cohortUser(2, "eng"),
				cohortUser(3, "sales"),
				cohortUser(4, "design"),
			}

			matches, unmatched, err := engine.GeneratePairMeetings(ctx, users, sub, nil)

			Expect(err).ToNot(HaveOccurred())
			Expect(unmatched).To(BeEmpty())
			for _, match := range matches {
				Expect(NewPair(match.UserA.ID, match.UserB.ID)).ToNot(Equal(NewPair(1, 2)))
			}
		})
	})

	Context("degenerate cohorts", func() {
		It("leaves a single user unmatched without error", func() {
			matches, unmatched, err := engine.GeneratePairMeetings(ctx, users[:1], sub, nil)

			Expect(err).ToNot(HaveOccurred())
			Expect(matches).To(BeEmpty())
			Expect(unmatched).To(HaveLen(1))
			Expect(dir.calls).To(BeZero())
		})

		It("returns nothing for an empty cohort", func() {
			matches, unmatched, err := engine.GeneratePairMeetings(ctx, nil, sub, nil)

			Expect(err).ToNot(HaveOccurred())
			Expect(matches).To(BeEmpty())
			Expect(unmatched).To(BeEmpty())
		})

		It("leaves everyone unmatched when every pair is disallowed", func() {
			users = users[:2]
			history.groups.AddPair(NewPair(1, 2))

			matches, unmatched, err := engine.GeneratePairMeetings(ctx, users, sub, nil)

			Expect(err).ToNot(HaveOccurred())
			Expect(matches).To(BeEmpty())
			Expect(unmatched).To(HaveLen(2))
			Expect(dir.calls).To(BeZero())
		})
	})

	Context("history wiring", func() {
		It("skips the history lookup when given an explicit previous set", func() {
			_, _, err := engine.GeneratePairMeetings(ctx, users, sub, NewGroupSet())
			Expect(err).ToNot(HaveOccurred())
			Expect(history.calls).To(BeZero())
		})

		It("propagates history lookup failures", func() {
			history.err = errors.New("history store down")
			_, _, err := engine.GeneratePairMeetings(ctx, users, sub, nil)
			Expect(err).To(MatchError("history store down"))
		})
	})

	It("propagates directory failures", func() {
		dir.err = errors.New("directory down")
		_, _, err := engine.GeneratePairMeetings(ctx, users, sub, nil)
		Expect(err).To(MatchError("directory down"))
	})

	It("attaches the first user's preferred time slot to each match", func() {
		slot := &meetingmodel.SubscriptionTimeSlot{ID: 42, Day: "wednesday", Hour: 10}
		preferences.slots[1] = slot
		preferences.slots[3] = slot

		matches, _, err := engine.GeneratePairMeetings(ctx, users, sub, nil)
		Expect(err).ToNot(HaveOccurred())
		for _, match := range matches {
			if match.UserA.ID == 1 || match.UserA.ID == 3 {
				Expect(match.TimeSlot).To(Equal(slot))
			}
		}
	})
})
