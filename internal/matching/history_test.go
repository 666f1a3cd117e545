package matching

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apperrors "github.com/peerconnect/pairing-service/internal"
	meetingmodel "github.com/peerconnect/pairing-service/internal/core/datamodel/meeting"
)

type mockHistoryRepository struct {
	specs        []*meetingmodel.MeetingSpec
	meetings     []*meetingmodel.Meeting
	participants []*meetingmodel.MeetingParticipant

	specsError error

	specCalls        int
	meetingCalls     int
	participantCalls int
	lastSince        time.Time
}

func (m *mockHistoryRepository) MeetingSpecsSince(_ context.Context, _ int64, since time.Time) ([]*meetingmodel.MeetingSpec, error) {
	m.specCalls++
	m.lastSince = since
	if m.specsError != nil {
		return nil, m.specsError
	}
	return m.specs, nil
}

func (m *mockHistoryRepository) MeetingsBySpecIDs(_ context.Context, _ []int64) ([]*meetingmodel.Meeting, error) {
	m.meetingCalls++
	return m.meetings, nil
}

func (m *mockHistoryRepository) ParticipantsByMeetingIDs(_ context.Context, _ []int64) ([]*meetingmodel.MeetingParticipant, error) {
	m.participantCalls++
	return m.participants, nil
}

var _ = Describe("HistoryService", func() {
	var (
		repo    *mockHistoryRepository
		service *HistoryService
		ctx     context.Context
	)

	BeforeEach(func() {
		repo = &mockHistoryRepository{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = NewHistoryService(repo, 10, logger)
		ctx = context.Background()
	})

	Context("when no specs fall inside the cooldown window", func() {
		It("returns the empty set without issuing further lookups", func() {
			groups, err := service.PreviousMeetings(ctx, 1, nil)

			Expect(err).ToNot(HaveOccurred())
			Expect(groups).To(BeEmpty())
			Expect(repo.specCalls).To(Equal(1))
			Expect(repo.meetingCalls).To(BeZero())
			Expect(repo.participantCalls).To(BeZero())
		})
	})

	Context("cooldown handling", func() {
		It("falls back to the configured default for a nil cooldown", func() {
			_, err := service.PreviousMeetings(ctx, 1, nil)
			Expect(err).ToNot(HaveOccurred())

			expected := time.Now().Add(-10 * 7 * 24 * time.Hour)
			Expect(repo.lastSince).To(BeTemporally("~", expected, time.Minute))
		})

		It("uses the subscription's own cooldown when set", func() {
			cooldown := 2
			_, err := service.PreviousMeetings(ctx, 1, &cooldown)
			Expect(err).ToNot(HaveOccurred())

			expected := time.Now().Add(-2 * 7 * 24 * time.Hour)
			Expect(repo.lastSince).To(BeTemporally("~", expected, time.Minute))
		})

		It("treats a zero cooldown as an empty window, not the default", func() {
			cooldown := 0
			_, err := service.PreviousMeetings(ctx, 1, &cooldown)
			Expect(err).ToNot(HaveOccurred())
			Expect(repo.lastSince).To(BeTemporally("~", time.Now(), time.Minute))
		})

		It("rejects a negative cooldown", func() {
			cooldown := -1
			_, err := service.PreviousMeetings(ctx, 1, &cooldown)

			var appErr *apperrors.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeInvalidCooldown))
			Expect(repo.specCalls).To(BeZero())
		})
	})

	Context("with qualifying history", func() {
		BeforeEach(func() {
			repo.specs = []*meetingmodel.MeetingSpec{{ID: 11, SubscriptionID: 1}}
			repo.meetings = []*meetingmodel.Meeting{
				{ID: 21, MeetingSpecID: 11},
				{ID: 22, MeetingSpecID: 11},
			}
			repo.participants = []*meetingmodel.MeetingParticipant{
				{MeetingID: 21, UserID: 4},
				{MeetingID: 21, UserID: 2},
				{MeetingID: 22, UserID: 5},
				{MeetingID: 22, UserID: 3},
				{MeetingID: 22, UserID: 9},
			}
		})

		It("groups participants per meeting in ascending id order", func() {
			groups, err := service.PreviousMeetings(ctx, 1, nil)

			Expect(err).ToNot(HaveOccurred())
			Expect(groups).To(HaveLen(2))
			Expect(groups.HasPair(NewPair(2, 4))).To(BeTrue())
		})

		It("carries malformed participant counts through without excluding pairs", func() {
			groups, err := service.PreviousMeetings(ctx, 1, nil)

			Expect(err).ToNot(HaveOccurred())
			// the three-participant meeting is present as a group
			Expect(groups).To(HaveKey("3,5,9"))
			// but only two-participant groups feed pair exclusion
			Expect(groups.HasPair(NewPair(3, 5))).To(BeFalse())
			Expect(groups.Pairs()).To(HaveLen(1))
		})
	})

	It("propagates repository failures", func() {
		repo.specsError = errors.New("connection reset")
		_, err := service.PreviousMeetings(ctx, 1, nil)
		Expect(err).To(MatchError("connection reset"))
	})
})
