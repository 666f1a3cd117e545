package subscription_test

import (
	"errors"
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apperrors "github.com/peerconnect/pairing-service/internal"
	meetingmodel "github.com/peerconnect/pairing-service/internal/core/datamodel/meeting"
	"github.com/peerconnect/pairing-service/internal/subscription"
)

// Mock repository for testing
type mockSubscriptionRepository struct {
	subscriptions map[int64]*meetingmodel.MeetingSubscription
	getAllError   error
	createError   error
	updateError   error
	nextID        int64
}

func newMockSubscriptionRepository() *mockSubscriptionRepository {
	return &mockSubscriptionRepository{
		subscriptions: make(map[int64]*meetingmodel.MeetingSubscription),
		nextID:        1,
	}
}

func (m *mockSubscriptionRepository) GetAll() ([]*meetingmodel.MeetingSubscription, error) {
	if m.getAllError != nil {
		return nil, m.getAllError
	}
	out := make([]*meetingmodel.MeetingSubscription, 0, len(m.subscriptions))
	for _, sub := range m.subscriptions {
		out = append(out, sub)
	}
	return out, nil
}

func (m *mockSubscriptionRepository) GetByID(id int64) (*meetingmodel.MeetingSubscription, error) {
	return m.subscriptions[id], nil
}

func (m *mockSubscriptionRepository) Create(sub *meetingmodel.MeetingSubscription) error {
	if m.createError != nil {
		return m.createError
	}
	sub.ID = m.nextID
	m.nextID++
	m.subscriptions[sub.ID] = sub
	return nil
}

func (m *mockSubscriptionRepository) Update(sub *meetingmodel.MeetingSubscription) error {
	if m.updateError != nil {
		return m.updateError
	}
	m.subscriptions[sub.ID] = sub
	return nil
}

func (m *mockSubscriptionRepository) Deactivate(id int64) error {
	if sub, ok := m.subscriptions[id]; ok {
		sub.IsActive = false
	}
	return nil
}

var _ = Describe("SubscriptionService", func() {
	var (
		service *subscription.Service
		repo    *mockSubscriptionRepository
	)

	BeforeEach(func() {
		repo = newMockSubscriptionRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = subscription.NewService(repo, logger)
	})

	Describe("CreateSubscription", func() {
		It("creates an active subscription with rules and time slots", func() {
			cooldown := 4
			dto := subscription.CreateSubscriptionDTO{
				Title:         "Coffee Chats",
				Timezone:      "Europe/Berlin",
				CooldownWeeks: &cooldown,
				Rules:         []string{"department"},
				TimeSlots:     []subscription.TimeSlotDTO{{Day: "wednesday", Hour: 10}},
			}

			result, err := service.CreateSubscription(dto)

			Expect(err).ToNot(HaveOccurred())
			Expect(result.ID).To(BeNumerically(">", 0))
			Expect(result.IsActive).To(BeTrue())
			Expect(result.Rules).To(ConsistOf("department"))
			Expect(result.TimeSlots).To(HaveLen(1))
		})

		It("defaults the timezone to UTC", func() {
			result, err := service.CreateSubscription(subscription.CreateSubscriptionDTO{Title: "Chats"})
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Timezone).To(Equal("UTC"))
		})

		It("rejects an empty title", func() {
			_, err := service.CreateSubscription(subscription.CreateSubscriptionDTO{Title: "  "})

			var appErr *apperrors.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeValidationFailed))
		})

		It("rejects a negative cooldown", func() {
			cooldown := -2
			_, err := service.CreateSubscription(subscription.CreateSubscriptionDTO{
				Title:         "Chats",
				CooldownWeeks: &cooldown,
			})

			var appErr *apperrors.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeInvalidCooldown))
		})

		It("rejects a time slot with an invalid day", func() {
			_, err := service.CreateSubscription(subscription.CreateSubscriptionDTO{
				Title:     "Chats",
				TimeSlots: []subscription.TimeSlotDTO{{Day: "someday", Hour: 10}},
			})

			var appErr *apperrors.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeInvalidTimeSlot))
		})
	})

	Describe("GetAllSubscriptions", func() {
		It("filters out deactivated subscriptions", func() {
			_, err := service.CreateSubscription(subscription.CreateSubscriptionDTO{Title: "Active"})
			Expect(err).ToNot(HaveOccurred())
			inactive, err := service.CreateSubscription(subscription.CreateSubscriptionDTO{Title: "Retired"})
			Expect(err).ToNot(HaveOccurred())
			Expect(service.DeactivateSubscription(inactive.ID)).To(Succeed())

			subs, err := service.GetAllSubscriptions()
			Expect(err).ToNot(HaveOccurred())
			Expect(subs).To(HaveLen(1))
			Expect(subs[0].Title).To(Equal("Active"))
		})
	})

	Describe("GetSubscription", func() {
		It("returns a not-found error for an unknown id", func() {
			_, err := service.GetSubscription(404)

			var appErr *apperrors.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeSubscriptionNotFound))
		})
	})

	Describe("UpdateSubscription", func() {
		It("replaces the rules and slots of an existing subscription", func() {
			created, err := service.CreateSubscription(subscription.CreateSubscriptionDTO{
				Title: "Chats",
				Rules: []string{"department"},
			})
			Expect(err).ToNot(HaveOccurred())

			updated, err := service.UpdateSubscription(created.ID, subscription.CreateSubscriptionDTO{
				Title: "Chats v2",
				Rules: []string{"office"},
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(updated.Title).To(Equal("Chats v2"))
			Expect(updated.Rules).To(ConsistOf("office"))
		})

		It("returns a not-found error for an unknown id", func() {
			_, err := service.UpdateSubscription(404, subscription.CreateSubscriptionDTO{Title: "Chats"})

			var appErr *apperrors.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeSubscriptionNotFound))
		})
	})

	Describe("DeactivateSubscription", func() {
		It("returns a not-found error for an unknown id", func() {
			err := service.DeactivateSubscription(404)

			var appErr *apperrors.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeSubscriptionNotFound))
		})
	})
})
