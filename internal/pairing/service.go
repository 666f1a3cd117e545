package pairing

import (
	"context"
	"log/slog"
	"sync"
	"time"

	apperrors "github.com/peerconnect/pairing-service/internal"
	"github.com/peerconnect/pairing-service/internal/core/events"
	meetingmodel "github.com/peerconnect/pairing-service/internal/core/datamodel/meeting"
)

// RunService executes matching runs and persists their results.
type RunService struct {
	subscriptions SubscriptionStore
	cohort        CohortStore
	meetings      MeetingStore
	matcher       MatcherAPI
	bus           *events.EventBus
	logger        *slog.Logger
}

func NewRunService(subscriptions SubscriptionStore, cohort CohortStore, meetings MeetingStore, matcher MatcherAPI, bus *events.EventBus, logger *slog.Logger) *RunService {
	return &RunService{
		subscriptions: subscriptions,
		cohort:        cohort,
		meetings:      meetings,
		matcher:       matcher,
		bus:           bus,
		logger:        logger,
	}
}

// RunSubscription performs one matching run for the subscription: load the
// cohort, match it, persist one meeting per pair, publish the outcome.
func (s *RunService) RunSubscription(ctx context.Context, subscriptionID int64) (*RunResult, error) {
	sub, err := s.subscriptions.GetByID(subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, apperrors.NewNotFoundError("subscription not found", apperrors.ErrCodeSubscriptionNotFound)
	}

	cohort, err := s.cohort.ActiveCohort(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}

	matches, unmatched, err := s.matcher.GeneratePairMeetings(ctx, cohort, sub, nil)
	if err != nil {
		s.logger.Error("matching run failed", "error", err, "subscription_id", subscriptionID)
		s.bus.Publish(ctx, events.NewPairingFailedEvent(subscriptionID, err.Error()))
		return nil, apperrors.NewInternalError("matching run failed", apperrors.ErrCodeMatchingRunFailed).WithCause(err)
	}

	spec := &meetingmodel.MeetingSpec{
		SubscriptionID: subscriptionID,
		Datetime:       time.Now(),
	}
	if err := s.meetings.CreateSpec(ctx, spec); err != nil {
		return nil, err
	}

	result := &RunResult{
		SubscriptionID: subscriptionID,
		MeetingSpecID:  spec.ID,
		RanAt:          spec.Datetime,
	}

	for _, match := range matches {
		meetingID, err := s.meetings.SaveMeeting(ctx, spec.ID, []int64{match.UserA.ID, match.UserB.ID})
		if err != nil {
			s.logger.Error("failed to persist meeting", "error", err,
				"spec_id", spec.ID, "user_a", match.UserA.ID, "user_b", match.UserB.ID)
			return nil, err
		}

		summary := MatchSummary{
			MeetingID: meetingID,
			UserA:     match.UserA.Username,
			UserB:     match.UserB.Username,
		}
		if match.TimeSlot != nil {
			summary.TimeSlot = &TimeSlotRef{
				ID:     match.TimeSlot.ID,
				Day:    match.TimeSlot.Day,
				Hour:   match.TimeSlot.Hour,
				Minute: match.TimeSlot.Minute,
			}
		}
		result.Matches = append(result.Matches, summary)
	}

	for _, u := range unmatched {
		result.Unmatched = append(result.Unmatched, u.Username)
	}

	s.logger.Info("pairing run complete",
		"subscription_id", subscriptionID,
		"meeting_spec_id", spec.ID,
		"matched_pairs", len(result.Matches),
		"unmatched_users", len(result.Unmatched))

	s.bus.Publish(ctx, events.NewPairingCompletedEvent(subscriptionID, spec.ID, len(result.Matches), len(result.Unmatched)))

	return result, nil
}

// RunAll runs every active subscription. Runs share no mutable state, so
// they fan out over a bounded number of goroutines.
func (s *RunService) RunAll(ctx context.Context, maxConcurrency int) ([]*RunResult, error) {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}

	subs, err := s.subscriptions.GetAll()
	if err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results []*RunResult
	)
	sem := make(chan struct{}, maxConcurrency)

	for _, sub := range subs {
		if !sub.IsActive {
			continue
		}
		wg.Add(1)
		go func(subscriptionID int64) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			result, err := s.RunSubscription(ctx, subscriptionID)
			if err != nil {
				// failures are per-subscription; other runs proceed
				s.logger.Error("subscription run failed", "error", err, "subscription_id", subscriptionID)
				return
			}
			mu.Lock()
			results = append(results, result)
			mu.Unlock()
		}(sub.ID)
	}
	wg.Wait()

	return results, nil
}

// RecentMeetings lists persisted meetings for a subscription.
func (s *RunService) RecentMeetings(ctx context.Context, subscriptionID int64, limit int) ([]MeetingRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.meetings.MeetingsForSubscription(ctx, subscriptionID, limit)
}
