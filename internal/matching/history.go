package matching

import (
	"context"
	"log/slog"
	"time"

	apperrors "github.com/peerconnect/pairing-service/internal"
	meetingmodel "github.com/peerconnect/pairing-service/internal/core/datamodel/meeting"
)

// HistoryRepository reads historical meeting records for a subscription.
type HistoryRepository interface {
	MeetingSpecsSince(ctx context.Context, subscriptionID int64, since time.Time) ([]*meetingmodel.MeetingSpec, error)
	MeetingsBySpecIDs(ctx context.Context, specIDs []int64) ([]*meetingmodel.Meeting, error)
	ParticipantsByMeetingIDs(ctx context.Context, meetingIDs []int64) ([]*meetingmodel.MeetingParticipant, error)
}

// HistoryService reconstructs which user groups met within the cooldown
// window of a subscription.
type HistoryService struct {
	repo                 HistoryRepository
	defaultCooldownWeeks int
	logger               *slog.Logger
}

func NewHistoryService(repo HistoryRepository, defaultCooldownWeeks int, logger *slog.Logger) *HistoryService {
	return &HistoryService{
		repo:                 repo,
		defaultCooldownWeeks: defaultCooldownWeeks,
		logger:               logger,
	}
}

// PreviousMeetings returns the set of ascending id-tuples for meetings of
// the subscription newer than now minus the cooldown window. A nil cooldown
// falls back to the configured default. An empty spec window returns the
// empty set without issuing the meeting or participant queries.
func (s *HistoryService) PreviousMeetings(ctx context.Context, subscriptionID int64, cooldownWeeks *int) (GroupSet, error) {
	cooldown := s.defaultCooldownWeeks
	if cooldownWeeks != nil {
		if *cooldownWeeks < 0 {
			return nil, apperrors.NewValidationError("cooldown weeks must be non-negative", apperrors.ErrCodeInvalidCooldown)
		}
		cooldown = *cooldownWeeks
	}

	threshold := time.Now().Add(-time.Duration(cooldown) * 7 * 24 * time.Hour)

	specs, err := s.repo.MeetingSpecsSince(ctx, subscriptionID, threshold)
	if err != nil {
		return nil, err
	}
	if len(specs) == 0 {
		return NewGroupSet(), nil
	}

	specIDs := make([]int64, len(specs))
	for i, spec := range specs {
		specIDs[i] = spec.ID
	}

	meetings, err := s.repo.MeetingsBySpecIDs(ctx, specIDs)
	if err != nil {
		return nil, err
	}
	if len(meetings) == 0 {
		return NewGroupSet(), nil
	}

	meetingIDs := make([]int64, len(meetings))
	for i, m := range meetings {
		meetingIDs[i] = m.ID
	}

	participants, err := s.repo.ParticipantsByMeetingIDs(ctx, meetingIDs)
	if err != nil {
		return nil, err
	}
	if len(participants) == 0 {
		return NewGroupSet(), nil
	}

	byMeeting := make(map[int64][]int64)
	for _, p := range participants {
		byMeeting[p.MeetingID] = append(byMeeting[p.MeetingID], p.UserID)
	}

	groups := NewGroupSet()
	for _, ids := range byMeeting {
		groups.Add(NewMeetingGroup(ids))
	}

	s.logger.Info("previous meeting history",
		"subscription_id", subscriptionID,
		"cooldown_weeks", cooldown,
		"groups", len(groups))

	return groups, nil
}
