package postgres

import (
	"context"
	"time"

	meetingmodel "github.com/peerconnect/pairing-service/internal/core/datamodel/meeting"
	"github.com/peerconnect/pairing-service/internal/matching"
	"gorm.io/gorm"
)

type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) matching.HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) MeetingSpecsSince(ctx context.Context, subscriptionID int64, since time.Time) ([]*meetingmodel.MeetingSpec, error) {
	var specs []*meetingmodel.MeetingSpec
	err := r.db.WithContext(ctx).
		Where("subscription_id = ? AND datetime > ?", subscriptionID, since).
		Find(&specs).Error
	return specs, err
}

func (r *HistoryRepository) MeetingsBySpecIDs(ctx context.Context, specIDs []int64) ([]*meetingmodel.Meeting, error) {
	var meetings []*meetingmodel.Meeting
	err := r.db.WithContext(ctx).
		Where("meeting_spec_id IN ?", specIDs).
		Find(&meetings).Error
	return meetings, err
}

func (r *HistoryRepository) ParticipantsByMeetingIDs(ctx context.Context, meetingIDs []int64) ([]*meetingmodel.MeetingParticipant, error) {
	var participants []*meetingmodel.MeetingParticipant
	err := r.db.WithContext(ctx).
		Where("meeting_id IN ?", meetingIDs).
		Find(&participants).Error
	return participants, err
}
