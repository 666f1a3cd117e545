package postgres

import (
	"context"

	meetingmodel "github.com/peerconnect/pairing-service/internal/core/datamodel/meeting"
	usermodel "github.com/peerconnect/pairing-service/internal/core/datamodel/user"
	"github.com/peerconnect/pairing-service/internal/pairing"
	"gorm.io/gorm"
)

type MeetingRepository struct {
	db *gorm.DB
}

func NewMeetingRepository(db *gorm.DB) pairing.MeetingStore {
	return &MeetingRepository{db: db}
}

func (r *MeetingRepository) CreateSpec(ctx context.Context, spec *meetingmodel.MeetingSpec) error {
	return r.db.WithContext(ctx).Create(spec).Error
}

// SaveMeeting stores one meeting and its participants in a single
// transaction, so a partially-written pairing never becomes visible.
func (r *MeetingRepository) SaveMeeting(ctx context.Context, specID int64, userIDs []int64) (int64, error) {
	meeting := &meetingmodel.Meeting{MeetingSpecID: specID}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(meeting).Error; err != nil {
			return err
		}
		for _, userID := range userIDs {
			participant := &meetingmodel.MeetingParticipant{
				MeetingID: meeting.ID,
				UserID:    userID,
			}
			if err := tx.Create(participant).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return meeting.ID, nil
}

func (r *MeetingRepository) MeetingsForSubscription(ctx context.Context, subscriptionID int64, limit int) ([]pairing.MeetingRecord, error) {
	var specs []*meetingmodel.MeetingSpec
	err := r.db.WithContext(ctx).
		Where("subscription_id = ?", subscriptionID).
		Order("datetime DESC").
		Limit(limit).
		Find(&specs).Error
	if err != nil {
		return nil, err
	}
	if len(specs) == 0 {
		return nil, nil
	}

	specIDs := make([]int64, len(specs))
	specByID := make(map[int64]*meetingmodel.MeetingSpec, len(specs))
	for i, spec := range specs {
		specIDs[i] = spec.ID
		specByID[spec.ID] = spec
	}

	var meetings []*meetingmodel.Meeting
	if err := r.db.WithContext(ctx).Where("meeting_spec_id IN ?", specIDs).Find(&meetings).Error; err != nil {
		return nil, err
	}
	if len(meetings) == 0 {
		return nil, nil
	}

	meetingIDs := make([]int64, len(meetings))
	for i, m := range meetings {
		meetingIDs[i] = m.ID
	}

	var participants []*meetingmodel.MeetingParticipant
	if err := r.db.WithContext(ctx).Where("meeting_id IN ?", meetingIDs).Find(&participants).Error; err != nil {
		return nil, err
	}

	userIDs := make([]int64, 0, len(participants))
	for _, p := range participants {
		userIDs = append(userIDs, p.UserID)
	}
	var users []*usermodel.User
	if err := r.db.WithContext(ctx).Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return nil, err
	}
	usernameByID := make(map[int64]string, len(users))
	for _, u := range users {
		usernameByID[u.ID] = u.Username
	}

	participantsByMeeting := make(map[int64][]string)
	for _, p := range participants {
		participantsByMeeting[p.MeetingID] = append(participantsByMeeting[p.MeetingID], usernameByID[p.UserID])
	}

	records := make([]pairing.MeetingRecord, 0, len(meetings))
	for _, m := range meetings {
		records = append(records, pairing.MeetingRecord{
			MeetingID:    m.ID,
			SpecDatetime: specByID[m.MeetingSpecID].Datetime,
			Participants: participantsByMeeting[m.ID],
		})
	}
	return records, nil
}
