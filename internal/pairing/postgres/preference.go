package postgres

import (
	"context"

	meetingmodel "github.com/peerconnect/pairing-service/internal/core/datamodel/meeting"
	"github.com/peerconnect/pairing-service/internal/matching"
	"gorm.io/gorm"
)

type PreferenceRepository struct {
	db *gorm.DB
}

func NewPreferenceRepository(db *gorm.DB) matching.PreferenceAPI {
	return &PreferenceRepository{db: db}
}

// PreferredTimeSlot resolves a user's chosen slot for a subscription,
// falling back to the subscription's first configured slot when the user
// never picked one. A subscription without slots yields nil.
func (r *PreferenceRepository) PreferredTimeSlot(ctx context.Context, userID, subscriptionID int64) (*meetingmodel.SubscriptionTimeSlot, error) {
	var membership meetingmodel.UserSubscription
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND subscription_id = ?", userID, subscriptionID).
		First(&membership).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}

	if err == nil && membership.PreferredTimeSlotID != nil {
		var slot meetingmodel.SubscriptionTimeSlot
		if err := r.db.WithContext(ctx).Where("id = ?", *membership.PreferredTimeSlotID).First(&slot).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return r.firstSlot(ctx, subscriptionID)
			}
			return nil, err
		}
		return &slot, nil
	}

	return r.firstSlot(ctx, subscriptionID)
}

func (r *PreferenceRepository) firstSlot(ctx context.Context, subscriptionID int64) (*meetingmodel.SubscriptionTimeSlot, error) {
	var slot meetingmodel.SubscriptionTimeSlot
	err := r.db.WithContext(ctx).
		Where("subscription_id = ?", subscriptionID).
		Order("id ASC").
		First(&slot).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}
