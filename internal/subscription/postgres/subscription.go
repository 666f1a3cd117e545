package postgres

import (
	meetingmodel "github.com/peerconnect/pairing-service/internal/core/datamodel/meeting"
	"github.com/peerconnect/pairing-service/internal/subscription"
	"gorm.io/gorm"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) subscription.RepositoryAPI {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) GetAll() ([]*meetingmodel.MeetingSubscription, error) {
	var subs []*meetingmodel.MeetingSubscription
	err := r.db.Preload("DeptRules").Preload("TimeSlots").Order("title ASC").Find(&subs).Error
	return subs, err
}

func (r *SubscriptionRepository) GetByID(id int64) (*meetingmodel.MeetingSubscription, error) {
	var sub meetingmodel.MeetingSubscription
	err := r.db.Preload("DeptRules").Preload("TimeSlots").Where("id = ?", id).First(&sub).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepository) Create(sub *meetingmodel.MeetingSubscription) error {
	return r.db.Create(sub).Error
}

func (r *SubscriptionRepository) Update(sub *meetingmodel.MeetingSubscription) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("subscription_id = ?", sub.ID).Delete(&meetingmodel.SubscriptionRule{}).Error; err != nil {
			return err
		}
		if err := tx.Where("subscription_id = ?", sub.ID).Delete(&meetingmodel.SubscriptionTimeSlot{}).Error; err != nil {
			return err
		}
		return tx.Save(sub).Error
	})
}

func (r *SubscriptionRepository) Deactivate(id int64) error {
	return r.db.Model(&meetingmodel.MeetingSubscription{}).Where("id = ?", id).Update("is_active", false).Error
}
