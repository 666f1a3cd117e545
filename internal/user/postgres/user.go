package postgres

import (
	meetingmodel "github.com/peerconnect/pairing-service/internal/core/datamodel/meeting"
	usermodel "github.com/peerconnect/pairing-service/internal/core/datamodel/user"
	"github.com/peerconnect/pairing-service/internal/user"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetAll() ([]*usermodel.User, error) {
	var users []*usermodel.User
	err := r.db.Order("id ASC").Find(&users).Error
	return users, err
}

func (r *UserRepository) GetByID(id int64) (*usermodel.User, error) {
	var u usermodel.User
	err := r.db.Where("id = ?", id).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByUsername(username string) (*usermodel.User, error) {
	var u usermodel.User
	err := r.db.Where("username = ?", username).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(u *usermodel.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) Update(u *usermodel.User) error {
	return r.db.Save(u).Error
}

func (r *UserRepository) Subscribe(userID, subscriptionID int64, preferredTimeSlotID *int64) error {
	membership := meetingmodel.UserSubscription{
		UserID:              userID,
		SubscriptionID:      subscriptionID,
		PreferredTimeSlotID: preferredTimeSlotID,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "subscription_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"preferred_time_slot_id"}),
	}).Create(&membership).Error
}

func (r *UserRepository) Unsubscribe(userID, subscriptionID int64) error {
	return r.db.Where("user_id = ? AND subscription_id = ?", userID, subscriptionID).
		Delete(&meetingmodel.UserSubscription{}).Error
}
