package postgres

import (
	"context"

	usermodel "github.com/peerconnect/pairing-service/internal/core/datamodel/user"
	"github.com/peerconnect/pairing-service/internal/pairing"
	"gorm.io/gorm"
)

type CohortRepository struct {
	db *gorm.DB
}

func NewCohortRepository(db *gorm.DB) pairing.CohortStore {
	return &CohortRepository{db: db}
}

// ActiveCohort returns the active users subscribed to the subscription.
func (r *CohortRepository) ActiveCohort(ctx context.Context, subscriptionID int64) ([]*usermodel.User, error) {
	var users []*usermodel.User
	err := r.db.WithContext(ctx).
		Joins("JOIN user_subscriptions ON user_subscriptions.user_id = users.id").
		Where("user_subscriptions.subscription_id = ? AND users.is_active = ?", subscriptionID, true).
		Order("users.id ASC").
		Find(&users).Error
	return users, err
}
