package meeting

import (
	"time"
)

// MeetingSubscription is a recurring pairing program users can join.
type MeetingSubscription struct {
	ID            int64                  `gorm:"primaryKey"`
	Title         string                 `gorm:"column:title;not null"`
	Timezone      string                 `gorm:"column:timezone;default:UTC"`
	CooldownWeeks *int                   `gorm:"column:cooldown_weeks"`
	IsActive      bool                   `gorm:"column:is_active;default:true"`
	DeptRules     []SubscriptionRule     `gorm:"foreignKey:SubscriptionID"`
	TimeSlots     []SubscriptionTimeSlot `gorm:"foreignKey:SubscriptionID"`
	CreatedAt     time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

func (MeetingSubscription) TableName() string {
	return "meeting_subscriptions"
}

// SubscriptionRule names a user metadata field whose equality between two
// users disallows pairing them (e.g. "department").
type SubscriptionRule struct {
	ID             int64     `gorm:"primaryKey"`
	SubscriptionID int64     `gorm:"column:subscription_id;not null;index"`
	Name           string    `gorm:"column:name;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (SubscriptionRule) TableName() string {
	return "subscription_rules"
}

type SubscriptionTimeSlot struct {
	ID             int64     `gorm:"primaryKey"`
	SubscriptionID int64     `gorm:"column:subscription_id;not null;index"`
	Day            string    `gorm:"column:day;not null"`
	Hour           int       `gorm:"column:hour;not null"`
	Minute         int       `gorm:"column:minute;default:0"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (SubscriptionTimeSlot) TableName() string {
	return "subscription_time_slots"
}

// UserSubscription is a user's membership in a subscription plus their
// preferred time slot for it.
type UserSubscription struct {
	ID                  int64     `gorm:"primaryKey"`
	UserID              int64     `gorm:"column:user_id;not null;uniqueIndex:idx_user_subscription"`
	SubscriptionID      int64     `gorm:"column:subscription_id;not null;uniqueIndex:idx_user_subscription"`
	PreferredTimeSlotID *int64    `gorm:"column:preferred_time_slot_id"`
	CreatedAt           time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (UserSubscription) TableName() string {
	return "user_subscriptions"
}

// MeetingSpec is one concrete occurrence of a subscription, i.e. one
// matching run anchored at a point in time.
type MeetingSpec struct {
	ID             int64     `gorm:"primaryKey"`
	SubscriptionID int64     `gorm:"column:subscription_id;not null;index"`
	Datetime       time.Time `gorm:"column:datetime;not null;index"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (MeetingSpec) TableName() string {
	return "meeting_specs"
}

// Meeting is one matched pairing produced by a run.
type Meeting struct {
	ID            int64     `gorm:"primaryKey"`
	MeetingSpecID int64     `gorm:"column:meeting_spec_id;not null;index"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Meeting) TableName() string {
	return "meetings"
}

type MeetingParticipant struct {
	ID        int64     `gorm:"primaryKey"`
	MeetingID int64     `gorm:"column:meeting_id;not null;index"`
	UserID    int64     `gorm:"column:user_id;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (MeetingParticipant) TableName() string {
	return "meeting_participants"
}
