package subscription

import (
	"fmt"
	"strings"

	apperrors "github.com/peerconnect/pairing-service/internal"
)

var validDays = map[string]struct{}{
	"monday": {}, "tuesday": {}, "wednesday": {}, "thursday": {},
	"friday": {}, "saturday": {}, "sunday": {},
}

type TimeSlotDTO struct {
	Day    string `json:"day"`
	Hour   int    `json:"hour"`
	Minute int    `json:"minute"`
}

type CreateSubscriptionDTO struct {
	Title         string        `json:"title"`
	Timezone      string        `json:"timezone"`
	CooldownWeeks *int          `json:"cooldown_weeks"`
	Rules         []string      `json:"rules"`
	TimeSlots     []TimeSlotDTO `json:"time_slots"`
}

func (d *CreateSubscriptionDTO) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return apperrors.NewValidationFieldError("title", "title is required", apperrors.ErrCodeValidationFailed)
	}
	if d.CooldownWeeks != nil && *d.CooldownWeeks < 0 {
		return apperrors.NewValidationFieldError("cooldown_weeks", "cooldown_weeks must be non-negative", apperrors.ErrCodeInvalidCooldown)
	}
	for _, rule := range d.Rules {
		if strings.TrimSpace(rule) == "" {
			return apperrors.NewValidationFieldError("rules", "rule name cannot be empty", apperrors.ErrCodeInvalidRule)
		}
	}
	for _, slot := range d.TimeSlots {
		if _, ok := validDays[strings.ToLower(slot.Day)]; !ok {
			return apperrors.NewValidationFieldError("time_slots", fmt.Sprintf("invalid day %q", slot.Day), apperrors.ErrCodeInvalidTimeSlot)
		}
		if slot.Hour < 0 || slot.Hour > 23 {
			return apperrors.NewValidationFieldError("time_slots", "hour must be between 0 and 23", apperrors.ErrCodeInvalidTimeSlot)
		}
		if slot.Minute < 0 || slot.Minute > 59 {
			return apperrors.NewValidationFieldError("time_slots", "minute must be between 0 and 59", apperrors.ErrCodeInvalidTimeSlot)
		}
	}
	return nil
}

type SubscriptionResponse struct {
	ID            int64         `json:"id"`
	Title         string        `json:"title"`
	Timezone      string        `json:"timezone"`
	CooldownWeeks *int          `json:"cooldown_weeks,omitempty"`
	IsActive      bool          `json:"is_active"`
	Rules         []string      `json:"rules,omitempty"`
	TimeSlots     []TimeSlotDTO `json:"time_slots,omitempty"`
}

type SubscriptionsResponse struct {
	Subscriptions []SubscriptionResponse `json:"subscriptions"`
}

func (s *Subscription) ToResponse() SubscriptionResponse {
	resp := SubscriptionResponse{
		ID:            s.ID,
		Title:         s.Title,
		Timezone:      s.Timezone,
		CooldownWeeks: s.CooldownWeeks,
		IsActive:      s.IsActive,
		Rules:         s.Rules,
	}
	for _, ts := range s.TimeSlots {
		resp.TimeSlots = append(resp.TimeSlots, TimeSlotDTO{Day: ts.Day, Hour: ts.Hour, Minute: ts.Minute})
	}
	return resp
}
