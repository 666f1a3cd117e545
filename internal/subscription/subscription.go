package subscription

import (
	meetingmodel "github.com/peerconnect/pairing-service/internal/core/datamodel/meeting"
)

// Subscription is the domain view of a recurring pairing program.
type Subscription struct {
	ID            int64
	Title         string
	Timezone      string
	CooldownWeeks *int
	IsActive      bool
	Rules         []string
	TimeSlots     []TimeSlot
}

type TimeSlot struct {
	ID     int64
	Day    string
	Hour   int
	Minute int
}

func FromDataModel(m *meetingmodel.MeetingSubscription) *Subscription {
	s := &Subscription{
		ID:            m.ID,
		Title:         m.Title,
		Timezone:      m.Timezone,
		CooldownWeeks: m.CooldownWeeks,
		IsActive:      m.IsActive,
	}
	for _, r := range m.DeptRules {
		s.Rules = append(s.Rules, r.Name)
	}
	for _, ts := range m.TimeSlots {
		s.TimeSlots = append(s.TimeSlots, TimeSlot{ID: ts.ID, Day: ts.Day, Hour: ts.Hour, Minute: ts.Minute})
	}
	return s
}

func ToDataModel(s *Subscription) *meetingmodel.MeetingSubscription {
	m := &meetingmodel.MeetingSubscription{
		ID:            s.ID,
		Title:         s.Title,
		Timezone:      s.Timezone,
		CooldownWeeks: s.CooldownWeeks,
		IsActive:      s.IsActive,
	}
	for _, name := range s.Rules {
		m.DeptRules = append(m.DeptRules, meetingmodel.SubscriptionRule{SubscriptionID: s.ID, Name: name})
	}
	for _, ts := range s.TimeSlots {
		m.TimeSlots = append(m.TimeSlots, meetingmodel.SubscriptionTimeSlot{
			SubscriptionID: s.ID,
			Day:            ts.Day,
			Hour:           ts.Hour,
			Minute:         ts.Minute,
		})
	}
	return m
}
