package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypePairingCompleted = "pairing.completed"
	EventTypePairingFailed    = "pairing.failed"
)

type PairingCompletedEvent struct {
	BaseEvent
	SubscriptionID int64 `json:"subscription_id"`
	MeetingSpecID  int64 `json:"meeting_spec_id"`
	MatchedPairs   int   `json:"matched_pairs"`
	UnmatchedUsers int   `json:"unmatched_users"`
}

func NewPairingCompletedEvent(subscriptionID, meetingSpecID int64, matchedPairs, unmatchedUsers int) *PairingCompletedEvent {
	return &PairingCompletedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePairingCompleted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"subscription_id": subscriptionID,
				"meeting_spec_id": meetingSpecID,
				"matched_pairs":   matchedPairs,
				"unmatched_users": unmatchedUsers,
			},
		},
		SubscriptionID: subscriptionID,
		MeetingSpecID:  meetingSpecID,
		MatchedPairs:   matchedPairs,
		UnmatchedUsers: unmatchedUsers,
	}
}

type PairingFailedEvent struct {
	BaseEvent
	SubscriptionID int64  `json:"subscription_id"`
	Reason         string `json:"reason"`
}

func NewPairingFailedEvent(subscriptionID int64, reason string) *PairingFailedEvent {
	return &PairingFailedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePairingFailed,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"subscription_id": subscriptionID,
				"reason":          reason,
			},
		},
		SubscriptionID: subscriptionID,
		Reason:         reason,
	}
}
