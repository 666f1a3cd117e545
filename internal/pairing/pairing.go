package pairing

import (
	"context"
	"time"

	meetingmodel "github.com/peerconnect/pairing-service/internal/core/datamodel/meeting"
	usermodel "github.com/peerconnect/pairing-service/internal/core/datamodel/user"
	"github.com/peerconnect/pairing-service/internal/matching"
)

// MatcherAPI is the matching engine boundary.
type MatcherAPI interface {
	GeneratePairMeetings(ctx context.Context, users []*usermodel.User, sub *meetingmodel.MeetingSubscription, previous matching.GroupSet) ([]matching.Match, []*usermodel.User, error)
}

// CohortStore loads the users eligible for a subscription's run.
type CohortStore interface {
	ActiveCohort(ctx context.Context, subscriptionID int64) ([]*usermodel.User, error)
}

// MeetingStore persists the results of a run.
type MeetingStore interface {
	CreateSpec(ctx context.Context, spec *meetingmodel.MeetingSpec) error
	SaveMeeting(ctx context.Context, specID int64, userIDs []int64) (int64, error)
	MeetingsForSubscription(ctx context.Context, subscriptionID int64, limit int) ([]MeetingRecord, error)
}

// SubscriptionStore is the read side of subscription persistence the run
// service needs.
type SubscriptionStore interface {
	GetAll() ([]*meetingmodel.MeetingSubscription, error)
	GetByID(id int64) (*meetingmodel.MeetingSubscription, error)
}

// MatchSummary is one persisted pairing of a run.
type MatchSummary struct {
	MeetingID int64        `json:"meeting_id"`
	UserA     string       `json:"user_a"`
	UserB     string       `json:"user_b"`
	TimeSlot  *TimeSlotRef `json:"time_slot,omitempty"`
}

type TimeSlotRef struct {
	ID     int64  `json:"id"`
	Day    string `json:"day"`
	Hour   int    `json:"hour"`
	Minute int    `json:"minute"`
}

// RunResult summarizes one completed matching run.
type RunResult struct {
	SubscriptionID int64          `json:"subscription_id"`
	MeetingSpecID  int64          `json:"meeting_spec_id"`
	RanAt          time.Time      `json:"ran_at"`
	Matches        []MatchSummary `json:"matches"`
	Unmatched      []string       `json:"unmatched"`
}

// MeetingRecord is a stored meeting with its participants, for listings.
type MeetingRecord struct {
	MeetingID    int64     `json:"meeting_id"`
	SpecDatetime time.Time `json:"spec_datetime"`
	Participants []string  `json:"participants"`
}
