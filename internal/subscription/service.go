package subscription

import (
	"log/slog"

	apperrors "github.com/peerconnect/pairing-service/internal"
	meetingmodel "github.com/peerconnect/pairing-service/internal/core/datamodel/meeting"
)

type RepositoryAPI interface {
	GetAll() ([]*meetingmodel.MeetingSubscription, error)
	GetByID(id int64) (*meetingmodel.MeetingSubscription, error)
	Create(sub *meetingmodel.MeetingSubscription) error
	Update(sub *meetingmodel.MeetingSubscription) error
	Deactivate(id int64) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetAllSubscriptions() ([]SubscriptionResponse, error) {
	data, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to get subscriptions from repository", "error", err)
		return nil, err
	}

	var responses []SubscriptionResponse
	for _, m := range data {
		domain := FromDataModel(m)
		if domain.IsActive {
			responses = append(responses, domain.ToResponse())
		}
	}

	s.logger.Info("retrieved subscriptions", "count", len(responses))
	return responses, nil
}

func (s *Service) GetSubscription(id int64) (*Subscription, error) {
	m, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get subscription", "error", err, "subscription_id", id)
		return nil, err
	}
	if m == nil {
		return nil, apperrors.NewNotFoundError("subscription not found", apperrors.ErrCodeSubscriptionNotFound)
	}
	return FromDataModel(m), nil
}

func (s *Service) CreateSubscription(dto CreateSubscriptionDTO) (*Subscription, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("subscription validation failed", "error", err)
		return nil, err
	}

	timezone := dto.Timezone
	if timezone == "" {
		timezone = "UTC"
	}

	domain := &Subscription{
		Title:         dto.Title,
		Timezone:      timezone,
		CooldownWeeks: dto.CooldownWeeks,
		IsActive:      true,
		Rules:         dto.Rules,
	}
	for _, ts := range dto.TimeSlots {
		domain.TimeSlots = append(domain.TimeSlots, TimeSlot{Day: ts.Day, Hour: ts.Hour, Minute: ts.Minute})
	}

	m := ToDataModel(domain)
	if err := s.repo.Create(m); err != nil {
		s.logger.Error("failed to create subscription", "error", err)
		return nil, err
	}

	s.logger.Info("subscription created", "subscription_id", m.ID, "title", m.Title)
	return FromDataModel(m), nil
}

func (s *Service) UpdateSubscription(id int64, dto CreateSubscriptionDTO) (*Subscription, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperrors.NewNotFoundError("subscription not found", apperrors.ErrCodeSubscriptionNotFound)
	}

	domain := &Subscription{
		ID:            id,
		Title:         dto.Title,
		Timezone:      dto.Timezone,
		CooldownWeeks: dto.CooldownWeeks,
		IsActive:      existing.IsActive,
		Rules:         dto.Rules,
	}
	for _, ts := range dto.TimeSlots {
		domain.TimeSlots = append(domain.TimeSlots, TimeSlot{Day: ts.Day, Hour: ts.Hour, Minute: ts.Minute})
	}

	m := ToDataModel(domain)
	if err := s.repo.Update(m); err != nil {
		s.logger.Error("failed to update subscription", "error", err, "subscription_id", id)
		return nil, err
	}

	return FromDataModel(m), nil
}

func (s *Service) DeactivateSubscription(id int64) error {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperrors.NewNotFoundError("subscription not found", apperrors.ErrCodeSubscriptionNotFound)
	}

	if err := s.repo.Deactivate(id); err != nil {
		s.logger.Error("failed to deactivate subscription", "error", err, "subscription_id", id)
		return err
	}

	s.logger.Info("subscription deactivated", "subscription_id", id)
	return nil
}
