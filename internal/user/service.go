package user

import (
	"log/slog"

	apperrors "github.com/peerconnect/pairing-service/internal"
	usermodel "github.com/peerconnect/pairing-service/internal/core/datamodel/user"
)

type RepositoryAPI interface {
	GetAll() ([]*usermodel.User, error)
	GetByID(id int64) (*usermodel.User, error)
	GetByUsername(username string) (*usermodel.User, error)
	Create(u *usermodel.User) error
	Update(u *usermodel.User) error
	Subscribe(userID, subscriptionID int64, preferredTimeSlotID *int64) error
	Unsubscribe(userID, subscriptionID int64) error
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

func (s *Service) GetAllUsers() ([]UserResponse, error) {
	users, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to get users from repository", "error", err)
		return nil, err
	}

	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, toResponse(u))
	}
	return responses, nil
}

func (s *Service) GetUser(id int64) (*UserResponse, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get user", "error", err, "user_id", id)
		return nil, err
	}
	if u == nil {
		return nil, apperrors.NewNotFoundError("user not found", apperrors.ErrCodeUserNotFound)
	}
	resp := toResponse(u)
	return &resp, nil
}

func (s *Service) CreateUser(dto CreateUserDTO) (*UserResponse, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("user validation failed", "error", err)
		return nil, err
	}

	existing, err := s.repo.GetByUsername(dto.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewConflictError("username already taken", apperrors.ErrCodeDuplicateUsername)
	}

	u := &usermodel.User{
		Username: dto.Username,
		Email:    dto.Email,
		MetaData: dto.MetaData,
		IsActive: true,
	}
	if err := s.repo.Create(u); err != nil {
		s.logger.Error("failed to create user", "error", err, "username", dto.Username)
		return nil, err
	}

	s.logger.Info("user created", "user_id", u.ID, "username", u.Username)
	resp := toResponse(u)
	return &resp, nil
}

func (s *Service) Subscribe(userID int64, dto SubscribeDTO) error {
	u, err := s.repo.GetByID(userID)
	if err != nil {
		return err
	}
	if u == nil {
		return apperrors.NewNotFoundError("user not found", apperrors.ErrCodeUserNotFound)
	}

	if err := s.repo.Subscribe(userID, dto.SubscriptionID, dto.PreferredTimeSlotID); err != nil {
		s.logger.Error("failed to subscribe user", "error", err, "user_id", userID, "subscription_id", dto.SubscriptionID)
		return err
	}

	s.logger.Info("user subscribed", "user_id", userID, "subscription_id", dto.SubscriptionID)
	return nil
}

func (s *Service) Unsubscribe(userID, subscriptionID int64) error {
	if err := s.repo.Unsubscribe(userID, subscriptionID); err != nil {
		s.logger.Error("failed to unsubscribe user", "error", err, "user_id", userID, "subscription_id", subscriptionID)
		return err
	}
	return nil
}
