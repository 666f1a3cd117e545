package user

import (
	"net/mail"
	"strings"

	apperrors "github.com/peerconnect/pairing-service/internal"
	usermodel "github.com/peerconnect/pairing-service/internal/core/datamodel/user"
)

type CreateUserDTO struct {
	Username string            `json:"username"`
	Email    string            `json:"email"`
	MetaData map[string]string `json:"meta_data"`
}

func (d *CreateUserDTO) Validate() error {
	if strings.TrimSpace(d.Username) == "" {
		return apperrors.NewValidationFieldError("username", "username is required", apperrors.ErrCodeValidationFailed)
	}
	if _, err := mail.ParseAddress(d.Email); err != nil {
		return apperrors.NewValidationFieldError("email", "a valid email is required", apperrors.ErrCodeValidationFailed)
	}
	return nil
}

type SubscribeDTO struct {
	SubscriptionID      int64  `json:"subscription_id"`
	PreferredTimeSlotID *int64 `json:"preferred_time_slot_id"`
}

type UserResponse struct {
	ID       int64             `json:"id"`
	Username string            `json:"username"`
	Email    string            `json:"email"`
	MetaData map[string]string `json:"meta_data,omitempty"`
	IsActive bool              `json:"is_active"`
}

type UsersResponse struct {
	Users []UserResponse `json:"users"`
}

func toResponse(u *usermodel.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		MetaData: u.MetaData,
		IsActive: u.IsActive,
	}
}
