package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/miguelantunes/partnerflow-backend/pkg/enums"
)

// LoginInput carries admin credentials.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshInput rotates a session.
type RefreshInput struct {
	AccessToken  string `json:"accessToken" validate:"required"`
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// SessionDTO is returned on login and refresh.
type SessionDTO struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	User         UserDTO   `json:"user"`
}

// UserDTO is the public projection of an admin user.
type UserDTO struct {
	ID    uuid.UUID       `json:"id"`
	Email string          `json:"email"`
	Name  string          `json:"name"`
	Role  enums.AdminRole `json:"role"`
}
