package dto

import "github.com/google/uuid"

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}

// ErrorResponse is the body of every non-2xx response. Field, CurrentStatus
// and AllowedStatuses are set only for the errors they describe.
type ErrorResponse struct {
	Error           bool     `json:"error"`
	Message         string   `json:"message"`
	Field           string   `json:"field,omitempty"`
	CurrentStatus   string   `json:"current_status,omitempty"`
	AllowedStatuses []string `json:"allowed_statuses,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
