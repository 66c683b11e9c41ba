package authsdk

import "time"

// Token is an issued credential with its validity window.
type Token struct {
	Value     string    `json:"value"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// TokenResponse is the success body of login, register, and refresh.
type TokenResponse struct {
	AccessToken  Token `json:"accessToken"`
	RefreshToken Token `json:"refreshToken"`
}

// RegisterRequest creates a new account.
type RegisterRequest struct {
	EmailAddress string `json:"emailAddress"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Password     string `json:"password"`
}

// LoginRequest authenticates with an email/password pair.
type LoginRequest struct {
	EmailAddress string `json:"emailAddress"`
	Password     string `json:"password"`
}

// RefreshRequest exchanges a refresh token for a fresh access token.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// LogoutRequest disables a refresh token.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// PasswordResetRequest starts the forgot-password flow. The response is
// always 204, whether or not the address has an account.
type PasswordResetRequest struct {
	EmailAddress string `json:"emailAddress"`
}

// PasswordResetConfirmRequest redeems an emailed reset code.
type PasswordResetConfirmRequest struct {
	EmailAddress string `json:"emailAddress"`
	Code         string `json:"code"`
	NewPassword  string `json:"newPassword"`
}

// MeResponse is the authenticated user's profile.
type MeResponse struct {
	ID           string    `json:"id"`
	EmailAddress string    `json:"emailAddress"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Role         string    `json:"role"`
	Rank         string    `json:"rank"`
	CreatedAt    time.Time `json:"createdAt"`
}

// HealthResponse is the body of the health endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the status of critical dependencies.
type HealthChecks struct {
	Database string `json:"database"`
}
