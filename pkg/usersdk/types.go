package usersdk

import "time"

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
}

// RegisterRequest is the body of POST /v1/users.
type RegisterRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Email    string `json:"email"`
	NickName string `json:"nickName"`
}

// UserResponse is the public view of a user. The password hash is never
// serialised.
type UserResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	NickName     string    `json:"nickName"`
	ProfileImage string    `json:"profileImage,omitempty"`
	Level        int       `json:"level"`
	Exp          int       `json:"exp"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UpdateProfileRequest is the body of PUT /v1/users. Omitted fields keep
// their current value.
type UpdateProfileRequest struct {
	NickName     *string `json:"nickName,omitempty"`
	ProfileImage *string `json:"profileImage,omitempty"`
	Level        *int    `json:"level,omitempty"`
	Exp          *int    `json:"exp,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is returned by login and refresh.
type TokenResponse struct {
	GrantType   string `json:"grantType"`
	AccessToken string `json:"accessToken"`

	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int `json:"expiresIn"`
}

// AvailabilityResponse is returned by the duplicate checks when the value is
// still free.
type AvailabilityResponse struct {
	Available bool `json:"available"`
}
