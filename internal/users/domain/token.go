package domain

import "time"

// GrantTypeBearer is the only grant type handed to clients.
const GrantTypeBearer = "Bearer"

// TokenPair is the result of a login or refresh. The refresh token stays
// server side in the session row; clients only ever see the access token.
type TokenPair struct {
	GrantType    string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time // access token expiry
}
