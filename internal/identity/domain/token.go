package domain

import "time"

// TokenPair is what login, social login, and refresh return: a short-lived
// access JWT and the rotated refresh JWT.
type TokenPair struct {
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
	ExpiresIn    time.Duration `json:"-"`
}
