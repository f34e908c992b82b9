package domain

import "time"

type RefreshToken struct {
	Token  string
	UserId string

	ExpiresAt time.Time
	CreatedAt time.Time

	// nil when the token is not revoked.
	RevokedAt *time.Time

	// token issued in exchange of this token. nil when not rotated.
	ReplacedByToken *string
}

func (rt RefreshToken) IsExpired(now time.Time) bool {
	return !now.Before(rt.ExpiresAt)
}

func (rt RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

// IsActive returns true when the token is neither revoked nor expired.
func (rt RefreshToken) IsActive(now time.Time) bool {
	return !rt.IsRevoked() && !rt.IsExpired(now)
}
