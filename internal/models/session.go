package models

import "time"

// Session представляет текущую сессию устройства.
// Guest сессия работает только с локальным кэшем и никогда не синхронизируется.
type Session struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	AccessToken string `json:"access_token"`
	DeviceID    string `json:"device_id"`
	ExpiresAt   int64  `json:"expires_at"` // unix seconds
	Guest       bool   `json:"guest"`
}

// Authenticated reports whether the session belongs to a signed-in identity.
func (s *Session) Authenticated() bool {
	return s != nil && !s.Guest && s.UserID != ""
}

// Expired reports whether the access token is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	if s == nil || s.Guest {
		return false
	}
	return s.ExpiresAt > 0 && now.Unix() >= s.ExpiresAt
}

// Identity returns a printable identity for logs and status output.
func (s *Session) Identity() string {
	switch {
	case s == nil:
		return "signed out"
	case s.Guest:
		return "guest"
	case s.Username != "":
		return s.Username
	default:
		return s.UserID
	}
}
