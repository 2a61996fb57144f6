package domain

import "time"

// User represents a registered user of the application.
type User struct {
	UserID       string `json:"userID"`
	Username     string `json:"username"`
	Name         string `json:"name"` // Display name shown next to balances and settlements
	PasswordHash string `json:"-"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"`

	// External identity provider fields (Google sign-in).
	AuthProvider   *string `json:"authProvider,omitempty"`
	ProviderUserID *string `json:"-"`

	// Refresh token state. Only the SHA-256 hash of the token is stored.
	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`
}

// GoogleUserInfo holds the profile fields returned by Google after OAuth sign-in.
type GoogleUserInfo struct {
	Sub           string `json:"sub"` // Google's stable user identifier
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
