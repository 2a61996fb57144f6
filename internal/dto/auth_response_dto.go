package dto

// LoginRequest defines the credentials for a username/password login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response for a successful login.
// The refresh token travels in an HTTP-only cookie, never in the body.
type LoginResponse struct {
	Token string `json:"token"`
}

// RefreshTokenResponse represents the response for a successful token refresh.
type RefreshTokenResponse struct {
	Token string `json:"token"`
}

// GoogleIDTokenLoginRequest carries a Google ID token obtained client-side.
type GoogleIDTokenLoginRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}
