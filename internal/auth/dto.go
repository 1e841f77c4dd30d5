package auth

import "github.com/lumamart/storefront-backend/pkg/db/models"

// RegisterInput captures a new account request.
type RegisterInput struct {
	Email    string
	Password string
	FullName *string
}

// LoginInput captures a credential check request.
type LoginInput struct {
	Email    string
	Password string
}

// Session is the authenticated response: the minted token plus the profile.
type Session struct {
	AccessToken string          `json:"access_token"`
	Profile     *models.Profile `json:"profile"`
}
