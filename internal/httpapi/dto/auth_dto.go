package dto

// Data Transfer Objects for signup and token issuance

// SignupRequest: payload for requesting a confirmation code
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Username string `json:"username" binding:"required,max=50,username"`
}

type SignupResponse struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// TokenRequest: exchange a confirmation code for an access token
type TokenRequest struct {
	Username         string `json:"username" binding:"required,max=50"`
	ConfirmationCode string `json:"confirmation_code" binding:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}
