package dto

// LoginRequest represents staff login credentials
type LoginRequest struct {
	Email    string `json:"email" validate:"max=255" example:"admin@tilab.local"`
	Password string `json:"password" validate:"max=72" example:"secret"`
}

// TokenResponse carries an access token
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64  `json:"expiresIn" example:"28800"`
}

// StaffResponse describes the authenticated staff member
type StaffResponse struct {
	Email string `json:"email" example:"admin@tilab.local"`
	Name  string `json:"name" example:"Lab Admin"`
	Role  string `json:"role" example:"ADMIN"`
}

// LoginResponse is returned by a successful login
type LoginResponse struct {
	Token TokenResponse `json:"token"`
	Staff StaffResponse `json:"staff"`
}
