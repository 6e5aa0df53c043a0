package model

// AuthResponse holds the response data for user login or registration
type AuthResponse struct {
	Success     bool   `json:"success"`
	User        User   `json:"user"`
	AccessToken string `json:"access_token"`
}
