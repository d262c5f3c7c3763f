package auth

type LoginRequest struct {
	UserLogin string `json:"user_login" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

type SignupRequest struct {
	Login     string `json:"login" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type ChangeCredentialsRequest struct {
	UserLogin   string `json:"user_login" binding:"required"`
	Password    string `json:"password" binding:"required"`
	NewLogin    string `json:"new_login"`
	NewPassword string `json:"new_password" binding:"omitempty,min=6"`
}

// TokenPair is what login/refresh/change-credentials hand back; the handler
// sets both values as cookies.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
