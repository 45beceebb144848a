package auth

// SignupRequest represents the request payload for creating an account.
type SignupRequest struct {
	FirstName string
	LastName  string
	Email     string `validate:"emailformat"`
	Password  string
}

// SignupResponse carries the identifier of the created account. It never holds secret material.
type SignupResponse struct {
	ID string
}

// LoginRequest represents the request payload for authenticating.
type LoginRequest struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

// LoginResponse represents the result of a successful login.
type LoginResponse struct {
	UserID string
}
