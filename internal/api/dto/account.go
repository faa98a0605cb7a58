package dto

import "time"

// RegisterRequest represents the registration request body. Field-level rules
// are enforced by the domain validation so all violations can be reported at
// once; binding only decodes the JSON.
type RegisterRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// RegisterResponse carries only the identifier of the new account
type RegisterResponse struct {
	ID string `json:"id"`
}

// LoginRequest represents the login request
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse represents the login response
type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

// AccountResponse is the externally visible account representation. It never
// carries the password hash.
type AccountResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AccountListResponse represents a list of accounts
type AccountListResponse struct {
	Items      []AccountResponse `json:"items"`
	Pagination PaginationInfo    `json:"pagination"`
}
