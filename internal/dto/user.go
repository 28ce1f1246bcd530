package dto

// CreateUserRequest registers an account on first sign-in.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"max=120"`
	PhotoURL string `json:"photo" validate:"omitempty,url"`
}

