package user

// NewUser represents the request body for user registration.
type NewUser struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Names    string `json:"names" validate:"omitempty,max=255"`
}
