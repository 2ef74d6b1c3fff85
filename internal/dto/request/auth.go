package request

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	// From is where the user was headed before being sent to log in.
	From string `json:"from,omitempty" validate:"omitempty,relative_path"`
}

type CityRequest struct {
	City string `json:"city" validate:"required,max=100"`
}
