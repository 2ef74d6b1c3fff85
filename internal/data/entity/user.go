package entity

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleAdmin    UserRole = "admin"
)

type User struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Role     UserRole `json:"role"`
}

// UserContext is the explicit "who and where" value passed to every
// component that needs it. Operations return a new value instead of
// mutating shared state.
type UserContext struct {
	Credential string `json:"-"`
	User       *User  `json:"user,omitempty"`
	City       string `json:"city"`
}

func (c UserContext) Authenticated() bool {
	return c.Credential != ""
}

// IsAdmin trusts only the role claim handed over by the auth collaborator.
func (c UserContext) IsAdmin() bool {
	return c.User != nil && c.User.Role == RoleAdmin
}

func (c UserContext) WithLogin(credential string, user User) UserContext {
	u := user
	return UserContext{Credential: credential, User: &u, City: c.City}
}

func (c UserContext) WithLogout() UserContext {
	return UserContext{City: c.City}
}

func (c UserContext) WithCity(city string) UserContext {
	next := c
	next.City = city
	return next
}
