package backendsim

import (
	"time"

	"cinema-checkout/internal/data/entity"

	"golang.org/x/crypto/bcrypt"
)

type UserSeed struct {
	ID       string
	Username string
	Password string
	Name     string
	Email    string
	Role     entity.UserRole
}

func (u UserSeed) User() entity.User {
	return entity.User{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
	}
}

type ShowSeed struct {
	Show   entity.Show
	Cinema string
	City   string
	Rows   int
	Cols   int
}

type Options struct {
	LockTTL        time.Duration
	DeclineMethods []string
	BcryptCost     int
	Now            func() time.Time
	Cities         []entity.City
	Movies         []entity.Movie
	Cinemas        []entity.Cinema
	Shows          []ShowSeed
	Users          []UserSeed
}

// DefaultOptions seeds a small catalogue with one customer (demo/demo123)
// and one admin (admin/admin123).
func DefaultOptions() Options {
	start := time.Now().Truncate(time.Hour).Add(24 * time.Hour)

	return Options{
		LockTTL:    5 * time.Minute,
		BcryptCost: bcrypt.DefaultCost,
		Now:        time.Now,
		Cities: []entity.City{
			{ID: "c1", Name: "Coimbatore", State: "Tamil Nadu"},
			{ID: "c2", Name: "Chennai", State: "Tamil Nadu"},
			{ID: "c3", Name: "Bengaluru", State: "Karnataka"},
		},
		Movies: []entity.Movie{
			{ID: "m1", Title: "Interstellar", Genre: "Sci-Fi", Language: "English", Duration: 169},
			{ID: "m2", Title: "Inception", Genre: "Sci-Fi", Language: "English", Duration: 148},
		},
		Cinemas: []entity.Cinema{
			{ID: "cin1", Name: "Brookefields Cinemas", City: "Coimbatore", Screens: 2},
			{ID: "cin2", Name: "Marina Multiplex", City: "Chennai", Screens: 1},
		},
		Shows: []ShowSeed{
			{
				Show:   entity.Show{ID: "s1", MovieID: "m1", MovieTitle: "Interstellar", StartTime: start, ScreenID: "screen_1"},
				Cinema: "Brookefields Cinemas", City: "Coimbatore", Rows: 8, Cols: 10,
			},
			{
				Show:   entity.Show{ID: "s2", MovieID: "m1", MovieTitle: "Interstellar", StartTime: start.Add(4 * time.Hour), ScreenID: "screen_2"},
				Cinema: "Brookefields Cinemas", City: "Coimbatore", Rows: 8, Cols: 10,
			},
			{
				Show:   entity.Show{ID: "s3", MovieID: "m2", MovieTitle: "Inception", StartTime: start.Add(2 * time.Hour), ScreenID: "screen_1"},
				Cinema: "Marina Multiplex", City: "Chennai", Rows: 6, Cols: 8,
			},
		},
		Users: []UserSeed{
			{ID: "u1", Username: "demo", Password: "demo123", Name: "Demo User", Email: "demo@example.com", Role: entity.RoleCustomer},
			{ID: "u2", Username: "admin", Password: "admin123", Name: "Admin", Email: "admin@example.com", Role: entity.RoleAdmin},
		},
	}
}
