package entity

import "time"

type Show struct {
	ID         string    `json:"id"`
	MovieID    string    `json:"movieId"`
	MovieTitle string    `json:"movieTitle"`
	StartTime  time.Time `json:"startTime"`
	ScreenID   string    `json:"screenId"`
}

type City struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	State string `json:"state,omitempty"`
}

type Movie struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Genre    string `json:"genre,omitempty"`
	Language string `json:"language,omitempty"`
	Duration int    `json:"duration,omitempty"` // minutes
}

// Cinema is a venue in one city.
type Cinema struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Screens int    `json:"screens"`
}
