package dto

import "time"

// ClassroomLocation tells where a classroom is.
type ClassroomLocation struct {
	Code         string `json:"code"`
	BuildingName string `json:"building_name"`
	FloorNumber  int    `json:"floor_number"`
}

// BuildingSummary aggregates a building's floors and classrooms.
type BuildingSummary struct {
	Name               string `json:"name"`
	FloorCount         int64  `json:"floor_count"`
	ClassroomCount     int64  `json:"classroom_count"`
	FirstClassroomCode string `json:"first_classroom_code,omitempty"`
	HasClassrooms      bool   `json:"has_classrooms"`
}

// ActivitySummary describes a user's most recent search and their totals.
type ActivitySummary struct {
	UserID                int64     `json:"user_id"`
	MessagesSent          int       `json:"messages_sent"`
	LastClassroomSearched string    `json:"last_classroom_searched"`
	Time                  time.Time `json:"time"`
	TotalSearches         int64     `json:"total_searches"`
}

// SeedReport lists how many rows seeding inserted per table.
type SeedReport struct {
	Buildings  int `json:"buildings"`
	Floors     int `json:"floors"`
	Classrooms int `json:"classrooms"`
}
