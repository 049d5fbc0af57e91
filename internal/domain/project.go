package domain

import "time"

type ProjectStatus string

const (
	ProjectOngoing  ProjectStatus = "ongoing"
	ProjectComplete ProjectStatus = "complete"
)

type Project struct {
	ID          int64         `db:"id" json:"id"`
	Name        string        `db:"name" json:"name"`
	Description string        `db:"description" json:"description"`
	Status      ProjectStatus `db:"status" json:"status"`
	CreatedBy   int64         `db:"created_by" json:"created_by"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}

type Location struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Region    string    `db:"region" json:"region"`
	Latitude  *float64  `db:"latitude" json:"latitude"`
	Longitude *float64  `db:"longitude" json:"longitude"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type CreateProjectRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	LocationIDs []int64 `json:"locationIds" validate:"dive,min=1"`
}

type CreateLocationRequest struct {
	Name      string   `json:"name" validate:"required"`
	Region    string   `json:"region"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" validate:"omitempty,longitude"`
}
