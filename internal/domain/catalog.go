package domain

import "time"

type Goal struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Status      Status    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type Indicator struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Status      Status    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type SubIndicator struct {
	ID          int64     `db:"id" json:"id"`
	IndicatorID int64     `db:"indicator_id" json:"indicator_id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Status      Status    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// RequiredData is a named numeric input slot. Name is an identifier usable in formulas.
type RequiredData struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Unit        string    `db:"unit" json:"unit"`
	Status      Status    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type CreateGoalRequest struct {
	ID          int64  `json:"id" validate:"omitempty,min=1"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type CreateIndicatorRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type CreateRequiredDataRequest struct {
	Name        string `json:"name" validate:"required,slotname"`
	Description string `json:"description"`
	Unit        string `json:"unit"`
}

type SetStatusRequest struct {
	Status Status `json:"status" validate:"required,oneof=active inactive"`
}

type ImportGoalsRequest struct {
	URL string `json:"url" validate:"required,url"`
}
