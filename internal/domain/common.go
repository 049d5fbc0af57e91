package domain

type Year = int

type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}
