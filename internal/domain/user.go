package domain

import "time"

// RoleTag is the numeric role stored on a user.
type RoleTag int

const (
	RoleAdministrator RoleTag = 1
	RoleGoalManager   RoleTag = 2
	RoleDataOfficer   RoleTag = 3
	RoleFormulaEditor RoleTag = 4
)

func (r RoleTag) Valid() bool {
	return r >= RoleAdministrator && r <= RoleFormulaEditor
}

type User struct {
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	FirstName    string    `db:"first_name" json:"firstname"`
	LastName     string    `db:"last_name" json:"lastname"`
	PasswordHash string    `db:"password_hash" json:"-"`
	RoleID       RoleTag   `db:"role_id" json:"userRoleId"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Session is the resolved identity of the caller of one request.
type Session struct {
	UserID int64   `json:"userId"`
	RoleID RoleTag `json:"userRoleId"`
}

type SignupUserRequest struct {
	FirstName string  `json:"firstname"`
	LastName  string  `json:"lastname"`
	Email     string  `json:"email"`
	Password  string  `json:"password" validate:"max=72"`
	RoleID    RoleTag `json:"roleId"`
}

type LoginUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginUserResponse struct {
	Token  string  `json:"token"`
	RoleID RoleTag `json:"userRoleId"`
}

type GetUserResponse struct {
	RoleID       RoleTag  `json:"userRoleId"`
	Capabilities []string `json:"capabilities"`
}
