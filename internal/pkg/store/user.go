package store

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/ougirez/sdgdash/internal/domain"
)

type UserStore interface {
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
}

var userColumns = []string{"id", "email", "first_name", "last_name", "password_hash", "role_id", "created_at"}

func (s *store) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := builder().Insert(tableUsers).
		Columns("email", "first_name", "last_name", "password_hash", "role_id").
		Values(user.Email, user.FirstName, user.LastName, user.PasswordHash, user.RoleID).
		Suffix("RETURNING " + joinColumns(userColumns))

	created := new(domain.User)
	err := s.pool.Getx(ctx, created, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return created, nil
}

func (s *store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getUser(ctx, sq.Eq{"lower(email)": email})
}

func (s *store) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.getUser(ctx, sq.Eq{"id": id})
}

func (s *store) getUser(ctx context.Context, pred sq.Eq) (*domain.User, error) {
	query := builder().Select(userColumns...).
		From(tableUsers).
		Where(pred)

	selected := new(domain.User)
	err := s.pool.Getx(ctx, selected, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}
