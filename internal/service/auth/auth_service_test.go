package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/ougirez/sdgdash/internal/domain"
	"github.com/ougirez/sdgdash/internal/pkg/constants"
	"github.com/ougirez/sdgdash/internal/pkg/store/memstore"
	"github.com/ougirez/sdgdash/internal/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService(memstore.New(), Config{Secret: "test-secret", TokenTTL: time.Hour})
}

func validSignup() *domain.SignupUserRequest {
	return &domain.SignupUserRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "Ada@Example.org",
		Password:  "pa55word",
		RoleID:    domain.RoleDataOfficer,
	}
}

func codeOf(t *testing.T, err error) int {
	t.Helper()
	var ce *constants.CodedError
	require.True(t, errors.As(err, &ce), "expected coded error, got %v", err)
	return ce.Code()
}

func TestSignupMissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *domain.SignupUserRequest)
		field  string
	}{
		{"firstname", func(r *domain.SignupUserRequest) { r.FirstName = "" }, "firstname"},
		{"lastname", func(r *domain.SignupUserRequest) { r.LastName = " " }, "lastname"},
		{"email", func(r *domain.SignupUserRequest) { r.Email = "" }, "email"},
		{"password", func(r *domain.SignupUserRequest) { r.Password = "" }, "password"},
		{"role", func(r *domain.SignupUserRequest) { r.RoleID = 0 }, "roleId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSignup()
			tt.mutate(req)

			_, err := newTestService().SignupUser(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, http.StatusInternalServerError, codeOf(t, err))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestSignupStoresHashAndRejectsDuplicate(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	user, err := svc.SignupUser(ctx, validSignup())
	require.NoError(t, err)
	assert.Equal(t, "ada@example.org", user.Email)
	assert.NotEqual(t, "pa55word", user.PasswordHash)
	assert.NoError(t, utils.ComparePassword(user.PasswordHash, "pa55word"))

	_, err = svc.SignupUser(ctx, validSignup())
	assert.ErrorIs(t, err, constants.ErrEmailAlreadyTaken)
}

func TestSignupUnknownRole(t *testing.T) {
	req := validSignup()
	req.RoleID = 9

	_, err := newTestService().SignupUser(context.Background(), req)
	assert.Equal(t, http.StatusBadRequest, codeOf(t, err))
}

func TestSignupPasswordTooLong(t *testing.T) {
	svc := newTestService()

	req := validSignup()
	req.Password = strings.Repeat("x", utils.MaxPasswordBytes+1)
	_, err := svc.SignupUser(context.Background(), req)
	assert.Equal(t, http.StatusBadRequest, codeOf(t, err))

	// 37 two-byte runes fit a rune limit but not the byte limit.
	req.Password = strings.Repeat("é", 37)
	_, err = svc.SignupUser(context.Background(), req)
	assert.Equal(t, http.StatusBadRequest, codeOf(t, err))

	req.Password = strings.Repeat("x", utils.MaxPasswordBytes)
	_, err = svc.SignupUser(context.Background(), req)
	assert.NoError(t, err)
}

func TestLoginAndResolveSession(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	user, err := svc.SignupUser(ctx, validSignup())
	require.NoError(t, err)

	_, err = svc.LoginUser(ctx, &domain.LoginUserRequest{Email: "ada@example.org", Password: "wrong"})
	assert.ErrorIs(t, err, constants.ErrInvalidCredentials)

	_, err = svc.LoginUser(ctx, &domain.LoginUserRequest{Email: "nobody@example.org", Password: "pa55word"})
	assert.ErrorIs(t, err, constants.ErrInvalidCredentials)

	resp, err := svc.LoginUser(ctx, &domain.LoginUserRequest{Email: "ADA@example.org", Password: "pa55word"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleDataOfficer, resp.RoleID)

	session, err := svc.ResolveSession(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, &domain.Session{UserID: user.ID, RoleID: domain.RoleDataOfficer}, session)
}

func TestResolveSessionRejects(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.ResolveSession(ctx, "")
	assert.ErrorIs(t, err, constants.ErrUnauthorized)

	_, err = svc.ResolveSession(ctx, "not-a-token")
	assert.ErrorIs(t, err, constants.ErrUnauthorized)

	orphan, err := utils.GenerateAuthToken(&utils.AuthTokenWrapper{UserID: 999}, "test-secret", time.Hour)
	require.NoError(t, err)
	_, err = svc.ResolveSession(ctx, orphan)
	assert.ErrorIs(t, err, constants.ErrUnauthorized)
}

func TestGetUser(t *testing.T) {
	svc := newTestService()

	_, err := svc.GetUser(context.Background())
	assert.ErrorIs(t, err, constants.ErrUnauthorized)

	ctx := ContextWithSession(context.Background(), &domain.Session{UserID: 1, RoleID: domain.RoleGoalManager})
	resp, err := svc.GetUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleGoalManager, resp.RoleID)
	assert.Equal(t, []string{"edit_computation_rules", "create_projects"}, resp.Capabilities)
}
