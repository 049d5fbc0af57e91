package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ougirez/sdgdash/internal/domain"
	"github.com/ougirez/sdgdash/internal/pkg/constants"
	"github.com/ougirez/sdgdash/internal/pkg/logger"
	"github.com/ougirez/sdgdash/internal/pkg/store"
	"github.com/ougirez/sdgdash/internal/pkg/utils"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Secret   string
	TokenTTL time.Duration
}

type Service struct {
	store store.UserStore
	cfg   Config
}

func NewService(store store.UserStore, cfg Config) *Service {
	return &Service{store: store, cfg: cfg}
}

func missingFieldError(field string) error {
	return constants.NewCodedError(http.StatusInternalServerError, fmt.Sprintf("missing required field: %s", field))
}

func (svc *Service) SignupUser(ctx context.Context, request *domain.SignupUserRequest) (*domain.User, error) {
	fields := []struct {
		name    string
		missing bool
	}{
		{"firstname", strings.TrimSpace(request.FirstName) == ""},
		{"lastname", strings.TrimSpace(request.LastName) == ""},
		{"email", strings.TrimSpace(request.Email) == ""},
		{"password", request.Password == ""},
		{"roleId", request.RoleID == 0},
	}
	for _, f := range fields {
		if f.missing {
			return nil, missingFieldError(f.name)
		}
	}
	if len(request.Password) > utils.MaxPasswordBytes {
		return nil, constants.NewValidationError("password must be at most %d bytes", utils.MaxPasswordBytes)
	}
	if !request.RoleID.Valid() {
		return nil, constants.NewValidationError("unknown role %d", request.RoleID)
	}

	email := strings.ToLower(strings.TrimSpace(request.Email))
	if _, err := svc.store.GetUserByEmail(ctx, email); !errors.Is(err, constants.ErrDBNotFound) {
		if err == nil {
			return nil, constants.ErrEmailAlreadyTaken
		}
		return nil, fmt.Errorf("GetUserByEmail: %w", err)
	}

	hash, err := utils.HashPassword(request.Password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, constants.NewValidationError("password must be at most %d bytes", utils.MaxPasswordBytes)
	}
	if err != nil {
		return nil, fmt.Errorf("HashPassword: %w", err)
	}

	user, err := svc.store.CreateUser(ctx, &domain.User{
		Email:        email,
		FirstName:    request.FirstName,
		LastName:     request.LastName,
		PasswordHash: hash,
		RoleID:       request.RoleID,
	})
	if errors.Is(err, constants.ErrAlreadyExists) {
		return nil, constants.ErrEmailAlreadyTaken
	}
	if err != nil {
		return nil, fmt.Errorf("CreateUser: %w", err)
	}

	logger.Infof(ctx, "signup: userID: [%v], role: [%v]", user.ID, user.RoleID)

	return user, nil
}

func (svc *Service) LoginUser(ctx context.Context, request *domain.LoginUserRequest) (*domain.LoginUserResponse, error) {
	user, err := svc.store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(request.Email)))
	if errors.Is(err, constants.ErrDBNotFound) {
		return nil, constants.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("GetUserByEmail: %w", err)
	}

	if err = utils.ComparePassword(user.PasswordHash, request.Password); err != nil {
		return nil, constants.ErrInvalidCredentials
	}

	logger.Debugf(ctx, "login: userID: [%v]", user.ID)

	authToken, err := utils.GenerateAuthToken(&utils.AuthTokenWrapper{UserID: user.ID}, svc.cfg.Secret, svc.cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("GenerateAuthToken: %w", err)
	}

	return &domain.LoginUserResponse{Token: authToken, RoleID: user.RoleID}, nil
}

// ResolveSession turns a session token into the caller identity. The role is read from the
// user record, so role changes apply to tokens already issued.
func (svc *Service) ResolveSession(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, constants.ErrUnauthorized
	}

	parsed, err := utils.ParseAuthToken(token, svc.cfg.Secret)
	if err != nil {
		return nil, constants.ErrUnauthorized
	}

	user, err := svc.store.GetUserByID(ctx, parsed.UserID)
	if errors.Is(err, constants.ErrDBNotFound) {
		return nil, constants.ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("GetUserByID: %w", err)
	}

	return &domain.Session{UserID: user.ID, RoleID: user.RoleID}, nil
}

func (svc *Service) GetUser(ctx context.Context) (*domain.GetUserResponse, error) {
	session, ok := SessionFromContext(ctx)
	if !ok {
		return nil, constants.ErrUnauthorized
	}
	caps := Capabilities(session)
	names := make([]string, 0, len(caps))
	for _, c := range caps {
		names = append(names, string(c))
	}
	return &domain.GetUserResponse{RoleID: session.RoleID, Capabilities: names}, nil
}
