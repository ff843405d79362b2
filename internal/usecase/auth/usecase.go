package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/evgeniy-krivenko/notes-web/internal/entity"
	"github.com/evgeniy-krivenko/notes-web/pkg/logger/slogx"
)

const bcryptCost = 12

type usersRepository interface {
	CreateUser(ctx context.Context, email, name, passwordHash string) (entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (entity.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (entity.User, error)
	UpdateUserName(ctx context.Context, id uuid.UUID, name string) (entity.User, error)
}

type tokenIssuer interface {
	Issue(userID uuid.UUID) (string, error)
}

//go:generate go run github.com/kazhuravlev/options-gen/cmd/options-gen@v0.55.2 -out-filename=usecase_options.gen.go -from-struct=Options
type Options struct {
	repo   usersRepository `option:"mandatory" validate:"required"`
	tokens tokenIssuer     `option:"mandatory" validate:"required"`
}

type Usecase struct {
	Options
}

func New(opts Options) (*Usecase, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("validate auth usecase options: %v", err)
	}

	return &Usecase{Options: opts}, nil
}

func (u *Usecase) Register(ctx context.Context, email, password, name string) (entity.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return entity.User{}, "", fmt.Errorf("hash password: %v", err)
	}

	user, err := u.repo.CreateUser(ctx, email, strings.TrimSpace(name), string(hash))
	if err != nil {
		return entity.User{}, "", fmt.Errorf("usecase register: %w", err)
	}

	token, err := u.tokens.Issue(user.ID)
	if err != nil {
		return entity.User{}, "", fmt.Errorf("issue token: %v", err)
	}

	slogx.Info(ctx, "user registered", slogx.UserId(user.ID))

	return user, token, nil
}

// Login verifies credentials and issues a token. An unknown email and a
// wrong password are indistinguishable to the caller.
func (u *Usecase) Login(ctx context.Context, email, password string) (entity.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := u.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return entity.User{}, "", entity.ErrInvalidCredentials
		}
		return entity.User{}, "", fmt.Errorf("usecase login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return entity.User{}, "", entity.ErrInvalidCredentials
	}

	token, err := u.tokens.Issue(user.ID)
	if err != nil {
		return entity.User{}, "", fmt.Errorf("issue token: %v", err)
	}

	return user, token, nil
}

func (u *Usecase) Profile(ctx context.Context, userID uuid.UUID) (entity.User, error) {
	user, err := u.repo.GetUser(ctx, userID)
	if err != nil {
		return entity.User{}, fmt.Errorf("usecase profile: %w", err)
	}

	return user, nil
}

func (u *Usecase) UpdateProfile(ctx context.Context, userID uuid.UUID, name string) (entity.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return entity.User{}, entity.NewValidationError("name is required")
	}
	if len(name) > 255 {
		return entity.User{}, entity.NewValidationError("name cannot exceed 255 characters")
	}

	user, err := u.repo.UpdateUserName(ctx, userID, name)
	if err != nil {
		return entity.User{}, fmt.Errorf("usecase update profile: %w", err)
	}

	return user, nil
}
