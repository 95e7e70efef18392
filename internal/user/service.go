package user

import (
	"context"
	"strings"

	"marketbay-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, input CreateUserInput) (*User, error)
	Get(ctx context.Context, id uint64) (*User, error)
	Update(ctx context.Context, id uint64, input UpdateUserInput) (*User, error)
	Delete(ctx context.Context, id uint64) (*User, error)
	Register(ctx context.Context, input CreateUserInput, password string) (string, *User, error)
	Login(ctx context.Context, email, password string) (string, *User, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func validateCreate(input CreateUserInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(input.Email) == "" {
		return ErrEmailRequired
	}
	if !input.Role.Valid() {
		return ErrInvalidRole
	}
	return nil
}

func (s *service) Create(ctx context.Context, input CreateUserInput) (*User, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	u := &User{
		Name:       input.Name,
		Email:      input.Email,
		Role:       input.Role,
		Reputation: DefaultReputation,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		logger.FromCtx(ctx).Error("failed to create user",
			zap.String("email", input.Email),
			zap.Error(err),
		)
		return nil, err
	}

	return u, nil
}

func (s *service) Get(ctx context.Context, id uint64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Update(ctx context.Context, id uint64, input UpdateUserInput) (*User, error) {
	if input.Name == nil && input.Email == nil && input.Role == nil && input.Reputation == nil {
		return nil, ErrNoUpdateFields
	}

	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, ErrNameRequired
	}
	if input.Email != nil && strings.TrimSpace(*input.Email) == "" {
		return nil, ErrEmailRequired
	}
	if input.Role != nil && !input.Role.Valid() {
		return nil, ErrInvalidRole
	}
	if input.Reputation != nil && *input.Reputation > 100 {
		return nil, ErrReputationRange
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		u.Name = *input.Name
	}
	if input.Email != nil {
		u.Email = *input.Email
	}
	if input.Role != nil {
		u.Role = *input.Role
	}
	if input.Reputation != nil {
		u.Reputation = *input.Reputation
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

// Delete removes a user unconditionally. Orders and products that reference
// the user are left orphaned; there is no cascade.
func (s *service) Delete(ctx context.Context, id uint64) (*User, error) {
	return s.repo.Delete(ctx, id)
}

func (s *service) Register(ctx context.Context, input CreateUserInput, password string) (string, *User, error) {
	log := logger.FromCtx(ctx)

	if err := validateCreate(input); err != nil {
		return "", nil, err
	}
	if password == "" {
		return "", nil, ErrPasswordRequired
	}

	hashed, err := HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return "", nil, err
	}

	u := &User{
		Name:       input.Name,
		Email:      input.Email,
		Role:       input.Role,
		Reputation: DefaultReputation,
		Password:   hashed,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		log.Error("failed to create user", zap.String("email", input.Email), zap.Error(err))
		return "", nil, err
	}

	token, err := GenerateJWT(u.ID, string(u.Role), u.Email)
	if err != nil {
		log.Error("failed to generate jwt", zap.Uint64("user_id", u.ID), zap.Error(err))
		return "", nil, err
	}

	log.Info("register completed",
		zap.Uint64("user_id", u.ID),
		zap.String("email", u.Email),
	)

	return token, u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (string, *User, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if !CheckPasswordHash(password, u.Password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := GenerateJWT(u.ID, string(u.Role), u.Email)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}
