package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tilab/tilab/internal/app/models"
	"github.com/tilab/tilab/internal/app/models/dto"
	"github.com/tilab/tilab/internal/config"
	"github.com/tilab/tilab/internal/pkg/apperrors"
	"github.com/tilab/tilab/internal/pkg/auth"
	"github.com/tilab/tilab/internal/pkg/validation"
)

// AuthService authenticates the staff accounts declared in the config file
type AuthService struct {
	staff      map[string]config.StaffMember
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(members []config.StaffMember, jwtService *auth.JWTService, logger zerolog.Logger) *AuthService {
	staff := make(map[string]config.StaffMember, len(members))
	for _, m := range members {
		if m.Role == "" {
			m.Role = string(models.RoleStaff)
		}
		m.Role = strings.ToUpper(m.Role)
		staff[strings.ToLower(strings.TrimSpace(m.Email))] = m
	}
	return &AuthService{
		staff:      staff,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Login checks credentials and issues an access token
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	errs := validation.NewErrors()
	errs.Add("email", validation.NewStringValidation(req.Email).
		WithRequired(true, "Email is required").
		WithPattern(validation.CompiledPatterns.Email, "Must be a valid email address").
		Check())
	if req.Password == "" {
		errs.Add("password", "Password is required")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	member, ok := s.staff[email]
	if !ok || !auth.CheckPassword(member.PasswordHash, req.Password) {
		s.logger.Warn().Str("email", email).Msg("Failed login attempt")
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwtService.GenerateAccessToken(email, member.Name, member.Role)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("email", email).Str("role", member.Role).Msg("Staff member logged in")

	return &dto.LoginResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   expiresIn,
		},
		Staff: dto.StaffResponse{
			Email: email,
			Name:  member.Name,
			Role:  member.Role,
		},
	}, nil
}
