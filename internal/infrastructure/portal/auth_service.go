package portal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/auth"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/shared"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/infrastructure/transport"
)

// AuthService signs users in and up. Sign-out is purely client-side and
// needs no request.
type AuthService struct {
	requester transport.Requester
	mapper    *Mapper
	logger    *slog.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(requester transport.Requester, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		requester: requester,
		mapper:    NewMapper(logger),
		logger:    logger,
	}
}

// Login exchanges credentials for a session user.
func (s *AuthService) Login(ctx context.Context, creds auth.Credentials) (*auth.SessionUser, error) {
	if err := validateInput("auth", "Login", creds); err != nil {
		return nil, err
	}

	var resp AuthResponseDTO
	if err := s.requester.Post(ctx, "/login", loginRequestDTO{
		Email:    creds.Email,
		Password: creds.Password,
	}, &resp); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	return s.userFrom(resp, "Login")
}

// Signup registers a new user and signs them in.
func (s *AuthService) Signup(ctx context.Context, input auth.SignupInput) (*auth.SessionUser, error) {
	if err := validateInput("auth", "Signup", input); err != nil {
		return nil, err
	}

	var resp AuthResponseDTO
	if err := s.requester.Post(ctx, "/signup", signupRequestDTO{
		Name:        input.Name,
		LastName:    input.LastName,
		StudentCode: input.StudentCode,
		Email:       input.Email,
		Password:    input.Password,
		Role:        input.Role.WireValue(),
	}, &resp); err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}

	return s.userFrom(resp, "Signup")
}

func (s *AuthService) userFrom(resp AuthResponseDTO, op string) (*auth.SessionUser, error) {
	if resp.User == nil {
		return nil, shared.NewDomainError("auth", op, shared.ErrUnknown, "La respuesta no contiene el usuario")
	}
	user, err := s.mapper.SessionUserFromDTO(resp.User)
	if err != nil {
		return nil, shared.WrapError("auth", op, shared.ErrUnknown, "Respuesta de autenticación inválida", err)
	}
	s.logger.Debug("session user received", "user_id", user.ID, "role", user.Role)
	return user, nil
}
