package auth

import (
	"context"
	"log/slog"

	"github.com/anyemp/global-dashboard-go/internal/domain/auth"
	"github.com/anyemp/global-dashboard-go/internal/domain/dashboard"
	"github.com/anyemp/global-dashboard-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// PINAuthType marks dashboards whose writes are unlocked with a PIN
const PINAuthType = "pin"

type AuthServiceImpl struct {
	registry   dashboard.Registry
	pinHashes  map[string][]byte
	jwtService jwt.Service
	logger     *slog.Logger
}

// NewAuthService takes the bcrypt PIN hash of every PIN-protected dashboard, keyed by dashboard id
func NewAuthService(registry dashboard.Registry, pinHashes map[string]string, jwtService jwt.Service, logger *slog.Logger) auth.AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	hashes := make(map[string][]byte, len(pinHashes))
	for id, h := range pinHashes {
		hashes[id] = []byte(h)
	}
	return &AuthServiceImpl{
		registry:   registry,
		pinHashes:  hashes,
		jwtService: jwtService,
		logger:     logger.With("component", "auth-service"),
	}
}

func (s *AuthServiceImpl) LoginWithPIN(ctx context.Context, req auth.PinLoginRequest) (*auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	d, ok := s.registry.GetByID(req.DashboardID)
	if !ok {
		return nil, dashboard.ErrDashboardNotFound
	}

	hash, ok := s.pinHashes[d.ID]
	if d.AuthType != PINAuthType || !ok {
		s.logger.WarnContext(ctx, "PIN login for dashboard without PIN", "dashboard_id", d.ID)
		return nil, auth.ErrInvalidPIN
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(req.PIN)); err != nil {
		s.logger.WarnContext(ctx, "Invalid PIN", "dashboard_id", d.ID)
		return nil, auth.ErrInvalidPIN
	}

	token, expiresAt, err := s.jwtService.GenerateAccessToken(d.ID)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "PIN login succeeded", "dashboard_id", d.ID)
	return &auth.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, nil
}
