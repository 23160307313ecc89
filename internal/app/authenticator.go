package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"studyboard/internal/logging"
	"studyboard/internal/model"
	"studyboard/internal/pkg/jwtutil"
)

// UserLookup resolves a token subject to the live account.
type UserLookup interface {
	GetByID(ctx context.Context, id uint) (*model.User, error)
}

// TokenVerifier is the verifying half of the token service.
type TokenVerifier interface {
	Verify(token string) (jwtutil.Identity, error)
}

// Authenticator turns an Authorization header into a user.
type Authenticator struct {
	tokens TokenVerifier
	users  UserLookup
	logger *slog.Logger
}

func NewAuthenticator(tokens TokenVerifier, users UserLookup, logger *slog.Logger) *Authenticator {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Authenticator{tokens: tokens, users: users, logger: logger}
}

// Authenticate returns (nil, nil) for a missing header, the live user for a
// good token, and ErrInvalidToken for everything else. A valid signature for
// a deleted or deactivated account is still rejected.
func (a *Authenticator) Authenticate(ctx context.Context, header string) (*model.User, error) {
	raw := strings.TrimSpace(header)
	if raw == "" {
		return nil, nil
	}
	raw = stripScheme(raw)
	if raw == "" {
		logging.SecurityEvent(a.logger, "invalid_token", "reason", "empty")
		return nil, ErrInvalidToken
	}

	identity, err := a.tokens.Verify(raw)
	if err != nil {
		reason := "invalid"
		if errors.Is(err, jwtutil.ErrTokenExpired) {
			reason = "expired"
		}
		logging.SecurityEvent(a.logger, "invalid_token", "reason", reason)
		return nil, ErrInvalidToken
	}

	user, err := a.users.GetByID(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		logging.SecurityEvent(a.logger, "invalid_token", "reason", "unknown_user", "user_id", identity.UserID)
		return nil, ErrInvalidToken
	}
	if !user.IsActive {
		logging.SecurityEvent(a.logger, "invalid_token", "reason", "inactive_user", "user_id", user.ID)
		return nil, ErrInvalidToken
	}
	return user, nil
}

// stripScheme drops a leading "Bearer" in any letter case. A bare token is
// returned as is.
func stripScheme(header string) string {
	scheme, rest, found := strings.Cut(header, " ")
	if found && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(rest)
	}
	if !found && strings.EqualFold(header, "Bearer") {
		return ""
	}
	return header
}
