package service

import (
	"context"

	"github.com/streamforge/backend/internal/common/logger"
	"github.com/streamforge/backend/internal/observability/metrics"
	userdomain "github.com/streamforge/backend/internal/user/domain"
	userrepo "github.com/streamforge/backend/internal/user/repository"
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// SessionIssuer mints an access/refresh pair and persists the refresh token
// on the user record. Writing the new value supersedes the previous refresh
// token, which is what makes rotation work.
type SessionIssuer struct {
	repo  userrepo.Repository
	codec *TokenCodec
	log   *logger.Logger
}

func NewSessionIssuer(repo userrepo.Repository, codec *TokenCodec, log *logger.Logger) *SessionIssuer {
	return &SessionIssuer{repo: repo, codec: codec, log: log}
}

// Issue expects the caller to have already established that the user exists;
// any lookup failure here is a server fault, not a client error.
func (si *SessionIssuer) Issue(ctx context.Context, userID userdomain.ID) (TokenPair, error) {
	user, err := si.repo.FindByID(ctx, userID)
	if err != nil {
		si.log.WithFields(ctx, logger.Fields{
			"user_id": string(userID),
			"action":  "session_user_lookup_failed",
		}).Errorf("session issue failed: user lookup error: %v", err)
		return TokenPair{}, ErrSessionUnavailable.WithCause(err)
	}

	accessToken, err := si.codec.SignAccessToken(user)
	if err != nil {
		return TokenPair{}, ErrSessionUnavailable.WithCause(err)
	}

	refreshToken, err := si.codec.SignRefreshToken(user.ID)
	if err != nil {
		return TokenPair{}, ErrSessionUnavailable.WithCause(err)
	}

	if err := si.repo.UpdateRefreshToken(ctx, user.ID, refreshToken); err != nil {
		si.log.WithFields(ctx, logger.Fields{
			"user_id": string(userID),
			"action":  "session_persist_failed",
		}).Errorf("session issue failed: persist refresh token error: %v", err)
		return TokenPair{}, ErrSessionUnavailable.WithCause(err)
	}

	metrics.AccessTokensIssued.Inc()
	metrics.RefreshTokensIssued.Inc()

	return TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
