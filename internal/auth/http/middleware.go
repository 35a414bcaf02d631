package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/streamforge/backend/internal/auth/service"
	"github.com/streamforge/backend/internal/common/constants"
	commonhttp "github.com/streamforge/backend/internal/common/http"
	"github.com/streamforge/backend/internal/common/logger"
	userdomain "github.com/streamforge/backend/internal/user/domain"
	userrepo "github.com/streamforge/backend/internal/user/repository"
)

type contextKey string

const identityKey contextKey = "auth_identity"

// RequireAuth verifies the access token from the cookie or the Authorization
// header and attaches the caller's sanitized profile to the request context.
// Expired tokens are rejected here, never silently refreshed.
func RequireAuth(codec *service.TokenCodec, repo userrepo.Repository, log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if cookie, err := r.Cookie(constants.AccessTokenCookie); err == nil {
				token = cookie.Value
			}
			if token == "" {
				raw := r.Header.Get("Authorization")
				if strings.HasPrefix(raw, "Bearer ") {
					token = strings.TrimPrefix(raw, "Bearer ")
				}
			}

			if token == "" {
				commonhttp.HandleError(w, r, service.ErrMissingAccessToken, log)
				return
			}

			claims, err := codec.VerifyAccessToken(token)
			if err != nil {
				log.Warnf("auth failed path=%s: %v", r.URL.Path, err)
				commonhttp.HandleError(w, r, service.ErrInvalidAccessToken.WithCause(err), log)
				return
			}

			profile, err := repo.ProfileByID(r.Context(), claims.UserID)
			if err != nil {
				log.Warnf("auth failed path=%s: user lookup: %v", r.URL.Path, err)
				commonhttp.HandleError(w, r, service.ErrInvalidAccessToken.WithCause(err), log)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, profile)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func IdentityFromContext(ctx context.Context) (userdomain.Profile, bool) {
	profile, ok := ctx.Value(identityKey).(userdomain.Profile)
	return profile, ok
}
