package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/streamforge/backend/internal/auth/service"
)

func issueSession(t *testing.T, f *authFixture) service.TokenPair {
	t.Helper()
	result, err := f.svc.Login(context.Background(), service.LoginInput{Username: "annl", Password: "p@ss1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	return service.TokenPair{AccessToken: result.AccessToken, RefreshToken: result.RefreshToken}
}

func TestAuthService_Refresh_MissingToken(t *testing.T) {
	f := setupAuthService(t)

	_, err := f.svc.Refresh(context.Background(), "")
	if !errors.Is(err, service.ErrMissingRefreshToken) {
		t.Fatalf("expected ErrMissingRefreshToken, got %v", err)
	}
}

func TestAuthService_Refresh_MalformedToken(t *testing.T) {
	f := setupAuthService(t)

	_, err := f.svc.Refresh(context.Background(), "not-a-jwt")
	if !errors.Is(err, service.ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestAuthService_Refresh_WrongSecret(t *testing.T) {
	f := setupAuthService(t)
	stubUserLookups(f.repo, storedUser())

	foreign := service.NewTokenCodec(
		"other-access-secret-0123456789abcdef",
		"other-refresh-secret-0123456789abcdef",
		testAccessTTL,
		testRefreshTTL,
		f.clock,
	)
	token, err := foreign.SignRefreshToken("user-1")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = f.svc.Refresh(context.Background(), token)
	if !errors.Is(err, service.ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestAuthService_Refresh_ExpiredToken(t *testing.T) {
	f := setupAuthService(t)
	stubUserLookups(f.repo, storedUser())

	pair := issueSession(t, f)
	f.clock.Advance(testRefreshTTL + time.Minute)

	_, err := f.svc.Refresh(context.Background(), pair.RefreshToken)
	if !errors.Is(err, service.ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken for expired token, got %v", err)
	}
}

func TestAuthService_Refresh_UnknownUser(t *testing.T) {
	f := setupAuthService(t)

	codec := service.NewTokenCodec(testAccessSecret, testRefreshSecret, testAccessTTL, testRefreshTTL, f.clock)
	token, err := codec.SignRefreshToken("ghost")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	// findByIDFunc defaults to not found.
	_, err = f.svc.Refresh(context.Background(), token)
	if !errors.Is(err, service.ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken for unknown user, got %v", err)
	}
}

func TestAuthService_Refresh_RotatesAndReturnsFreshToken(t *testing.T) {
	f := setupAuthService(t)
	stubUserLookups(f.repo, storedUser())

	first := issueSession(t, f)

	// Signing time must move or the rotated token would be byte-identical.
	f.clock.Advance(time.Second)

	second, err := f.svc.Refresh(context.Background(), first.RefreshToken)
	if err != nil {
		t.Fatalf("expected rotation to succeed, got %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Error("expected a freshly issued refresh token, got the presented one back")
	}
	if f.repo.savedRefreshToken != second.RefreshToken {
		t.Error("expected the stored token to be the rotated one")
	}
}

func TestAuthService_Refresh_SupersededTokenRejected(t *testing.T) {
	f := setupAuthService(t)
	stubUserLookups(f.repo, storedUser())

	first := issueSession(t, f)
	f.clock.Advance(time.Second)

	second, err := f.svc.Refresh(context.Background(), first.RefreshToken)
	if err != nil {
		t.Fatalf("rotation: %v", err)
	}

	// The superseded token is still cryptographically valid, only stale.
	_, err = f.svc.Refresh(context.Background(), first.RefreshToken)
	if !errors.Is(err, service.ErrRefreshTokenReused) {
		t.Fatalf("expected ErrRefreshTokenReused, got %v", err)
	}

	f.clock.Advance(time.Second)
	if _, err := f.svc.Refresh(context.Background(), second.RefreshToken); err != nil {
		t.Errorf("expected the current token to keep working, got %v", err)
	}
}

func TestAuthService_Refresh_AfterLogout(t *testing.T) {
	f := setupAuthService(t)
	stubUserLookups(f.repo, storedUser())

	pair := issueSession(t, f)
	if err := f.svc.Logout(context.Background(), "user-1"); err != nil {
		t.Fatalf("logout: %v", err)
	}

	_, err := f.svc.Refresh(context.Background(), pair.RefreshToken)
	if !errors.Is(err, service.ErrRefreshTokenReused) {
		t.Fatalf("expected ErrRefreshTokenReused after logout, got %v", err)
	}
}

func TestAuthService_Refresh_AccessTokenRejected(t *testing.T) {
	f := setupAuthService(t)
	stubUserLookups(f.repo, storedUser())

	pair := issueSession(t, f)

	// Access tokens are signed with a different secret and must not pass
	// as refresh tokens.
	_, err := f.svc.Refresh(context.Background(), pair.AccessToken)
	if !errors.Is(err, service.ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}
