package service_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/streamforge/backend/internal/auth/service"
	"github.com/streamforge/backend/internal/common/clock"
	"github.com/streamforge/backend/internal/common/logger"
	userdomain "github.com/streamforge/backend/internal/user/domain"
	userrepo "github.com/streamforge/backend/internal/user/repository"
)

const (
	testAccessSecret  = "test-access-secret-0123456789abcdef"
	testRefreshSecret = "test-refresh-secret-0123456789abcdef"
	testAccessTTL     = 15 * time.Minute
	testRefreshTTL    = 10 * 24 * time.Hour
)

type mockUserRepo struct {
	createFunc                func(ctx context.Context, user userdomain.User) error
	findByUsernameOrEmailFunc func(ctx context.Context, username, email string) (userdomain.User, error)
	findByIDFunc              func(ctx context.Context, id userdomain.ID) (userdomain.User, error)
	profileByIDFunc           func(ctx context.Context, id userdomain.ID) (userdomain.Profile, error)
	updateRefreshTokenFunc    func(ctx context.Context, id userdomain.ID, token string) error
	clearRefreshTokenFunc     func(ctx context.Context, id userdomain.ID) error

	savedRefreshToken  string
	refreshTokenSaves  int
	refreshTokenClears int
}

func (m *mockUserRepo) Create(ctx context.Context, user userdomain.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByUsernameOrEmail(ctx context.Context, username, email string) (userdomain.User, error) {
	if m.findByUsernameOrEmailFunc != nil {
		return m.findByUsernameOrEmailFunc(ctx, username, email)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) FindByID(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) ProfileByID(ctx context.Context, id userdomain.ID) (userdomain.Profile, error) {
	if m.profileByIDFunc != nil {
		return m.profileByIDFunc(ctx, id)
	}
	return userdomain.Profile{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) UpdateRefreshToken(ctx context.Context, id userdomain.ID, token string) error {
	m.refreshTokenSaves++
	if m.updateRefreshTokenFunc != nil {
		return m.updateRefreshTokenFunc(ctx, id, token)
	}
	m.savedRefreshToken = token
	return nil
}

func (m *mockUserRepo) ClearRefreshToken(ctx context.Context, id userdomain.ID) error {
	m.refreshTokenClears++
	if m.clearRefreshTokenFunc != nil {
		return m.clearRefreshTokenFunc(ctx, id)
	}
	m.savedRefreshToken = ""
	return nil
}

type mockHasher struct {
	hashFunc    func(password string) (string, error)
	compareFunc func(hash string, password string) error
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed:" + password, nil
}

func (m *mockHasher) Compare(hash string, password string) error {
	if m.compareFunc != nil {
		return m.compareFunc(hash, password)
	}
	return nil
}

type mockIDGenerator struct {
	newIDFunc func() (string, error)
}

func (m *mockIDGenerator) NewID() (string, error) {
	if m.newIDFunc != nil {
		return m.newIDFunc()
	}
	return "generated-id", nil
}

type mockUploader struct {
	uploadFunc func(ctx context.Context, localPath string) (string, error)
	calls      []string
}

func (m *mockUploader) Upload(ctx context.Context, localPath string) (string, error) {
	m.calls = append(m.calls, localPath)
	if m.uploadFunc != nil {
		return m.uploadFunc(ctx, localPath)
	}
	return "https://cdn.test/" + filepath.Base(localPath), nil
}

type authFixture struct {
	svc      *service.AuthService
	repo     *mockUserRepo
	uploader *mockUploader
	hasher   *mockHasher
	idGen    *mockIDGenerator
	codec    *service.TokenCodec
	clock    *clock.MockClock
}

func setupAuthService(t *testing.T) *authFixture {
	t.Helper()

	repo := &mockUserRepo{}
	uploader := &mockUploader{}
	hasher := &mockHasher{}
	idGen := &mockIDGenerator{}
	mockClock := clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	log, _ := logger.New("", "test", "error")

	codec := service.NewTokenCodec(testAccessSecret, testRefreshSecret, testAccessTTL, testRefreshTTL, mockClock)
	sessions := service.NewSessionIssuer(repo, codec, log)

	svc := service.NewAuthService(service.AuthServiceDeps{
		Repo:        repo,
		Hasher:      hasher,
		IDGenerator: idGen,
		Uploader:    uploader,
		Sessions:    sessions,
		Codec:       codec,
		Clock:       mockClock,
		Log:         log,
	})

	return &authFixture{
		svc:      svc,
		repo:     repo,
		uploader: uploader,
		hasher:   hasher,
		idGen:    idGen,
		codec:    codec,
		clock:    mockClock,
	}
}
