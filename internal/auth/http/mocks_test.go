package http_test

import (
	"context"
	"net/http"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	authhttp "github.com/streamforge/backend/internal/auth/http"
	"github.com/streamforge/backend/internal/auth/service"
	"github.com/streamforge/backend/internal/common/clock"
	"github.com/streamforge/backend/internal/common/config"
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

type stubUserRepo struct {
	users map[userdomain.ID]*userdomain.User

	createErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: map[userdomain.ID]*userdomain.User{}}
}

func (s *stubUserRepo) add(user userdomain.User) {
	u := user
	s.users[user.ID] = &u
}

func (s *stubUserRepo) Create(ctx context.Context, user userdomain.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	for _, existing := range s.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return userrepo.ErrUserAlreadyExists
		}
	}
	s.add(user)
	return nil
}

func (s *stubUserRepo) FindByUsernameOrEmail(ctx context.Context, username, email string) (userdomain.User, error) {
	for _, u := range s.users {
		if u.Username == username || (email != "" && u.Email == email) {
			return *u, nil
		}
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (s *stubUserRepo) FindByID(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
	if u, ok := s.users[id]; ok {
		return *u, nil
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (s *stubUserRepo) ProfileByID(ctx context.Context, id userdomain.ID) (userdomain.Profile, error) {
	u, ok := s.users[id]
	if !ok {
		return userdomain.Profile{}, userrepo.ErrUserNotFound
	}
	return userdomain.Profile{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FullName:     u.FullName,
		AvatarURL:    u.AvatarURL,
		CoverImage:   u.CoverImageURL,
		WatchHistory: u.WatchHistory,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}, nil
}

func (s *stubUserRepo) UpdateRefreshToken(ctx context.Context, id userdomain.ID, token string) error {
	u, ok := s.users[id]
	if !ok {
		return userrepo.ErrUserNotFound
	}
	u.RefreshToken = token
	return nil
}

func (s *stubUserRepo) ClearRefreshToken(ctx context.Context, id userdomain.ID) error {
	if u, ok := s.users[id]; ok {
		u.RefreshToken = ""
	}
	return nil
}

type stubHasher struct{}

func (stubHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (stubHasher) Compare(hash string, password string) error {
	if hash != "hashed:"+password {
		return errPasswordMismatch
	}
	return nil
}

var errPasswordMismatch = &mismatchError{}

type mismatchError struct{}

func (*mismatchError) Error() string { return "password mismatch" }

type stubIDGenerator struct {
	next int
}

func (g *stubIDGenerator) NewID() (string, error) {
	g.next++
	return "user-" + strconv.Itoa(g.next), nil
}

type stubUploader struct {
	calls []string
	err   error
}

func (u *stubUploader) Upload(ctx context.Context, localPath string) (string, error) {
	u.calls = append(u.calls, localPath)
	if u.err != nil {
		return "", u.err
	}
	return "https://cdn.test/" + filepath.Base(localPath), nil
}

type httpFixture struct {
	handler  http.Handler
	repo     *stubUserRepo
	uploader *stubUploader
	codec    *service.TokenCodec
	clock    *clock.MockClock
}

func setupHandler(t *testing.T) *httpFixture {
	t.Helper()

	repo := newStubUserRepo()
	uploader := &stubUploader{}
	mockClock := clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	log, err := logger.New("", "test", "error")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	codec := service.NewTokenCodec(testAccessSecret, testRefreshSecret, testAccessTTL, testRefreshTTL, mockClock)
	sessions := service.NewSessionIssuer(repo, codec, log)

	auth := service.NewAuthService(service.AuthServiceDeps{
		Repo:        repo,
		Hasher:      stubHasher{},
		IDGenerator: &stubIDGenerator{},
		Uploader:    uploader,
		Sessions:    sessions,
		Codec:       codec,
		Clock:       mockClock,
		Log:         log,
	})

	cfg := config.Config{
		AccessTokenTTL:  testAccessTTL,
		RefreshTokenTTL: testRefreshTTL,
		RequestTimeout:  5 * time.Second,
	}

	requireAuth := authhttp.RequireAuth(codec, repo, log)
	handler := authhttp.NewHandler(auth, requireAuth, cfg, log)

	return &httpFixture{
		handler:  handler,
		repo:     repo,
		uploader: uploader,
		codec:    codec,
		clock:    mockClock,
	}
}

func seedUser(f *httpFixture) userdomain.User {
	user := userdomain.User{
		ID:           "user-1",
		Username:     "annl",
		Email:        "ann@x.com",
		FullName:     "Ann Lee",
		PasswordHash: "hashed:p@ss1",
		AvatarURL:    "https://cdn.test/avatar.jpg",
		WatchHistory: []string{},
	}
	f.repo.add(user)
	return user
}
