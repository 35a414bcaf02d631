package service

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/streamforge/backend/internal/common/clock"
	commoncrypto "github.com/streamforge/backend/internal/common/crypto"
	"github.com/streamforge/backend/internal/common/logger"
	"github.com/streamforge/backend/internal/observability/metrics"
	userdomain "github.com/streamforge/backend/internal/user/domain"
	userrepo "github.com/streamforge/backend/internal/user/repository"
)

// AssetUploader pushes a locally staged file to object storage and returns
// its public URL. The local file is deleted exactly once per call, whether
// the upload succeeded or not.
type AssetUploader interface {
	Upload(ctx context.Context, localPath string) (string, error)
}

type AuthService struct {
	repo        userrepo.Repository
	hasher      commoncrypto.PasswordHasher
	idGenerator commoncrypto.IDGenerator
	uploader    AssetUploader
	sessions    *SessionIssuer
	codec       *TokenCodec
	clock       clock.Clock
	log         *logger.Logger
}

type AuthServiceDeps struct {
	Repo        userrepo.Repository
	Hasher      commoncrypto.PasswordHasher
	IDGenerator commoncrypto.IDGenerator
	Uploader    AssetUploader
	Sessions    *SessionIssuer
	Codec       *TokenCodec
	Clock       clock.Clock
	Log         *logger.Logger
}

func NewAuthService(deps AuthServiceDeps) *AuthService {
	return &AuthService{
		repo:        deps.Repo,
		hasher:      deps.Hasher,
		idGenerator: deps.IDGenerator,
		uploader:    deps.Uploader,
		sessions:    deps.Sessions,
		codec:       deps.Codec,
		clock:       deps.Clock,
		log:         deps.Log,
	}
}

type RegisterInput struct {
	FullName string
	Email    string
	Username string
	Password string

	// Local paths of staged multipart files. AvatarPath is required.
	AvatarPath     string
	CoverImagePath string
}

type LoginInput struct {
	Username string
	Email    string
	Password string
}

type LoginResult struct {
	Profile      userdomain.Profile
	AccessToken  string
	RefreshToken string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (userdomain.Profile, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "register_attempt",
	}).Info("register attempt")

	if err := validateRegistration(input); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_validation_failed",
		}).Warnf("register validation failed: %v", err)
		return userdomain.Profile{}, err
	}

	username := strings.ToLower(strings.TrimSpace(input.Username))
	email := strings.TrimSpace(input.Email)

	_, err := s.repo.FindByUsernameOrEmail(ctx, username, email)
	if err == nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "register_user_exists",
		}).Warn("register failed: user already exists")
		return userdomain.Profile{}, ErrUserExists
	}
	if !errors.Is(err, userrepo.ErrUserNotFound) {
		return userdomain.Profile{}, ErrStoreFailure.WithCause(err)
	}

	if input.AvatarPath == "" {
		s.discardStagedFile(ctx, input.CoverImagePath)
		return userdomain.Profile{}, ErrAvatarRequired
	}

	avatarURL, err := s.uploader.Upload(ctx, input.AvatarPath)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "register_avatar_upload_failed",
		}).Errorf("register failed: avatar upload error: %v", err)
		s.discardStagedFile(ctx, input.CoverImagePath)
		return userdomain.Profile{}, ErrAvatarUploadFailed.WithCause(err)
	}

	coverImageURL := ""
	if input.CoverImagePath != "" {
		coverImageURL, err = s.uploader.Upload(ctx, input.CoverImagePath)
		if err != nil {
			// Cover image is optional, its upload failure is not.
			s.log.WithFields(ctx, logger.Fields{
				"username": username,
				"action":   "register_cover_upload_failed",
			}).Warnf("cover image upload failed, continuing without: %v", err)
			coverImageURL = ""
		}
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return userdomain.Profile{}, ErrStoreFailure.WithCause(err)
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		return userdomain.Profile{}, ErrStoreFailure.WithCause(err)
	}

	user := userdomain.User{
		ID:            userdomain.ID(id),
		Username:      username,
		Email:         email,
		FullName:      strings.TrimSpace(input.FullName),
		PasswordHash:  hash,
		AvatarURL:     avatarURL,
		CoverImageURL: coverImageURL,
		WatchHistory:  []string{},
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, userrepo.ErrUserAlreadyExists) {
			return userdomain.Profile{}, ErrUserExists
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "register_create_failed",
		}).Errorf("register failed: %v", err)
		return userdomain.Profile{}, ErrStoreFailure.WithCause(err)
	}

	profile, err := s.repo.ProfileByID(ctx, user.ID)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": username,
			"user_id":  id,
			"action":   "register_readback_failed",
		}).Errorf("register failed: created user read back error: %v", err)
		return userdomain.Profile{}, ErrRegistrationIncomplete.WithCause(err)
	}

	metrics.UsersRegistered.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"username": username,
		"user_id":  id,
		"action":   "register_success",
	}).Info("register success")

	return profile, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "login_attempt",
	}).Info("login attempt")

	if err := validateLogin(input); err != nil {
		return LoginResult{}, err
	}

	username := strings.ToLower(strings.TrimSpace(input.Username))
	email := strings.TrimSpace(input.Email)

	user, err := s.repo.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"username": username,
				"action":   "login_user_not_found",
			}).Warn("login failed: user not found")
			metrics.LoginsFailed.Inc()
			return LoginResult{}, ErrUserNotFound
		}
		return LoginResult{}, ErrStoreFailure.WithCause(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": username,
			"user_id":  string(user.ID),
			"action":   "login_invalid_password",
		}).Warn("login failed: invalid password")
		metrics.LoginsFailed.Inc()
		return LoginResult{}, ErrInvalidCredentials
	}

	pair, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		return LoginResult{}, err
	}

	profile, err := s.repo.ProfileByID(ctx, user.ID)
	if err != nil {
		return LoginResult{}, ErrStoreFailure.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "login_success",
	}).Info("login success")

	return LoginResult{
		Profile:      profile,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// Refresh validates a presented refresh token and rotates the pair. Only the
// most recently issued refresh token is accepted; any superseded copy fails.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	if refreshToken == "" {
		metrics.RefreshesRejected.WithLabelValues("missing").Inc()
		return TokenPair{}, ErrMissingRefreshToken
	}

	userID, err := s.codec.VerifyRefreshToken(refreshToken)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "refresh_token_invalid",
		}).Warnf("refresh failed: %v", err)
		metrics.RefreshesRejected.WithLabelValues("invalid").Inc()
		return TokenPair{}, ErrInvalidRefreshToken.WithCause(err)
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			metrics.RefreshesRejected.WithLabelValues("unknown_user").Inc()
			return TokenPair{}, ErrInvalidRefreshToken
		}
		return TokenPair{}, ErrStoreFailure.WithCause(err)
	}

	if user.RefreshToken != refreshToken {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "refresh_token_reused",
		}).Warn("refresh failed: token expired or already used")
		metrics.RefreshesRejected.WithLabelValues("superseded").Inc()
		return TokenPair{}, ErrRefreshTokenReused
	}

	pair, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		return TokenPair{}, err
	}

	metrics.RefreshTokensRotated.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(user.ID),
		"action":  "refresh_success",
	}).Info("refresh success")

	return pair, nil
}

// Logout clears the stored refresh token. Repeated calls are harmless.
func (s *AuthService) Logout(ctx context.Context, userID userdomain.ID) error {
	if err := s.repo.ClearRefreshToken(ctx, userID); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(userID),
			"action":  "logout_failed",
		}).Errorf("logout failed: %v", err)
		return ErrStoreFailure.WithCause(err)
	}

	metrics.SessionsRevoked.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(userID),
		"action":  "logout_success",
	}).Info("logout success")

	return nil
}

// discardStagedFile removes a staged temp file that will never reach the
// uploader, keeping the no-leftover-temp-files contract on abort paths.
func (s *AuthService) discardStagedFile(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.log.WithFields(ctx, logger.Fields{
			"path":   path,
			"action": "staged_file_cleanup_failed",
		}).Warnf("failed to remove staged file: %v", err)
	}
}
