package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/streamforge/backend/internal/auth/service"
	"github.com/streamforge/backend/internal/common/config"
	"github.com/streamforge/backend/internal/common/constants"
	commonerrors "github.com/streamforge/backend/internal/common/errors"
	commonhttp "github.com/streamforge/backend/internal/common/http"
	"github.com/streamforge/backend/internal/common/logger"
)

type loginRequest struct {
	Username string `json:"username" validate:"required_without=Email"`
	Email    string `json:"email" validate:"required_without=Username,omitempty,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type Handler struct {
	auth     *service.AuthService
	cfg      config.Config
	log      *logger.Logger
	validate *validator.Validate
	errors   *commonhttp.ErrorHandler
}

// NewHandler wires the user routes. requireAuth guards the protected ones.
func NewHandler(
	auth *service.AuthService,
	requireAuth func(next http.Handler) http.Handler,
	cfg config.Config,
	log *logger.Logger,
) http.Handler {
	h := &Handler{
		auth:     auth,
		cfg:      cfg,
		log:      log,
		validate: validator.New(),
		errors:   commonhttp.NewErrorHandler(log),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", commonhttp.HealthHandler(log))
	mux.HandleFunc("/api/v1/users/register", h.register)
	mux.HandleFunc("/api/v1/users/login", h.login)
	mux.HandleFunc("/api/v1/users/refresh-token", h.refresh)
	mux.Handle("/api/v1/users/logout", requireAuth(http.HandlerFunc(h.logout)))
	mux.Handle("/api/v1/users/current-user", requireAuth(http.HandlerFunc(h.currentUser)))
	return mux
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := r.ParseMultipartForm(constants.MultipartMemoryBytes); err != nil {
		h.log.Warnf("register failed: invalid multipart form: %v", err)
		commonhttp.WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	avatarPath, err := stageFormFile(r, "avatar")
	if err != nil {
		h.log.Errorf("register failed: staging avatar: %v", err)
		commonhttp.WriteError(w, http.StatusInternalServerError, "failed to stage uploaded file")
		return
	}
	coverPath, err := stageFormFile(r, "coverImage")
	if err != nil {
		h.log.Errorf("register failed: staging cover image: %v", err)
		commonhttp.WriteError(w, http.StatusInternalServerError, "failed to stage uploaded file")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
	defer cancel()

	profile, err := h.auth.Register(ctx, service.RegisterInput{
		FullName:       r.FormValue("fullName"),
		Email:          r.FormValue("email"),
		Username:       r.FormValue("username"),
		Password:       r.FormValue("password"),
		AvatarPath:     avatarPath,
		CoverImagePath: coverPath,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteSuccess(w, http.StatusCreated, profile, "user registered successfully")
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req loginRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("login failed: invalid json: %v", err)
		commonhttp.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validateBody(req); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
	defer cancel()

	result, err := h.auth.Login(ctx, service.LoginInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	h.setAuthCookies(w, result.AccessToken, result.RefreshToken)
	commonhttp.WriteSuccess(w, http.StatusOK, map[string]any{
		"user":         result.Profile,
		"accessToken":  result.AccessToken,
		"refreshToken": result.RefreshToken,
	}, "user logged in successfully")
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	token := ""
	if cookie, err := r.Cookie(constants.RefreshTokenCookie); err == nil {
		token = cookie.Value
	}
	if token == "" {
		var req refreshRequest
		if err := commonhttp.DecodeJSON(r, &req); err == nil {
			token = req.RefreshToken
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
	defer cancel()

	pair, err := h.auth.Refresh(ctx, token)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	h.setAuthCookies(w, pair.AccessToken, pair.RefreshToken)
	commonhttp.WriteSuccess(w, http.StatusOK, map[string]any{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "access token refreshed")
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		h.errors.HandleError(w, r, service.ErrMissingAccessToken)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
	defer cancel()

	if err := h.auth.Logout(ctx, identity.ID); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	h.clearAuthCookies(w)
	commonhttp.WriteSuccess(w, http.StatusOK, nil, "user logged out successfully")
}

func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		h.errors.HandleError(w, r, service.ErrMissingAccessToken)
		return
	}

	commonhttp.WriteSuccess(w, http.StatusOK, identity, "current user fetched successfully")
}

func (h *Handler) validateBody(v any) error {
	err := h.validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		field := strings.ToLower(verrs[0].Field()[:1]) + verrs[0].Field()[1:]
		return commonerrors.NewDomainError(
			"INVALID_REQUEST_BODY",
			commonerrors.CategoryValidation,
			http.StatusBadRequest,
			fmt.Sprintf("invalid or missing field: %s", field),
		)
	}
	return commonerrors.NewDomainError(
		"INVALID_REQUEST_BODY",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"invalid request body",
	)
}

// stageFormFile copies the first file of a multipart field to a local temp
// file and returns its path; "" when the field is absent.
func stageFormFile(r *http.Request, field string) (string, error) {
	if r.MultipartForm == nil {
		return "", nil
	}
	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		return "", nil
	}

	src, err := files[0].Open()
	if err != nil {
		return "", fmt.Errorf("failed to open multipart file: %w", err)
	}
	defer src.Close()

	dst, err := os.CreateTemp("", "upload-*"+filepath.Ext(files[0].Filename))
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("failed to stage multipart file: %w", err)
	}

	return dst.Name(), nil
}

func (h *Handler) setAuthCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.AccessTokenCookie,
		Value:    accessToken,
		Path:     "/",
		MaxAge:   int(h.cfg.AccessTokenTTL / time.Second),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     constants.RefreshTokenCookie,
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   int(h.cfg.RefreshTokenTTL / time.Second),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *Handler) clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{constants.AccessTokenCookie, constants.RefreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteStrictMode,
		})
	}
}
