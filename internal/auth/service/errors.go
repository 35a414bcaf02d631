package service

import (
	"net/http"

	commonerrors "github.com/streamforge/backend/internal/common/errors"
)

var (
	ErrFullNameRequired = commonerrors.NewDomainError(
		"FULL_NAME_REQUIRED",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"fullName is required",
	)

	ErrEmailRequired = commonerrors.NewDomainError(
		"EMAIL_REQUIRED",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"email is required",
	)

	ErrUsernameRequired = commonerrors.NewDomainError(
		"USERNAME_REQUIRED",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"username is required",
	)

	ErrPasswordRequired = commonerrors.NewDomainError(
		"PASSWORD_REQUIRED",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"password is required",
	)

	ErrAvatarRequired = commonerrors.NewDomainError(
		"AVATAR_REQUIRED",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"avatar file is required",
	)

	ErrUserExists = commonerrors.NewDomainError(
		"USER_EXISTS",
		commonerrors.CategoryConflict,
		http.StatusConflict,
		"user with email or username already exists",
	)

	ErrAvatarUploadFailed = commonerrors.NewDomainError(
		"AVATAR_UPLOAD_FAILED",
		commonerrors.CategoryExternal,
		http.StatusBadGateway,
		"failed to upload avatar",
	)

	ErrIdentifierRequired = commonerrors.NewDomainError(
		"IDENTIFIER_REQUIRED",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"username or email is required",
	)

	ErrUserNotFound = commonerrors.NewDomainError(
		"USER_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"user does not exist",
	)

	ErrInvalidCredentials = commonerrors.NewDomainError(
		"INVALID_CREDENTIALS",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"invalid user credentials",
	)

	ErrMissingRefreshToken = commonerrors.NewDomainError(
		"MISSING_REFRESH_TOKEN",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"refresh token is required",
	)

	ErrInvalidRefreshToken = commonerrors.NewDomainError(
		"INVALID_REFRESH_TOKEN",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"invalid or expired refresh token",
	)

	ErrRefreshTokenReused = commonerrors.NewDomainError(
		"REFRESH_TOKEN_REUSED",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"refresh token is expired or already used",
	)

	ErrMissingAccessToken = commonerrors.NewDomainError(
		"MISSING_ACCESS_TOKEN",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"unauthorized request",
	)

	ErrInvalidAccessToken = commonerrors.NewDomainError(
		"INVALID_ACCESS_TOKEN",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"invalid access token",
	)

	ErrRegistrationIncomplete = commonerrors.NewDomainError(
		"REGISTRATION_INCOMPLETE",
		commonerrors.CategoryInternal,
		http.StatusInternalServerError,
		"something went wrong while registering the user",
	)

	ErrSessionUnavailable = commonerrors.NewDomainError(
		"SESSION_UNAVAILABLE",
		commonerrors.CategoryInternal,
		http.StatusInternalServerError,
		"failed to issue session tokens",
	)

	ErrStoreFailure = commonerrors.NewDomainError(
		"STORE_FAILURE",
		commonerrors.CategoryInternal,
		http.StatusInternalServerError,
		"internal server error",
	)
)
