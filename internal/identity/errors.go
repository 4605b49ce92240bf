package identity

import (
	"errors"
	"net/http"
)

// Sentinel errors for provider credential flows. Messages here are the safe,
// user-facing texts; the wrapped provider detail stays in server logs.
var (
	ErrAccountExists   = errors.New("an account with this email already exists")
	ErrAccountNotFound = errors.New("account not found")
	ErrNotConfirmed    = errors.New("email address not confirmed")
	ErrWeakPassword    = errors.New("password does not meet requirements")
	ErrBadCode         = errors.New("invalid verification code")
	ErrCodeExpired     = errors.New("verification code has expired")
	ErrBadCredentials  = errors.New("incorrect email or password")
	ErrThrottled       = errors.New("too many requests, please try again later")
	ErrBadParameter    = errors.New("invalid request parameter")
)

var providerErrorStatus = map[error]int{
	ErrAccountExists:   http.StatusConflict,
	ErrAccountNotFound: http.StatusNotFound,
	ErrNotConfirmed:    http.StatusForbidden,
	ErrWeakPassword:    http.StatusBadRequest,
	ErrBadCode:         http.StatusBadRequest,
	ErrCodeExpired:     http.StatusBadRequest,
	ErrBadCredentials:  http.StatusUnauthorized,
	ErrThrottled:       http.StatusTooManyRequests,
	ErrBadParameter:    http.StatusBadRequest,
}

// HTTPStatus resolves a provider error to its response status and safe
// message. ok is false for errors outside the sentinel set.
func HTTPStatus(err error) (status int, message string, ok bool) {
	for sentinel, st := range providerErrorStatus {
		if errors.Is(err, sentinel) {
			return st, sentinel.Error(), true
		}
	}
	return 0, "", false
}
