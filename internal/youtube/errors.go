package youtube

import (
	"errors"
	"fmt"
)

// Sentinel failures callers branch on. ErrTokenExpired means the caller
// should prompt re-authorization; the others are hard failures.
var (
	ErrTokenExpired  = errors.New("youtube: access token expired or invalid")
	ErrQuotaExceeded = errors.New("youtube: API quota exceeded or insufficient permissions")
	ErrInvalidUpload = errors.New("youtube: invalid upload payload")

	ErrChannelNotFound         = errors.New("youtube: channel not found")
	ErrInvalidChannelReference = errors.New("youtube: unrecognized channel reference")
)

// AuthExchangeError an OAuth code exchange failure.
type AuthExchangeError struct {
	Err error
}

func (e *AuthExchangeError) Error() string {
	return fmt.Sprintf("youtube: exchanging authorization code: %v", e.Err)
}

func (e *AuthExchangeError) Unwrap() error { return e.Err }

// UploadError a video upload failure. Reason wraps one of the sentinel
// errors above when the cause is distinguishable.
type UploadError struct {
	Reason error
	Detail string
}

func (e *UploadError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("youtube: upload failed: %v: %s", e.Reason, e.Detail)
	}
	return fmt.Sprintf("youtube: upload failed: %v", e.Reason)
}

func (e *UploadError) Unwrap() error { return e.Reason }

// HostAPIError a non-2xx response from any other host endpoint.
type HostAPIError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *HostAPIError) Error() string {
	return fmt.Sprintf("youtube: %s returned status %d: %s", e.Operation, e.StatusCode, e.Body)
}

// NeedsReauth reports whether err indicates an expired or missing host
// token, so the API layer can signal the frontend to re-authorize.
func NeedsReauth(err error) bool {
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	var hostErr *HostAPIError
	if errors.As(err, &hostErr) {
		return hostErr.StatusCode == 401
	}
	return false
}
