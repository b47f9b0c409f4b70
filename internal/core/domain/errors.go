package domain

import "errors"

var (
	ErrInvalidCode    = errors.New("invalid public code")
	ErrInvalidChatID  = errors.New("invalid chat id")
	ErrInvalidPayload = errors.New("invalid payload")
	ErrUnauthorized   = errors.New("owner key required")
	ErrForbidden      = errors.New("chat not allowed")
	ErrRateLimited    = errors.New("rate limit exceeded")
	ErrDeliveryFailed = errors.New("delivery failed")
	ErrMisconfigured  = errors.New("missing required configuration")
)

func IsRateLimitedError(err error) bool {
	return errors.Is(err, ErrRateLimited)
}
