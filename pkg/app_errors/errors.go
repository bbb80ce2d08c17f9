package apperrors

import "errors"

// 對外回報的錯誤分類。每個公開操作都以這些 sentinel error 終止，
// 不做內部重試；handler 層用 errors.Is 轉換成 HTTP 狀態碼。
var (
	ErrAlreadyInitialized      = errors.New("platform already initialized")
	ErrUnauthorized            = errors.New("unauthorized")
	ErrEmptyString             = errors.New("empty string")
	ErrInvalidTimeRange        = errors.New("invalid time range")
	ErrInvalidAmount           = errors.New("invalid amount")
	ErrCapacityExceeded        = errors.New("capacity exceeded")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrEventSoldOut            = errors.New("event sold out")
	ErrInsufficientFunds       = errors.New("insufficient funds")
	ErrTicketAlreadyUsed       = errors.New("ticket already used")
	ErrEventNotCancelled       = errors.New("event not cancelled")
	ErrInvalidPlatformFee      = errors.New("invalid platform fee")
	ErrNoPlatformFees          = errors.New("no platform fees")
	ErrNotFound                = errors.New("not found")

	ErrInvalidInput        = errors.New("invalid input")
	ErrInternalServerError = errors.New("internal server error")
)
