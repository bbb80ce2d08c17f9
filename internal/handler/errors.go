package handler

import (
	"errors"
	"net/http"

	apperrors "go-ticket-marketplace/pkg/app_errors"
	"go-ticket-marketplace/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError 把錯誤分類轉成 HTTP 狀態碼
func respondError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		log.Warn("not found")
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUnauthorized):
		log.Warn("unauthorized")
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		log.Warn("insufficient funds")
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrEmptyString),
		errors.Is(err, apperrors.ErrInvalidTimeRange),
		errors.Is(err, apperrors.ErrInvalidAmount),
		errors.Is(err, apperrors.ErrCapacityExceeded),
		errors.Is(err, apperrors.ErrInvalidPlatformFee),
		errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrAlreadyInitialized),
		errors.Is(err, apperrors.ErrInvalidStatusTransition),
		errors.Is(err, apperrors.ErrEventSoldOut),
		errors.Is(err, apperrors.ErrTicketAlreadyUsed),
		errors.Is(err, apperrors.ErrEventNotCancelled),
		errors.Is(err, apperrors.ErrNoPlatformFees):
		log.Warn("conflict")
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Error("unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
