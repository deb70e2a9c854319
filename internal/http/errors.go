package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vivesbank/internal/bank"
	"vivesbank/internal/currency"
	"vivesbank/internal/storage"
)

var statusByKind = map[bank.Kind]int{
	bank.KindAccountNotFound:    http.StatusNotFound,
	bank.KindMovementNotFound:   http.StatusNotFound,
	bank.KindClientNotFound:     http.StatusNotFound,
	bank.KindCreditCardNotFound: http.StatusNotFound,
	bank.KindUserNotFound:       http.StatusNotFound,
	bank.KindProductNotFound:    http.StatusNotFound,

	bank.KindInsufficientFunds:           http.StatusConflict,
	bank.KindMovementIrreversible:        http.StatusConflict,
	bank.KindAccountAlreadyHasCreditCard: http.StatusConflict,
	bank.KindCreditCardAlreadyLinked:     http.StatusConflict,
	bank.KindAccountHasCreditCard:        http.StatusConflict,
	bank.KindDuplicateCardNumber:         http.StatusConflict,
	bank.KindClientExists:                http.StatusConflict,
	bank.KindUserExists:                  http.StatusConflict,
	bank.KindProductExists:               http.StatusConflict,

	bank.KindInvalidAmount:      http.StatusBadRequest,
	bank.KindInvalidMovement:    http.StatusBadRequest,
	bank.KindInvalidCreditCard:  http.StatusBadRequest,
	bank.KindInvalidRequest:     http.StatusBadRequest,
	bank.KindInvalidCredentials: http.StatusUnauthorized,
	bank.KindForbidden:          http.StatusForbidden,
}

func statusOf(kind bank.Kind) int {
	if s, ok := statusByKind[kind]; ok {
		return s
	}
	return http.StatusBadRequest
}

// fail writes err as {"error", "message"}. Anything that is not a domain
// error is logged and hidden behind a 500.
func (s *Server) fail(c *gin.Context, err error) {
	if kind, ok := bank.KindOf(err); ok {
		c.AbortWithStatusJSON(statusOf(kind), gin.H{"error": kind, "message": err.Error()})
		return
	}
	switch {
	case errors.Is(err, storage.ErrTooLarge):
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file_too_large", "message": err.Error()})
		return
	case errors.Is(err, storage.ErrUnsupportedType):
		c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, gin.H{"error": "unsupported_file_type", "message": err.Error()})
		return
	case errors.Is(err, currency.ErrInvalidAmount):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": bank.KindInvalidAmount, "message": err.Error()})
		return
	}
	s.log.Error("request failed",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"request_id", c.GetString(requestIDKey),
		"err", err,
	)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": bank.KindInvalidRequest, "message": msg})
}
