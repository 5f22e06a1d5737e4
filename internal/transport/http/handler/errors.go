package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/art-marketplace/internal/domain"
	"github.com/gin-gonic/gin"
)

const (
	errInternalServer     = "Internal server error"
	errUnauthorized       = "Unauthorized. Please login first."
	errForbidden          = "You are not the owner of this listing"
	errInvalidCredentials = "Invalid email or password"
	errEmailTaken         = "An account with this email already exists"
	errListingNotFound    = "Listing not found"
	errIdentityNotFound   = "Account not found"
	errUpstream           = "Upstream service unavailable, try again later"
)

// writeError maps a use case error onto the response. Only unexpected
// errors are logged at error level; the client sees a constant message.
func writeError(c *gin.Context, logger *slog.Logger, op string, err error) {
	ctx := c.Request.Context()

	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.Is(err, domain.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": errEmailTaken})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": errInvalidCredentials})
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrTokenInvalid):
		c.JSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": errForbidden})
	case errors.Is(err, domain.ErrListingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errListingNotFound})
	case errors.Is(err, domain.ErrIdentityNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errIdentityNotFound})
	case errors.Is(err, domain.ErrUpstream):
		logger.WarnContext(ctx, op, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": errUpstream})
	default:
		logger.ErrorContext(ctx, op, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
	}
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
