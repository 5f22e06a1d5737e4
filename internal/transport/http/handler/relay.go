package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/ErlanBelekov/art-marketplace/internal/domain"
	"github.com/gin-gonic/gin"
)

type relayUsecaser interface {
	UploadImage(ctx context.Context, filename string, r io.Reader) (string, error)
	Map(ctx context.Context, listingID string) (*domain.GeoPoint, error)
}

type RelayHandler struct {
	relayUsecase   relayUsecaser
	maxUploadBytes int64
	logger         *slog.Logger
}

func NewRelayHandler(relayUsecase relayUsecaser, maxUploadBytes int64, logger *slog.Logger) *RelayHandler {
	return &RelayHandler{
		relayUsecase:   relayUsecase,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With("component", "relay_handler"),
	}
}

// POST /artist/upload (multipart field "file")
func (h *RelayHandler) Upload(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(c, h.logger, "upload image", domain.NewValidationError("file", fmt.Sprintf("exceeds %d bytes", tooLarge.Limit)))
			return
		}
		// Missing field, or a body that is not multipart at all.
		writeError(c, h.logger, "upload image", domain.NewValidationError("file", "No file"))
		return
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	url, err := h.relayUsecase.UploadImage(c.Request.Context(), header.Filename, file)
	if err != nil {
		writeError(c, h.logger, "upload image", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// GET /artist/map/:id
func (h *RelayHandler) Map(c *gin.Context) {
	point, err := h.relayUsecase.Map(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, "map listing", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"lat": point.Lat, "lon": point.Lon, "mapUrl": point.MapURL})
}
