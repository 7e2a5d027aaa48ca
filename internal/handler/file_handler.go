package handler

import (
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	"studyshare/internal/errors"
	"studyshare/internal/service"
)

// FileHandler serves stored payloads back to authenticated callers.
type FileHandler struct {
	store service.FileStore
}

// NewFileHandler creates a new file handler.
func NewFileHandler(store service.FileStore) *FileHandler {
	return &FileHandler{store: store}
}

// Serve godoc
// @Summary Stream a stored payload byte for byte
// @Tags uploads
// @Produce octet-stream
// @Security BearerAuth
// @Param filename path string true "Stored file reference"
// @Success 200 {file} binary
// @Failure 404 {object} errors.ErrorResponse
// @Router /uploads/{filename} [get]
func (h *FileHandler) Serve(c echo.Context) error {
	path, err := h.store.Path(c.Param("filename"))
	if err != nil {
		if os.IsNotExist(err) {
			httpErr := errors.MapErrorToHTTP(errors.NotFound("file"))
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
		return echo.NewHTTPError(http.StatusBadRequest, "invalid file reference")
	}
	return c.File(path)
}
