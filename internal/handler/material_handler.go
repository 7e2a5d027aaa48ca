package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"studyshare/internal/auth"
	"studyshare/internal/errors"
	"studyshare/internal/model"
	"studyshare/internal/service"
)

// MaterialHandler handles material endpoints.
type MaterialHandler struct {
	materialService service.MaterialService
}

// NewMaterialHandler creates a new material handler.
func NewMaterialHandler(materialService service.MaterialService) *MaterialHandler {
	return &MaterialHandler{materialService: materialService}
}

// UpdateMaterialRequest represents a partial material update. Status may only
// be set by admins and follows the review transition rules.
type UpdateMaterialRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Tags        []string `json:"tags"`
	Status      *string  `json:"status"`
}

// List godoc
// @Summary List or search materials, newest first
// @Tags materials
// @Produce json
// @Param bookId query string false "Filter by book"
// @Param status query string false "Filter by status (pending, approved, rejected)"
// @Param search query string false "Case-insensitive substring search; overrides the other filters"
// @Success 200 {array} model.MaterialView
// @Failure 400 {object} errors.ErrorResponse
// @Router /materials [get]
func (h *MaterialHandler) List(c echo.Context) error {
	filter := service.MaterialFilter{Search: strings.TrimSpace(c.QueryParam("search"))}

	if raw := c.QueryParam("bookId"); raw != "" {
		bookID, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid bookId")
		}
		filter.BookID = &bookID
	}
	if raw := c.QueryParam("status"); raw != "" {
		status := model.MaterialStatus(raw)
		if status != model.MaterialStatusPending && !status.Terminal() {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
		}
		filter.Status = &status
	}

	materials, err := h.materialService.List(c.Request().Context(), filter)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, materials)
}

// Stats godoc
// @Summary Aggregate material counts
// @Tags materials
// @Produce json
// @Success 200 {object} model.MaterialStats
// @Router /materials/stats [get]
func (h *MaterialHandler) Stats(c echo.Context) error {
	stats, err := h.materialService.Stats(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, stats)
}

// Upload godoc
// @Summary Upload a material for moderation
// @Tags materials
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param bookId formData string true "Owning book ID"
// @Param description formData string false "Description"
// @Param tags formData string false "Tags as a JSON array or comma separated"
// @Param file formData file true "Payload, at most 10 MiB"
// @Success 201 {object} model.Material
// @Failure 400 {object} errors.ErrorResponse
// @Failure 413 {object} errors.ErrorResponse
// @Failure 415 {object} errors.ErrorResponse
// @Router /materials [post]
func (h *MaterialHandler) Upload(c echo.Context) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		httpErr := errors.MapErrorToHTTP(errors.ErrUnauthenticated)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	bookID, err := uuid.Parse(c.FormValue("bookId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid bookId")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "no file uploaded")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable file upload")
	}
	defer file.Close()

	material, err := h.materialService.Upload(c.Request().Context(), service.UploadMaterialInput{
		Title:       title,
		Description: c.FormValue("description"),
		Tags:        parseTags(c.FormValue("tags")),
		BookID:      bookID,
		FileName:    fileHeader.Filename,
		FileType:    fileHeader.Header.Get("Content-Type"),
		FileSize:    fileHeader.Size,
	}, file, user)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, material)
}

// Update godoc
// @Summary Update a material
// @Tags materials
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Material ID"
// @Param request body UpdateMaterialRequest true "Fields to update"
// @Success 200 {object} model.Material
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /materials/{id} [put]
func (h *MaterialHandler) Update(c echo.Context) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		httpErr := errors.MapErrorToHTTP(errors.ErrUnauthenticated)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid material id")
	}

	var req UpdateMaterialRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	input := service.UpdateMaterialInput{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
	}
	if req.Status != nil {
		status := model.MaterialStatus(*req.Status)
		input.Status = &status
	}

	material, err := h.materialService.Update(c.Request().Context(), id, input, user)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, material)
}

// Delete godoc
// @Summary Delete a material and its stored payload
// @Tags materials
// @Produce json
// @Security BearerAuth
// @Param id path string true "Material ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /materials/{id} [delete]
func (h *MaterialHandler) Delete(c echo.Context) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		httpErr := errors.MapErrorToHTTP(errors.ErrUnauthenticated)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid material id")
	}

	if err := h.materialService.Delete(c.Request().Context(), id, user); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "material deleted successfully"})
}

// parseTags accepts either a JSON array or a comma separated list, matching
// what upload forms actually send.
func parseTags(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err == nil {
		return tags
	}
	return strings.Split(raw, ",")
}
