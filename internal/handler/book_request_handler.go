package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"studyshare/internal/auth"
	"studyshare/internal/errors"
	"studyshare/internal/model"
	"studyshare/internal/service"
)

// BookRequestHandler handles book request endpoints.
type BookRequestHandler struct {
	requestService service.BookRequestService
}

// NewBookRequestHandler creates a new book request handler.
func NewBookRequestHandler(requestService service.BookRequestService) *BookRequestHandler {
	return &BookRequestHandler{requestService: requestService}
}

// SubmitBookRequestRequest represents a new book request.
type SubmitBookRequestRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

// ReviewBookRequestRequest represents an admin decision on a request.
type ReviewBookRequestRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

// Submit godoc
// @Summary Request a new book
// @Tags book-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SubmitBookRequestRequest true "Request data"
// @Success 201 {object} model.BookRequest
// @Failure 400 {object} errors.ErrorResponse
// @Router /book-requests [post]
func (h *BookRequestHandler) Submit(c echo.Context) error {
	var req SubmitBookRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, ok := auth.CurrentUser(c)
	if !ok {
		httpErr := errors.MapErrorToHTTP(errors.ErrUnauthenticated)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	request, err := h.requestService.Submit(c.Request().Context(), service.SubmitBookRequestInput{
		Title:       req.Title,
		Description: req.Description,
	}, user)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, request)
}

// List godoc
// @Summary List book requests
// @Description Admins see every request; other users see only their own.
// @Tags book-requests
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.BookRequest
// @Router /book-requests [get]
func (h *BookRequestHandler) List(c echo.Context) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		httpErr := errors.MapErrorToHTTP(errors.ErrUnauthenticated)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	requests, err := h.requestService.List(c.Request().Context(), user)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, requests)
}

// Review godoc
// @Summary Approve or reject a book request
// @Description Approval creates the requested book in the same transaction.
// @Tags book-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param request body ReviewBookRequestRequest true "Decision"
// @Success 200 {object} model.BookRequest
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /book-requests/{id} [put]
func (h *BookRequestHandler) Review(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request id")
	}

	var req ReviewBookRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, ok := auth.CurrentUser(c)
	if !ok {
		httpErr := errors.MapErrorToHTTP(errors.ErrUnauthenticated)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	request, err := h.requestService.Review(c.Request().Context(), id, model.RequestStatus(req.Status), user)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, request)
}
