package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"studyshare/internal/auth"
	"studyshare/internal/config"
	"studyshare/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	userLoader auth.UserLoader,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	bookHandler *handler.BookHandler,
	materialHandler *handler.MaterialHandler,
	announcementHandler *handler.AnnouncementHandler,
	bookRequestHandler *handler.BookRequestHandler,
	fileHandler *handler.FileHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.GET("/books", bookHandler.List)
	api.GET("/materials", materialHandler.List)
	api.GET("/materials/stats", materialHandler.Stats)
	api.GET("/announcements", announcementHandler.List)

	// Secured routes (require JWT authentication)
	jwtMiddleware := echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(cfg.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	})
	secured := api.Group("", jwtMiddleware, auth.LoadUser(userLoader))

	secured.GET("/auth/me", authHandler.Me)
	secured.POST("/auth/logout", authHandler.Logout)

	// Material routes
	secured.POST("/materials", materialHandler.Upload)
	secured.PUT("/materials/:id", materialHandler.Update)
	secured.PATCH("/materials/:id", materialHandler.Update)
	secured.DELETE("/materials/:id", materialHandler.Delete)

	// Book request routes
	secured.POST("/book-requests", bookRequestHandler.Submit)
	secured.GET("/book-requests", bookRequestHandler.List)

	// Stored payloads
	e.GET("/uploads/:filename", fileHandler.Serve, jwtMiddleware, auth.LoadUser(userLoader))

	// Admin routes
	secured.POST("/books", bookHandler.Create, auth.RequireAdmin("create a book"))
	secured.PUT("/books/:id", bookHandler.Update, auth.RequireAdmin("update a book"))
	secured.DELETE("/books/:id", bookHandler.Delete, auth.RequireAdmin("delete a book"))
	secured.POST("/announcements", announcementHandler.Create, auth.RequireAdmin("create an announcement"))
	secured.PUT("/announcements/:id", announcementHandler.Update, auth.RequireAdmin("update an announcement"))
	secured.DELETE("/announcements/:id", announcementHandler.Delete, auth.RequireAdmin("delete an announcement"))
	secured.GET("/users", userHandler.List, auth.RequireAdmin("list users"))
	secured.PUT("/users/:id/role", userHandler.ChangeRole, auth.RequireAdmin("change a user's role"))
	secured.PUT("/users/:id/active", userHandler.SetActive, auth.RequireAdmin("activate or deactivate a user"))
	secured.PUT("/book-requests/:id", bookRequestHandler.Review, auth.RequireAdmin("review a book request"))
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
