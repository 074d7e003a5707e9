package httpapp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/chenzabatani-spec/web-app-assignment2/internal/domain/models"
	appjwt "github.com/chenzabatani-spec/web-app-assignment2/internal/lib/jwt"
	mw "github.com/chenzabatani-spec/web-app-assignment2/internal/middleware"
	httprouters "github.com/chenzabatani-spec/web-app-assignment2/internal/transport/http"
	"github.com/chenzabatani-spec/web-app-assignment2/internal/transport/http/crud"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

type Server struct {
	log      *slog.Logger
	e        *echo.Echo
	routers  *httprouters.Routers
	posts    *crud.Handler[models.Post]
	comments *crud.Handler[models.Comment]
	tokens   *appjwt.Manager
	host     string
	port     string
}

func New(log *slog.Logger, tokens *appjwt.Manager, host, port string, routers *httprouters.Routers, posts *crud.Handler[models.Post], comments *crud.Handler[models.Comment]) *Server {
	e := echo.New()
	e.HideBanner = true

	validate := validator.New()
	e.Validator = &CustomValidator{validator: validate}

	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(mw.PrometheusMetrics)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("URI", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote ip", v.RemoteIP),
			)

			return nil
		},
	}))

	return &Server{
		log:      log,
		e:        e,
		routers:  routers,
		posts:    posts,
		comments: comments,
		tokens:   tokens,
		host:     host,
		port:     port,
	}
}

// Handler exposes the assembled routes, mainly for httptest servers.
func (s *Server) Handler() http.Handler {
	return s.e
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info(op, slog.String("Start", "server"))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	if err := s.e.Start(fmt.Sprintf(":%s", s.port)); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop() error {
	const op = "http.Server.Stop"

	optCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	s.log.Info("stopping", op, "http server")

	if err := s.e.Shutdown(optCtx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}

func (s *Server) BuildRouters() {
	authGate := mw.Auth(s.tokens)

	s.e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	auth := s.e.Group("/auth")
	{
		auth.POST("/register", s.routers.Register)
		auth.POST("/login", s.routers.Login)
		auth.POST("/refresh", s.routers.Refresh)
		auth.POST("/logout", s.routers.Logout)
		auth.PUT("/change-password", s.routers.ChangePassword, authGate)
	}

	// reads are public, mutations require an identity for ownership checks
	posts := s.e.Group("/posts")
	{
		posts.GET("", s.posts.List)
		posts.GET("/:id", s.posts.GetByID)
		posts.POST("", s.posts.Create, authGate)
		posts.PUT("/:id", s.posts.Update, authGate)
		posts.DELETE("/:id", s.posts.Delete, authGate)
	}

	comments := s.e.Group("/comments")
	{
		comments.GET("", s.comments.List)
		comments.GET("/:id", s.comments.GetByID)
		comments.POST("", s.comments.Create, authGate)
		comments.PUT("/:id", s.comments.Update, authGate)
		comments.DELETE("/:id", s.comments.Delete, authGate)
	}

	users := s.e.Group("/users", authGate)
	{
		users.GET("", s.routers.ListUsers)
		users.GET("/:id", s.routers.GetUser)
		users.POST("", s.routers.CreateUser)
		users.PUT("/:id", s.routers.UpdateUser)
		users.DELETE("/:id", s.routers.DeleteUser)
	}
}
