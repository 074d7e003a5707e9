package app

import (
	"context"
	"log/slog"

	httpapp "github.com/chenzabatani-spec/web-app-assignment2/internal/app/http"
	"github.com/chenzabatani-spec/web-app-assignment2/internal/config"
	"github.com/chenzabatani-spec/web-app-assignment2/internal/domain/models"
	appjwt "github.com/chenzabatani-spec/web-app-assignment2/internal/lib/jwt"
	"github.com/chenzabatani-spec/web-app-assignment2/internal/repository"
	"github.com/chenzabatani-spec/web-app-assignment2/internal/services/auth"
	usersvc "github.com/chenzabatani-spec/web-app-assignment2/internal/services/user_service"
	"github.com/chenzabatani-spec/web-app-assignment2/internal/storage"
	httprouters "github.com/chenzabatani-spec/web-app-assignment2/internal/transport/http"
	"github.com/chenzabatani-spec/web-app-assignment2/internal/transport/http/crud"

	"github.com/google/uuid"
)

type App struct {
	HTTPServer *httpapp.Server
	Repo       *repository.Repository
}

func New(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	repo, err := repository.NewRepository(ctx, cfg.DSN)
	if err != nil {
		return nil, err
	}

	tokens := appjwt.NewManager(
		cfg.Token.AccessSecret,
		cfg.Token.RefreshSecret,
		cfg.Token.AccessTTL,
		cfg.Token.RefreshTTL,
	)

	authService := auth.New(log, repo.User, tokens)
	userService := usersvc.NewUserService(log, repo.User)

	routers := httprouters.NewRouter(log, authService, userService)

	posts := crud.NewHandler(crud.Config[models.Post]{
		Log:  log,
		Name: "post",
		Repo: repo.Post,
		Owner: func(p models.Post) uuid.UUID {
			return p.Sender
		},
		SetOwner: func(p *models.Post, owner uuid.UUID) {
			p.Sender = owner
		},
		Filters:  map[string]string{"sender": "sender_id"},
		NotFound: storage.ErrPostNotFound,
	})

	comments := crud.NewHandler(crud.Config[models.Comment]{
		Log:  log,
		Name: "comment",
		Repo: repo.Comment,
		Owner: func(c models.Comment) uuid.UUID {
			return c.Sender
		},
		SetOwner: func(c *models.Comment, owner uuid.UUID) {
			c.Sender = owner
		},
		Filters:  map[string]string{"postId": "post_id", "sender": "sender_id"},
		NotFound: storage.ErrCommentNotFound,
	})

	server := httpapp.New(log, tokens, cfg.HTTP.Host, cfg.HTTP.Port, routers, posts, comments)

	return &App{
		HTTPServer: server,
		Repo:       repo,
	}, nil
}
