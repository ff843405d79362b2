package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/evgeniy-krivenko/notes-web/internal/api"
	"github.com/evgeniy-krivenko/notes-web/internal/config"
	"github.com/evgeniy-krivenko/notes-web/internal/filestore"
	"github.com/evgeniy-krivenko/notes-web/internal/repository"
	attachmentsuc "github.com/evgeniy-krivenko/notes-web/internal/usecase/attachments"
	authuc "github.com/evgeniy-krivenko/notes-web/internal/usecase/auth"
	connectionsuc "github.com/evgeniy-krivenko/notes-web/internal/usecase/connections"
	notesuc "github.com/evgeniy-krivenko/notes-web/internal/usecase/notes"
	"github.com/evgeniy-krivenko/notes-web/migrations"
	"github.com/evgeniy-krivenko/notes-web/pkg/authtoken"
	"github.com/evgeniy-krivenko/notes-web/pkg/database"
	"github.com/evgeniy-krivenko/notes-web/pkg/httpserver"
	"github.com/evgeniy-krivenko/notes-web/pkg/logger/slogx"
	"github.com/evgeniy-krivenko/notes-web/pkg/metrics"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("run app: %v", err)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Parse()
	if err != nil {
		return fmt.Errorf("parse cfg: %v", err)
	}

	if err := slogx.InitGlobal(os.Stdout, cfg.App.LogLevel, cfg.App.Pretty); err != nil {
		return fmt.Errorf("init logger: %v", err)
	}

	pool, err := database.NewPGX(ctx, database.NewOptions(
		net.JoinHostPort(cfg.Database.Host, cfg.Database.Port),
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		database.WithLogger(slogx.Default()),
	))
	if err != nil {
		return fmt.Errorf("connect to database: %v", err)
	}

	if err := migrations.Up(ctx, pool); err != nil {
		return fmt.Errorf("apply migrations: %v", err)
	}

	db := database.NewDatabase(pool)
	defer db.Close()

	repo := repository.New(db)

	files, err := filestore.New(cfg.Storage.UploadsDir)
	if err != nil {
		return fmt.Errorf("init file store: %v", err)
	}

	issuer, err := authtoken.New(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("init token issuer: %v", err)
	}

	authUC, err := authuc.New(authuc.NewOptions(repo, issuer))
	if err != nil {
		return fmt.Errorf("init auth usecase: %v", err)
	}

	notesUC, err := notesuc.New(notesuc.NewOptions(repo, db, files))
	if err != nil {
		return fmt.Errorf("init notes usecase: %v", err)
	}

	connectionsUC, err := connectionsuc.New(connectionsuc.NewOptions(repo, repo))
	if err != nil {
		return fmt.Errorf("init connections usecase: %v", err)
	}

	attachmentsUC, err := attachmentsuc.New(attachmentsuc.NewOptions(repo, repo, files))
	if err != nil {
		return fmt.Errorf("init attachments usecase: %v", err)
	}

	handlers, err := api.New(api.NewOptions(authUC, notesUC, connectionsUC, attachmentsUC, issuer, db))
	if err != nil {
		return fmt.Errorf("init api handlers: %v", err)
	}

	mux := handlers.Mux()
	m := metrics.New("server")

	srv, err := httpserver.New(httpserver.NewOptions(
		cfg.HTTP.Addr,
		mux,
		httpserver.WithMiddlewares(
			slogx.LoggingMiddleware,
			m.Middleware(mux),
		),
		httpserver.WithLogger(slogx.Default()),
	))
	if err != nil {
		return fmt.Errorf("init http server: %v", err)
	}

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error { return srv.Run(ctx) })

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("wait app stop: %v", err)
	}

	return nil
}
