package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"

	"pet-adoption-marketplace/internal/adapters/auth/jwtauth"
	"pet-adoption-marketplace/internal/adapters/auth/remote"
	"pet-adoption-marketplace/internal/adapters/blob/gridfs"
	"pet-adoption-marketplace/internal/adapters/blob/local"
	mem "pet-adoption-marketplace/internal/adapters/storage/memory"
	mg "pet-adoption-marketplace/internal/adapters/storage/mongo"
	pg "pet-adoption-marketplace/internal/adapters/storage/postgres"
	"pet-adoption-marketplace/internal/adapters/storage/sqlite"
	"pet-adoption-marketplace/internal/config"
	"pet-adoption-marketplace/internal/domain/listings"
	"pet-adoption-marketplace/internal/domain/users"
	"pet-adoption-marketplace/internal/platform/logger"
	"pet-adoption-marketplace/internal/ports/auth"
	"pet-adoption-marketplace/internal/ports/blob"
	"pet-adoption-marketplace/internal/router"
)

// @title PetPal Adoption API
// @version 1.0
// @description Publicaciones de mascotas y solicitudes de adopción.
// @BasePath /
func main() {
	// .env es opcional (dev local).
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("PETPAL_CONFIG"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.App.Name,
	})
	if sl, ok := log.(*logger.SlogLogger); ok {
		slog.SetDefault(sl.Slog())
	}

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var mongoDB *mongo.Database
	if cfg.UsesMongo() {
		client, err := mg.Connect(ctx, cfg.Mongo.URI)
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		mongoDB = client.Database(cfg.Mongo.Database)
	}

	listingRepo, closeListings, err := openListings(ctx, cfg, mongoDB)
	if err != nil {
		return err
	}
	defer closeListings()

	userRepo, err := openUsers(cfg, mongoDB)
	if err != nil {
		return err
	}

	blobs, err := openBlobs(cfg, mongoDB)
	if err != nil {
		return err
	}

	verifier, issuer, err := openAuth(cfg)
	if err != nil {
		return err
	}

	handler, svcs := router.New(router.Options{
		AuthVerifier: verifier,
		Issuer:       issuer,
		Listings:     listingRepo,
		Users:        userRepo,
		Blobs:        blobs,
		Logger:       log,
	})

	if cfg.Auth.AdminEmail != "" {
		if err := svcs.Users.EnsureAdmin(ctx, users.RegisterInput{
			Name:     cfg.Auth.AdminName,
			Email:    cfg.Auth.AdminEmail,
			Password: cfg.Auth.AdminPassword,
		}); err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
	}

	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{
			"addr":     srv.Addr,
			"listings": cfg.Storage.Listings,
			"users":    cfg.Storage.Users,
			"blob":     cfg.Blob.Driver,
			"auth":     cfg.Auth.Mode,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openListings(ctx context.Context, cfg *config.Config, db *mongo.Database) (listings.Repository, func(), error) {
	switch cfg.Storage.Listings {
	case "postgres":
		sqlDB, err := pg.Open(cfg.Postgres.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}
		migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := pg.Migrate(migrateCtx, sqlDB); err != nil {
			_ = sqlDB.Close()
			return nil, nil, err
		}
		return pg.NewListingsRepo(sqlDB), func() { _ = sqlDB.Close() }, nil
	case "mongo":
		repo := mg.NewListingsRepo(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return nil, nil, fmt.Errorf("mongo indexes: %w", err)
		}
		return repo, func() {}, nil
	default:
		return mem.NewListingRepo(), func() {}, nil
	}
}

func openUsers(cfg *config.Config, db *mongo.Database) (users.Repository, error) {
	switch cfg.Storage.Users {
	case "sqlite":
		gdb, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		return sqlite.NewUsersRepo(gdb), nil
	case "mongo":
		return mg.NewUsersRepo(db), nil
	default:
		return mem.NewUserRepo(), nil
	}
}

func openBlobs(cfg *config.Config, db *mongo.Database) (blob.Storage, error) {
	if cfg.Blob.Driver == "gridfs" {
		return gridfs.New(db)
	}
	return local.New(cfg.Blob.Dir)
}

// openAuth: en dev no hay verifier (headers de debug), pero si hay secreto se emiten tokens igual.
func openAuth(cfg *config.Config) (auth.AuthVerifier, auth.TokenIssuer, error) {
	var tokens *jwtauth.Service
	if cfg.Auth.JWTSecret != "" {
		s, err := jwtauth.New(jwtauth.Config{Secret: cfg.Auth.JWTSecret, TTL: cfg.Auth.TokenTTL})
		if err != nil {
			return nil, nil, err
		}
		tokens = s
	}

	var issuer auth.TokenIssuer
	if tokens != nil {
		issuer = tokens
	}

	switch cfg.Auth.Mode {
	case "jwt":
		return tokens, issuer, nil
	case "remote":
		v, err := remote.NewVerifier(remote.Config{BaseURL: cfg.Auth.RemoteURL, APIKey: cfg.Auth.RemoteAPIKey})
		if err != nil {
			return nil, nil, err
		}
		return v, issuer, nil
	default:
		return nil, issuer, nil
	}
}
