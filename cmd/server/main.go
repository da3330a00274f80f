package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/ShowSysDan/ShowAdvance/internal/config"
	"github.com/ShowSysDan/ShowAdvance/internal/database"
	"github.com/ShowSysDan/ShowAdvance/internal/handler"
	"github.com/ShowSysDan/ShowAdvance/internal/middleware"
	"github.com/ShowSysDan/ShowAdvance/internal/model"
	"github.com/ShowSysDan/ShowAdvance/internal/queue"
	"github.com/ShowSysDan/ShowAdvance/internal/repository"
	"github.com/ShowSysDan/ShowAdvance/internal/router"
	"github.com/ShowSysDan/ShowAdvance/internal/utils"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments use the environment

	cfg := config.Load()

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	userRepo := repository.NewUserRepo(db)
	accessRepo := repository.NewAccessRepo(db)
	showRepo := repository.NewShowRepo(db)
	historyRepo := repository.NewHistoryRepo(db)
	formRepo := repository.NewFormRepo(db, historyRepo)
	presenceRepo := repository.NewPresenceRepo(db)
	groupRepo := repository.NewGroupRepo(db)
	contactRepo := repository.NewContactRepo(db)
	commentRepo := repository.NewCommentRepo(db)
	attachmentRepo := repository.NewAttachmentRepo(db)
	exportRepo := repository.NewExportRepo(db)
	settingsRepo := repository.NewSettingsRepo(db)

	if err := ensureAdminUser(ctx, userRepo, cfg.BcryptCost); err != nil {
		log.Fatalf("bootstrap admin user: %v", err)
	}

	rdb := config.NewRedisClient()
	pollLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	contactCache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	authHandler := handler.NewAuthHandler(userRepo, accessRepo, cfg.JWTSecret, cfg.AccessTTLMin, cfg.BcryptCost)
	showHandler := handler.NewShowHandler(showRepo, accessRepo, formRepo, exportRepo, contactRepo, cfg.DefaultVenue)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterShows(e, router.ShowHandlers{
		Shows:       showHandler,
		Forms:       handler.NewFormHandler(showRepo, accessRepo, formRepo),
		History:     handler.NewHistoryHandler(showRepo, accessRepo, historyRepo, formRepo),
		Presence:    handler.NewPresenceHandler(showRepo, accessRepo, formRepo, presenceRepo),
		Comments:    handler.NewCommentHandler(showRepo, accessRepo, commentRepo),
		Attachments: handler.NewAttachmentHandler(showRepo, accessRepo, attachmentRepo),
		Exports:     handler.NewExportHandler(showRepo, accessRepo, exportRepo, userRepo),
		Contacts:    handler.NewContactHandler(contactRepo),
	}, cfg.JWTSecret, pollLimit, contactCache)
	router.RegisterAdmin(e, showHandler,
		handler.NewAdminUserHandler(userRepo, cfg.BcryptCost),
		handler.NewAdminGroupHandler(groupRepo),
		handler.NewAdminSettingsHandler(settingsRepo),
		cfg.JWTSecret)

	// Export journaling consumer; runs its own reconnect loop.
	go func() {
		if err := queue.StartExportConsumer(); err != nil {
			log.Printf("export consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// ensureAdminUser creates the initial admin account (username "admin",
// password "changeme") when the users table is empty, so a fresh install
// can be logged into at all.
func ensureAdminUser(ctx context.Context, users *repository.UserRepo, bcryptCost int) error {
	_, err := users.GetByUsername(ctx, "admin")
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}
	hash, err := utils.HashPassword("changeme", bcryptCost)
	if err != nil {
		return err
	}
	u := &model.User{
		Username:     "admin",
		PasswordHash: hash,
		DisplayName:  "Administrator",
		Role:         model.RoleAdmin,
	}
	if err := users.Create(ctx, u); err != nil {
		return err
	}
	log.Printf("created initial admin user (password must be changed)")
	return nil
}
