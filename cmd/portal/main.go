package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ventanilla/pqrsd-portal/internal/api"
	"github.com/ventanilla/pqrsd-portal/internal/core/service"
	"github.com/ventanilla/pqrsd-portal/internal/infrastructure/authclient"
	"github.com/ventanilla/pqrsd-portal/internal/infrastructure/config"
	mongodb "github.com/ventanilla/pqrsd-portal/internal/infrastructure/db/mongo"
	redisdb "github.com/ventanilla/pqrsd-portal/internal/infrastructure/db/redis"
	"github.com/ventanilla/pqrsd-portal/internal/infrastructure/petitionstore"
	"github.com/ventanilla/pqrsd-portal/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bootLog := logger.Init(logger.Options{Level: os.Getenv("LOG_LEVEL"), Pretty: os.Getenv("ENV") == "development"})
	cfg := config.Load(bootLog)
	log := logger.Get()

	mongoClient, db, err := mongodb.Connect(ctx, cfg.Mongo)
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	// Collaborator clients.
	auth := authclient.New(cfg.Auth.BaseURL, cfg.Auth.Timeout, log)
	store := petitionstore.New(cfg.Store.BaseURL, cfg.Store.Timeout, log)

	// Core services.
	sessions := service.NewSessionManager(auth, cfg.SessionRenewInterval, log)
	defer sessions.Close()

	machine := service.NewStateMachine(log)
	guard := redisdb.NewDecisionGuard(rdb)
	decisions := mongodb.NewDecisionRepository(db)
	approvals := service.NewApprovalWorkflow(machine, store, guard, decisions, log)
	petitions := service.NewPetitionService(store, log)

	e := api.NewRouter(api.Dependencies{
		Sessions:  sessions,
		Approvals: approvals,
		Petitions: petitions,
		Mongo:     db,
		Redis:     rdb,
		Log:       log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("portal listening")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
