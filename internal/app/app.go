// Package app wires configuration, storage and the HTTP API into a runnable
// service.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/rubricware/rubrichub/internal/config"
	"github.com/rubricware/rubrichub/internal/db"
	adminapi "github.com/rubricware/rubrichub/internal/http/api/admin"
	"github.com/rubricware/rubrichub/internal/http/api/front"
	"github.com/rubricware/rubrichub/internal/logging"
	"github.com/rubricware/rubrichub/internal/sessions"
	"github.com/rubricware/rubrichub/internal/settings"
	"github.com/rubricware/rubrichub/internal/store"
)

// Migrate opens the database and runs schema migrations.
func Migrate(ctx context.Context, configPath string) error {
	cfg, errLoad := config.Load(configPath)
	if errLoad != nil {
		return errLoad
	}
	conn, errOpen := db.Open(cfg.Database.DSN)
	if errOpen != nil {
		return errOpen
	}
	return db.Migrate(conn)
}

// RunServer boots the API server and blocks until the context is cancelled.
func RunServer(ctx context.Context, configPath string) error {
	cfg, errLoad := config.Load(configPath)
	if errLoad != nil {
		return errLoad
	}
	if errLog := logging.Setup(cfg.Log); errLog != nil {
		return errLog
	}

	conn, errOpen := db.Open(cfg.Database.DSN)
	if errOpen != nil {
		return errOpen
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}
	if errSettings := settings.Refresh(ctx, conn); errSettings != nil {
		return errSettings
	}

	revoker := sessions.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer func() { _ = revoker.Close() }()
	if revoker.Enabled() {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		errPing := revoker.Ping(pingCtx)
		cancel()
		if errPing != nil {
			return errPing
		}
		log.Infof("session revocation backed by redis at %s", cfg.Redis.Addr)
	} else {
		log.Warn("redis not configured, logout will not revoke issued tokens")
	}

	st := store.New(conn)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogMiddleware())

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	front.RegisterFrontRoutes(engine, conn, st, cfg.JWT, revoker)
	adminapi.RegisterAdminRoutes(engine, conn, st, cfg.JWT, revoker)

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", cfg.Server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if errShutdown := server.Shutdown(shutdownCtx); errShutdown != nil {
			return errShutdown
		}
		return nil
	case errServe := <-errCh:
		if errors.Is(errServe, http.ErrServerClosed) {
			return nil
		}
		return errServe
	}
}

// requestLogMiddleware logs one line per request with method, path, status
// and latency.
func requestLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Info("request")
	}
}
