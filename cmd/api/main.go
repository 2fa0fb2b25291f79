package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/BruksfildServices01/smartq/internal/archive"
	"github.com/BruksfildServices01/smartq/internal/audit"
	"github.com/BruksfildServices01/smartq/internal/config"
	dbpkg "github.com/BruksfildServices01/smartq/internal/db"
	infraRepo "github.com/BruksfildServices01/smartq/internal/infra/repository"
	"github.com/BruksfildServices01/smartq/internal/notify"
	"github.com/BruksfildServices01/smartq/internal/routes"
	"github.com/BruksfildServices01/smartq/internal/telemetry"
	ucAnalytics "github.com/BruksfildServices01/smartq/internal/usecase/analytics"
)

const serviceName = "smartq-api"

func main() {

	cfg := config.Load()

	shutdownTelemetry := telemetry.Setup(cfg, serviceName)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTelemetry(ctx)
	}()

	db := dbpkg.NewDB(cfg)

	rdb := config.NewRedisClient(cfg)
	if rdb != nil {
		defer rdb.Close()
	}

	notifier := notify.New(cfg)
	if closer, ok := notifier.(notify.Closer); ok {
		defer closer.Close()
	}

	auditDispatcher := audit.NewDispatcher(audit.New(db))
	defer auditDispatcher.Close()

	var archiver ucAnalytics.Archiver
	if a := archive.New(cfg); a != nil {
		archiver = a
	}
	snapshotUC := ucAnalytics.NewTakeSnapshot(
		infraRepo.NewAnalyticsGormRepository(db),
		archiver,
		cfg.S3Prefix,
		cfg.Timezone,
	)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, routes.Deps{
		Redis:    rdb,
		Notifier: notifier,
		Audit:    auditDispatcher,
		Snapshot: snapshotUC,
	})

	jobsCtx, stopJobs := context.WithCancel(context.Background())
	defer stopJobs()
	go snapshotUC.Run(jobsCtx, cfg.SnapshotInterval)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      otelhttp.NewHandler(r, serviceName),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server running on %s", cfg.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	stopJobs()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
