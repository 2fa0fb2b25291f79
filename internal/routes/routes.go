package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/smartq/internal/audit"
	"github.com/BruksfildServices01/smartq/internal/config"
	"github.com/BruksfildServices01/smartq/internal/handlers"
	infraRepo "github.com/BruksfildServices01/smartq/internal/infra/repository"
	"github.com/BruksfildServices01/smartq/internal/middleware"
	"github.com/BruksfildServices01/smartq/internal/notify"
	ucAnalytics "github.com/BruksfildServices01/smartq/internal/usecase/analytics"
	ucTicket "github.com/BruksfildServices01/smartq/internal/usecase/ticket"
)

// Deps are the process-wide collaborators built in main.
type Deps struct {
	Redis    *redis.Client
	Notifier notify.Notifier
	Audit    *audit.Dispatcher
	Snapshot *ucAnalytics.TakeSnapshot
}

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, deps Deps) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestID())
	r.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins))

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	ticketRepo := infraRepo.NewTicketGormRepository(db)
	analyticsRepo := infraRepo.NewAnalyticsGormRepository(db)

	// ======================================================
	// 🧠 USE CASES - TICKETS
	// ======================================================
	enqueueUC := ucTicket.NewEnqueueTicket(ticketRepo, deps.Notifier, deps.Audit, cfg.Timezone)
	ticketStatusUC := ucTicket.NewGetTicketStatus(ticketRepo)
	nowServingUC := ucTicket.NewGetNowServing(ticketRepo)

	staffServiceUC := ucTicket.NewGetStaffService(ticketRepo)
	staffQueueUC := ucTicket.NewGetStaffQueue(ticketRepo)
	callNextUC := ucTicket.NewCallNextTicket(ticketRepo, deps.Audit, cfg.Timezone)
	completeUC := ucTicket.NewCompleteTicket(ticketRepo, deps.Audit, cfg.Timezone)
	skipUC := ucTicket.NewSkipTicket(ticketRepo, deps.Audit, cfg.Timezone)
	staffStatsUC := ucTicket.NewGetStaffStats(ticketRepo, cfg.Timezone)

	// ======================================================
	// 🧠 USE CASES - ANALYTICS
	// ======================================================
	overviewUC := ucAnalytics.NewGetOverview(analyticsRepo, cfg.Timezone)
	breakdownUC := ucAnalytics.NewListServiceBreakdown(analyticsRepo, cfg.Timezone)
	listSnapshotsUC := ucAnalytics.NewListSnapshots(analyticsRepo)

	snapshotUC := deps.Snapshot
	if snapshotUC == nil {
		snapshotUC = ucAnalytics.NewTakeSnapshot(analyticsRepo, nil, cfg.S3Prefix, cfg.Timezone)
	}

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg, deps.Audit)
	meHandler := handlers.NewMeHandler(db)

	clientHandler := handlers.NewClientHandler(db, enqueueUC, ticketStatusUC, nowServingUC)

	staffHandler := handlers.NewStaffHandler(
		staffServiceUC,
		staffQueueUC,
		callNextUC,
		completeUC,
		skipUC,
		staffStatsUC,
	)

	organizationHandler := handlers.NewOrganizationHandler(db, deps.Audit)
	serviceHandler := handlers.NewServiceHandler(db, deps.Audit)
	providerHandler := handlers.NewProviderHandler(db, deps.Audit)
	adminUserHandler := handlers.NewAdminUserHandler(db, deps.Audit)

	analyticsHandler := handlers.NewAnalyticsHandler(
		overviewUC,
		breakdownUC,
		snapshotUC,
		listSnapshotsUC,
		deps.Audit,
		cfg.Timezone,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(db, cfg.Timezone)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/login", middleware.RateLimit(cfg, deps.Redis, "login"), authHandler.Login)

		// ------------------------------
		// 🌐 CLIENT (PUBLIC)
		// ------------------------------
		client := api.Group("/client")
		{
			client.GET("/organizations", clientHandler.ListOrganizations)
			client.GET("/organizations/:id/services", clientHandler.ListServices)

			client.POST("/tickets", middleware.RateLimit(cfg, deps.Redis, "enqueue"), clientHandler.CreateTicket)
			client.GET("/tickets/:queue_number", clientHandler.GetTicket)

			client.GET("/services/:id/now-serving", clientHandler.NowServing)
		}

		// ------------------------------
		// 🔐 AUTHENTICATED
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			// ------------------------------
			// STAFF
			// ------------------------------
			staff := secured.Group("/staff")
			{
				staff.GET("/service", staffHandler.GetService)
				staff.GET("/queue", staffHandler.GetQueue)
				staff.POST("/call-next", staffHandler.CallNext)
				staff.POST("/tickets/:id/complete", staffHandler.Complete)
				staff.POST("/tickets/:id/skip", staffHandler.Skip)
				staff.GET("/stats", staffHandler.Stats)
			}

			// ------------------------------
			// ADMIN
			// ------------------------------
			admin := secured.Group("/admin")
			{
				admin.GET("/organizations", organizationHandler.List)
				admin.POST("/organizations", organizationHandler.Create)
				admin.GET("/organizations/:id", organizationHandler.Get)
				admin.PUT("/organizations/:id", organizationHandler.Update)
				admin.DELETE("/organizations/:id", organizationHandler.Delete)

				admin.GET("/services", serviceHandler.List)
				admin.POST("/services", serviceHandler.Create)
				admin.GET("/services/:id", serviceHandler.Get)
				admin.PUT("/services/:id", serviceHandler.Update)
				admin.DELETE("/services/:id", serviceHandler.Delete)

				admin.GET("/providers", providerHandler.List)
				admin.POST("/providers", providerHandler.Create)
				admin.GET("/providers/:id", providerHandler.Get)
				admin.PUT("/providers/:id", providerHandler.Update)
				admin.DELETE("/providers/:id", providerHandler.Delete)

				admin.GET("/admins", adminUserHandler.List)
				admin.POST("/admins", adminUserHandler.Create)
				admin.DELETE("/admins/:id", adminUserHandler.Delete)

				admin.GET("/analytics/overview", analyticsHandler.Overview)
				admin.GET("/analytics/services", analyticsHandler.Services)
				admin.GET("/analytics/snapshots", analyticsHandler.ListSnapshots)
				admin.POST("/analytics/snapshots", analyticsHandler.TakeSnapshot)

				admin.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}
}
