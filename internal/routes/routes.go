package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-queue/internal/audit"
	"github.com/BruksfildServices01/barber-queue/internal/config"
	"github.com/BruksfildServices01/barber-queue/internal/domain/directory"
	"github.com/BruksfildServices01/barber-queue/internal/domain/favorite"
	ledger "github.com/BruksfildServices01/barber-queue/internal/domain/session"
	"github.com/BruksfildServices01/barber-queue/internal/handlers"
	"github.com/BruksfildServices01/barber-queue/internal/lock"
	"github.com/BruksfildServices01/barber-queue/internal/logger"
	"github.com/BruksfildServices01/barber-queue/internal/metrics"
	"github.com/BruksfildServices01/barber-queue/internal/middleware"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	ucAppointment "github.com/BruksfildServices01/barber-queue/internal/usecase/appointment"
	ucQueue "github.com/BruksfildServices01/barber-queue/internal/usecase/queue"
	ucReview "github.com/BruksfildServices01/barber-queue/internal/usecase/review"
	ucStaff "github.com/BruksfildServices01/barber-queue/internal/usecase/staff"
)

// App reúne a infraestrutura já montada pelo main (ou pelos testes).
type App struct {
	DB     *gorm.DB
	Config *config.Config

	Sessions     ledger.Repository
	Queue        ucQueue.Deps
	Appointments ucAppointment.Deps
	Reviews      ucReview.Deps
	Staff        ucStaff.Deps
	Favorites    favorite.Repository
	Directory    directory.Repository

	Guard    *lock.Guard
	Audit    *audit.Dispatcher
	Uploader *handlers.Uploader

	// Ready responde o /health; nil = sempre pronto.
	Ready func() error
}

func RegisterRoutes(r *gin.Engine, app App) {
	cfg := app.Config

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(gin.Recovery())
	r.Use(logger.GinLogger())
	r.Use(middleware.CORS(cfg.CORSOrigins))

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(app.DB, cfg)
	meHandler := handlers.NewMeHandler(app.DB, app.Uploader)
	barbershopHandler := handlers.NewBarbershopHandler(app.DB, app.Audit, app.Uploader)
	barbersHandler := handlers.NewBarbersHandler(app.DB, app.Audit)
	serviceHandler := handlers.NewServiceHandler(app.DB, app.Audit)
	workingHoursHandler := handlers.NewWorkingHoursHandler(app.DB)
	auditLogsHandler := handlers.NewAuditLogsHandler(app.DB)

	sessionHandler := handlers.NewSessionHandler(app.Sessions, app.Guard, app.Audit)
	queueHandler := handlers.NewQueueHandler(app.Queue)
	appointmentHandler := handlers.NewAppointmentHandler(app.Appointments)
	publicHandler := handlers.NewPublicHandler(app.DB, app.Sessions)
	reviewHandler := handlers.NewReviewHandler(app.Reviews)
	favoriteHandler := handlers.NewFavoriteHandler(app.Favorites)
	directoryHandler := handlers.NewDirectoryHandler(app.Directory)
	staffHandler := handlers.NewStaffHandler(app.Staff)

	// ======================================================
	// 🔧 OPS
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		if app.Ready != nil {
			if err := app.Ready(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	staff := middleware.RequireRoles(models.RoleOwner, models.RoleBarber)
	owner := middleware.RequireRoles(models.RoleOwner)
	customer := middleware.RequireRoles(models.RoleCustomer)
	barber := middleware.RequireRoles(models.RoleBarber)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/:slug/status", publicHandler.Status)
			publicAPI.GET("/:slug/services", publicHandler.ListServices)
		}

		// ------------------------------
		// 🔎 BUSCA E AVALIAÇÕES (PÚBLICO)
		// ------------------------------
		api.GET("/shops", directoryHandler.Search)
		api.GET("/shops/nearby", directoryHandler.Nearby)
		api.GET("/shops/:id/reviews", reviewHandler.ForShop)
		api.GET("/shops/:id/reviews/summary", reviewHandler.ShopSummary)
		api.GET("/barbers/:id/reviews", reviewHandler.ForBarber)
		api.GET("/barbers/:id/reviews/summary", reviewHandler.BarberSummary)
		api.GET("/favorites/:kind/:id/count", favoriteHandler.Count)

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/register-customer", authHandler.RegisterCustomer)
		api.POST("/auth/register-barber", authHandler.RegisterBarber)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/refresh", authHandler.Refresh)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg.JWTSecret))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.POST("/me/avatar", meHandler.UploadAvatar)

			secured.GET("/me/barbershop", staff, barbershopHandler.GetMeBarbershop)
			secured.PATCH("/me/barbershop", owner, barbershopHandler.UpdateMeBarbershop)
			secured.POST("/me/barbershop/logo", owner, barbershopHandler.UploadLogo)

			secured.GET("/me/barbers", owner, barbersHandler.List)
			secured.POST("/me/barbers", owner, barbersHandler.Create)
			secured.DELETE("/me/barbers/:id", owner, staffHandler.Unlink)

			// ------------------------------
			// VÍNCULO DE BARBEIROS
			// ------------------------------
			secured.GET("/me/barber-requests", owner, staffHandler.Requests)
			secured.POST("/me/barber-requests/:id/approve", owner, staffHandler.Approve)
			secured.POST("/me/barber-requests/:id/reject", owner, staffHandler.Reject)

			link := secured.Group("/staff-link", barber)
			{
				link.GET("", staffHandler.Status)
				link.POST("/requests/:shopId", staffHandler.Request)
				link.DELETE("/request", staffHandler.CancelRequest)
				link.DELETE("", staffHandler.Leave)
			}

			secured.GET("/me/services", staff, serviceHandler.List)
			secured.POST("/me/services", owner, serviceHandler.Create)
			secured.PATCH("/me/services/:id", owner, serviceHandler.Update)

			secured.GET("/me/working-hours", staff, workingHoursHandler.Get)
			secured.PUT("/me/working-hours", staff, workingHoursHandler.Update)

			secured.GET("/me/audit-logs", owner, auditLogsHandler.List)

			// ------------------------------
			// CAIXA (SESSÕES)
			// ------------------------------
			sessions := secured.Group("/sessions", staff)
			{
				sessions.POST("/open", sessionHandler.Open)
				sessions.POST("/:shopId/pause", sessionHandler.Pause)
				sessions.POST("/:shopId/resume", sessionHandler.Resume)
				sessions.POST("/:shopId/close", sessionHandler.Close)
				sessions.GET("/:shopId/active", sessionHandler.Active)
				sessions.GET("/:shopId/history", sessionHandler.History)
			}

			// ------------------------------
			// FILA
			// ------------------------------
			secured.GET("/me/queue-entry", customer, queueHandler.MyEntry)
			secured.GET("/me/queue-history", customer, queueHandler.History)
			secured.GET("/queue-day", staff, queueHandler.ShopDay)

			queue := secured.Group("/queue")
			{
				queue.POST("/enqueue", queueHandler.Enqueue)
				queue.GET("/:id", queueHandler.View)

				queue.POST("/:id/start-next", staff, queueHandler.StartNext)
				queue.POST("/:id/finish", staff, queueHandler.Finish)
				queue.POST("/:id/start", staff, queueHandler.Start)
				queue.POST("/:id/no-show", staff, queueHandler.NoShow)
				queue.POST("/:id/cancel", queueHandler.Cancel)
			}

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			appointments := secured.Group("/appointments")
			{
				appointments.POST("", appointmentHandler.Create)
				appointments.GET("", staff, appointmentHandler.ListByDate)
				appointments.GET("/mine", customer, appointmentHandler.Mine)
				appointments.GET("/history", customer, appointmentHandler.History)
				appointments.GET("/:id/reviewed", customer, reviewHandler.Reviewed)
				appointments.GET("/pending", staff, appointmentHandler.Pending)
				appointments.GET("/availability", appointmentHandler.Availability)

				appointments.POST("/:id/confirm", staff, appointmentHandler.Confirm)
				appointments.POST("/:id/start", staff, appointmentHandler.Start)
				appointments.POST("/:id/complete", staff, appointmentHandler.Complete)
				appointments.POST("/:id/no-show", staff, appointmentHandler.NoShow)
				appointments.POST("/:id/cancel", appointmentHandler.Cancel)
				appointments.POST("/:id/checkout", appointmentHandler.Checkout)
			}

			// ------------------------------
			// AVALIAÇÕES
			// ------------------------------
			reviews := secured.Group("/reviews")
			{
				reviews.POST("", customer, reviewHandler.Create)
				reviews.GET("/mine", customer, reviewHandler.Mine)
				reviews.GET("/pending", staff, reviewHandler.Pending)
				reviews.POST("/:id/reply", staff, reviewHandler.Reply)
				reviews.POST("/:id/hide", owner, reviewHandler.Hide)
				reviews.POST("/:id/show", owner, reviewHandler.Show)
			}

			// ------------------------------
			// FAVORITOS
			// ------------------------------
			secured.GET("/favorites", favoriteHandler.List)
			secured.GET("/favorites/:kind/:id", favoriteHandler.Check)
			secured.POST("/favorites/:kind/:id", favoriteHandler.Toggle)
		}
	}
}
