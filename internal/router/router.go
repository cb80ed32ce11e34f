package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/phonedesk-backend/config"
	"github.com/ikkim/phonedesk-backend/internal/app/controller"
	"github.com/ikkim/phonedesk-backend/internal/app/model"
	"github.com/ikkim/phonedesk-backend/internal/metrics"
	"github.com/ikkim/phonedesk-backend/internal/middleware"
)

// Controllers groups every HTTP handler set mounted by the router.
type Controllers struct {
	Auth         *controller.AuthController
	Invite       *controller.InviteController
	Shop         *controller.ShopController
	Consultation *controller.ConsultationController
	Report       *controller.ReportController
	Settings     *controller.SettingsController
	Salary       *controller.SalaryController
	Dashboard    *controller.DashboardController
	Notice       *controller.NoticeController
	Calendar     *controller.CalendarController
}

type Router struct {
	controllers    Controllers
	authMiddleware *middleware.AuthMiddleware
	config         *config.Config
}

func NewRouter(
	controllers Controllers,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		controllers:    controllers,
		authMiddleware: authMiddleware,
		config:         cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "PHONEDESK API is running",
		})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	ctrl := r.controllers
	authenticated := r.authMiddleware.Authenticate()
	superAdminOnly := r.authMiddleware.RequireRole(model.RoleSuperAdmin)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", ctrl.Auth.Login)
			auth.POST("/logout", ctrl.Auth.Logout)
			auth.POST("/signup/owner", ctrl.Auth.SignupOwner)
			auth.POST("/signup/staff", ctrl.Auth.SignupStaff)
			auth.GET("/me", authenticated, ctrl.Auth.Me)
		}

		invites := v1.Group("/invites")
		{
			invites.GET("/:code", ctrl.Invite.ValidateInvite)
			invites.GET("", authenticated, ctrl.Invite.ListInvites)
			invites.POST("", authenticated, ctrl.Invite.CreateInvite)
		}

		shops := v1.Group("/shops", authenticated)
		{
			shops.GET("", ctrl.Shop.ListShops)
			shops.GET("/:id", ctrl.Shop.GetShop)
			shops.GET("/:id/members", ctrl.Shop.Members)
			shops.POST("", superAdminOnly, ctrl.Shop.CreateShop)
			shops.PATCH("/:id/store-group", superAdminOnly, ctrl.Shop.AssignStoreGroup)
		}

		storeGroups := v1.Group("/store-groups", authenticated, superAdminOnly)
		{
			storeGroups.GET("", ctrl.Shop.ListStoreGroups)
			storeGroups.POST("", ctrl.Shop.CreateStoreGroup)
		}

		admin := v1.Group("/admin", authenticated, superAdminOnly)
		{
			admin.POST("/region-managers", ctrl.Auth.CreateRegionManager)
		}

		consultations := v1.Group("/crm/consultations", authenticated)
		{
			consultations.GET("", ctrl.Consultation.ListConsultations)
			consultations.GET("/stats", ctrl.Consultation.Stats)
			consultations.POST("", ctrl.Consultation.CreateConsultation)
			consultations.GET("/:id", ctrl.Consultation.GetConsultation)
			consultations.PATCH("/:id", ctrl.Consultation.UpdateConsultation)
			consultations.DELETE("/:id", ctrl.Consultation.DeleteConsultation)
			consultations.POST("/:id/move-to-report", ctrl.Consultation.MoveToReport)
		}

		reports := v1.Group("/reports", authenticated)
		{
			reports.GET("", ctrl.Report.ListReports)
			reports.POST("", ctrl.Report.CreateReport)
			reports.GET("/summary", ctrl.Report.Summary)
			reports.GET("/uploads", ctrl.Report.ListUploads)
			reports.GET("/uploads/:id/download", ctrl.Report.UploadDownloadURL)
			reports.POST("/check-duplicate", ctrl.Report.CheckDuplicate)
			reports.POST("/import", ctrl.Report.ImportFile)
			reports.POST("/import-rows", ctrl.Report.ImportRows)
			reports.POST("/import-google-sheets", ctrl.Report.ImportGoogleSheet)
			reports.GET("/:id", ctrl.Report.GetReport)
			reports.PATCH("/:id", ctrl.Report.UpdateReport)
			reports.DELETE("/:id", ctrl.Report.DeleteReport)
		}

		v1.GET("/dashboard/stats", authenticated, ctrl.Dashboard.Stats)

		settings := v1.Group("/shop-settings", authenticated)
		{
			settings.GET("", ctrl.Settings.GetSettings)
			settings.PATCH("", ctrl.Settings.UpdateSettings)
		}

		salaries := v1.Group("/salaries", authenticated)
		{
			salaries.GET("", ctrl.Salary.Compute)
			salaries.POST("", ctrl.Salary.Save)
			salaries.GET("/history", ctrl.Salary.History)
			salaries.GET("/export", ctrl.Salary.Export)
		}

		notices := v1.Group("/notices", authenticated)
		{
			notices.GET("", ctrl.Notice.ListNotices)
			notices.GET("/:id", ctrl.Notice.GetNotice)
			notices.POST("", ctrl.Notice.CreateNotice)
			notices.PATCH("/:id", ctrl.Notice.UpdateNotice)
			notices.DELETE("/:id", ctrl.Notice.DeleteNotice)
			notices.POST("/:id/comments", ctrl.Notice.AddComment)
			notices.DELETE("/:id/comments/:commentId", ctrl.Notice.DeleteComment)
		}

		calendar := v1.Group("/calendar", authenticated)
		{
			calendar.GET("/todos", ctrl.Calendar.ListTodos)
			calendar.POST("/todos", ctrl.Calendar.CreateTodo)
			calendar.PATCH("/todos/:id", ctrl.Calendar.UpdateTodo)
			calendar.DELETE("/todos/:id", ctrl.Calendar.DeleteTodo)
			calendar.GET("/leaves", ctrl.Calendar.ListLeaves)
			calendar.GET("/leaves/shop", ctrl.Calendar.ShopLeaves)
			calendar.PUT("/leaves", ctrl.Calendar.UpsertLeave)
			calendar.DELETE("/leaves/:date", ctrl.Calendar.DeleteLeave)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			// 쿠키 세션이므로 "*"는 허용 목록으로 보지 않음
			if origin != "" && origin == allowedOrigin {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Vary", "Origin")
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-Request-ID, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
