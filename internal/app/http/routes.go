package routes

import (
	authapi "donation-app/internal/api/auth"
	campaignsapi "donation-app/internal/api/campaigns"
	dashboardapi "donation-app/internal/api/dashboard"
	donationsapi "donation-app/internal/api/donations"
	paymentsapi "donation-app/internal/api/payments"
	receiptsapi "donation-app/internal/api/receipts"
	stripewebhooks "donation-app/internal/api/stripewebhook"
	"donation-app/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, mail authapi.Mailer) {
	auth := &authapi.Handler{DB: db, Mail: mail}
	campaigns := &campaignsapi.Handler{DB: db}
	donations := &donationsapi.Handler{DB: db}
	payments := &paymentsapi.Handler{DB: db}
	webhooks := &stripewebhooks.Handler{DB: db}
	receipts := &receiptsapi.Handler{DB: db}
	dashboard := &dashboardapi.Handler{DB: db}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Stripe verifies this route via signature; it must see the raw body,
	// so it stays outside the sanitizing group.
	r.POST("/api/payment/webhook", webhooks.StripeWebhook)

	// Public routes with input sanitization
	public := r.Group("/api")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/auth/signup", auth.Signup)
	public.POST("/auth/login", auth.Login)
	public.GET("/auth/verify-email/:token", auth.VerifyEmail)
	public.POST("/auth/forgot-password", auth.ForgotPassword)
	public.POST("/auth/reset-password", auth.ResetPassword)

	public.GET("/auth/google", auth.GoogleStart)
	public.GET("/auth/google/callback", auth.GoogleCallback)

	public.GET("/campaigns/active", campaigns.ListActive)
	public.GET("/campaigns/:id", campaigns.Get)

	// Authenticated
	authed := r.Group("/api")
	authed.Use(middleware.AuthMiddleware())

	authed.GET("/auth/me", auth.Me)

	authed.GET("/campaigns", campaigns.List)

	authed.POST("/donations", donations.Create)
	authed.GET("/donations/:id", donations.Get)
	authed.GET("/donations/user/:userId", middleware.RequireSelfOrAdmin("userId"), donations.ListByUser)

	authed.POST("/payment/create-checkout-session", payments.CreateCheckoutSession)
	authed.POST("/payment/create-intent", payments.CreatePaymentIntent)
	authed.POST("/payment/confirm", payments.ConfirmPayment)
	authed.POST("/payment/confirm-checkout", payments.ConfirmCheckout)

	authed.GET("/receipts/donation/:donationId", receipts.GetByDonation)
	authed.GET("/receipts/download/:receiptId", receipts.Download)

	authed.GET("/dashboard/user/:userId", middleware.RequireSelfOrAdmin("userId"), dashboard.UserDashboard)

	// Admin routes
	admin := r.Group("/api")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole("admin"))

	admin.GET("/donations", donations.List)
	admin.PATCH("/donations/:id/status", donations.UpdateStatus)

	admin.POST("/campaigns", campaigns.Create)
	admin.PATCH("/campaigns/:id", campaigns.Update)
	admin.DELETE("/campaigns/:id", campaigns.Delete)

	admin.GET("/dashboard/admin", dashboard.AdminDashboard)
	admin.GET("/dashboard/admin/donors", dashboard.Donors)
}
