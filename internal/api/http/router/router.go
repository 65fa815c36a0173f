package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/journal-auth/internal/api/http/cookie"
	"github.com/dtroode/journal-auth/internal/api/http/handler"
	"github.com/dtroode/journal-auth/internal/api/http/middleware"
	"github.com/dtroode/journal-auth/internal/logger"
	"github.com/dtroode/journal-auth/internal/model"
	"github.com/dtroode/journal-auth/internal/ratelimit"
)

// Policies holds the rate limit rules applied to public endpoints.
type Policies struct {
	Login     ratelimit.Policy
	Register  ratelimit.Policy
	Import    ratelimit.Policy
	TwoFactor ratelimit.Policy
	Email     ratelimit.Policy
}

// Options are transport settings shared by all routes.
type Options struct {
	SecureCookies bool
	StoreTimeout  time.Duration
	Policies      Policies
}

// Router builds the HTTP routing table for the auth API.
type Router struct {
	authService      handler.AuthService
	twoFactorService handler.TwoFactorService
	adminService     handler.AdminService
	issuer           model.SessionIssuer
	contextManager   model.ContextManager
	limiter          ratelimit.Limiter
	opts             Options
	logger           *logger.Logger

	rateLimit *middleware.RateLimit
}

// New creates a new Router instance.
func New(
	authService handler.AuthService,
	twoFactorService handler.TwoFactorService,
	adminService handler.AdminService,
	issuer model.SessionIssuer,
	contextManager model.ContextManager,
	limiter ratelimit.Limiter,
	opts Options,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:      authService,
		twoFactorService: twoFactorService,
		adminService:     adminService,
		issuer:           issuer,
		contextManager:   contextManager,
		limiter:          limiter,
		opts:             opts,
		logger:           logger,
		rateLimit:        middleware.NewRateLimit(limiter, logger),
	}
}

// ImportLimit gates bulk import routes served by other components.
func (r *Router) ImportLimit() gin.HandlerFunc {
	return r.rateLimit.Limit(r.opts.Policies.Import)
}

// Register builds the engine with middleware and all routes attached.
func (r *Router) Register() *gin.Engine {
	e := gin.New()
	e.Use(
		gin.Recovery(),
		middleware.NewLogging(r.logger).Handle,
	)
	if r.opts.StoreTimeout > 0 {
		e.Use(middleware.Timeout(r.opts.StoreTimeout))
	}

	authenticate := middleware.NewAuthenticate(r.issuer, r.contextManager, r.logger)
	cookies := cookie.NewWriter(r.opts.SecureCookies)

	api := e.Group("/api")
	r.registerAuthRoutes(api.Group("/auth"), authenticate, cookies)
	r.registerTwoFactorRoutes(api.Group("/auth/2fa"), authenticate, cookies)
	r.registerAdminRoutes(api.Group("/admin"), authenticate, cookies)

	return e
}

func (r *Router) registerAuthRoutes(g *gin.RouterGroup, authenticate *middleware.Authenticate, cookies *cookie.Writer) {
	h := handler.NewAuth(r.authService, cookies, r.contextManager, r.logger)
	p := r.opts.Policies

	g.POST("/register", r.rateLimit.Limit(p.Register), h.Register)
	g.POST("/resend-verification", r.rateLimit.Limit(p.Email), h.ResendVerification)
	g.GET("/verify-email", h.VerifyEmail)
	g.POST("/login", r.rateLimit.Limit(p.Login), h.Login)
	g.POST("/logout", h.Logout)
	g.GET("/me", authenticate.RequireSession(), h.Me)
	g.POST("/password/forgot", r.rateLimit.Limit(p.Email), h.ForgotPassword)
	g.POST("/password/reset", r.rateLimit.Limit(p.Login), h.ResetPassword)
}

func (r *Router) registerTwoFactorRoutes(g *gin.RouterGroup, authenticate *middleware.Authenticate, cookies *cookie.Writer) {
	h := handler.NewTwoFactor(r.twoFactorService, cookies, r.contextManager, r.logger)
	p := r.opts.Policies

	g.GET("/setup", authenticate.RequireSession(), h.Setup)
	g.POST("/setup", authenticate.RequireSession(), r.rateLimit.Limit(p.TwoFactor), h.Change)
	g.POST("/backup-codes", authenticate.RequireSession(), r.rateLimit.Limit(p.TwoFactor), h.RegenerateBackupCodes)
	g.POST("/email-otp", authenticate.RequirePending(), r.rateLimit.Limit(p.Email), h.RequestEmailOTP)
	g.POST("/verify", authenticate.RequirePending(), r.rateLimit.Limit(p.TwoFactor), h.Verify)
}

func (r *Router) registerAdminRoutes(g *gin.RouterGroup, authenticate *middleware.Authenticate, cookies *cookie.Writer) {
	h := handler.NewAdmin(r.adminService, cookies, r.contextManager, r.logger)

	g.GET("/claim", authenticate.RequireSession(), h.ClaimStatus)
	g.POST("/claim", authenticate.RequireSession(), h.Claim)
	g.PUT("/users/:id/admin", authenticate.RequireSession(), authenticate.RequireAdmin(), h.SetAdmin)
}
