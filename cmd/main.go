package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	httpctx "github.com/dtroode/journal-auth/internal/api/http/context"
	"github.com/dtroode/journal-auth/internal/api/http/router"
	"github.com/dtroode/journal-auth/internal/config"
	"github.com/dtroode/journal-auth/internal/logger"
	"github.com/dtroode/journal-auth/internal/mail"
	"github.com/dtroode/journal-auth/internal/model"
	"github.com/dtroode/journal-auth/internal/password"
	"github.com/dtroode/journal-auth/internal/ratelimit"
	"github.com/dtroode/journal-auth/internal/repository/memory"
	"github.com/dtroode/journal-auth/internal/repository/postgres"
	"github.com/dtroode/journal-auth/internal/server"
	"github.com/dtroode/journal-auth/internal/service"
	"github.com/dtroode/journal-auth/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

const (
	shutdownTimeout = 10 * time.Second
	redisKeyPrefix  = "ratelimit"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel, cfg.Production())

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Session.Secret == config.InsecureSessionSecret {
		logger.Warn("using the insecure development session secret, set SESSION_SECRET")
	}

	userStore, tokenStore, closeStores := openStores(ctx, cfg, logger)
	defer closeStores()

	hasher, err := password.NewHasher(cfg.BcryptCost)
	if err != nil {
		logger.Fatal("failed to create password hasher", "error", err)
	}

	issuer := token.NewJWT(cfg.Session.Secret)
	sessions := service.NewSessions(issuer, cfg.Session.TTL, cfg.Session.PendingTTL)
	mailer := newMailer(cfg, logger)

	limiter, closeLimiter := newLimiter(ctx, cfg, logger)
	defer closeLimiter()

	verifiers := []model.SecondFactorVerifier{
		service.NewTOTPVerifier(),
		service.NewEmailOTPVerifier(tokenStore),
		service.NewBackupCodeVerifier(userStore, hasher),
	}

	authService := service.NewAuth(userStore, tokenStore, mailer, hasher, sessions, cfg.App.BaseURL, logger)
	twoFactorService := service.NewTwoFactor(userStore, tokenStore, mailer, hasher, sessions, verifiers, cfg.App.Issuer, logger)
	adminService := service.NewAdmin(userStore, sessions, logger)

	r := router.New(
		authService,
		twoFactorService,
		adminService,
		issuer,
		httpctx.NewManager(),
		limiter,
		router.Options{
			SecureCookies: cfg.Production() || cfg.HTTP.EnableHTTPS,
			StoreTimeout:  cfg.StoreTimeout,
			Policies:      policies(cfg.RateLimit),
		},
		logger,
	)
	httpServer := server.NewHTTPServer(r.Register(), net.JoinHostPort("", cfg.HTTP.Port))

	var sl model.SecurityLayer

	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address(), "env", cfg.App.Env)
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(httpServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}

func openStores(ctx context.Context, cfg *config.Config, logger *logger.Logger) (model.UserStore, model.EmailTokenStore, func()) {
	if cfg.Database.DSN == "" {
		logger.Warn("DATABASE_DSN is empty, using in-memory stores")
		return memory.NewUserRepository(), memory.NewEmailTokenRepository(), func() {}
	}

	db, err := postgres.NewConection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}

	closeDB := func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}
	return postgres.NewUserRepository(db), postgres.NewEmailTokenRepository(db), closeDB
}

func newMailer(cfg *config.Config, logger *logger.Logger) model.Mailer {
	var next model.Mailer
	if cfg.Mail.Host == "" {
		logger.Warn("MAIL_HOST is empty, outgoing mail will be logged")
		next = mail.NewLogMailer(logger)
	} else {
		next = mail.NewSMTP(mail.SMTPConfig{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
		})
	}
	return mail.NewThrottled(next, cfg.Mail.RatePerSecond, cfg.Mail.Timeout)
}

func newLimiter(ctx context.Context, cfg *config.Config, logger *logger.Logger) (ratelimit.Limiter, func()) {
	if cfg.RateLimit.Backend == config.RateLimitRedis {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to connect to redis", "addr", cfg.Redis.Addr, "error", err)
		}

		closeClient := func() {
			if err := client.Close(); err != nil {
				logger.Error("failed to close redis client", "error", err)
			}
		}
		return ratelimit.NewRedis(client, redisKeyPrefix), closeClient
	}

	limiter := ratelimit.NewMemory()
	go limiter.Run(ctx, cfg.RateLimit.SweepInterval)
	return limiter, func() {}
}

func policies(cfg config.RateLimit) router.Policies {
	policy := func(namespace string, p config.Policy) ratelimit.Policy {
		return ratelimit.Policy{Namespace: namespace, Max: p.Max, Window: p.Window}
	}
	return router.Policies{
		Login:     policy("login", cfg.Login),
		Register:  policy("register", cfg.Register),
		Import:    policy("import", cfg.Import),
		TwoFactor: policy("two_factor", cfg.TwoFactor),
		Email:     policy("email", cfg.Email),
	}
}
