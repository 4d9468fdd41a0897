package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/koen-wskcorporation/sportssass-sub002/config"
	"github.com/koen-wskcorporation/sportssass-sub002/internal/announcements"
	"github.com/koen-wskcorporation/sportssass-sub002/internal/auth"
	"github.com/koen-wskcorporation/sportssass-sub002/internal/events"
	"github.com/koen-wskcorporation/sportssass-sub002/internal/forms"
	"github.com/koen-wskcorporation/sportssass-sub002/internal/members"
	"github.com/koen-wskcorporation/sportssass-sub002/internal/middleware"
	"github.com/koen-wskcorporation/sportssass-sub002/internal/orgs"
	"github.com/koen-wskcorporation/sportssass-sub002/internal/pages"
	"github.com/koen-wskcorporation/sportssass-sub002/internal/permissions"
	"github.com/koen-wskcorporation/sportssass-sub002/internal/programs"
	"github.com/koen-wskcorporation/sportssass-sub002/internal/sponsors"
	"github.com/koen-wskcorporation/sportssass-sub002/internal/tenancy"
	"github.com/koen-wskcorporation/sportssass-sub002/pkg/database"
	redisclient "github.com/koen-wskcorporation/sportssass-sub002/pkg/redis"
	"github.com/koen-wskcorporation/sportssass-sub002/pkg/response"
	"github.com/koen-wskcorporation/sportssass-sub002/pkg/storage"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis serves the submission rate limiter only; the limiter fails open,
	// so a missing Redis degrades instead of blocking startup.
	var rdb *redisclient.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redisclient.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
		if err != nil {
			logger.Warn("redis unavailable, submission rate limiting disabled", zap.Error(err))
			rdb = nil
		}
	}

	var s3 *storage.S3
	if cfg.AWS.AssetsBucket != "" {
		s3, err = storage.NewS3(ctx, storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			AssetsBucket:         cfg.AWS.AssetsBucket,
			AssetsPublic:         cfg.AWS.AssetsPublic,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}, logger)
		if err != nil {
			logger.Warn("s3 unavailable, asset uploads disabled", zap.Error(err))
			s3 = nil
		}
	}

	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)

	authRepo := auth.NewRepository(pool)
	orgsRepo := orgs.NewRepository(pool)
	membersRepo := members.NewRepository(pool)
	pagesRepo := pages.NewRepository(pool)
	formsRepo := forms.NewRepository(pool)
	programsRepo := programs.NewRepository(pool)
	sponsorsRepo := sponsors.NewRepository(pool)
	announcementsRepo := announcements.NewRepository(pool)
	eventsRepo := events.NewRepository(pool)

	permResolver := permissions.NewResolver(membersRepo, logger)
	tenResolver := tenancy.NewResolver(orgsRepo, membersRepo, permResolver, logger)

	limiter := forms.NewSubmissionLimiter(nil, cfg.RateLimit.SubmissionLimit, cfg.RateLimit.SubmissionWindowSec, logger)
	if rdb != nil {
		limiter = forms.NewSubmissionLimiter(rdb.Client, cfg.RateLimit.SubmissionLimit, cfg.RateLimit.SubmissionWindowSec, logger)
	}

	runtime := pages.NewRuntimeLoader(sponsorsRepo, programsRepo, announcementsRepo, eventsRepo, formsRepo, s3, logger)

	authHandler := auth.NewHandler(authRepo, jwtSvc, logger)
	orgsHandler := orgs.NewHandler(orgsRepo, s3, logger)
	membersHandler := members.NewHandler(membersRepo, authRepo, logger)
	pagesHandler := pages.NewHandler(pagesRepo, runtime, tenResolver, logger)
	formsHandler := forms.NewHandler(formsRepo, limiter, logger)
	programsHandler := programs.NewHandler(programsRepo, logger)
	sponsorsHandler := sponsors.NewHandler(sponsorsRepo, s3, logger)
	announcementsHandler := announcements.NewHandler(announcementsRepo, logger)
	eventsHandler := events.NewHandler(eventsRepo, logger)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		response.OK(c, gin.H{"status": "ok"})
	})

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.GET("/me", middleware.Session(jwtSvc), authHandler.Me)
	}

	orgsGroup := r.Group("/orgs", middleware.Session(jwtSvc))
	{
		orgsGroup.POST("", orgsHandler.Create)
		orgsGroup.GET("", orgsHandler.ListMine)
	}

	// Public org site. Sessions are optional here; a signed-in staff member
	// browsing the public page gets editor affordances, everyone else just
	// gets the page.
	site := r.Group("/:orgSlug", middleware.OptionalSession(jwtSvc), tenResolver.Public())
	{
		site.GET("", pagesHandler.RenderHome)
		site.GET("/pages/:pageSlug", pagesHandler.RenderPage)
		site.GET("/programs", programsHandler.ListPublic)
		site.GET("/sponsors", sponsorsHandler.ListPublic)
		site.GET("/announcements", announcementsHandler.ListPublic)
		site.GET("/events", eventsHandler.ListPublic)
		site.POST("/forms/:formSlug/submit", formsHandler.Submit)
	}

	tools := r.Group("/:orgSlug/tools", middleware.Session(jwtSvc), tenResolver.Required())
	{
		tools.GET("/settings", tenancy.RequirePermission(permissions.SettingsRead), orgsHandler.GetSettings)
		tools.PATCH("/settings", tenancy.RequirePermission(permissions.SettingsWrite), orgsHandler.UpdateSettings)
		tools.POST("/settings/branding", tenancy.RequirePermission(permissions.SettingsWrite), orgsHandler.UploadBrandingAsset)

		tools.GET("/pages", tenancy.RequirePermission(permissions.PagesRead), pagesHandler.List)
		tools.POST("/pages", tenancy.RequirePermission(permissions.PagesWrite), pagesHandler.Create)
		tools.GET("/pages/:pageSlug", tenancy.RequirePermission(permissions.PagesRead), pagesHandler.GetForEdit)
		tools.PUT("/pages/:pageSlug", tenancy.RequirePermission(permissions.PagesWrite), pagesHandler.Publish)
		tools.DELETE("/pages/:pageSlug", tenancy.RequirePermission(permissions.PagesWrite), pagesHandler.Delete)

		tools.GET("/forms", tenancy.RequirePermission(permissions.FormsRead), formsHandler.List)
		tools.POST("/forms", tenancy.RequirePermission(permissions.FormsWrite), formsHandler.Create)
		tools.GET("/forms/:formSlug", tenancy.RequirePermission(permissions.FormsRead), formsHandler.Get)
		tools.PATCH("/forms/:formSlug", tenancy.RequirePermission(permissions.FormsWrite), formsHandler.Update)
		tools.DELETE("/forms/:formSlug", tenancy.RequirePermission(permissions.FormsWrite), formsHandler.Delete)
		tools.POST("/forms/:formSlug/publish", tenancy.RequirePermission(permissions.FormsWrite), formsHandler.Publish)
		tools.GET("/forms/:formSlug/submissions", tenancy.RequirePermission(permissions.FormsRead), formsHandler.ListSubmissions)
		tools.PATCH("/forms/:formSlug/submissions/:submissionID", tenancy.RequirePermission(permissions.FormsWrite), formsHandler.UpdateSubmissionStatus)
		tools.GET("/forms/:formSlug/export.csv", tenancy.RequirePermission(permissions.FormsRead), formsHandler.ExportCSV)

		tools.GET("/programs", tenancy.RequirePermission(permissions.ProgramsRead), programsHandler.List)
		tools.POST("/programs", tenancy.RequirePermission(permissions.ProgramsWrite), programsHandler.Create)
		tools.PUT("/programs/:programID", tenancy.RequirePermission(permissions.ProgramsWrite), programsHandler.Update)
		tools.DELETE("/programs/:programID", tenancy.RequirePermission(permissions.ProgramsWrite), programsHandler.Delete)

		tools.GET("/sponsors", tenancy.RequirePermission(permissions.SponsorsRead), sponsorsHandler.List)
		tools.POST("/sponsors", tenancy.RequirePermission(permissions.SponsorsWrite), sponsorsHandler.Create)
		tools.PUT("/sponsors/:sponsorID", tenancy.RequirePermission(permissions.SponsorsWrite), sponsorsHandler.Update)
		tools.POST("/sponsors/:sponsorID/logo", tenancy.RequirePermission(permissions.SponsorsWrite), sponsorsHandler.UploadLogo)
		tools.DELETE("/sponsors/:sponsorID", tenancy.RequirePermission(permissions.SponsorsWrite), sponsorsHandler.Delete)

		tools.GET("/announcements", tenancy.RequirePermission(permissions.AnnouncementsRead), announcementsHandler.List)
		tools.POST("/announcements", tenancy.RequirePermission(permissions.AnnouncementsWrite), announcementsHandler.Create)
		tools.PUT("/announcements/:announcementID", tenancy.RequirePermission(permissions.AnnouncementsWrite), announcementsHandler.Update)
		tools.DELETE("/announcements/:announcementID", tenancy.RequirePermission(permissions.AnnouncementsWrite), announcementsHandler.Delete)

		tools.GET("/events", tenancy.RequirePermission(permissions.EventsRead), eventsHandler.List)
		tools.POST("/events", tenancy.RequirePermission(permissions.EventsWrite), eventsHandler.Create)
		tools.PUT("/events/:eventID", tenancy.RequirePermission(permissions.EventsWrite), eventsHandler.Update)
		tools.DELETE("/events/:eventID", tenancy.RequirePermission(permissions.EventsWrite), eventsHandler.Delete)

		tools.GET("/members", tenancy.RequirePermission(permissions.MembersRead), membersHandler.List)
		tools.POST("/members/invite", tenancy.RequirePermission(permissions.MembersWrite), membersHandler.Invite)
		tools.PATCH("/members/:userID", tenancy.RequirePermission(permissions.MembersWrite), membersHandler.UpdateRole)
		tools.DELETE("/members/:userID", tenancy.RequirePermission(permissions.MembersWrite), membersHandler.Remove)

		tools.GET("/roles", tenancy.RequirePermission(permissions.MembersRead), membersHandler.ListRoles)
		tools.POST("/roles", tenancy.RequirePermission(permissions.MembersWrite), membersHandler.CreateRole)
		tools.PATCH("/roles/:roleKey", tenancy.RequirePermission(permissions.MembersWrite), membersHandler.UpdateRoleDef)
		tools.DELETE("/roles/:roleKey", tenancy.RequirePermission(permissions.MembersWrite), membersHandler.DeleteRole)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	logger.Info("server stopped")
}
