package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/fairwaylabs/teeline/internal/adapters/cache"
	"github.com/fairwaylabs/teeline/internal/adapters/database"
	"github.com/fairwaylabs/teeline/internal/adapters/memberrepository"
	"github.com/fairwaylabs/teeline/internal/adapters/practicerepository"
	"github.com/fairwaylabs/teeline/internal/adapters/progressstore"
	"github.com/fairwaylabs/teeline/internal/adapters/roundrepository"
	"github.com/fairwaylabs/teeline/internal/app"
	"github.com/fairwaylabs/teeline/internal/config"
	"github.com/fairwaylabs/teeline/internal/domain"
	"github.com/fairwaylabs/teeline/internal/logging"
	"github.com/fairwaylabs/teeline/internal/notify"
	"github.com/fairwaylabs/teeline/internal/ports"
	"github.com/fairwaylabs/teeline/internal/reporting"
	"github.com/fairwaylabs/teeline/internal/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	// Bundled roots so TLS works in the scratch container image
	_ "golang.org/x/crypto/x509roots/fallback"
)

// TODO: Put in config
const PROD_DOMAIN_SUFFIX = "teeline.app"
const STAGING_DOMAIN_SUFFIX = "teeline-web.pages.dev"

const SERVICE_NAME = "teeline"

func main() {
	ctx := context.Background()

	instanceID := uuid.New().String()
	baseLogHandler := slog.NewJSONHandler(os.Stdout, nil)
	logger := slog.New(baseLogHandler).With("instanceID", instanceID)

	fail := func(msg string, args ...any) {
		logger.Error(msg, args...)
		os.Exit(1)
	}

	config, err := config.ConfigFromEnv()
	if err != nil {
		fail("Failed to load config", "error", err.Error())
	}
	logger.Info("Loaded config", "config", config.NonSensitiveString())

	if config.GoogleCloudProject() != "" {
		logger = slog.New(
			logging.NewGoogleCloudTracingLogHandler(baseLogHandler, config.GoogleCloudProject()),
		).With("instanceID", instanceID)
	}

	location, err := time.LoadLocation(config.TimezoneName())
	if err != nil {
		fail("Failed to load club timezone", "timezone", config.TimezoneName(), "error", err.Error())
	}

	if !config.IsDevelopment() {
		shutdownOTel, err := telemetry.SetupOTelSDK(ctx, SERVICE_NAME)
		if err != nil {
			fail("Failed to initialize OpenTelemetry", "error", err.Error())
		}
		defer func() {
			err := shutdownOTel(ctx)
			if err != nil {
				logger.Error("Failed to shut down OpenTelemetry", "error", err.Error())
			}
		}()
		logger.Info("Initialized OpenTelemetry")
	}

	sentryMiddleware, flush, err := reporting.NewSentryMiddlewareOrMock(config)
	if err != nil {
		fail("Failed to initialize Sentry", "error", err.Error())
	}
	defer flush()
	logger.Info("Initialized Sentry middleware")

	logger.Info("Initializing database connection")
	db, err := database.NewCloudsqlPostgresDatabase(config)
	if err != nil {
		fail("Failed to initialize database connection", "error", err.Error())
	}
	logger.Info("Initialized database connection")

	schemaName := database.GetSchemaName(!config.IsProduction())

	err = database.NewDatabaseMigrator(db, logger.With("component", "migrator")).Migrate(ctx, schemaName)
	if err != nil {
		fail("Failed to migrate database", "error", err.Error())
	}

	roundRepo := roundrepository.NewPostgres(db, schemaName)
	practiceRepo := practicerepository.NewPostgres(db, schemaName)
	memberRepo := memberrepository.NewPostgres(db, schemaName, time.Now)
	logger.Info("Initialized record store repositories")

	ledger, err := progressstore.NewRedisOrMemory(config)
	if err != nil {
		fail("Failed to initialize progress ledger", "error", err.Error())
	}
	logger.Info("Initialized progress ledger")

	bus := notify.NewBus()
	boardCache := cache.NewTTLCache[*domain.Leaderboard](1 * time.Minute)

	newEntryID := func() string {
		id, err := uuid.NewV7()
		if err != nil {
			// V7 generation only fails when the random source does. Fall back
			// to the pooled V4 generator rather than dropping the write.
			return uuid.New().String()
		}
		return id.String()
	}

	getLeaderboard := app.BuildGetLeaderboard(roundRepo, practiceRepo, memberRepo, ledger, time.Now)
	getLeaderboardWithCache := app.BuildGetLeaderboardWithCache(getLeaderboard, boardCache)
	go app.RunLeaderboardCacheInvalidator(ctx, bus, boardCache)

	getTrophies := app.BuildGetTrophies(roundRepo, ledger, memberRepo, location)

	getProgress := app.BuildGetProgress(roundRepo, ledger, memberRepo, location, time.Now)

	logRound := app.BuildLogRound(roundRepo, memberRepo, bus, newEntryID, time.Now)
	logDrillCompletion := app.BuildLogDrillCompletion(practiceRepo, ledger, bus, newEntryID, time.Now)
	logPracticeSession := app.BuildLogPracticeSession(practiceRepo, ledger, bus, newEntryID, time.Now)

	planWeek := app.BuildPlanWeek(roundRepo)

	allowedOrigins, err := ports.NewDomainSuffixes(PROD_DOMAIN_SUFFIX, STAGING_DOMAIN_SUFFIX)
	if err != nil {
		fail("Failed to initialize allowed origins", "error", err.Error())
	}

	http.HandleFunc(
		"OPTIONS /v1/leaderboard",
		ports.BuildCORSHandler(allowedOrigins),
	)
	http.HandleFunc(
		"GET /v1/leaderboard",
		ports.MakeGetLeaderboardHandler(
			getLeaderboardWithCache,
			allowedOrigins,
			logger.With("port", "leaderboard"),
			sentryMiddleware,
		),
	)

	http.HandleFunc(
		"OPTIONS /v1/trophies",
		ports.BuildCORSHandler(allowedOrigins),
	)
	http.HandleFunc(
		"GET /v1/trophies",
		ports.MakeGetTrophiesHandler(
			getTrophies,
			allowedOrigins,
			logger.With("port", "trophies"),
			sentryMiddleware,
		),
	)

	http.HandleFunc(
		"OPTIONS /v1/progress",
		ports.BuildCORSHandler(allowedOrigins),
	)
	http.HandleFunc(
		"GET /v1/progress",
		ports.MakeGetProgressHandler(
			getProgress,
			allowedOrigins,
			logger.With("port", "progress"),
			sentryMiddleware,
		),
	)

	http.HandleFunc(
		"OPTIONS /v1/rounds",
		ports.BuildCORSHandler(allowedOrigins),
	)
	http.HandleFunc(
		"POST /v1/rounds",
		ports.MakeLogRoundHandler(
			logRound,
			allowedOrigins,
			logger.With("port", "log-round"),
			sentryMiddleware,
		),
	)

	http.HandleFunc(
		"OPTIONS /v1/practice/drills",
		ports.BuildCORSHandler(allowedOrigins),
	)
	http.HandleFunc(
		"POST /v1/practice/drills",
		ports.MakeLogDrillCompletionHandler(
			logDrillCompletion,
			allowedOrigins,
			logger.With("port", "log-drill"),
			sentryMiddleware,
		),
	)

	http.HandleFunc(
		"OPTIONS /v1/practice/sessions",
		ports.BuildCORSHandler(allowedOrigins),
	)
	http.HandleFunc(
		"POST /v1/practice/sessions",
		ports.MakeLogPracticeSessionHandler(
			logPracticeSession,
			allowedOrigins,
			logger.With("port", "log-session"),
			sentryMiddleware,
		),
	)

	http.HandleFunc(
		"OPTIONS /v1/practice/plan",
		ports.BuildCORSHandler(allowedOrigins),
	)
	http.HandleFunc(
		"GET /v1/practice/plan",
		ports.MakeGetPracticePlanHandler(
			planWeek,
			allowedOrigins,
			logger.With("port", "practice-plan"),
			sentryMiddleware,
		),
	)

	logger.Info("Init complete")
	err = http.ListenAndServe(
		fmt.Sprintf(":%s", config.Port()),
		otelhttp.NewHandler(http.DefaultServeMux, SERVICE_NAME),
	)
	if errors.Is(err, http.ErrServerClosed) {
		logger.Info("Server shutdown")
	} else {
		fail("Server error", "error", err.Error())
	}
}
