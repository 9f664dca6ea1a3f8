package ports

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/fairwaylabs/teeline/internal/app"
	"github.com/fairwaylabs/teeline/internal/domain"
	"github.com/fairwaylabs/teeline/internal/logging"
	"github.com/fairwaylabs/teeline/internal/ratelimiting"
	"github.com/fairwaylabs/teeline/internal/reporting"
	"github.com/fairwaylabs/teeline/internal/strutils"
)

func MakeGetLeaderboardHandler(
	getLeaderboard app.GetLeaderboard,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	ipLimiter, _ := ratelimiting.NewTokenBucketRateLimiter(
		ratelimiting.RefillPerSecond(4),
		ratelimiting.BurstSize(80),
	)
	ipRateLimiter := ratelimiting.NewRequestBasedRateLimiter(
		ipLimiter,
		ratelimiting.IPKeyFunc,
	)
	userIDLimiter, _ := ratelimiting.NewTokenBucketRateLimiter(
		ratelimiting.RefillPerSecond(1),
		ratelimiting.BurstSize(20),
	)
	userIDRateLimiter := ratelimiting.NewRequestBasedRateLimiter(
		// NOTE: Rate limiting based on user controlled value
		userIDLimiter,
		ratelimiting.UserIDKeyFunc,
	)

	makeOnLimitExceeded := func(rateLimiter ratelimiting.RequestRateLimiter) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			logger := logging.FromContext(ctx)

			statusCode := http.StatusTooManyRequests

			logger.Info("Rate limit exceeded", "statusCode", statusCode, "reason", "ratelimit exceeded", "key", rateLimiter.KeyFor(r))

			http.Error(w, "Rate limit exceeded", statusCode)
		}
	}

	middleware := ComposeMiddlewares(
		buildMetricsMiddleware("leaderboard"),
		logging.NewRequestLoggerMiddleware(rootLogger),
		sentryMiddleware,
		reporting.NewAddMetaMiddleware("leaderboard"),
		BuildCORSMiddleware(allowedOrigins),
		NewRateLimitMiddleware(ipRateLimiter, makeOnLimitExceeded(ipRateLimiter)),
		NewRateLimitMiddleware(userIDRateLimiter, makeOnLimitExceeded(userIDRateLimiter)),
	)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		rawUserID := r.Header.Get("X-User-Id")

		// The board itself is the same for everyone; the header only selects
		// whose rank to surface. Anonymous requests still get the board.
		userID := ""
		if rawUserID != "" {
			normalized, err := strutils.NormalizeUserID(rawUserID)
			if err != nil {
				reporting.Report(ctx, fmt.Errorf("failed to normalize user id: %w", err), map[string]string{
					"rawUserId": rawUserID,
				})
				http.Error(w, "invalid user id", http.StatusBadRequest)
				return
			}
			userID = normalized
			ctx = reporting.SetUserIDInContext(ctx, userID)
			ctx = logging.AddMetaToContext(ctx, slog.String("userId", userID))
		}

		rawMetric := r.URL.Query().Get("metric")
		rawWindow := r.URL.Query().Get("window")

		ctx = reporting.AddExtrasToContext(ctx, map[string]string{
			"metric": rawMetric,
			"window": rawWindow,
		})

		metric, err := domain.MetricFromString(rawMetric)
		if err != nil {
			reporting.Report(ctx, err)
			http.Error(w, "unknown metric", http.StatusBadRequest)
			return
		}
		window, err := domain.TimeWindowFromString(rawWindow)
		if err != nil {
			reporting.Report(ctx, err)
			http.Error(w, "unknown time window", http.StatusBadRequest)
			return
		}

		ctx = logging.AddMetaToContext(ctx,
			slog.String("metric", string(metric)),
			slog.String("window", string(window)),
		)

		board, err := getLeaderboard(ctx, userID, metric, window)
		if err != nil {
			// NOTE: GetLeaderboard implementations handle their own error reporting
			http.Error(w, "Failed to get leaderboard", http.StatusInternalServerError)
			return
		}

		marshalled, err := LeaderboardToResponseData(board)
		if err != nil {
			reporting.Report(ctx, fmt.Errorf("failed to convert leaderboard to response: %w", err))
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}

		logging.FromContext(ctx).Info("Returning leaderboard data")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(marshalled)
	}

	return middleware(handler)
}
