package ports

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/fairwaylabs/teeline/internal/app"
	"github.com/fairwaylabs/teeline/internal/domain"
	"github.com/fairwaylabs/teeline/internal/logging"
	"github.com/fairwaylabs/teeline/internal/ratelimiting"
	"github.com/fairwaylabs/teeline/internal/reporting"
	"github.com/fairwaylabs/teeline/internal/strutils"
)

func MakeGetPracticePlanHandler(
	planWeek app.PlanWeek,
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
		buildMetricsMiddleware("practice-plan"),
		logging.NewRequestLoggerMiddleware(rootLogger),
		sentryMiddleware,
		reporting.NewAddMetaMiddleware("practice-plan"),
		BuildCORSMiddleware(allowedOrigins),
		NewRateLimitMiddleware(ipRateLimiter, makeOnLimitExceeded(ipRateLimiter)),
		NewRateLimitMiddleware(userIDRateLimiter, makeOnLimitExceeded(userIDRateLimiter)),
	)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		rawUserID := r.Header.Get("X-User-Id")
		userID, err := strutils.NormalizeUserID(rawUserID)
		if err != nil {
			reporting.Report(ctx, fmt.Errorf("failed to normalize user id: %w", err), map[string]string{
				"rawUserId": rawUserID,
			})
			http.Error(w, "invalid user id", http.StatusBadRequest)
			return
		}
		ctx = reporting.SetUserIDInContext(ctx, userID)
		ctx = logging.AddMetaToContext(ctx, slog.String("userId", userID))

		rawMinutes := r.URL.Query().Get("minutes")
		rawFacility := r.URL.Query().Get("facility")

		ctx = reporting.AddExtrasToContext(ctx, map[string]string{
			"minutes":  rawMinutes,
			"facility": rawFacility,
		})

		minutes, err := strconv.Atoi(rawMinutes)
		if err != nil || minutes <= 0 {
			reporting.Report(ctx, fmt.Errorf("invalid available minutes: %q", rawMinutes))
			http.Error(w, "invalid minutes", http.StatusBadRequest)
			return
		}

		facility, err := domain.FacilityFromString(rawFacility)
		if err != nil {
			reporting.Report(ctx, err)
			http.Error(w, "unknown facility", http.StatusBadRequest)
			return
		}

		ctx = logging.AddMetaToContext(ctx,
			slog.Int("minutes", minutes),
			slog.String("facility", string(facility)),
		)

		plan, err := planWeek(ctx, userID, minutes, facility)
		if err != nil {
			// NOTE: PlanWeek implementations handle their own error reporting
			http.Error(w, "Failed to build practice plan", http.StatusInternalServerError)
			return
		}

		marshalled, err := PracticePlanToResponseData(plan)
		if err != nil {
			reporting.Report(ctx, fmt.Errorf("failed to convert practice plan to response: %w", err))
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}

		logging.FromContext(ctx).Info("Returning practice plan")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(marshalled)
	}

	return middleware(handler)
}
