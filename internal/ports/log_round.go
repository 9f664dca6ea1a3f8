package ports

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/fairwaylabs/teeline/internal/app"
	"github.com/fairwaylabs/teeline/internal/domain"
	"github.com/fairwaylabs/teeline/internal/logging"
	"github.com/fairwaylabs/teeline/internal/ratelimiting"
	"github.com/fairwaylabs/teeline/internal/reporting"
	"github.com/fairwaylabs/teeline/internal/strutils"
)

func MakeLogRoundHandler(
	logRound app.LogRound,
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
		buildMetricsMiddleware("log-round"),
		logging.NewRequestLoggerMiddleware(rootLogger),
		sentryMiddleware,
		reporting.NewAddMetaMiddleware("log-round"),
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

		defer r.Body.Close()
		body, err := io.ReadAll(r.Body)
		if err != nil {
			reporting.Report(ctx, fmt.Errorf("failed to read request body: %w", err))
			http.Error(w, "Failed to read request body", http.StatusBadRequest)
			return
		}
		request := struct {
			Course   string    `json:"course"`
			PlayedAt time.Time `json:"playedAt"`

			Holes int `json:"holes"`

			GrossScore *int     `json:"grossScore"`
			Handicap   *float64 `json:"handicap"`

			Putts              int `json:"putts"`
			FairwaysHit        int `json:"fairwaysHit"`
			FairwaysPossible   int `json:"fairwaysPossible"`
			GreensInRegulation int `json:"greensInRegulation"`
			UpAndDownsMade     int `json:"upAndDownsMade"`
			UpAndDownsMissed   int `json:"upAndDownsMissed"`

			Birdies int `json:"birdies"`
			Eagles  int `json:"eagles"`
			Pars    int `json:"pars"`
		}{}
		err = json.Unmarshal(body, &request)
		if err != nil {
			reporting.Report(ctx, fmt.Errorf("failed to parse request body: %w", err))
			http.Error(w, "Failed to parse request body", http.StatusBadRequest)
			return
		}

		ctx = logging.AddMetaToContext(ctx,
			slog.String("course", request.Course),
			slog.Int("holes", request.Holes),
		)

		// The id and timestamp are filled in downstream when absent. The
		// header, not the body, decides whose round this is.
		round, err := logRound(ctx, domain.Round{
			UserID:             userID,
			Course:             request.Course,
			PlayedAt:           request.PlayedAt,
			Holes:              request.Holes,
			GrossScore:         request.GrossScore,
			Handicap:           request.Handicap,
			Putts:              request.Putts,
			FairwaysHit:        request.FairwaysHit,
			FairwaysPossible:   request.FairwaysPossible,
			GreensInRegulation: request.GreensInRegulation,
			UpAndDownsMade:     request.UpAndDownsMade,
			UpAndDownsMissed:   request.UpAndDownsMissed,
			Birdies:            request.Birdies,
			Eagles:             request.Eagles,
			Pars:               request.Pars,
		})
		if errors.Is(err, domain.ErrInvalidRound) {
			http.Error(w, "invalid round", http.StatusBadRequest)
			return
		}
		if err != nil {
			// NOTE: LogRound implementations handle their own error reporting
			http.Error(w, "Failed to log round", http.StatusInternalServerError)
			return
		}

		marshalled, err := RoundToResponseData(round)
		if err != nil {
			reporting.Report(ctx, fmt.Errorf("failed to convert round to response: %w", err))
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}

		logging.FromContext(ctx).Info("Logged round")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(marshalled)
	}

	return middleware(handler)
}
