// Seeds the local stack with a fixture roster: members, a season of rounds
// and practice activity. Writes go through the same repositories and
// use-cases the server runs, so seeded data behaves exactly like real data.
//
// The record store is append-only; running the seeder twice doubles the
// activity. Drop the teeline_test schema to start over.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"strings"
	"time"

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
	"github.com/google/uuid"
)

type fixtureMember struct {
	name       string
	handicap   float64
	rounds     int
	practice   int
	streakDays int
}

var roster = []fixtureMember{
	{name: "Astrid Berge", handicap: 7.9, rounds: 22, practice: 34, streakDays: 8},
	{name: "Jonas Lie", handicap: 10.4, rounds: 18, practice: 26, streakDays: 4},
	{name: "Ingrid Solheim", handicap: 12.1, rounds: 15, practice: 30, streakDays: 6},
	{name: "Magnus Dahl", handicap: 14.8, rounds: 12, practice: 18, streakDays: 2},
	{name: "Sofie Strand", handicap: 17.3, rounds: 10, practice: 22, streakDays: 3},
	{name: "Olav Kleppe", handicap: 20.6, rounds: 8, practice: 12, streakDays: 1},
	{name: "Emma Foss", handicap: 9.2, rounds: 20, practice: 28, streakDays: 5},
	{name: "Henrik Aas", handicap: 24.0, rounds: 5, practice: 8, streakDays: 0},
}

var courses = []string{"Sunnfjord Links", "Bogstad", "Miklagard", "Losby", "Holtsmark"}

var sessionTitles = []string{
	"Range session",
	"Putting before work",
	"Short game hour",
	"Wedge matrix",
	"Evening chipping",
}

var sessionCategories = []string{"putting", "chipping", "driving", "irons", "fundamentals"}

func seedUserID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://teeline.app/seed/"+name)).String()
}

func avatarURL(name string) string {
	slug := strings.ToLower(strings.ReplaceAll(name, " ", "-"))
	return fmt.Sprintf("https://static.teeline.app/avatars/%s.png", slug)
}

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx = logging.AddToContext(ctx, logger)

	fail := func(msg string, args ...any) {
		logger.Error(msg, args...)
		os.Exit(1)
	}

	conf, err := config.ConfigFromEnv()
	if err != nil {
		fail("Failed to load config", "error", err.Error())
	}
	if !conf.IsDevelopment() {
		fail("seed-academy only runs in development", "config", conf.NonSensitiveString())
	}

	db, err := database.NewCloudsqlPostgresDatabase(conf)
	if err != nil {
		fail("Failed to connect to database", "error", err.Error())
	}

	schemaName := database.GetSchemaName(!conf.IsProduction())
	err = database.NewDatabaseMigrator(db, logger.With("component", "migrator")).Migrate(ctx, schemaName)
	if err != nil {
		fail("Failed to migrate database", "error", err.Error())
	}

	roundRepo := roundrepository.NewPostgres(db, schemaName)
	practiceRepo := practicerepository.NewPostgres(db, schemaName)
	memberRepo := memberrepository.NewPostgres(db, schemaName, time.Now)

	ledger, err := progressstore.NewRedisOrMemory(conf)
	if err != nil {
		fail("Failed to initialize progress ledger", "error", err.Error())
	}
	if conf.RedisURL() == "" {
		logger.Warn("No REDIS_URL set; ledger writes stay in process memory and are lost when the seeder exits")
	}

	bus := notify.NewBus()

	// Practice entries are stamped with nowFunc, so the seeder steers the
	// clock to backdate them.
	var entryTime time.Time
	nowFunc := func() time.Time { return entryTime }

	newEntryID := func() string {
		id, err := uuid.NewV7()
		if err != nil {
			return uuid.New().String()
		}
		return id.String()
	}

	logRound := app.BuildLogRound(roundRepo, memberRepo, bus, newEntryID, nowFunc)
	logDrillCompletion := app.BuildLogDrillCompletion(practiceRepo, ledger, bus, newEntryID, nowFunc)
	logPracticeSession := app.BuildLogPracticeSession(practiceRepo, ledger, bus, newEntryID, nowFunc)

	// Fixed seed keeps reruns comparable
	rng := rand.New(rand.NewPCG(7, 2026))
	now := time.Now()
	drills := app.Drills()

	totalRounds := 0
	totalPractice := 0

	for _, fixture := range roster {
		userID := seedUserID(fixture.name)
		handicap := fixture.handicap

		_, err := memberRepo.UpsertMember(ctx, domain.Member{
			UserID:      userID,
			DisplayName: fixture.name,
			AvatarURL:   avatarURL(fixture.name),
			Handicap:    &handicap,
		})
		if err != nil {
			fail("Failed to upsert member", "member", fixture.name, "error", err.Error())
		}

		for i := 0; i < fixture.rounds; i++ {
			playedAt := now.AddDate(0, 0, -rng.IntN(180)).Add(-time.Duration(rng.IntN(10)) * time.Hour)

			holes := 18
			if rng.IntN(6) == 0 {
				holes = 9
			}

			// Scores wander around par plus handicap
			gross := 72 + int(handicap) + rng.IntN(9) - 3
			if holes == 9 {
				gross = 36 + int(handicap)/2 + rng.IntN(5) - 1
			}

			fairwaysPossible := 14
			if holes == 9 {
				fairwaysPossible = 7
			}
			skill := 1.0 - handicap/36.0

			round := domain.Round{
				UserID:             userID,
				Course:             courses[rng.IntN(len(courses))],
				PlayedAt:           playedAt,
				Holes:              holes,
				GrossScore:         &gross,
				Handicap:           &handicap,
				Putts:              holes + 10 + rng.IntN(8),
				FairwaysHit:        rng.IntN(int(skill*float64(fairwaysPossible)) + 1),
				FairwaysPossible:   fairwaysPossible,
				GreensInRegulation: rng.IntN(int(skill*float64(holes)) + 1),
				UpAndDownsMade:     rng.IntN(4),
				UpAndDownsMissed:   rng.IntN(5),
				Birdies:            rng.IntN(int(skill*4) + 1),
				Eagles:             0,
				Pars:               2 + rng.IntN(holes/2),
			}
			if rng.IntN(40) == 0 {
				round.Eagles = 1
			}

			entryTime = playedAt
			_, err := logRound(ctx, round)
			if err != nil {
				fail("Failed to log round", "member", fixture.name, "error", err.Error())
			}
			totalRounds++
		}

		for i := 0; i < fixture.practice; i++ {
			// The first streakDays entries land on consecutive days ending
			// today, so streak trophies have something to show.
			dayOffset := rng.IntN(120)
			if i < fixture.streakDays {
				dayOffset = i
			}
			entryTime = now.AddDate(0, 0, -dayOffset).Add(-time.Duration(rng.IntN(8)) * time.Hour)

			if rng.IntN(5) < 3 {
				drill := drills[rng.IntN(len(drills))]
				_, err = logDrillCompletion(ctx, userID, drill.ID)
			} else {
				title := sessionTitles[rng.IntN(len(sessionTitles))]
				category := sessionCategories[rng.IntN(len(sessionCategories))]
				minutes := 20 + rng.IntN(56)
				_, err = logPracticeSession(ctx, userID, title, category, minutes)
			}
			if err != nil {
				fail("Failed to log practice", "member", fixture.name, "error", err.Error())
			}
			totalPractice++
		}

		logger.Info("Seeded member", "member", fixture.name, "userId", userID)
	}

	logger.Info("Seeding complete", "members", len(roster), "rounds", totalRounds, "practice", totalPractice)
}
