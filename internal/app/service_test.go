package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/chemarena/arena/internal/app"
	model "github.com/chemarena/arena/internal/domain/model"
	types "github.com/chemarena/arena/internal/domain/types"
	"github.com/chemarena/arena/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

// catalogOptions returns a small battle-ready catalog plus fast
// generation settings so tests do not wait on simulated latency.
func catalogOptions() []service.Option {
	return []service.Option{
		service.WithCategories([]model.Category{
			{ID: "admet", Name: "ADMET Prediction", Icon: "🧬"},
			{ID: "optimization", Name: "Molecule Optimization", Icon: "⚗️"},
		}),
		service.WithModels([]model.Model{
			{ID: "gpt-4o", Name: "GPT-4o", Provider: "OpenAI", Active: true},
			{ID: "claude-3-5-sonnet", Name: "Claude 3.5 Sonnet", Provider: "Anthropic", Active: true},
			{ID: "gemini-1-5-pro", Name: "Gemini 1.5 Pro", Provider: "Google", Active: true},
			{ID: "deepseek-v3", Name: "DeepSeek V3", Provider: "DeepSeek", IsNew: true, Active: true},
		}),
		service.WithPrompts([]model.Prompt{
			{ID: "admet-solubility", Category: "admet", Difficulty: "easy", Text: "Predict the aqueous solubility of aspirin."},
			{ID: "admet-bbb", Category: "admet", Difficulty: "medium", Text: "Will caffeine cross the blood-brain barrier?"},
			{ID: "opt-logp", Category: "optimization", Difficulty: "hard", Text: "Suggest substituents to lower the logP of ibuprofen."},
		}),
		service.WithGenerationLatencyRange(time.Millisecond, 3*time.Millisecond),
		service.WithGenerationRate(1000, 200),
		service.WithRandomSeed(42),
	}
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		opts := append(catalogOptions(),
			service.WithWorkerCount(8),
			service.WithQueueCapacity(50_000),
			service.WithDedupeSize(25_000),
			service.WithRecalcInterval(10*time.Second),
			service.WithSolverSettings(100, 1e-5),
			service.WithRatingScale(1500, 400),
			service.WithConfidenceSaturation(50),
			service.WithLeaderboardLimits(25, 50),
		)
		svc := service.New(opts...)

		Convey("Then it should be created successfully", func() {
			So(svc, ShouldNotBeNil)
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(catalogOptions()...)
		// Ensure service is stopped after test
		defer svc.Stop()

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := svc.Start(ctx)

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
			})

			Convey("And it should be marked as started", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
			})

			Convey("And the catalog should be loaded into the store", func() {
				stats := svc.GetStats()
				So(stats["totalModels"], ShouldEqual, 4)
				So(stats["categories"], ShouldEqual, 2)
			})
		})
	})
}

func TestService_Stop(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New(catalogOptions()...)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := svc.Start(ctx)
		So(err, ShouldBeNil)

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, false)
			})
		})
	})
}

func TestService_CreateBattle(t *testing.T) {
	Convey("Given a started service with a catalog", t, func() {
		svc := service.New(catalogOptions()...)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := svc.Start(ctx)
		So(err, ShouldBeNil)
		// Ensure service is stopped after test
		defer svc.Stop()

		Convey("When creating a battle without a category", func() {
			battle, err := svc.CreateBattle(ctx, "")

			Convey("Then it should pair two distinct models", func() {
				So(err, ShouldBeNil)
				So(battle.ID, ShouldNotBeEmpty)
				So(battle.ModelA, ShouldNotBeEmpty)
				So(battle.ModelB, ShouldNotBeEmpty)
				So(battle.ModelA, ShouldNotEqual, battle.ModelB)
			})

			Convey("And both responses should be generated", func() {
				So(err, ShouldBeNil)
				So(battle.ResponseA, ShouldNotBeEmpty)
				So(battle.ResponseB, ShouldNotBeEmpty)
			})

			Convey("And the battle should start unvoted", func() {
				So(err, ShouldBeNil)
				So(battle.Voted, ShouldBeFalse)
				So(battle.Outcome, ShouldBeEmpty)
			})

			Convey("And the battle should be retrievable by id", func() {
				So(err, ShouldBeNil)
				stored, err := svc.Battle(ctx, battle.ID)
				So(err, ShouldBeNil)
				So(stored.ID, ShouldEqual, battle.ID)
				So(stored.Prompt, ShouldEqual, battle.Prompt)
			})
		})

		Convey("When creating a battle in a specific category", func() {
			battle, err := svc.CreateBattle(ctx, "admet")

			Convey("Then the battle should belong to that category", func() {
				So(err, ShouldBeNil)
				So(battle.Category, ShouldEqual, "admet")
				So(battle.PromptID, ShouldStartWith, "admet-")
			})
		})

		Convey("When creating a battle in an unknown category", func() {
			_, err := svc.CreateBattle(ctx, "astrology")

			Convey("Then it should return an error", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, service.ErrUnknownCategory), ShouldBeTrue)
			})
		})
	})

	Convey("Given a started service without prompts", t, func() {
		svc := service.New()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := svc.Start(ctx)
		So(err, ShouldBeNil)
		defer svc.Stop()

		Convey("When creating a battle", func() {
			_, err := svc.CreateBattle(ctx, "")

			Convey("Then it should return an error", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, service.ErrNoPrompts), ShouldBeTrue)
			})
		})
	})
}

func TestService_CastVote(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New(catalogOptions()...)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := svc.Start(ctx)
		So(err, ShouldBeNil)
		// Ensure service is stopped after test
		defer svc.Stop()

		Convey("When casting a vote with an invalid outcome", func() {
			_, err := svc.CastVote(ctx, "battle-123", types.Outcome("both"))

			Convey("Then it should be rejected", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, types.ErrInvalidOutcome), ShouldBeTrue)
			})
		})

		Convey("When casting a first vote on a battle", func() {
			status, err := svc.CastVote(ctx, "battle-123", types.OutcomeModelA)

			Convey("Then it should be accepted", func() {
				So(err, ShouldBeNil)
				So(status, ShouldEqual, service.VoteAccepted)
			})
		})

		Convey("When casting a second vote on the same battle", func() {
			_, err := svc.CastVote(ctx, "battle-456", types.OutcomeModelB)
			So(err, ShouldBeNil)
			status, err := svc.CastVote(ctx, "battle-456", types.OutcomeTie)

			Convey("Then it should be reported as a duplicate", func() {
				So(err, ShouldBeNil)
				So(status, ShouldEqual, service.VoteDuplicate)
			})
		})

		Convey("When casting votes on different battles", func() {
			first, err := svc.CastVote(ctx, "battle-789", types.OutcomeTie)
			So(err, ShouldBeNil)
			second, err := svc.CastVote(ctx, "battle-790", types.OutcomeTie)
			So(err, ShouldBeNil)

			Convey("Then both should be accepted", func() {
				So(first, ShouldEqual, service.VoteAccepted)
				So(second, ShouldEqual, service.VoteAccepted)
			})
		})
	})
}

func TestService_Prompts(t *testing.T) {
	Convey("Given a started service with a catalog", t, func() {
		svc := service.New(catalogOptions()...)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := svc.Start(ctx)
		So(err, ShouldBeNil)
		defer svc.Stop()

		Convey("When listing all prompts", func() {
			prompts, err := svc.Prompts(ctx, "")

			Convey("Then every configured prompt should be returned", func() {
				So(err, ShouldBeNil)
				So(len(prompts), ShouldEqual, 3)
			})
		})

		Convey("When listing prompts for one category", func() {
			prompts, err := svc.Prompts(ctx, "admet")

			Convey("Then only that category's prompts should be returned", func() {
				So(err, ShouldBeNil)
				So(len(prompts), ShouldEqual, 2)
				for _, p := range prompts {
					So(p.Category, ShouldEqual, "admet")
				}
			})
		})

		Convey("When listing prompts for an unknown category", func() {
			_, err := svc.Prompts(ctx, "astrology")

			Convey("Then it should return an error", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, service.ErrUnknownCategory), ShouldBeTrue)
			})
		})
	})
}

func TestService_GetStats(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(catalogOptions()...)

		Convey("When getting stats before starting", func() {
			stats := svc.GetStats()

			Convey("Then it should return basic stats", func() {
				So(stats, ShouldNotBeNil)
				So(stats["started"], ShouldEqual, false)
				So(stats["categories"], ShouldEqual, 2)
			})
		})
	})
}
