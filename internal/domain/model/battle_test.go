package model_test

import (
	"testing"
	"time"

	model "github.com/chemarena/arena/internal/domain/model"
	types "github.com/chemarena/arena/internal/domain/types"
	"github.com/smartystreets/goconvey/convey"
)

func TestBattle(t *testing.T) {
	convey.Convey("Given a Battle struct", t, func() {
		convey.Convey("When creating a new battle", func() {
			now := time.Now()
			battle := model.Battle{
				ID:        "battle-123",
				Category:  "admet",
				PromptID:  "prompt-7",
				Prompt:    "Predict the logP of aspirin",
				ModelA:    "gpt-4o",
				ModelB:    "claude-3-5-sonnet",
				ResponseA: "The logP of aspirin is approximately 1.19",
				ResponseB: "Aspirin has a logP near 1.2",
				CreatedAt: now,
			}

			convey.Convey("Then it should have the correct values", func() {
				convey.So(battle.ID, convey.ShouldEqual, "battle-123")
				convey.So(battle.Category, convey.ShouldEqual, "admet")
				convey.So(battle.ModelA, convey.ShouldEqual, "gpt-4o")
				convey.So(battle.ModelB, convey.ShouldEqual, "claude-3-5-sonnet")
				convey.So(battle.CreatedAt, convey.ShouldEqual, now)
			})

			convey.Convey("And it should start unvoted", func() {
				convey.So(battle.Voted, convey.ShouldBeFalse)
				convey.So(battle.Outcome, convey.ShouldEqual, types.Outcome(""))
				convey.So(battle.VotedAt.IsZero(), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a vote has been recorded", func() {
			votedAt := time.Now()
			battle := model.Battle{
				ID:      "battle-456",
				Voted:   true,
				Outcome: types.OutcomeModelA,
				VotedAt: votedAt,
			}

			convey.Convey("Then it should carry the verdict", func() {
				convey.So(battle.Voted, convey.ShouldBeTrue)
				convey.So(battle.Outcome, convey.ShouldEqual, types.OutcomeModelA)
				convey.So(battle.VotedAt, convey.ShouldEqual, votedAt)
			})
		})

		convey.Convey("When creating a battle with zero values", func() {
			battle := model.Battle{}

			convey.Convey("Then it should have default values", func() {
				convey.So(battle.ID, convey.ShouldEqual, "")
				convey.So(battle.Category, convey.ShouldEqual, "")
				convey.So(battle.Voted, convey.ShouldBeFalse)
				convey.So(battle.CreatedAt, convey.ShouldEqual, time.Time{})
			})
		})
	})
}

func TestVoteJob(t *testing.T) {
	convey.Convey("Given a VoteJob struct", t, func() {
		convey.Convey("When creating a vote job", func() {
			received := time.Now()
			job := model.VoteJob{
				BattleID:   "battle-789",
				Outcome:    types.OutcomeTie,
				ReceivedAt: received,
			}

			convey.Convey("Then it should have the correct values", func() {
				convey.So(job.BattleID, convey.ShouldEqual, "battle-789")
				convey.So(job.Outcome, convey.ShouldEqual, types.OutcomeTie)
				convey.So(job.ReceivedAt, convey.ShouldEqual, received)
			})
		})
	})
}

func TestMatchResult(t *testing.T) {
	convey.Convey("Given a MatchResult struct", t, func() {
		convey.Convey("When projecting a voted battle", func() {
			match := model.MatchResult{
				ModelA:   "gemini-1-5-pro",
				ModelB:   "llama-3-1-405b",
				Outcome:  types.OutcomeModelB,
				Category: "notation",
			}

			convey.Convey("Then it should carry both sides and the verdict", func() {
				convey.So(match.ModelA, convey.ShouldEqual, "gemini-1-5-pro")
				convey.So(match.ModelB, convey.ShouldEqual, "llama-3-1-405b")
				convey.So(match.Outcome, convey.ShouldEqual, types.OutcomeModelB)
				convey.So(match.Category, convey.ShouldEqual, "notation")
			})
		})
	})
}

func TestCatalogTypes(t *testing.T) {
	convey.Convey("Given catalog types", t, func() {
		convey.Convey("When creating a model entry", func() {
			m := model.Model{
				ID:          "mistral-large",
				Name:        "Mistral Large",
				Provider:    "Mistral",
				Description: "Flagship reasoning model",
				Active:      true,
			}

			convey.Convey("Then it should have the correct values", func() {
				convey.So(m.ID, convey.ShouldEqual, "mistral-large")
				convey.So(m.Provider, convey.ShouldEqual, "Mistral")
				convey.So(m.Active, convey.ShouldBeTrue)
				convey.So(m.IsNew, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When creating a category", func() {
			c := model.Category{
				ID:          "optimization",
				Name:        "Molecule Optimization",
				Icon:        "⚗️",
				Description: "Improve molecular properties",
			}

			convey.Convey("Then it should have the correct values", func() {
				convey.So(c.ID, convey.ShouldEqual, "optimization")
				convey.So(c.Name, convey.ShouldEqual, "Molecule Optimization")
			})
		})

		convey.Convey("When creating a rating row", func() {
			row := model.RatingRow{
				ModelID:      "gpt-4o",
				Rating:       1624,
				Strength:     1.42,
				Wins:         30,
				Losses:       12,
				Ties:         3,
				WinRate:      0.7,
				Confidence:   0.45,
				TotalMatches: 45,
			}

			convey.Convey("Then it should have the correct values", func() {
				convey.So(row.Rating, convey.ShouldEqual, 1624)
				convey.So(row.Strength, convey.ShouldAlmostEqual, 1.42, 0.0001)
				convey.So(row.TotalMatches, convey.ShouldEqual, 45)
			})
		})
	})
}
