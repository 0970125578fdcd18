package leaderboard_test

import (
	"testing"

	leaderboard "github.com/chemarena/arena/internal/domain/leaderboard"
	model "github.com/chemarena/arena/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func testCatalog() map[string]model.Model {
	return map[string]model.Model{
		"gpt-4o":            {ID: "gpt-4o", Name: "GPT-4o", Provider: "OpenAI"},
		"claude-3-5-sonnet": {ID: "claude-3-5-sonnet", Name: "Claude 3.5 Sonnet", Provider: "Anthropic"},
		"gemini-1-5-pro":    {ID: "gemini-1-5-pro", Name: "Gemini 1.5 Pro", Provider: "Google", IsNew: true},
		"mistral-large":     {ID: "mistral-large", Name: "Mistral Large", Provider: "Mistral"},
	}
}

func TestBuild(t *testing.T) {
	Convey("Given rating rows and a model catalog", t, func() {
		catalog := testCatalog()

		Convey("When two competitors share a rating", func() {
			rows := []model.RatingRow{
				{ModelID: "gpt-4o", Rating: 1600, TotalMatches: 40},
				{ModelID: "claude-3-5-sonnet", Rating: 1600, TotalMatches: 55},
				{ModelID: "gemini-1-5-pro", Rating: 1400, TotalMatches: 30},
			}
			entries := leaderboard.Build(rows, catalog, 0)

			Convey("Then ranks should stay positional, never shared", func() {
				So(len(entries), ShouldEqual, 3)
				So(entries[0].Rank, ShouldEqual, 1)
				So(entries[1].Rank, ShouldEqual, 2)
				So(entries[2].Rank, ShouldEqual, 3)
			})

			Convey("And the tie should break on total matches first", func() {
				So(entries[0].ModelID, ShouldEqual, "claude-3-5-sonnet")
				So(entries[1].ModelID, ShouldEqual, "gpt-4o")
				So(entries[2].ModelID, ShouldEqual, "gemini-1-5-pro")
			})
		})

		Convey("When tied rows also share total matches", func() {
			rows := []model.RatingRow{
				{ModelID: "mistral-large", Rating: 1500, TotalMatches: 10},
				{ModelID: "gpt-4o", Rating: 1500, TotalMatches: 10},
			}
			entries := leaderboard.Build(rows, catalog, 0)

			Convey("Then the tie should break on model id ascending", func() {
				So(entries[0].ModelID, ShouldEqual, "gpt-4o")
				So(entries[1].ModelID, ShouldEqual, "mistral-large")
			})
		})

		Convey("When a limit truncates the board", func() {
			rows := []model.RatingRow{
				{ModelID: "gemini-1-5-pro", Rating: 1450},
				{ModelID: "gpt-4o", Rating: 1650},
				{ModelID: "claude-3-5-sonnet", Rating: 1550},
				{ModelID: "mistral-large", Rating: 1350},
			}
			entries := leaderboard.Build(rows, catalog, 2)

			Convey("Then the full set should be ordered before truncation", func() {
				So(len(entries), ShouldEqual, 2)
				So(entries[0].ModelID, ShouldEqual, "gpt-4o")
				So(entries[1].ModelID, ShouldEqual, "claude-3-5-sonnet")
			})

			Convey("And ranks should cover only the surviving entries", func() {
				So(entries[0].Rank, ShouldEqual, 1)
				So(entries[1].Rank, ShouldEqual, 2)
			})
		})

		Convey("When the limit exceeds the row count", func() {
			rows := []model.RatingRow{
				{ModelID: "gpt-4o", Rating: 1600},
			}
			entries := leaderboard.Build(rows, catalog, 50)

			Convey("Then all rows should be kept", func() {
				So(len(entries), ShouldEqual, 1)
			})
		})

		Convey("When the limit is zero or negative", func() {
			rows := []model.RatingRow{
				{ModelID: "gpt-4o", Rating: 1600},
				{ModelID: "mistral-large", Rating: 1500},
			}

			Convey("Then everything should be kept", func() {
				So(len(leaderboard.Build(rows, catalog, 0)), ShouldEqual, 2)
				So(len(leaderboard.Build(rows, catalog, -1)), ShouldEqual, 2)
			})
		})

		Convey("When joining against the catalog", func() {
			rows := []model.RatingRow{
				{ModelID: "gemini-1-5-pro", Rating: 1520, Wins: 12, Losses: 6, Ties: 2, WinRate: 0.65, Confidence: 0.2, TotalMatches: 20},
			}
			entries := leaderboard.Build(rows, catalog, 0)

			Convey("Then catalog metadata should be attached", func() {
				So(entries[0].ModelName, ShouldEqual, "Gemini 1.5 Pro")
				So(entries[0].Provider, ShouldEqual, "Google")
				So(entries[0].IsNew, ShouldBeTrue)
			})

			Convey("And the record fields should carry through", func() {
				So(entries[0].Wins, ShouldEqual, 12)
				So(entries[0].Losses, ShouldEqual, 6)
				So(entries[0].Ties, ShouldEqual, 2)
				So(entries[0].WinRate, ShouldAlmostEqual, 0.65, 1e-9)
				So(entries[0].Confidence, ShouldAlmostEqual, 0.2, 1e-9)
			})
		})

		Convey("When a row has no catalog entry", func() {
			rows := []model.RatingRow{
				{ModelID: "retired-model", Rating: 1480},
			}
			entries := leaderboard.Build(rows, catalog, 0)

			Convey("Then the entry should keep the id with empty metadata", func() {
				So(entries[0].ModelID, ShouldEqual, "retired-model")
				So(entries[0].ModelName, ShouldEqual, "")
				So(entries[0].Provider, ShouldEqual, "")
			})
		})

		Convey("When there are no rows", func() {
			entries := leaderboard.Build(nil, catalog, 20)

			Convey("Then the board should be empty", func() {
				So(len(entries), ShouldEqual, 0)
			})
		})

		Convey("When building from an unsorted slice", func() {
			rows := []model.RatingRow{
				{ModelID: "mistral-large", Rating: 1350},
				{ModelID: "gpt-4o", Rating: 1650},
			}
			_ = leaderboard.Build(rows, catalog, 1)

			Convey("Then the input slice should be left untouched", func() {
				So(rows[0].ModelID, ShouldEqual, "mistral-large")
				So(rows[1].ModelID, ShouldEqual, "gpt-4o")
			})
		})
	})
}
