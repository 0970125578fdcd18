package types_test

import (
	"errors"
	"testing"

	types "github.com/chemarena/arena/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseOutcome(t *testing.T) {
	Convey("Given outcome wire strings", t, func() {
		Convey("When parsing model_a", func() {
			o, err := types.ParseOutcome("model_a")

			Convey("Then it should return the model A outcome", func() {
				So(err, ShouldBeNil)
				So(o, ShouldEqual, types.OutcomeModelA)
			})
		})

		Convey("When parsing model_b", func() {
			o, err := types.ParseOutcome("model_b")

			Convey("Then it should return the model B outcome", func() {
				So(err, ShouldBeNil)
				So(o, ShouldEqual, types.OutcomeModelB)
			})
		})

		Convey("When parsing tie", func() {
			o, err := types.ParseOutcome("tie")

			Convey("Then it should return the tie outcome", func() {
				So(err, ShouldBeNil)
				So(o, ShouldEqual, types.OutcomeTie)
			})
		})

		Convey("When parsing an unknown value", func() {
			_, err := types.ParseOutcome("draw")

			Convey("Then it should return an invalid outcome error", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, types.ErrInvalidOutcome), ShouldBeTrue)
			})
		})

		Convey("When parsing an empty string", func() {
			_, err := types.ParseOutcome("")

			Convey("Then it should return an invalid outcome error", func() {
				So(errors.Is(err, types.ErrInvalidOutcome), ShouldBeTrue)
			})
		})

		Convey("When parsing a value with different casing", func() {
			_, err := types.ParseOutcome("MODEL_A")

			Convey("Then it should be rejected", func() {
				So(errors.Is(err, types.ErrInvalidOutcome), ShouldBeTrue)
			})
		})
	})
}

func TestOutcomeValid(t *testing.T) {
	Convey("Given the Outcome type", t, func() {
		Convey("When checking the known outcomes", func() {
			Convey("Then all three should be valid", func() {
				So(types.OutcomeModelA.Valid(), ShouldBeTrue)
				So(types.OutcomeModelB.Valid(), ShouldBeTrue)
				So(types.OutcomeTie.Valid(), ShouldBeTrue)
			})
		})

		Convey("When checking arbitrary values", func() {
			Convey("Then they should be invalid", func() {
				So(types.Outcome("").Valid(), ShouldBeFalse)
				So(types.Outcome("winner").Valid(), ShouldBeFalse)
				So(types.Outcome("model_c").Valid(), ShouldBeFalse)
			})
		})
	})
}

func TestScope(t *testing.T) {
	Convey("Given rating scopes", t, func() {
		Convey("When using the overall scope", func() {
			s := types.OverallScope()

			Convey("Then it should span all categories", func() {
				So(s.IsOverall(), ShouldBeTrue)
				So(s.Category, ShouldBeEmpty)
			})

			Convey("And its key should be stable", func() {
				So(s.Key(), ShouldEqual, "overall")
				So(s.String(), ShouldEqual, "overall")
			})
		})

		Convey("When using a category scope", func() {
			s := types.CategoryScope("admet")

			Convey("Then it should carry the category", func() {
				So(s.IsOverall(), ShouldBeFalse)
				So(s.Category, ShouldEqual, "admet")
			})

			Convey("And its key should embed the category", func() {
				So(s.Key(), ShouldEqual, "category/admet")
			})
		})

		Convey("When comparing scopes", func() {
			Convey("Then equal scopes should compare equal", func() {
				So(types.CategoryScope("notation"), ShouldResemble, types.CategoryScope("notation"))
				So(types.OverallScope(), ShouldResemble, types.Scope{})
			})

			Convey("And distinct categories should produce distinct keys", func() {
				So(types.CategoryScope("admet").Key(), ShouldNotEqual, types.CategoryScope("optimization").Key())
			})
		})

		Convey("When the zero value is used directly", func() {
			var s types.Scope

			Convey("Then it should behave as the overall scope", func() {
				So(s.IsOverall(), ShouldBeTrue)
				So(s.Key(), ShouldEqual, "overall")
			})
		})
	})
}
