package dedupe_test

import (
	"context"
	"testing"

	"github.com/okian/medalboard/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new InMemoryDeduper", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper(dedupe.WithCapacityHint(8))

		So(d.Size(), ShouldEqual, 0)

		Convey("When a key is recorded for the first time", func() {
			seen := d.SeenAndRecord(ctx, "row-1")

			Convey("Then it is reported as new", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And a repeat is reported as seen", func() {
				So(d.SeenAndRecord(ctx, "row-1"), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When many distinct keys are recorded", func() {
			for _, k := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
				So(d.SeenAndRecord(ctx, k), ShouldBeFalse)
			}

			Convey("Then nothing is evicted", func() {
				So(d.Size(), ShouldEqual, 10)
				So(d.SeenAndRecord(ctx, "a"), ShouldBeTrue)
			})
		})
	})
}

func TestKey(t *testing.T) {
	Convey("Given row fields", t, func() {
		Convey("Then shifting a separator between fields changes the key", func() {
			So(dedupe.Key("a_b", "c"), ShouldNotEqual, dedupe.Key("a", "b_c"))
			So(dedupe.Key("", "x"), ShouldNotEqual, dedupe.Key("x", ""))
		})

		Convey("Then identical fields give identical keys", func() {
			So(dedupe.Key("Jane", "female_judo", "gold"), ShouldEqual, dedupe.Key("Jane", "female_judo", "gold"))
		})
	})
}
