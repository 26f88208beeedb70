package pivot_test

import (
	"testing"

	"github.com/okian/medalboard/internal/domain/model"
	"github.com/okian/medalboard/internal/domain/pivot"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCount(t *testing.T) {
	Convey("Given tidy records over two genders", t, func() {
		records := []model.TidyRecord{
			{Athlete: "A", Event: "Judo", Medal: "Gold", Gender: "Male"},
			{Athlete: "B", Event: "Archery", Medal: "Silver", Gender: "Female"},
			{Athlete: "C", Event: "Judo", Medal: "Bronze", Gender: "Male"},
			{Athlete: "D", Event: "Archery", Medal: "Gold", Gender: "Male"},
			{Athlete: "E", Event: "Judo", Medal: "Bronze", Gender: "Male"},
		}

		Convey("When they are counted", func() {
			table := pivot.Count(records)

			Convey("Then the axes are sorted", func() {
				So(table.Events, ShouldResemble, []string{"Archery", "Judo"})
				So(table.Genders, ShouldResemble, []string{"Female", "Male"})
			})

			Convey("Then every cell matches the number of records with that pair", func() {
				for _, e := range table.Events {
					for _, g := range table.Genders {
						want := 0
						for _, r := range records {
							if r.Event == e && r.Gender == g {
								want++
							}
						}
						got, _ := table.Count(e, g)
						So(got, ShouldEqual, want)
					}
				}
			})

			Convey("Then an absent combination is zero and not ok", func() {
				n, ok := table.Count("Judo", "Female")
				So(n, ShouldEqual, 0)
				So(ok, ShouldBeFalse)
				So(table.Row("Judo"), ShouldResemble, []int{0, 3})
				So(table.Max(), ShouldEqual, 3)
			})
		})
	})

	Convey("Given no records", t, func() {
		table := pivot.Count(nil)

		Convey("Then the table is empty", func() {
			So(table.Events, ShouldBeEmpty)
			So(table.Genders, ShouldBeEmpty)
			So(table.Flatten(), ShouldBeEmpty)
		})
	})
}
