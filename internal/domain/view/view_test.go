package view_test

import (
	"context"
	"testing"

	"github.com/okian/medalboard/internal/domain/model"
	"github.com/okian/medalboard/internal/domain/tidy"
	"github.com/okian/medalboard/internal/domain/view"
	. "github.com/smartystreets/goconvey/convey"
)

func cell(v string) model.Cell { return model.Cell{Value: v} }

var null = model.Cell{Null: true}

func raw() *model.RawTable {
	return &model.RawTable{
		Columns: []string{"medalist_name", "male_judo", "female_judo"},
		Rows: [][]model.Cell{
			{cell("Ann"), null, cell("bronze")},
			{cell("Bo"), cell("silver"), null},
			{cell("Cy"), null, cell("gold")},
		},
	}
}

func TestBuild(t *testing.T) {
	Convey("Given a tidied table", t, func() {
		r := raw()
		res, err := tidy.New().Run(context.Background(), r)
		So(err, ShouldBeNil)

		Convey("When built with an empty selection", func() {
			v := view.Build(r, res, model.Selection{}, view.WithPreviewRows(2))

			Convey("Then previews are cut to the preview size", func() {
				So(v.RawHead, ShouldHaveLength, 2)
				So(v.MeltedHead, ShouldHaveLength, 2)
				So(v.TidyHead, ShouldHaveLength, 2)
				So(v.RawColumns, ShouldResemble, r.Columns)
			})

			Convey("Then each selector falls back to its first option", func() {
				So(v.Selection, ShouldResemble, model.Selection{Athlete: "Bo", Gender: "Male", Event: "Judo"})
				So(v.Achievements, ShouldResemble, []model.Achievement{{Event: "Judo", Medal: "Silver"}})
				So(v.Medalists, ShouldResemble, []model.Medalist{{Athlete: "Bo", Medal: "Silver"}})
			})

			Convey("Then the pivot covers every tidy row", func() {
				So(v.Pivot.Genders, ShouldResemble, []string{"Female", "Male"})
				So(v.Pivot.Row("Judo"), ShouldResemble, []int{2, 1})
			})
		})

		Convey("When built for the women's event", func() {
			v := view.Build(r, res, model.Selection{Athlete: "Ann", Gender: "Female", Event: "Judo"})

			Convey("Then medalists are sorted by medal", func() {
				So(v.Medalists, ShouldResemble, []model.Medalist{
					{Athlete: "Cy", Medal: "Gold"},
					{Athlete: "Ann", Medal: "Bronze"},
				})
			})
		})

		Convey("When built for an unknown athlete", func() {
			v := view.Build(r, res, model.Selection{Athlete: "Nobody"})

			Convey("Then the selection is kept and the list is empty", func() {
				So(v.Selection.Athlete, ShouldEqual, "Nobody")
				So(v.Achievements, ShouldBeEmpty)
			})
		})

		Convey("Then building twice gives the same view", func() {
			sel := model.Selection{Gender: "Female"}
			So(view.Build(r, res, sel), ShouldResemble, view.Build(r, res, sel))
		})
	})

	Convey("Given an empty tidy result", t, func() {
		v := view.Build(nil, tidy.Result{}, model.Selection{})

		Convey("Then every table is empty", func() {
			So(v.RawHead, ShouldBeEmpty)
			So(v.Athletes, ShouldBeEmpty)
			So(v.Selection, ShouldResemble, model.Selection{})
			So(v.Medalists, ShouldBeEmpty)
		})
	})
}
