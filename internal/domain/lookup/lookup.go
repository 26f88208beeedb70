// Package lookup answers the two selector-driven queries over tidy records.
package lookup

import (
	"sort"

	"github.com/okian/medalboard/internal/domain/model"
)

// Athletes lists distinct athletes in order of first appearance.
func Athletes(records []model.TidyRecord) []string {
	return distinct(records, func(r model.TidyRecord) string { return r.Athlete })
}

// Genders lists distinct genders in order of first appearance.
func Genders(records []model.TidyRecord) []string {
	return distinct(records, func(r model.TidyRecord) string { return r.Gender })
}

// Events lists distinct events in order of first appearance. Events are not
// filtered by gender.
func Events(records []model.TidyRecord) []string {
	return distinct(records, func(r model.TidyRecord) string { return r.Event })
}

func distinct(records []model.TidyRecord, field func(model.TidyRecord) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range records {
		v := field(r)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Achievements lists the athlete's (Event, Medal) pairs in table row order.
func Achievements(records []model.TidyRecord, athlete string) []model.Achievement {
	out := []model.Achievement{}
	for _, r := range records {
		if r.Athlete == athlete {
			out = append(out, model.Achievement{Event: r.Event, Medal: r.Medal})
		}
	}
	return out
}

// Medalists lists athletes who medalled in the gendered event, Gold first,
// then Silver, then Bronze. Equal medals keep their table order.
func Medalists(records []model.TidyRecord, gender, event string) []model.Medalist {
	out := []model.Medalist{}
	for _, r := range records {
		if r.Gender == gender && r.Event == event {
			out = append(out, model.Medalist{Athlete: r.Athlete, Medal: r.Medal})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return model.MedalRank(out[i].Medal) < model.MedalRank(out[j].Medal)
	})
	return out
}
