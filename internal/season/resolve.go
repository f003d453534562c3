// Package season selects the current almanac entry for a reference date.
package season

import (
	"time"

	"github.com/starford/hieroscope/internal/models"
)

// Resolve returns the entry in effect on the calendar day of at, projected
// onto detail.
//
// Entries are scanned in catalog order. An entry whose start (reinterpreted
// in at's year and location) is on or before that day becomes the current
// candidate; an entry starting exactly on that day ends the scan. When no
// entry has started yet this year, the last catalog entry is still in effect
// from the previous year. An empty catalog yields the empty result.
func Resolve(entries []models.SeasonEntry, at time.Time, detail models.DetailLevel) models.ResolvedSeason {
	if len(entries) == 0 {
		return models.ResolvedSeason{}
	}

	loc := at.Location()
	today := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, loc)

	current := -1
	for i, e := range entries {
		start, err := e.Start(today.Year(), loc)
		if err != nil || start.After(today) {
			continue
		}
		current = i
		if start.Equal(today) {
			break
		}
	}
	if current < 0 {
		current = len(entries) - 1
	}

	return Project(entries[current], detail)
}

// Project narrows e to the fields shown at the given detail level.
// Unknown levels are treated as minimal.
func Project(e models.SeasonEntry, detail models.DetailLevel) models.ResolvedSeason {
	r := models.ResolvedSeason{ID: e.ID, Symbol: e.Symbol}
	switch detail {
	case models.DetailFull:
		r.Description = e.Description
		r.Notes = e.Notes
	case models.DetailMedium:
		r.Notes = e.Notes
	}
	return r
}
