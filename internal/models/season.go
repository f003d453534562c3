// Package models defines the domain types for Hieroscope.
package models

import (
	"fmt"
	"time"
)

// SeasonEntry is one row of the almanac catalog (a sekki).
type SeasonEntry struct {
	ID          string `json:"id" yaml:"id"`
	Symbol      string `json:"kanji" yaml:"kanji"`
	Notes       string `json:"notes" yaml:"notes"`
	Description string `json:"description" yaml:"description"`
	StartDate   string `json:"startDate" yaml:"startDate"` // MM-DD, recurring every year
}

// Start returns the entry's start date in the given year and location.
func (e SeasonEntry) Start(year int, loc *time.Location) (time.Time, error) {
	md, err := time.Parse(StartDateLayout, e.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("models: start date %q: %w", e.StartDate, err)
	}
	return time.Date(year, md.Month(), md.Day(), 0, 0, 0, 0, loc), nil
}

// StartDateLayout is the time layout of SeasonEntry.StartDate.
const StartDateLayout = "01-02"

// DetailLevel controls how much of a resolved season is projected.
type DetailLevel string

const (
	DetailMinimal DetailLevel = "minimal"
	DetailMedium  DetailLevel = "medium"
	DetailFull    DetailLevel = "full"
)

// ParseDetailLevel parses s, returning false for unknown levels.
func ParseDetailLevel(s string) (DetailLevel, bool) {
	switch d := DetailLevel(s); d {
	case DetailMinimal, DetailMedium, DetailFull:
		return d, true
	}
	return "", false
}

// ResolvedSeason is the current entry projected onto a detail level.
// The zero value is the empty result.
type ResolvedSeason struct {
	ID          string `json:"id"`
	Symbol      string `json:"kanji"`
	Notes       string `json:"notes,omitempty"`
	Description string `json:"description,omitempty"`
}

// IsEmpty reports whether r is the empty result.
func (r ResolvedSeason) IsEmpty() bool {
	return r == ResolvedSeason{}
}

// WidgetSize is the widget family being rendered.
type WidgetSize string

const (
	SizeSmall  WidgetSize = "small"
	SizeMedium WidgetSize = "medium"
	SizeLarge  WidgetSize = "large"
)

// ParseWidgetSize parses s, returning false for unknown sizes.
func ParseWidgetSize(s string) (WidgetSize, bool) {
	switch w := WidgetSize(s); w {
	case SizeSmall, SizeMedium, SizeLarge:
		return w, true
	}
	return "", false
}

// Detail returns the detail level a widget of this size displays.
func (w WidgetSize) Detail() DetailLevel {
	switch w {
	case SizeMedium:
		return DetailMedium
	case SizeLarge:
		return DetailFull
	default:
		return DetailMinimal
	}
}

// DisplayOption is what the widget shows. Values are the stored labels.
type DisplayOption string

const (
	OptionDaysOfWeek   DisplayOption = "Days of the Week"
	OptionMantras      DisplayOption = "Mantras"
	OptionSmallSeasons DisplayOption = "Small Seasons"
)

// DefaultDisplayOption is used when no valid option is stored.
const DefaultDisplayOption = OptionSmallSeasons

// DisplayOptions lists every option in presentation order.
var DisplayOptions = []DisplayOption{OptionDaysOfWeek, OptionMantras, OptionSmallSeasons}

// Valid reports whether o is a known option.
func (o DisplayOption) Valid() bool {
	switch o {
	case OptionDaysOfWeek, OptionMantras, OptionSmallSeasons:
		return true
	}
	return false
}

// ParseDisplayOption maps a stored label to an option, falling back to the
// default for missing or unknown values.
func ParseDisplayOption(s string) DisplayOption {
	if o := DisplayOption(s); o.Valid() {
		return o
	}
	return DefaultDisplayOption
}

// IconSelection is the set of icons chosen for one day.
type IconSelection struct {
	Icons     []string  `json:"icons"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TimelineEntry is one scheduled widget refresh.
type TimelineEntry struct {
	Date  time.Time `json:"date"`
	Text  string    `json:"text"`
	Icons []string  `json:"icons"`
}

// Timeline is a rendered refresh window plus the reload policy instant.
type Timeline struct {
	Entries     []TimelineEntry `json:"entries"`
	ReloadAfter time.Time       `json:"reload_after"`
}
