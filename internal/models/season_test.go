package models

import (
	"testing"
	"time"
)

func TestSeasonEntry_Start(t *testing.T) {
	e := SeasonEntry{ID: "Risshun", StartDate: "02-04"}
	got, err := e.Start(2025, time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2025, time.February, 4, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, err := (SeasonEntry{StartDate: "2025-02-04"}).Start(2025, time.UTC); err == nil {
		t.Error("expected error for full date")
	}
}

func TestParseDisplayOption(t *testing.T) {
	tests := []struct {
		in   string
		want DisplayOption
	}{
		{"Days of the Week", OptionDaysOfWeek},
		{"Mantras", OptionMantras},
		{"Small Seasons", OptionSmallSeasons},
		{"", DefaultDisplayOption},
		{"mantras", DefaultDisplayOption},
		{"Horoscopes", DefaultDisplayOption},
	}
	for _, tt := range tests {
		if got := ParseDisplayOption(tt.in); got != tt.want {
			t.Errorf("ParseDisplayOption(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWidgetSizeDetail(t *testing.T) {
	for size, want := range map[WidgetSize]DetailLevel{
		SizeSmall:  DetailMinimal,
		SizeMedium: DetailMedium,
		SizeLarge:  DetailFull,
		"huge":     DetailMinimal,
	} {
		if got := size.Detail(); got != want {
			t.Errorf("%s.Detail() = %s, want %s", size, got, want)
		}
	}
	if _, ok := ParseWidgetSize("huge"); ok {
		t.Error("huge should not parse")
	}
	if _, ok := ParseDetailLevel("full"); !ok {
		t.Error("full should parse")
	}
}
