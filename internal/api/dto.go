package api

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/samber/lo"

	"github.com/starford/hieroscope/internal/models"
)

// SeasonResponse is returned by GET /season.
type SeasonResponse struct {
	Date   string                `json:"date" example:"2025-02-20"`
	Detail models.DetailLevel    `json:"detail" example:"medium"`
	Season models.ResolvedSeason `json:"season"`
	Empty  bool                  `json:"empty"`
}

// CatalogResponse wraps the validated catalog.
type CatalogResponse struct {
	Sekki []models.SeasonEntry `json:"sekki"`
}

// OptionsResponse lists the selectable display options.
type OptionsResponse struct {
	Options  []models.DisplayOption `json:"options"`
	Selected models.DisplayOption   `json:"selected"`
}

// PreferenceResponse is returned by GET/PUT /preference.
type PreferenceResponse struct {
	DisplayOption models.DisplayOption `json:"displayOption" example:"Small Seasons"`
}

// UpdatePreferenceRequest is the body of PUT /preference.
type UpdatePreferenceRequest struct {
	DisplayOption string `json:"displayOption" example:"Mantras"`
}

// Validate checks that the requested option is known.
func (r *UpdatePreferenceRequest) Validate() error {
	allowed := lo.Map(models.DisplayOptions, func(o models.DisplayOption, _ int) any { return string(o) })
	return validation.ValidateStruct(r,
		validation.Field(&r.DisplayOption, validation.Required, validation.In(allowed...)),
	)
}

// WidgetResponse is returned by GET /widget.
type WidgetResponse struct {
	Size          models.WidgetSize    `json:"size" example:"medium"`
	DisplayOption models.DisplayOption `json:"displayOption"`
	At            time.Time            `json:"at"`
	Text          string               `json:"text"`
}

// IconsResponse is returned by GET /icons.
type IconsResponse struct {
	Icons []string `json:"icons"`
}
