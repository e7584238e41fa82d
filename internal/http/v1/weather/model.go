package weather

import "github.com/mhanna50/Michaels-Portfolio-sub000/internal/platform/timeutil"

// Weather is the current weather for a city.
type Weather struct {
	City        string         `json:"city"        doc:"City name as reported upstream"                 example:"London"`
	Condition   string         `json:"condition"   doc:"Lowercase primary condition"                    example:"clouds"`
	Description string         `json:"description" doc:"Upstream condition description"                 example:"overcast clouds"`
	TempC       int            `json:"tempC"       doc:"Temperature rounded to the nearest degree"      example:"12"`
	UpdatedAt   timeutil.Time  `json:"updatedAt"   doc:"When the snapshot was fetched"                  example:"2026-01-15T10:30:00.000Z"`
	IsNight     bool           `json:"isNight"     doc:"True before sunrise or after sunset"`
	Sunrise     *timeutil.Time `json:"sunrise"     doc:"Sunrise, null when unknown"                     example:"2026-01-15T07:58:00.000Z"`
	Sunset      *timeutil.Time `json:"sunset"      doc:"Sunset, null when unknown"                      example:"2026-01-15T16:21:00.000Z"`
	Source      string         `json:"source"      doc:"Always live"                                    example:"live"`
}
