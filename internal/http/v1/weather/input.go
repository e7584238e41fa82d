package weather

import "strings"

// WeatherGetInput carries the city lookup. q is accepted as an alias of city.
type WeatherGetInput struct {
	City string `query:"city" doc:"City name"      example:"London"`
	Q    string `query:"q"    doc:"Alias for city" example:"London"`
}

// CityName returns city, falling back to q.
func (i *WeatherGetInput) CityName() string {
	if c := strings.TrimSpace(i.City); c != "" {
		return c
	}
	return strings.TrimSpace(i.Q)
}
