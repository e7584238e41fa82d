package weather

// WeatherGetOutput for GET /api/weather
type WeatherGetOutput struct {
	CacheControl string `header:"Cache-Control" doc:"Shared cache policy"`
	Body         Weather
}
