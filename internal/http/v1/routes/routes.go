package routes

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	contacthandler "github.com/mhanna50/Michaels-Portfolio-sub000/internal/http/v1/contact"
	weatherhandler "github.com/mhanna50/Michaels-Portfolio-sub000/internal/http/v1/weather"
	"github.com/mhanna50/Michaels-Portfolio-sub000/internal/platform/metrics"
)

// Deps holds the handlers' collaborators.
type Deps struct {
	Contact            *contacthandler.Handler
	ContactAllowOrigin string
	Weather            weatherhandler.Dependencies
	Metrics            *metrics.Metrics
}

// Register wires the API routes. The contact form is a plain chi route on
// router; the weather lookup is a huma operation on api.
func Register(router chi.Router, api huma.API, deps Deps) {
	contacthandler.Register(router, api, deps.Contact, deps.ContactAllowOrigin)
	weatherhandler.Register(api, deps.Weather.Service, deps.Weather.Config, deps.Metrics)
}
