package api

import (
	"time"

	"github.com/arnowelzel/periodical/internal/db"
	"github.com/arnowelzel/periodical/internal/services"
)

const (
	sessionCookieName = "periodical_session"

	loginAttemptsLimit  = 8
	loginAttemptsWindow = 15 * time.Minute
)

type Dependencies struct {
	Events      *services.EventService
	Configs     *services.CycleConfigService
	Predictions *services.PredictionService
	Exports     *services.ExportService
	Access      *services.AccessService
}

// NewDependencies wires the services over one set of repositories. The CLI
// and the HTTP server share it.
func NewDependencies(repositories *db.Repositories, secret []byte) Dependencies {
	events := services.NewEventService(repositories.Events)
	configs := services.NewCycleConfigService(repositories.Options)
	return Dependencies{
		Events:      events,
		Configs:     configs,
		Predictions: services.NewPredictionService(events, configs),
		Exports:     services.NewExportService(events),
		Access:      services.NewAccessService(repositories.Options, secret),
	}
}

type Handler struct {
	events       *services.EventService
	configs      *services.CycleConfigService
	predictions  *services.PredictionService
	exports      *services.ExportService
	access       *services.AccessService
	location     *time.Location
	cookieSecure bool
	logins       *loginThrottle
	now          func() time.Time
}

func NewHandler(deps Dependencies, location *time.Location, cookieSecure bool) *Handler {
	if location == nil {
		location = time.Local
	}
	handler := &Handler{
		events:       deps.Events,
		configs:      deps.Configs,
		predictions:  deps.Predictions,
		exports:      deps.Exports,
		access:       deps.Access,
		location:     location,
		cookieSecure: cookieSecure,
		now:          time.Now,
	}
	handler.logins = newLoginThrottle(loginAttemptsLimit, loginAttemptsWindow, func() time.Time {
		return handler.now()
	})
	return handler
}

// today is the current calendar day in the configured zone.
func (handler *Handler) today() time.Time {
	return services.DateAtLocation(handler.now(), handler.location)
}
