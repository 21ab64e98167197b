package commands

import (
	"context"

	"pharmadelivery/internal/core/application/routes"
	"pharmadelivery/internal/core/domain/model/command"
	"pharmadelivery/internal/core/domain/model/tour"
	"pharmadelivery/internal/core/ports"
)

// TourPlanner renumbers tours and recomputes their routes inside the caller's
// unit of work. routes.Planner is the production implementation.
type TourPlanner interface {
	Refresh(ctx context.Context, store routes.Store, scope ports.Scope, tourIDs []string) error
	UpdateTourRoutes(ctx context.Context, store routes.Store, tours []*tour.Tour) error
}

// tourIDsOf lists the tours the commands currently belong to.
func tourIDsOf(commands []*command.Command) []string {
	out := make([]string, 0, len(commands))
	for _, c := range commands {
		if c.TourID() != nil {
			out = append(out, *c.TourID())
		}
	}
	return out
}
