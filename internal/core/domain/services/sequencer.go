package services

import (
	"cmp"
	"fmt"
	"slices"

	"pharmadelivery/internal/core/domain/model/command"
	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/pkg/errs"
)

// Sequencer keeps the commands of one tour numbered 1..N without gaps or
// duplicates.
type Sequencer struct{}

// NewSequencer creates a stateless sequencer.
//
// Example:
//
//	ordered, err := services.NewSequencer().Reorder(members, []kernel.UUID{urgentID})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(*ordered[0].TourOrder()) // 1
func NewSequencer() Sequencer {
	return Sequencer{}
}

// Renumber stably sorts commands by their current order, commands without an
// order last, and assigns 1..N. The slice is sorted in place.
//
// Commands that just joined carry command.PendingOrder and therefore land
// after every existing stop in the order they were passed.
func (Sequencer) Renumber(commands []*command.Command) error {
	slices.SortStableFunc(commands, compareTourOrder)
	return assignPositions(commands)
}

// Reorder puts the listed commands first, in the given order, and keeps the
// remaining commands after them in their current relative order.
func (s Sequencer) Reorder(commands []*command.Command, ordered []kernel.UUID) ([]*command.Command, error) {
	byID := make(map[kernel.UUID]*command.Command, len(commands))
	for _, c := range commands {
		byID[c.ID()] = c
	}

	placed := make(map[kernel.UUID]struct{}, len(ordered))
	out := make([]*command.Command, 0, len(commands))
	for _, id := range ordered {
		c, ok := byID[id]
		if !ok {
			return nil, errs.NewObjectNotFoundError("commandID", id)
		}
		if _, dup := placed[id]; dup {
			return nil, errs.NewValueIsInvalidErrorWithCause("ordered", fmt.Errorf("command %s listed twice", id))
		}
		placed[id] = struct{}{}
		out = append(out, c)
	}

	rest := make([]*command.Command, 0, len(commands)-len(out))
	for _, c := range commands {
		if _, ok := placed[c.ID()]; !ok {
			rest = append(rest, c)
		}
	}
	slices.SortStableFunc(rest, compareTourOrder)
	out = append(out, rest...)

	if err := assignPositions(out); err != nil {
		return nil, err
	}
	return out, nil
}

func assignPositions(commands []*command.Command) error {
	for i, c := range commands {
		if err := c.SetTourOrder(i + 1); err != nil {
			return err
		}
	}
	return nil
}

func compareTourOrder(a, b *command.Command) int {
	ao, bo := a.TourOrder(), b.TourOrder()
	switch {
	case ao == nil && bo == nil:
		return 0
	case ao == nil:
		return 1
	case bo == nil:
		return -1
	default:
		return cmp.Compare(*ao, *bo)
	}
}
