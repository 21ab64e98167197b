package services

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"pharmadelivery/internal/core/domain/model/command"
	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/domain/model/status"
)

// ErrLoadingMismatch means the driver's view of a tour is stale.
var ErrLoadingMismatch = errors.New("loaded commands do not match the tour")

// LoadedCommand is one command as the driver scanned it into the vehicle,
// optionally with the status the driver wants to apply once loading is
// accepted.
type LoadedCommand struct {
	CommandID *kernel.UUID
	Barcodes  []string
	StatusID  *status.ID
	Comment   string
}

// LoadingMatch pairs a server-side command with its loaded counterpart.
type LoadingMatch struct {
	Command *command.Command
	Loaded  LoadedCommand
}

// LoadingInspector compares a driver's loading snapshot with the commands
// currently assigned to the tour.
//
// Each side is keyed by command id, or by the sorted, comma-joined package
// barcodes when the driver did not send an id. The snapshot matches when both
// sides have the same keys and every command carries exactly the same set of
// barcodes.
type LoadingInspector struct{}

// NewLoadingInspector creates a stateless inspector.
func NewLoadingInspector() LoadingInspector {
	return LoadingInspector{}
}

// Compare returns the matched pairs in tour order, or an error wrapping
// ErrLoadingMismatch describing the first difference found.
func (LoadingInspector) Compare(tourCommands []*command.Command, snapshot []LoadedCommand) ([]LoadingMatch, error) {
	if len(tourCommands) != len(snapshot) {
		return nil, fmt.Errorf("%w: tour has %d commands, %d were loaded", ErrLoadingMismatch, len(tourCommands), len(snapshot))
	}

	byKey := make(map[string]*command.Command, len(tourCommands)*2)
	for _, c := range tourCommands {
		byKey[c.ID().String()] = c
		byKey[barcodeKey(c.Barcodes())] = c
	}

	matched := make(map[kernel.UUID]LoadedCommand, len(snapshot))
	for _, loaded := range snapshot {
		key := barcodeKey(loaded.Barcodes)
		if loaded.CommandID != nil {
			key = loaded.CommandID.String()
		}

		c, ok := byKey[key]
		if !ok {
			return nil, fmt.Errorf("%w: command %s is not part of the tour", ErrLoadingMismatch, key)
		}
		if _, dup := matched[c.ID()]; dup {
			return nil, fmt.Errorf("%w: command %s was loaded twice", ErrLoadingMismatch, c.ID())
		}
		if barcodeKey(c.Barcodes()) != barcodeKey(loaded.Barcodes) {
			return nil, fmt.Errorf("%w: packages of command %s differ", ErrLoadingMismatch, c.ID())
		}
		matched[c.ID()] = loaded
	}

	out := make([]LoadingMatch, 0, len(tourCommands))
	for _, c := range tourCommands {
		out = append(out, LoadingMatch{Command: c, Loaded: matched[c.ID()]})
	}
	return out, nil
}

func barcodeKey(barcodes []string) string {
	sorted := slices.Clone(barcodes)
	slices.Sort(sorted)
	return strings.Join(sorted, ",")
}
