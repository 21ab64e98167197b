package command

import (
	"errors"
	"math"

	"pharmadelivery/internal/core/domain/model/history"
	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/domain/model/status"
	"pharmadelivery/internal/pkg/errs"
)

var ErrPackageIsNotConstructed = errors.New("Package must be created via NewPackage constructor")

// Parcel holds the physical attributes of a package.
type Parcel struct {
	TransportNumber string
	Weight          float64
	Dimensions      string
	IsFresh         bool
}

// Package is one physical parcel of a command, identified on the floor by its
// barcode. Its status moves independently of the command's, except when a web
// command change cascades onto it.
// Package is one physical parcel of a command.
type Package struct {
	id        kernel.UUID
	commandID kernel.UUID
	barcode   string
	parcel    Parcel
	status    *history.Ref

	isConstructed bool
}

// NewPackage creates a package. An empty transport number defaults to the barcode.
func NewPackage(id, commandID kernel.UUID, barcode string, parcel Parcel) (*Package, error) {
	var errBarcode error
	if barcode == "" {
		errBarcode = errs.NewValueIsRequiredError("barcode")
	}

	var errWeight error
	if parcel.Weight < 0 {
		errWeight = errs.NewValueIsOutOfRangeError("weight", parcel.Weight, 0, math.MaxFloat64)
	}

	if err := errors.Join(id.Validate(), commandID.Validate(), errBarcode, errWeight); err != nil {
		return nil, err
	}

	if parcel.TransportNumber == "" {
		parcel.TransportNumber = barcode
	}

	return &Package{
		id:            id,
		commandID:     commandID,
		barcode:       barcode,
		parcel:        parcel,
		isConstructed: true,
	}, nil
}

// RestorePackage rebuilds a package loaded from storage.
func RestorePackage(id, commandID kernel.UUID, barcode string, parcel Parcel, current *history.Ref) (*Package, error) {
	p, err := NewPackage(id, commandID, barcode, parcel)
	if err != nil {
		return nil, err
	}
	p.status = current
	return p, nil
}

// Validate ensures the package was created through a constructor.
// Returns ErrPackageIsNotConstructed if validation fails.
func (p *Package) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPackageIsNotConstructed
	}
	return nil
}

// ID returns the package identifier.
func (p *Package) ID() kernel.UUID {
	return p.id
}

// CommandID returns the owning command.
func (p *Package) CommandID() kernel.UUID {
	return p.commandID
}

// Barcode returns the unique scanning code.
func (p *Package) Barcode() string {
	return p.barcode
}

// TransportNumber returns the carrier reference, the barcode when none was given.
func (p *Package) TransportNumber() string {
	return p.parcel.TransportNumber
}

// Weight returns the weight in kilograms.
func (p *Package) Weight() float64 {
	return p.parcel.Weight
}

// Dimensions returns the size as imported, free form.
func (p *Package) Dimensions() string {
	return p.parcel.Dimensions
}

// IsFresh reports whether the parcel needs the cold chain.
func (p *Package) IsFresh() bool {
	return p.parcel.IsFresh
}

// Status returns the pointer to the newest history event, nil before the first one.
func (p *Package) Status() *history.Ref {
	return p.status
}

// HasStatus reports whether the package currently sits at id.
func (p *Package) HasStatus(id status.ID) bool {
	return p.status != nil && p.status.StatusID() == id
}

// ApplyEvent moves the status pointer after ev was appended to the log.
func (p *Package) ApplyEvent(ev *history.Event) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	if ev.Kind() != status.KindPackage || ev.EntityID() != p.id.String() {
		return ErrEventBelongsElsewhere
	}
	next := history.Advance(p.status, ev)
	p.status = &next
	return nil
}
