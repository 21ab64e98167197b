// Package anomaly models the record opened when a delivery ends badly in the field.
package anomaly

import (
	"errors"
	"time"

	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/pkg/errs"
)

// CodeOther is the code used for anomalies raised by a status change.
const CodeOther = "other"

var ErrAnomalyIsNotConstructed = errors.New("Anomaly must be created via NewAnomaly constructor")

// Anomaly is an incident report raised against a command for the destination
// pharmacy. It is created once and never changed.
//
// Example:
//
//	a, err := anomaly.ForStatusChange(commandID, pharmacyID, "refused", "box crushed",
//	    []string{"75001-000001"}, &driverID, time.Now())
//	if err != nil {
//	    return err
//	}
//	err = anomalyService.Create(ctx, a)
type Anomaly struct {
	id         kernel.UUID
	commandID  kernel.UUID
	pharmacyID kernel.UUID
	code       string
	comment    string
	barcodes   []string
	createdBy  *kernel.UUID
	createdAt  time.Time

	isConstructed bool
}

// NewAnomaly creates an anomaly with a fresh id. barcodes is copied.
// Returns errs.ErrValueIsRequired for an empty code or a zero command or
// pharmacy id.
func NewAnomaly(
	commandID, pharmacyID kernel.UUID,
	code, comment string,
	barcodes []string,
	createdBy *kernel.UUID,
	createdAt time.Time,
) (*Anomaly, error) {
	var errCode error
	if code == "" {
		errCode = errs.NewValueIsRequiredError("code")
	}
	if err := errors.Join(commandID.Validate(), pharmacyID.Validate(), errCode); err != nil {
		return nil, err
	}

	return &Anomaly{
		id:            kernel.NewUUID(),
		commandID:     commandID,
		pharmacyID:    pharmacyID,
		code:          code,
		comment:       comment,
		barcodes:      append([]string(nil), barcodes...),
		createdBy:     createdBy,
		createdAt:     createdAt.UTC(),
		isConstructed: true,
	}, nil
}

// ForStatusChange builds the anomaly opened when a command reaches a negative
// outcome. The comment reads "<status name>: <comment>", or the bare status
// name when no comment was given.
func ForStatusChange(
	commandID, pharmacyID kernel.UUID,
	statusName, comment string,
	barcodes []string,
	createdBy *kernel.UUID,
	createdAt time.Time,
) (*Anomaly, error) {
	text := statusName
	if comment != "" {
		text = statusName + ": " + comment
	}
	return NewAnomaly(commandID, pharmacyID, CodeOther, text, barcodes, createdBy, createdAt)
}

// Validate ensures the anomaly was created through a constructor.
// Returns ErrAnomalyIsNotConstructed if validation fails.
func (a *Anomaly) Validate() error {
	if a == nil || !a.isConstructed {
		return ErrAnomalyIsNotConstructed
	}
	return nil
}

// ID returns the anomaly identifier.
func (a *Anomaly) ID() kernel.UUID {
	return a.id
}

// CommandID returns the command the anomaly is about.
func (a *Anomaly) CommandID() kernel.UUID {
	return a.commandID
}

// PharmacyID returns the pharmacy that receives the report.
func (a *Anomaly) PharmacyID() kernel.UUID {
	return a.pharmacyID
}

// Code returns the anomaly category, CodeOther for status changes.
func (a *Anomaly) Code() string {
	return a.code
}

// Comment returns the human readable description.
func (a *Anomaly) Comment() string {
	return a.comment
}

// Barcodes returns the packages concerned.
func (a *Anomaly) Barcodes() []string {
	return a.barcodes
}

// CreatedBy returns the reporting profile, nil for system reports.
func (a *Anomaly) CreatedBy() *kernel.UUID {
	return a.createdBy
}

// CreatedAt returns the report time in UTC.
func (a *Anomaly) CreatedAt() time.Time {
	return a.createdAt
}
