package kernel

import (
	"fmt"

	"pharmadelivery/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrUUIDIsNotConstructed is returned when validating the zero UUID, which no
// constructor ever produces.
var ErrUUIDIsNotConstructed = errs.NewValueIsRequiredError(
	"UUID must be created via NewUUID, UUIDFromString, or UUIDFromBytes")

// UUID identifies commands, packages, profiles, accounts, pharmacies and every
// other reference the core exchanges. It wraps github.com/google/uuid so the
// domain never handles the nil UUID: the zero value is invalid and every
// constructor rejects it.
//
// UUID is a comparable value type and safe to share between goroutines.
//
// Example:
//
//	commandID := kernel.NewUUID()
//
//	pharmacyID, err := kernel.UUIDFromString("550e8400-e29b-41d4-a716-446655440000")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(commandID.IsEqual(pharmacyID)) // false
// UUID identifies commands, packages, profiles, accounts, pharmacies and every
// other reference the core exchanges. The zero value is invalid.
type UUID struct {
	id uuid.UUID
}

// NewUUID generates a random (version 4) UUID. New commands, packages, events
// and anomalies get their ids from it.
//
// Example:
//
//	packageID := kernel.NewUUID()
//	fmt.Println(packageID) // e.g. "6ba7b810-9dad-41d1-80b4-00c04fd430c8"
func NewUUID() UUID {
	return UUID{id: uuid.New()}
}

// UUIDFromString parses the textual forms accepted by uuid.Parse, such as
// "6ba7b810-9dad-11d1-80b4-00c04fd430c8" or its urn:uuid: variant.
// Returns an error for malformed input and ErrUUIDIsNotConstructed for the
// nil UUID, so request headers and path parameters cannot smuggle it in.
//
// Example:
//
//	accountID, err := kernel.UUIDFromString(ctx.Request().Header.Get("X-Account-ID"))
//	if err != nil {
//	    return errs.NewValueIsInvalidErrorWithCause("X-Account-ID", err)
//	}
func UUIDFromString(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid UUID format: %w", err)
	}
	out := UUID{id: id}
	if err = out.Validate(); err != nil {
		return UUID{}, err
	}
	return out, nil
}

// UUIDFromBytes builds a UUID from its 16 raw bytes, the form the uuid
// columns are scanned into.
// Returns an error for a slice of the wrong length and ErrUUIDIsNotConstructed
// for the nil UUID.
//
// Example:
//
//	id, err := kernel.UUIDFromBytes(dto.ID[:])
//	if err != nil {
//	    return nil, err
//	}
func UUIDFromBytes(b []byte) (UUID, error) {
	id, err := uuid.FromBytes(b)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid UUID format: %w", err)
	}
	out := UUID{id: id}
	if err = out.Validate(); err != nil {
		return UUID{}, err
	}
	return out, nil
}

// OptionalUUIDFromBytes maps a nullable column onto a nullable reference.
func OptionalUUIDFromBytes(raw *uuid.UUID) (*UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := UUIDFromBytes(raw[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// OptionalBytes is the inverse of OptionalUUIDFromBytes.
func OptionalBytes(id *UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

// String returns the canonical "xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx" form.
// History events store entity ids in this form.
func (u UUID) String() string {
	return u.id.String()
}

// Bytes returns the wrapped uuid.UUID, which gorm DTOs store directly.
// Use id.Bytes()[:] for a byte slice.
func (u UUID) Bytes() uuid.UUID {
	return u.id
}

// IsEqual reports whether both UUIDs hold the same value.
//
// Example:
//
//	if !pkg.CommandID().IsEqual(cmd.ID()) {
//	    return errors.New("package belongs to another command")
//	}
func (u UUID) IsEqual(other UUID) bool {
	return u.id == other.id
}

// Validate reports whether the UUID came from a constructor.
// Returns ErrUUIDIsNotConstructed for the zero value.
//
// Example:
//
//	func requireID(name string, id kernel.UUID) error {
//	    if err := id.Validate(); err != nil {
//	        return errs.NewValueIsRequiredErrorWithCause(name, err)
//	    }
//	    return nil
//	}
func (u UUID) Validate() error {
	if u.id == uuid.Nil {
		return ErrUUIDIsNotConstructed
	}
	return nil
}

// SameUUID compares two nullable references.
func SameUUID(a, b *UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.IsEqual(*b)
}
