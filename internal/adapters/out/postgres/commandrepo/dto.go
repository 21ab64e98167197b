// Package commandrepo persists command aggregates and their packages.
package commandrepo

import (
	"time"

	"pharmadelivery/internal/adapters/out/postgres/historyrepo"
	"pharmadelivery/internal/core/domain/model/command"
	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/domain/model/status"

	"github.com/google/uuid"
)

// CommandDTO is the commands table. Tour membership is a plain varchar column
// so the tour row can be removed without touching commands first.
type CommandDTO struct {
	ID             uuid.UUID                `gorm:"type:uuid;primaryKey"`
	AccountID      uuid.UUID                `gorm:"type:uuid;not null;index"`
	ExpeditionDate time.Time                `gorm:"type:timestamptz;not null"`
	CloseDate      *time.Time               `gorm:"type:timestamptz"`
	Comment        string                   `gorm:"type:text"`
	Location       LocationDTO              `gorm:"embedded;embeddedPrefix:location_"`
	ManualTariff   *float64                 `gorm:"type:numeric(10,2)"`
	PharmacyID     *uuid.UUID               `gorm:"type:uuid;index"`
	SenderID       *uuid.UUID               `gorm:"type:uuid"`
	IsNewPharmacy  bool                     `gorm:"not null;default:false"`
	TourID         *string                  `gorm:"type:varchar(20);index"`
	TourOrder      *int                     `gorm:"type:int"`
	Status         historyrepo.StatusRefDTO `gorm:"embedded;embeddedPrefix:status_"`
	Packages       []PackageDTO             `gorm:"foreignKey:CommandID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (CommandDTO) TableName() string {
	return "commands"
}

// LocationDTO holds the optional delivery coordinates.
type LocationDTO struct {
	Lat *float64 `gorm:"type:double precision"`
	Lon *float64 `gorm:"type:double precision"`
}

// PackageDTO is the packages table.
type PackageDTO struct {
	ID              uuid.UUID                `gorm:"type:uuid;primaryKey"`
	CommandID       uuid.UUID                `gorm:"type:uuid;not null;index"`
	Barcode         string                   `gorm:"type:varchar(32);not null;uniqueIndex"`
	TransportNumber string                   `gorm:"type:varchar(64)"`
	Weight          float64                  `gorm:"type:double precision"`
	Dimensions      string                   `gorm:"type:varchar(64)"`
	IsFresh         bool                     `gorm:"not null;default:false"`
	Status          historyrepo.StatusRefDTO `gorm:"embedded;embeddedPrefix:status_"`
}

// TableName returns the table name for GORM.
func (PackageDTO) TableName() string {
	return "packages"
}

func fromDomain(aggregate *command.Command) CommandDTO {
	var location LocationDTO
	if p := aggregate.Location(); p != nil {
		lat, lon := p.Lat(), p.Lon()
		location = LocationDTO{Lat: &lat, Lon: &lon}
	}

	packages := make([]PackageDTO, 0, len(aggregate.Packages()))
	for _, p := range aggregate.Packages() {
		packages = append(packages, packageFromDomain(p))
	}

	return CommandDTO{
		ID:             aggregate.ID().Bytes(),
		AccountID:      aggregate.AccountID().Bytes(),
		ExpeditionDate: aggregate.ExpeditionDate(),
		CloseDate:      aggregate.CloseDate(),
		Comment:        aggregate.Comment(),
		Location:       location,
		ManualTariff:   aggregate.ManualTariff(),
		PharmacyID:     kernel.OptionalBytes(aggregate.PharmacyID()),
		SenderID:       kernel.OptionalBytes(aggregate.SenderID()),
		IsNewPharmacy:  aggregate.IsNewPharmacy(),
		TourID:         aggregate.TourID(),
		TourOrder:      aggregate.TourOrder(),
		Status:         historyrepo.RefFromDomain(aggregate.Status()),
		Packages:       packages,
	}
}

func packageFromDomain(p *command.Package) PackageDTO {
	return PackageDTO{
		ID:              p.ID().Bytes(),
		CommandID:       p.CommandID().Bytes(),
		Barcode:         p.Barcode(),
		TransportNumber: p.TransportNumber(),
		Weight:          p.Weight(),
		Dimensions:      p.Dimensions(),
		IsFresh:         p.IsFresh(),
		Status:          historyrepo.RefFromDomain(p.Status()),
	}
}

func toDomain(dto CommandDTO) (*command.Command, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	accountID, err := kernel.UUIDFromBytes(dto.AccountID[:])
	if err != nil {
		return nil, err
	}
	location, err := kernel.OptionalGeoPoint(dto.Location.Lat, dto.Location.Lon)
	if err != nil {
		return nil, err
	}
	pharmacyID, err := kernel.OptionalUUIDFromBytes(dto.PharmacyID)
	if err != nil {
		return nil, err
	}
	senderID, err := kernel.OptionalUUIDFromBytes(dto.SenderID)
	if err != nil {
		return nil, err
	}
	current, err := historyrepo.RefToDomain(status.KindCommand, dto.Status)
	if err != nil {
		return nil, err
	}

	packages := make([]*command.Package, 0, len(dto.Packages))
	for _, p := range dto.Packages {
		pkg, pkgErr := packageToDomain(p)
		if pkgErr != nil {
			return nil, pkgErr
		}
		packages = append(packages, pkg)
	}

	details := command.Details{
		Comment:       dto.Comment,
		Location:      location,
		ManualTariff:  dto.ManualTariff,
		PharmacyID:    pharmacyID,
		SenderID:      senderID,
		IsNewPharmacy: dto.IsNewPharmacy,
	}

	return command.RestoreCommand(
		id, accountID, dto.ExpeditionDate, dto.CloseDate, details,
		dto.TourID, dto.TourOrder, packages, current,
	)
}

func packageToDomain(dto PackageDTO) (*command.Package, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	commandID, err := kernel.UUIDFromBytes(dto.CommandID[:])
	if err != nil {
		return nil, err
	}
	current, err := historyrepo.RefToDomain(status.KindPackage, dto.Status)
	if err != nil {
		return nil, err
	}

	parcel := command.Parcel{
		TransportNumber: dto.TransportNumber,
		Weight:          dto.Weight,
		Dimensions:      dto.Dimensions,
		IsFresh:         dto.IsFresh,
	}
	return command.RestorePackage(id, commandID, dto.Barcode, parcel, current)
}

func rawIDs(ids []kernel.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		b := id.Bytes()
		if _, ok := seen[b]; ok {
			continue
		}
		seen[b] = struct{}{}
		raw = append(raw, b)
	}
	return raw
}
