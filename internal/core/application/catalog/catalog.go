// Package catalog serves the three static status tables from memory.
//
// Each table has its own read-through cache. The first lookup of an id reads
// storage; later lookups never do. Entries are immutable, so concurrent
// readers need no locking beyond sync.Map.
package catalog

import (
	"context"
	"sync"

	"pharmadelivery/internal/core/domain/model/status"
	"pharmadelivery/internal/core/ports"
)

// Catalog is built once at startup and shared by every handler.
type Catalog struct {
	repo     ports.StatusRepository
	commands sync.Map
	packages sync.Map
	tours    sync.Map
}

// New creates an empty catalog reading through repo.
//
// Example:
//
//	statuses := catalog.New(historyrepo.NewGormStatusRepository(db))
//	entry, err := statuses.Lookup(ctx, status.KindCommand, status.CommandDelivered)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(entry.Name())
func New(repo ports.StatusRepository) *Catalog {
	return &Catalog{repo: repo}
}

// Lookup returns the entry for id in the table of kind.
// Unknown ids surface the repository's errs.ObjectNotFoundError and are not cached.
func (c *Catalog) Lookup(ctx context.Context, kind status.Kind, id status.ID) (status.Entry, error) {
	if err := kind.Validate(); err != nil {
		return status.Entry{}, err
	}

	cache := c.cache(kind)
	if cached, ok := cache.Load(id); ok {
		return cached.(status.Entry), nil
	}

	entry, err := c.repo.Get(ctx, kind, id)
	if err != nil {
		return status.Entry{}, err
	}

	actual, _ := cache.LoadOrStore(id, entry)
	return actual.(status.Entry), nil
}

func (c *Catalog) cache(kind status.Kind) *sync.Map {
	switch kind {
	case status.KindCommand:
		return &c.commands
	case status.KindPackage:
		return &c.packages
	default:
		return &c.tours
	}
}
