package store

import (
	"context"

	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/model"
)

// AccessIPStore abstracts IP allow-list storage operations
type AccessIPStore interface {
	// FindAccessIPByAddress returns the entry for addr.
	// Returns ErrNotFound if the address isn't allow-listed.
	FindAccessIPByAddress(ctx context.Context, addr string) (*model.AccessIP, error)

	// SaveAccessIP inserts or updates an entry
	SaveAccessIP(ctx context.Context, entry *model.AccessIP) error

	// ListAccessIPs returns every allow-listed address
	ListAccessIPs(ctx context.Context) ([]model.AccessIP, error)
}
