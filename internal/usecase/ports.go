package usecase

import (
	"context"

	"github.com/totegamma/rdmc-registry/internal/domain"
)

// RdmcStore is the set of record operations available inside a transaction.
type RdmcStore interface {
	// FindByExternalID returns domain.ErrNotFound when no record matches.
	// Inside a transaction the row is locked for update where the database supports it.
	FindByExternalID(ctx context.Context, externalID string) (domain.Rdmc, error)
	// Save inserts or updates r and fills in its generated id and timestamps.
	Save(ctx context.Context, r *domain.Rdmc) error
	ReplaceContributors(ctx context.Context, rdmcID int64, contributors []domain.Contributor) error
	ListContributors(ctx context.Context, rdmcID int64) ([]domain.Contributor, error)
}

// Transactor runs fn inside one database transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(store RdmcStore) error) error
}

// RdmcRepository defines persistence and lookup for collection records.
type RdmcRepository interface {
	Transactor
	RdmcStore
	List(ctx context.Context, filter domain.ListFilter) ([]domain.RdmcSummary, error)
	FindByContributor(ctx context.Context, filter domain.ContributorFilter) ([]domain.RdmcSummary, error)
	DeleteByExternalID(ctx context.Context, externalID string) error
}

// DetailCache stores encoded record details keyed by cache key.
type DetailCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	// Add stores value only when key holds no entry. An existing entry is
	// not an error.
	Add(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Publisher announces committed ingests.
type Publisher interface {
	PublishIngest(ctx context.Context, event domain.IngestEvent) error
}
