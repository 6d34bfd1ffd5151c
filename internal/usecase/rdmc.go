package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/totegamma/rdmc-registry/internal/domain"
)

var tracer = otel.Tracer("usecase")

const detailCachePrefix = "rdmc:detail:"

// DetailCacheKey returns the cache key holding the detail of externalID.
func DetailCacheKey(externalID string) string {
	return detailCachePrefix + externalID
}

// UpsertInput is one ingest request.
type UpsertInput struct {
	ExternalID       string
	ExternalIDScheme *string
	PID              *string
	PIDScheme        *string
	Manifest         json.RawMessage
}

type RdmcUsecase struct {
	repo      RdmcRepository
	cache     DetailCache
	publisher Publisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewRdmcUsecase builds the usecase. cache and publisher may be nil.
func NewRdmcUsecase(repo RdmcRepository, cache DetailCache, publisher Publisher, logger *zap.Logger) *RdmcUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RdmcUsecase{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Upsert creates or replaces the record identified by input.ExternalID from
// its manifest. The record and its contributors are written in a single
// transaction.
func (uc *RdmcUsecase) Upsert(ctx context.Context, input UpsertInput) (domain.RdmcWithContributors, error) {
	ctx, span := tracer.Start(ctx, "Rdmc.Usecase.Upsert")
	defer span.End()
	span.SetAttributes(attribute.String("rdmc.external_id", input.ExternalID))

	if strings.TrimSpace(input.ExternalID) == "" {
		err := domain.ValidationError{Message: "external_id is required"}
		span.RecordError(err)
		return domain.RdmcWithContributors{}, err
	}

	manifest, err := domain.DecodeManifest(input.Manifest)
	if err != nil {
		span.RecordError(err)
		return domain.RdmcWithContributors{}, err
	}

	result, created, err := uc.upsertOnce(ctx, input, manifest)
	if created && errors.Is(err, domain.ErrConflict) {
		// a concurrent first ingest of the same external id won the insert;
		// the row exists now, so this write becomes an update of it
		uc.logger.Debug("retrying ingest after insert conflict", zap.String("external_id", input.ExternalID))
		result, created, err = uc.upsertOnce(ctx, input, manifest)
	}
	if err != nil {
		span.RecordError(err)
		return domain.RdmcWithContributors{}, err
	}

	uc.afterCommit(ctx, result.Rdmc, created)

	uc.logger.Info("rdmc ingested",
		zap.String("external_id", result.ExternalID),
		zap.Bool("created", created),
		zap.Int("contributors", len(result.Contributors)),
	)

	return result, nil
}

// upsertOnce runs one ingest transaction. The returned contributors are read
// inside the same transaction as the parent write.
func (uc *RdmcUsecase) upsertOnce(ctx context.Context, input UpsertInput, manifest map[string]any) (domain.RdmcWithContributors, bool, error) {
	var (
		result  domain.RdmcWithContributors
		created bool
	)
	err := uc.repo.WithinTransaction(ctx, func(store RdmcStore) error {
		rdmc, err := store.FindByExternalID(ctx, input.ExternalID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			created = true
			rdmc = domain.Rdmc{
				ExternalID: input.ExternalID,
				PIDStatus:  domain.PIDStatusPending,
			}
		case err != nil:
			return errors.Wrap(err, "lookup rdmc")
		default:
			created = false
		}

		rdmc.ExternalIDScheme = input.ExternalIDScheme
		uc.applyPID(&rdmc, input)

		fields, contributors := domain.MapManifest(manifest)
		rdmc.RdmcFields = fields
		rdmc.Manifest = input.Manifest
		rdmc.ManifestHash = domain.HashManifest(manifest)

		if err := store.Save(ctx, &rdmc); err != nil {
			return errors.Wrap(err, "save rdmc")
		}
		if err := store.ReplaceContributors(ctx, rdmc.ID, contributors); err != nil {
			return errors.Wrap(err, "replace contributors")
		}

		stored, err := store.ListContributors(ctx, rdmc.ID)
		if err != nil {
			return errors.Wrap(err, "list contributors")
		}

		result = domain.RdmcWithContributors{
			Rdmc:         rdmc,
			Contributors: stored,
		}
		return nil
	})
	if err != nil {
		return domain.RdmcWithContributors{}, created, err
	}
	return result, created, nil
}

// applyPID overwrites the pid and its scheme only when supplied. Supplying
// a pid marks the record minted.
func (uc *RdmcUsecase) applyPID(rdmc *domain.Rdmc, input UpsertInput) {
	if nonEmpty(input.PID) {
		changed := rdmc.PID == nil || *rdmc.PID != *input.PID
		if changed || rdmc.PIDStatus != domain.PIDStatusMinted || rdmc.PIDMintedAt == nil {
			now := uc.now()
			rdmc.PIDMintedAt = &now
		}
		pid := *input.PID
		rdmc.PID = &pid
		rdmc.PIDStatus = domain.PIDStatusMinted
	}
	if nonEmpty(input.PIDScheme) {
		scheme := *input.PIDScheme
		rdmc.PIDScheme = &scheme
	}
}

// storeDetail replaces the cached detail with the committed record. When
// that fails the entry is dropped so readers fall back to the database.
func (uc *RdmcUsecase) storeDetail(ctx context.Context, rdmc domain.Rdmc) {
	key := DetailCacheKey(rdmc.ExternalID)

	value, err := json.Marshal(rdmc)
	if err == nil {
		err = uc.cache.Set(ctx, key, value)
	}
	if err == nil {
		return
	}

	uc.logger.Warn("failed to refresh detail cache", zap.String("key", key), zap.Error(err))
	if err := uc.cache.Delete(ctx, key); err != nil {
		uc.logger.Warn("failed to invalidate detail cache", zap.String("key", key), zap.Error(err))
	}
}

func (uc *RdmcUsecase) afterCommit(ctx context.Context, rdmc domain.Rdmc, created bool) {
	if uc.cache != nil {
		uc.storeDetail(ctx, rdmc)
	}
	if uc.publisher != nil {
		if err := uc.publisher.PublishIngest(ctx, domain.NewIngestEvent(rdmc, created)); err != nil {
			uc.logger.Warn("failed to publish ingest event",
				zap.String("external_id", rdmc.ExternalID),
				zap.Error(err),
			)
		}
	}
}

// Get returns the record identified by externalID.
func (uc *RdmcUsecase) Get(ctx context.Context, externalID string) (domain.Rdmc, error) {
	ctx, span := tracer.Start(ctx, "Rdmc.Usecase.Get")
	defer span.End()

	key := DetailCacheKey(externalID)
	if uc.cache != nil {
		value, ok, err := uc.cache.Get(ctx, key)
		if err != nil {
			uc.logger.Warn("detail cache read failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			var rdmc domain.Rdmc
			if err := json.Unmarshal(value, &rdmc); err == nil {
				return rdmc, nil
			}
			uc.logger.Warn("discarding undecodable cache entry", zap.String("key", key))
		}
	}

	rdmc, err := uc.repo.FindByExternalID(ctx, externalID)
	if err != nil {
		span.RecordError(err)
		return domain.Rdmc{}, err
	}

	// Add never replaces an entry, so a fill racing with an ingest cannot
	// overwrite the detail that ingest stored.
	if uc.cache != nil {
		value, err := json.Marshal(rdmc)
		if err == nil {
			err = uc.cache.Add(ctx, key, value)
		}
		if err != nil {
			uc.logger.Warn("detail cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return rdmc, nil
}

// List returns summaries matching filter, newest first.
func (uc *RdmcUsecase) List(ctx context.Context, filter domain.ListFilter) ([]domain.RdmcSummary, error) {
	ctx, span := tracer.Start(ctx, "Rdmc.Usecase.List")
	defer span.End()

	summaries, err := uc.repo.List(ctx, filter)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return summaries, nil
}

// FindByContributor returns each record having a contributor that matches
// every supplied filter value. At least one value is required.
func (uc *RdmcUsecase) FindByContributor(ctx context.Context, filter domain.ContributorFilter) ([]domain.RdmcSummary, error) {
	ctx, span := tracer.Start(ctx, "Rdmc.Usecase.FindByContributor")
	defer span.End()

	if filter.Empty() {
		err := domain.ValidationError{Message: "orcid or email is required"}
		span.RecordError(err)
		return nil, err
	}

	summaries, err := uc.repo.FindByContributor(ctx, filter)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return summaries, nil
}

// Contributors returns the ordered contributors of the record identified by externalID.
func (uc *RdmcUsecase) Contributors(ctx context.Context, externalID string) ([]domain.Contributor, error) {
	ctx, span := tracer.Start(ctx, "Rdmc.Usecase.Contributors")
	defer span.End()

	rdmc, err := uc.repo.FindByExternalID(ctx, externalID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	contributors, err := uc.repo.ListContributors(ctx, rdmc.ID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return contributors, nil
}

func nonEmpty(s *string) bool {
	return s != nil && *s != ""
}
