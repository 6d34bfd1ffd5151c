package repository

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/totegamma/rdmc-registry/internal/domain"
	"github.com/totegamma/rdmc-registry/internal/infra/database/models"
	"github.com/totegamma/rdmc-registry/internal/usecase"
)

var tracer = otel.Tracer("repository")

var summaryColumns = []string{
	"id",
	"external_id",
	"title",
	"subject",
	"license",
	"container_concept",
	"created_at",
}

type RdmcRepository struct {
	db   *gorm.DB
	inTx bool
}

func NewRdmcRepository(db *gorm.DB) *RdmcRepository {
	return &RdmcRepository{db: db}
}

func (r *RdmcRepository) WithinTransaction(ctx context.Context, fn func(store usecase.RdmcStore) error) error {
	ctx, span := tracer.Start(ctx, "Rdmc.Repository.WithinTransaction")
	defer span.End()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&RdmcRepository{db: tx, inTx: true})
	})
	if err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

func (r *RdmcRepository) FindByExternalID(ctx context.Context, externalID string) (domain.Rdmc, error) {
	ctx, span := tracer.Start(ctx, "Rdmc.Repository.FindByExternalID")
	defer span.End()

	query := r.db.WithContext(ctx)
	if r.inTx && r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var row models.Rdmc
	err := query.Where("external_id = ?", externalID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Rdmc{}, domain.NotFoundError{Resource: "rdmc"}
	}
	if err != nil {
		span.RecordError(err)
		return domain.Rdmc{}, errors.Wrap(err, "find rdmc")
	}

	return toDomainRdmc(row), nil
}

func (r *RdmcRepository) Save(ctx context.Context, rdmc *domain.Rdmc) error {
	ctx, span := tracer.Start(ctx, "Rdmc.Repository.Save")
	defer span.End()

	row := toModelRdmc(*rdmc)

	var err error
	if row.ID == 0 {
		err = r.db.WithContext(ctx).Create(&row).Error
	} else {
		err = r.db.WithContext(ctx).Save(&row).Error
	}
	if err != nil {
		span.RecordError(err)
		return translate(err, "rdmc")
	}

	rdmc.ID = row.ID
	rdmc.CreatedAt = row.CreatedAt
	rdmc.UpdatedAt = row.UpdatedAt
	return nil
}

// ReplaceContributors deletes every contributor of rdmcID and inserts
// contributors in their position order.
func (r *RdmcRepository) ReplaceContributors(ctx context.Context, rdmcID int64, contributors []domain.Contributor) error {
	ctx, span := tracer.Start(ctx, "Rdmc.Repository.ReplaceContributors")
	defer span.End()

	db := r.db.WithContext(ctx)

	err := db.Where("rdmc_id = ?", rdmcID).Delete(&models.RdmcContributor{}).Error
	if err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "delete contributors")
	}

	if len(contributors) == 0 {
		return nil
	}

	rows := make([]models.RdmcContributor, 0, len(contributors))
	for _, c := range contributors {
		rows = append(rows, models.RdmcContributor{
			RdmcID:      rdmcID,
			Position:    c.Position,
			FirstName:   c.FirstName,
			LastName:    c.LastName,
			Email:       c.Email,
			Affiliation: c.Affiliation,
			ORCID:       c.ORCID,
			Role:        c.Role,
		})
	}

	err = db.Omit(clause.Associations).Create(&rows).Error
	if err != nil {
		span.RecordError(err)
		return translate(err, "contributor")
	}
	return nil
}

func (r *RdmcRepository) ListContributors(ctx context.Context, rdmcID int64) ([]domain.Contributor, error) {
	ctx, span := tracer.Start(ctx, "Rdmc.Repository.ListContributors")
	defer span.End()

	var rows []models.RdmcContributor
	err := r.db.WithContext(ctx).
		Where("rdmc_id = ?", rdmcID).
		Order("position asc").
		Find(&rows).Error
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "list contributors")
	}

	contributors := make([]domain.Contributor, 0, len(rows))
	for _, row := range rows {
		contributors = append(contributors, domain.Contributor{
			Position:    row.Position,
			FirstName:   row.FirstName,
			LastName:    row.LastName,
			Email:       row.Email,
			Affiliation: row.Affiliation,
			ORCID:       row.ORCID,
			Role:        row.Role,
		})
	}
	return contributors, nil
}

func (r *RdmcRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.RdmcSummary, error) {
	ctx, span := tracer.Start(ctx, "Rdmc.Repository.List")
	defer span.End()

	query := r.db.WithContext(ctx).Model(&models.Rdmc{}).Select(summaryColumns)
	if filter.Subject != "" {
		query = query.Where("subject = ?", filter.Subject)
	}
	if filter.License != "" {
		query = query.Where("license = ?", filter.License)
	}
	if filter.ContainerConcept != "" {
		query = query.Where("container_concept = ?", filter.ContainerConcept)
	}

	summaries, err := findSummaries(query)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "list rdmc")
	}
	return summaries, nil
}

// FindByContributor returns each record at most once, however many of its
// contributors match.
func (r *RdmcRepository) FindByContributor(ctx context.Context, filter domain.ContributorFilter) ([]domain.RdmcSummary, error) {
	ctx, span := tracer.Start(ctx, "Rdmc.Repository.FindByContributor")
	defer span.End()

	db := r.db.WithContext(ctx)

	matching := db.Model(&models.RdmcContributor{}).Select("rdmc_id")
	if filter.ORCID != "" {
		matching = matching.Where("orcid = ?", filter.ORCID)
	}
	if filter.Email != "" {
		matching = matching.Where("email = ?", filter.Email)
	}

	query := db.Model(&models.Rdmc{}).
		Select(summaryColumns).
		Where("id IN (?)", matching)

	summaries, err := findSummaries(query)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "find rdmc by contributor")
	}
	return summaries, nil
}

// DeleteByExternalID removes a record. Its contributors are removed by the
// foreign key cascade.
func (r *RdmcRepository) DeleteByExternalID(ctx context.Context, externalID string) error {
	ctx, span := tracer.Start(ctx, "Rdmc.Repository.DeleteByExternalID")
	defer span.End()

	result := r.db.WithContext(ctx).
		Where("external_id = ?", externalID).
		Delete(&models.Rdmc{})
	if result.Error != nil {
		span.RecordError(result.Error)
		return errors.Wrap(result.Error, "delete rdmc")
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "rdmc"}
	}
	return nil
}

func findSummaries(query *gorm.DB) ([]domain.RdmcSummary, error) {
	var rows []models.Rdmc
	err := query.Order("created_at desc").Order("id desc").Find(&rows).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.RdmcSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, toDomainRdmc(row).Summary())
	}
	return summaries, nil
}

func translate(err error, resource string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ConflictError{Resource: resource, Reason: err.Error()}
	}
	return errors.Wrap(err, "write "+resource)
}

func toModelRdmc(r domain.Rdmc) models.Rdmc {
	return models.Rdmc{
		ID:                     r.ID,
		ExternalID:             r.ExternalID,
		ExternalIDScheme:       r.ExternalIDScheme,
		PID:                    r.PID,
		PIDScheme:              r.PIDScheme,
		PIDStatus:              r.PIDStatus,
		PIDMintedAt:            r.PIDMintedAt,
		RdmcVersion:            r.RdmcVersion,
		ManifestSchemaVersion:  r.ManifestSchemaVersion,
		ManifestFilePath:       r.ManifestFilePath,
		Title:                  r.Title,
		Description:            r.Description,
		Subject:                r.Subject,
		License:                r.License,
		KeywordsRaw:            r.KeywordsRaw,
		ContainerConcept:       r.ContainerConcept,
		ContributorsCount:      r.ContributorsCount,
		ContributorsText:       r.ContributorsText,
		ArtifactsRaw:           datatypes.JSON(r.ArtifactsRaw),
		ArtifactCount:          r.ArtifactCount,
		HasPublicArtifacts:     r.HasPublicArtifacts,
		HasRestrictedArtifacts: r.HasRestrictedArtifacts,
		HasPrivateArtifacts:    r.HasPrivateArtifacts,
		HasDataResources:       r.HasDataResources,
		HasSoftwareResources:   r.HasSoftwareResources,
		HasLinks:               r.HasLinks,
		Manifest:               datatypes.JSON(r.Manifest),
		ManifestHash:           r.ManifestHash,
		CreatedAt:              r.CreatedAt,
		UpdatedAt:              r.UpdatedAt,
	}
}

func toDomainRdmc(row models.Rdmc) domain.Rdmc {
	return domain.Rdmc{
		ID:               row.ID,
		ExternalID:       row.ExternalID,
		ExternalIDScheme: row.ExternalIDScheme,
		PID:              row.PID,
		PIDScheme:        row.PIDScheme,
		PIDStatus:        row.PIDStatus,
		PIDMintedAt:      row.PIDMintedAt,
		RdmcFields: domain.RdmcFields{
			Title:                  row.Title,
			RdmcVersion:            row.RdmcVersion,
			ManifestSchemaVersion:  row.ManifestSchemaVersion,
			ManifestFilePath:       row.ManifestFilePath,
			Description:            row.Description,
			Subject:                row.Subject,
			License:                row.License,
			KeywordsRaw:            row.KeywordsRaw,
			ContainerConcept:       row.ContainerConcept,
			ContributorsCount:      row.ContributorsCount,
			ContributorsText:       row.ContributorsText,
			ArtifactsRaw:           json.RawMessage(row.ArtifactsRaw),
			ArtifactCount:          row.ArtifactCount,
			HasPublicArtifacts:     row.HasPublicArtifacts,
			HasRestrictedArtifacts: row.HasRestrictedArtifacts,
			HasPrivateArtifacts:    row.HasPrivateArtifacts,
			HasDataResources:       row.HasDataResources,
			HasSoftwareResources:   row.HasSoftwareResources,
			HasLinks:               row.HasLinks,
		},
		Manifest:     json.RawMessage(row.Manifest),
		ManifestHash: row.ManifestHash,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}
