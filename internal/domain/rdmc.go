package domain

import (
	"encoding/json"
	"time"
)

// Rdmc is a research data management collection as stored by the registry.
type Rdmc struct {
	ID               int64      `json:"id"`
	ExternalID       string     `json:"external_id"`
	ExternalIDScheme *string    `json:"external_id_scheme"`
	PID              *string    `json:"pid"`
	PIDScheme        *string    `json:"pid_scheme"`
	PIDStatus        string     `json:"pid_status"`
	PIDMintedAt      *time.Time `json:"pid_minted_at"`

	RdmcFields

	Manifest     json.RawMessage `json:"manifest"`
	ManifestHash string          `json:"manifest_hash"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// RdmcFields holds every value derived from a manifest.
// It is recomputed in full on each ingest.
type RdmcFields struct {
	Title                 string  `json:"title"`
	RdmcVersion           *string `json:"rdmc_version"`
	ManifestSchemaVersion *string `json:"manifest_schema_version"`
	ManifestFilePath      *string `json:"manifest_file_path"`

	Description      *string `json:"description"`
	Subject          *string `json:"subject"`
	License          *string `json:"license"`
	KeywordsRaw      *string `json:"keywords_raw"`
	ContainerConcept *string `json:"container_concept"`

	ContributorsCount int     `json:"contributors_count"`
	ContributorsText  *string `json:"contributors_text"`

	ArtifactsRaw           json.RawMessage `json:"artifacts_raw"`
	ArtifactCount          int             `json:"artifact_count"`
	HasPublicArtifacts     bool            `json:"has_public_artifacts"`
	HasRestrictedArtifacts bool            `json:"has_restricted_artifacts"`
	HasPrivateArtifacts    bool            `json:"has_private_artifacts"`
	HasDataResources       bool            `json:"has_data_resources"`
	HasSoftwareResources   bool            `json:"has_software_resources"`
	HasLinks               bool            `json:"has_links"`
}

// Contributor is one person listed in a manifest, in manifest order.
type Contributor struct {
	Position    int     `json:"position"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Email       *string `json:"email"`
	Affiliation *string `json:"affiliation"`
	ORCID       *string `json:"orcid"`
	Role        *string `json:"role"`
}

// RdmcWithContributors is the result of an ingest.
type RdmcWithContributors struct {
	Rdmc
	Contributors []Contributor `json:"contributors"`
}

// RdmcSummary is the listing view of an Rdmc.
type RdmcSummary struct {
	ExternalID       string    `json:"external_id"`
	Title            string    `json:"title"`
	Subject          *string   `json:"subject"`
	License          *string   `json:"license"`
	ContainerConcept *string   `json:"container_concept"`
	CreatedAt        time.Time `json:"created_at"`
}

// Summary returns the listing view of r.
func (r Rdmc) Summary() RdmcSummary {
	return RdmcSummary{
		ExternalID:       r.ExternalID,
		Title:            r.Title,
		Subject:          r.Subject,
		License:          r.License,
		ContainerConcept: r.ContainerConcept,
		CreatedAt:        r.CreatedAt,
	}
}

// ListFilter narrows a listing by exact match. Empty values are ignored.
type ListFilter struct {
	Subject          string
	License          string
	ContainerConcept string
}

// ContributorFilter selects records by contributor identity.
// Every non-empty field must match the same contributor.
type ContributorFilter struct {
	ORCID string
	Email string
}

// Empty reports whether no filter value is set.
func (f ContributorFilter) Empty() bool {
	return f.ORCID == "" && f.Email == ""
}
