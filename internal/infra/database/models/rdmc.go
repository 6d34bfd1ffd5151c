package models

import (
	"time"

	"gorm.io/datatypes"
)

type Rdmc struct {
	ID               int64   `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	ExternalID       string  `json:"external_id" gorm:"column:external_id;type:text;not null;uniqueIndex"`
	ExternalIDScheme *string `json:"external_id_scheme" gorm:"column:external_id_scheme;type:text"`

	PID         *string    `json:"pid" gorm:"column:pid;type:text;uniqueIndex"`
	PIDScheme   *string    `json:"pid_scheme" gorm:"column:pid_scheme;type:text"`
	PIDStatus   string     `json:"pid_status" gorm:"column:pid_status;type:text;not null;default:pending"`
	PIDMintedAt *time.Time `json:"pid_minted_at" gorm:"column:pid_minted_at"`

	RdmcVersion           *string `json:"rdmc_version" gorm:"column:rdmc_version;type:text"`
	ManifestSchemaVersion *string `json:"manifest_schema_version" gorm:"column:manifest_schema_version;type:text"`
	ManifestFilePath      *string `json:"manifest_file_path" gorm:"column:manifest_file_path;type:text"`

	Title            string  `json:"title" gorm:"column:title;type:text;not null"`
	Description      *string `json:"description" gorm:"column:description;type:text"`
	Subject          *string `json:"subject" gorm:"column:subject;type:text;index"`
	License          *string `json:"license" gorm:"column:license;type:text;index"`
	KeywordsRaw      *string `json:"keywords_raw" gorm:"column:keywords_raw;type:text"`
	ContainerConcept *string `json:"container_concept" gorm:"column:container_concept;type:text;index"`

	ContributorsCount int     `json:"contributors_count" gorm:"column:contributors_count;not null;default:0"`
	ContributorsText  *string `json:"contributors_text" gorm:"column:contributors_text;type:text"`

	ArtifactsRaw           datatypes.JSON `json:"artifacts_raw" gorm:"column:artifacts_raw"`
	ArtifactCount          int            `json:"artifact_count" gorm:"column:artifact_count;not null;default:0"`
	HasPublicArtifacts     bool           `json:"has_public_artifacts" gorm:"column:has_public_artifacts;not null;default:false"`
	HasRestrictedArtifacts bool           `json:"has_restricted_artifacts" gorm:"column:has_restricted_artifacts;not null;default:false"`
	HasPrivateArtifacts    bool           `json:"has_private_artifacts" gorm:"column:has_private_artifacts;not null;default:false"`
	HasDataResources       bool           `json:"has_data_resources" gorm:"column:has_data_resources;not null;default:false"`
	HasSoftwareResources   bool           `json:"has_software_resources" gorm:"column:has_software_resources;not null;default:false"`
	HasLinks               bool           `json:"has_links" gorm:"column:has_links;not null;default:false"`

	Manifest     datatypes.JSON `json:"manifest" gorm:"column:manifest;not null"`
	ManifestHash string         `json:"manifest_hash" gorm:"column:manifest_hash;type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;not null;autoCreateTime;index"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (Rdmc) TableName() string { return "rdmc" }

type RdmcContributor struct {
	ID     int64 `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	RdmcID int64 `json:"rdmc_id" gorm:"column:rdmc_id;not null;index"`
	Rdmc   Rdmc  `json:"-" gorm:"foreignKey:RdmcID;references:ID;constraint:OnDelete:CASCADE;"`

	Position    int     `json:"position" gorm:"column:position;not null"`
	FirstName   string  `json:"first_name" gorm:"column:first_name;type:text;not null"`
	LastName    string  `json:"last_name" gorm:"column:last_name;type:text;not null"`
	Email       *string `json:"email" gorm:"column:email;type:text;index"`
	Affiliation *string `json:"affiliation" gorm:"column:affiliation;type:text"`
	ORCID       *string `json:"orcid" gorm:"column:orcid;type:text;index"`
	Role        *string `json:"role" gorm:"column:role;type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;not null;autoCreateTime"`
}

func (RdmcContributor) TableName() string { return "rdmc_contributor" }
