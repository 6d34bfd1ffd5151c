package client

import "encoding/json"

type IngestRequest struct {
	ExternalID       string          `json:"external_id"`
	ExternalIDScheme *string         `json:"external_id_scheme,omitempty"`
	PID              *string         `json:"pid,omitempty"`
	PIDScheme        *string         `json:"pid_scheme,omitempty"`
	Manifest         json.RawMessage `json:"manifest"`
}

type Summary struct {
	ExternalID       string  `json:"external_id"`
	Title            string  `json:"title"`
	Subject          *string `json:"subject"`
	License          *string `json:"license"`
	ContainerConcept *string `json:"container_concept"`
}

type Detail struct {
	Summary

	Description            *string         `json:"description"`
	KeywordsRaw            *string         `json:"keywords_raw"`
	ContributorsCount      int             `json:"contributors_count"`
	ContributorsText       *string         `json:"contributors_text"`
	ArtifactsRaw           json.RawMessage `json:"artifacts_raw"`
	ArtifactCount          int             `json:"artifact_count"`
	HasPublicArtifacts     bool            `json:"has_public_artifacts"`
	HasRestrictedArtifacts bool            `json:"has_restricted_artifacts"`
	HasPrivateArtifacts    bool            `json:"has_private_artifacts"`
	HasDataResources       bool            `json:"has_data_resources"`
	HasSoftwareResources   bool            `json:"has_software_resources"`
	HasLinks               bool            `json:"has_links"`
	Manifest               json.RawMessage `json:"manifest"`
}

type Contributor struct {
	Position    int     `json:"position"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Email       *string `json:"email"`
	Affiliation *string `json:"affiliation"`
	ORCID       *string `json:"orcid"`
	Role        *string `json:"role"`
}

type ListOptions struct {
	Subject          string
	License          string
	ContainerConcept string
}
