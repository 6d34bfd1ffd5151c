package rest

import (
	"encoding/json"

	"github.com/totegamma/rdmc-registry/internal/domain"
)

type summaryResponse struct {
	ExternalID       string  `json:"external_id"`
	Title            string  `json:"title"`
	Subject          *string `json:"subject"`
	License          *string `json:"license"`
	ContainerConcept *string `json:"container_concept"`
}

type detailResponse struct {
	summaryResponse

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

func newSummaryResponse(s domain.RdmcSummary) summaryResponse {
	return summaryResponse{
		ExternalID:       s.ExternalID,
		Title:            s.Title,
		Subject:          s.Subject,
		License:          s.License,
		ContainerConcept: s.ContainerConcept,
	}
}

func newSummaryResponses(summaries []domain.RdmcSummary) []summaryResponse {
	out := make([]summaryResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, newSummaryResponse(s))
	}
	return out
}

func newDetailResponse(r domain.Rdmc) detailResponse {
	return detailResponse{
		summaryResponse:        newSummaryResponse(r.Summary()),
		Description:            r.Description,
		KeywordsRaw:            r.KeywordsRaw,
		ContributorsCount:      r.ContributorsCount,
		ContributorsText:       r.ContributorsText,
		ArtifactsRaw:           nullable(r.ArtifactsRaw),
		ArtifactCount:          r.ArtifactCount,
		HasPublicArtifacts:     r.HasPublicArtifacts,
		HasRestrictedArtifacts: r.HasRestrictedArtifacts,
		HasPrivateArtifacts:    r.HasPrivateArtifacts,
		HasDataResources:       r.HasDataResources,
		HasSoftwareResources:   r.HasSoftwareResources,
		HasLinks:               r.HasLinks,
		Manifest:               nullable(r.Manifest),
	}
}

func nullable(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("null")
	}
	return raw
}
