package domain

import (
	"encoding/json"
	"strings"
)

// MapManifest derives the summary fields and the ordered contributor rows of
// a manifest. Producers disagree on which sections they send, so missing or
// mistyped sections fall back to empty values instead of failing.
func MapManifest(manifest map[string]any) (RdmcFields, []Contributor) {
	fields := RdmcFields{
		Title:                 NoTitle,
		RdmcVersion:           stringValue(manifest, KeyRdmcVersion),
		ManifestSchemaVersion: stringValue(manifest, KeyManifestSchemaVersion),
		ManifestFilePath:      stringValue(manifest, KeyManifestFilePath),
	}
	if title := firstNonEmpty(manifest, KeyTitle, KeyTitleFallback); title != nil {
		fields.Title = *title
	}

	metadata := objectValue(manifest, KeyMetadata)
	fields.Description = stringValue(metadata, KeyDescription)
	fields.Subject = stringValue(metadata, KeySubject)
	fields.License = stringValue(metadata, KeyLicense)
	fields.KeywordsRaw = stringValue(metadata, KeyKeywords)
	fields.ContainerConcept = stringValue(metadata, KeyContainerConcept)

	entries := arrayValue(metadata, KeyContributors)
	fields.ContributorsCount = len(entries)

	contributors := make([]Contributor, 0, len(entries))
	fragments := make([]string, 0, len(entries))
	for position, entry := range entries {
		contributor := mapContributor(position, entry)
		contributors = append(contributors, contributor)
		if fragment := contributor.Fragment(); strings.TrimSpace(fragment) != "" {
			fragments = append(fragments, fragment)
		}
	}
	if len(fragments) > 0 {
		text := strings.Join(fragments, "; ")
		fields.ContributorsText = &text
	}

	fields.ArtifactsRaw = rawValue(manifest, KeyArtifacts)
	details := arrayValue(manifest, KeyArtifactsDetails)
	fields.ArtifactCount = len(details)
	for _, entry := range details {
		artifact, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		fields.applyArtifact(artifact)
	}

	return fields, contributors
}

// Fragment renders c for contributors_text, e.g.
// "Ada Lovelace (PI), ORCID: 0000-0001, Dept X".
func (c Contributor) Fragment() string {
	fragment := strings.TrimSpace(c.FirstName + " " + c.LastName)
	if present(c.Role) {
		fragment += " (" + *c.Role + ")"
	}
	if present(c.ORCID) {
		fragment += ", ORCID: " + *c.ORCID
	}
	if present(c.Affiliation) {
		fragment += ", " + *c.Affiliation
	}
	return fragment
}

func mapContributor(position int, entry any) Contributor {
	obj, _ := entry.(map[string]any)
	return Contributor{
		Position:    position,
		FirstName:   strings.TrimSpace(deref(stringValue(obj, "first_name"))),
		LastName:    strings.TrimSpace(deref(stringValue(obj, "last_name"))),
		Email:       stringValue(obj, "email"),
		Affiliation: stringValue(obj, "affiliation"),
		ORCID:       stringValue(obj, "orcid"),
		Role:        stringValue(obj, "role"),
	}
}

// applyArtifact ORs the flags of one "Artifacts Details" entry into f.
// Flags are never reset.
func (f *RdmcFields) applyArtifact(artifact map[string]any) {
	switch strings.ToLower(deref(stringValue(artifact, "access_level"))) {
	case AccessLevelPublic:
		f.HasPublicArtifacts = true
	case AccessLevelRestricted:
		f.HasRestrictedArtifacts = true
	case AccessLevelPrivate:
		f.HasPrivateArtifacts = true
	}

	for _, section := range []string{"files", "folders"} {
		for _, item := range arrayValue(artifact, section) {
			resource, ok := item.(map[string]any)
			if !ok {
				continue
			}
			switch strings.ToLower(deref(stringValue(resource, "resource type"))) {
			case ResourceTypeData:
				f.HasDataResources = true
			case ResourceTypeSoftware:
				f.HasSoftwareResources = true
			}
		}
	}

	if hasItems(artifact["links"]) {
		f.HasLinks = true
	}
}

// stringValue reads key from m. Strings pass through, null and missing keys
// give nil, anything else is kept as its compact JSON text.
func stringValue(m map[string]any, key string) *string {
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	if s, ok := v.(string); ok {
		return &s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	s := string(b)
	return &s
}

func firstNonEmpty(m map[string]any, keys ...string) *string {
	for _, key := range keys {
		if v := stringValue(m, key); present(v) {
			return v
		}
	}
	return nil
}

func rawValue(m map[string]any, key string) json.RawMessage {
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}

func objectValue(m map[string]any, key string) map[string]any {
	obj, _ := m[key].(map[string]any)
	return obj
}

func arrayValue(m map[string]any, key string) []any {
	arr, _ := m[key].([]any)
	return arr
}

func hasItems(v any) bool {
	switch t := v.(type) {
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	case string:
		return t != ""
	default:
		return false
	}
}

func present(s *string) bool {
	return s != nil && *s != ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
