package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func mustDecode(t *testing.T, raw string) map[string]any {
	t.Helper()
	manifest, err := DecodeManifest([]byte(raw))
	require.NoError(t, err)
	return manifest
}

func TestMapManifest_Empty(t *testing.T) {
	fields, contributors := MapManifest(map[string]any{})

	assert.Equal(t, NoTitle, fields.Title)
	assert.Nil(t, fields.RdmcVersion)
	assert.Nil(t, fields.Description)
	assert.Nil(t, fields.ContributorsText)
	assert.Nil(t, fields.ArtifactsRaw)
	assert.Zero(t, fields.ContributorsCount)
	assert.Zero(t, fields.ArtifactCount)
	assert.False(t, fields.HasLinks)
	assert.Empty(t, contributors)
}

func TestMapManifest_TitleFallback(t *testing.T) {
	fields, _ := MapManifest(mustDecode(t, `{"title": "Fallback"}`))
	assert.Equal(t, "Fallback", fields.Title)

	fields, _ = MapManifest(mustDecode(t, `{"RDMC Title": "Primary", "title": "Fallback"}`))
	assert.Equal(t, "Primary", fields.Title)

	fields, _ = MapManifest(mustDecode(t, `{"RDMC Title": "", "title": "Fallback"}`))
	assert.Equal(t, "Fallback", fields.Title, "empty primary title falls through")

	fields, _ = MapManifest(mustDecode(t, `{"RDMC Version": "1.0"}`))
	assert.Equal(t, "(no title)", fields.Title)
}

func TestMapManifest_TopLevelAndMetadata(t *testing.T) {
	manifest := mustDecode(t, `{
		"RDMC Title": "Soil samples",
		"RDMC Version": "2",
		"Manifest-Schemaversion": "1.10",
		"Manifest File Path": "rdmc/manifest.yaml",
		"RDMC Metadata": {
			"Description": "Samples from the north field",
			"Subject": "Agriculture",
			"License": "CC-BY-4.0",
			"Keywords": ["soil", "nitrogen"],
			"container-concept": "dataset"
		}
	}`)

	fields, _ := MapManifest(manifest)

	assert.Equal(t, "Soil samples", fields.Title)
	assert.Equal(t, "2", *fields.RdmcVersion)
	assert.Equal(t, "1.10", *fields.ManifestSchemaVersion)
	assert.Equal(t, "rdmc/manifest.yaml", *fields.ManifestFilePath)
	assert.Equal(t, "Samples from the north field", *fields.Description)
	assert.Equal(t, "Agriculture", *fields.Subject)
	assert.Equal(t, "CC-BY-4.0", *fields.License)
	assert.Equal(t, `["soil","nitrogen"]`, *fields.KeywordsRaw)
	assert.Equal(t, "dataset", *fields.ContainerConcept)
}

func TestMapManifest_MistypedSectionsDegrade(t *testing.T) {
	manifest := mustDecode(t, `{
		"RDMC Metadata": "not an object",
		"Artifacts Details": {"access_level": "public"}
	}`)

	fields, contributors := MapManifest(manifest)

	assert.Nil(t, fields.Subject)
	assert.Zero(t, fields.ContributorsCount)
	assert.Empty(t, contributors)
	assert.Zero(t, fields.ArtifactCount)
	assert.False(t, fields.HasPublicArtifacts)
}

func TestMapManifest_Contributors(t *testing.T) {
	manifest := mustDecode(t, `{
		"RDMC Metadata": {
			"Contributors": [
				{"first_name": " Ada ", "last_name": "Lovelace ", "role": "PI", "orcid": "0000-0001", "affiliation": "Dept X", "email": "ada@example.org"},
				{"first_name": "Charles", "last_name": "Babbage"},
				{},
				{"role": "Curator"}
			]
		}
	}`)

	fields, contributors := MapManifest(manifest)

	require.Len(t, contributors, 4)
	assert.Equal(t, 4, fields.ContributorsCount)

	ada := contributors[0]
	assert.Equal(t, 0, ada.Position)
	assert.Equal(t, "Ada", ada.FirstName)
	assert.Equal(t, "Lovelace", ada.LastName)
	assert.Equal(t, "ada@example.org", *ada.Email)
	assert.Equal(t, "Ada Lovelace (PI), ORCID: 0000-0001, Dept X", ada.Fragment())

	empty := contributors[2]
	assert.Equal(t, 2, empty.Position)
	assert.Equal(t, "", empty.FirstName)
	assert.Equal(t, "", empty.LastName)
	assert.Nil(t, empty.Email)
	assert.Nil(t, empty.ORCID)

	require.NotNil(t, fields.ContributorsText)
	assert.Equal(t,
		"Ada Lovelace (PI), ORCID: 0000-0001, Dept X; Charles Babbage;  (Curator)",
		*fields.ContributorsText,
	)
}

func TestMapManifest_ContributorsWithoutText(t *testing.T) {
	manifest := mustDecode(t, `{"RDMC Metadata": {"Contributors": [{"first_name": "  "}, "bogus"]}}`)

	fields, contributors := MapManifest(manifest)

	assert.Equal(t, 2, fields.ContributorsCount)
	assert.Len(t, contributors, 2)
	assert.Nil(t, fields.ContributorsText, "no displayable contributor leaves text null")
}

func TestMapManifest_ArtifactFlags(t *testing.T) {
	manifest := mustDecode(t, `{
		"Artifacts": [{"name": "raw"}, {"name": "code"}],
		"Artifacts Details": [
			{
				"access_level": "Public",
				"files": [{"resource type": "DATA"}, "bogus"],
				"links": []
			},
			{
				"access_level": "private",
				"folders": [{"resource type": "Software"}],
				"links": [{"href": "https://example.org"}]
			},
			{"access_level": "embargoed"},
			"bogus"
		]
	}`)

	fields, _ := MapManifest(manifest)

	assert.Equal(t, 4, fields.ArtifactCount)
	assert.JSONEq(t, `[{"name":"raw"},{"name":"code"}]`, string(fields.ArtifactsRaw))
	assert.True(t, fields.HasPublicArtifacts)
	assert.False(t, fields.HasRestrictedArtifacts)
	assert.True(t, fields.HasPrivateArtifacts)
	assert.True(t, fields.HasDataResources)
	assert.True(t, fields.HasSoftwareResources)
	assert.True(t, fields.HasLinks)
}

func TestMapManifest_ArtifactsRawIsNotDerivedFromDetails(t *testing.T) {
	manifest := mustDecode(t, `{"Artifacts": "see details", "Artifacts Details": []}`)

	fields, _ := MapManifest(manifest)

	assert.Equal(t, `"see details"`, string(fields.ArtifactsRaw))
	assert.Zero(t, fields.ArtifactCount)
}

func TestDecodeManifest_RejectsNonObjects(t *testing.T) {
	for _, raw := range []string{``, `null`, `[]`, `"manifest"`, `{`} {
		_, err := DecodeManifest([]byte(raw))
		assert.ErrorIs(t, err, ErrValidation, "input %q", raw)
	}
}

func TestHashManifest_IgnoresKeyOrder(t *testing.T) {
	a := mustDecode(t, `{"b": 1, "a": {"y": 2, "x": 1}}`)
	b := mustDecode(t, `{"a": {"x": 1, "y": 2}, "b": 1}`)
	c := mustDecode(t, `{"a": {"x": 1, "y": 3}, "b": 1}`)

	assert.Equal(t, HashManifest(a), HashManifest(b))
	assert.NotEqual(t, HashManifest(a), HashManifest(c))
	assert.Len(t, HashManifest(a), 32)
}

// contributorGen produces manifest contributor entries with optional fields.
func contributorGen() *rapid.Generator[map[string]any] {
	return rapid.Custom(func(t *rapid.T) map[string]any {
		entry := map[string]any{}
		for _, key := range []string{"first_name", "last_name", "email", "affiliation", "orcid", "role"} {
			if rapid.Bool().Draw(t, "has_"+key) {
				entry[key] = rapid.StringMatching(`[ A-Za-z0-9-]{0,8}`).Draw(t, key)
			}
		}
		return entry
	})
}

func TestMapManifest_ContributorProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		entries := rapid.SliceOf(contributorGen()).Draw(t, "contributors")

		list := make([]any, len(entries))
		for i, e := range entries {
			list[i] = e
		}
		manifest := map[string]any{KeyMetadata: map[string]any{KeyContributors: list}}

		fields, contributors := MapManifest(manifest)

		if fields.ContributorsCount != len(entries) || len(contributors) != len(entries) {
			t.Fatalf("count %d, rows %d, entries %d", fields.ContributorsCount, len(contributors), len(entries))
		}

		nonEmpty := 0
		for i, c := range contributors {
			if c.Position != i {
				t.Fatalf("contributor %d has position %d", i, c.Position)
			}
			if c.FirstName != trimmed(c.FirstName) || c.LastName != trimmed(c.LastName) {
				t.Fatalf("names not trimmed: %q %q", c.FirstName, c.LastName)
			}
			if trimmed(c.Fragment()) != "" {
				nonEmpty++
			}
		}

		if nonEmpty == 0 && fields.ContributorsText != nil {
			t.Fatalf("expected null contributors_text, got %q", *fields.ContributorsText)
		}
		if nonEmpty > 0 && fields.ContributorsText == nil {
			t.Fatalf("expected contributors_text for %d fragments", nonEmpty)
		}
	})
}

func TestMapManifest_ArtifactFlagsAccumulate(t *testing.T) {
	levels := []string{"public", "restricted", "private", "PUBLIC", "other", ""}

	rapid.Check(t, func(t *rapid.T) {
		picked := rapid.SliceOf(rapid.SampledFrom(levels)).Draw(t, "levels")

		details := make([]any, len(picked))
		want := map[string]bool{}
		for i, level := range picked {
			details[i] = map[string]any{"access_level": level}
			switch level {
			case "public", "PUBLIC":
				want["public"] = true
			case "restricted":
				want["restricted"] = true
			case "private":
				want["private"] = true
			}
		}

		fields, _ := MapManifest(map[string]any{KeyArtifactsDetails: details})

		got := map[string]bool{
			"public":     fields.HasPublicArtifacts,
			"restricted": fields.HasRestrictedArtifacts,
			"private":    fields.HasPrivateArtifacts,
		}
		for level, flag := range got {
			if flag != want[level] {
				t.Fatalf("%s flag %v, want %v (levels %v)", level, flag, want[level], picked)
			}
		}
		if fields.ArtifactCount != len(picked) {
			t.Fatalf("artifact_count %d, want %d", fields.ArtifactCount, len(picked))
		}
	})
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
