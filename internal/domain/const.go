package domain

// PID lifecycle states.
const (
	PIDStatusPending = "pending"
	PIDStatusMinted  = "minted"
	PIDStatusFailed  = "failed"
)

// NoTitle is stored when a manifest carries neither "RDMC Title" nor "title".
const NoTitle = "(no title)"

// Manifest keys read by MapManifest.
const (
	KeyTitle                 = "RDMC Title"
	KeyTitleFallback         = "title"
	KeyRdmcVersion           = "RDMC Version"
	KeyManifestSchemaVersion = "Manifest-Schemaversion"
	KeyManifestFilePath      = "Manifest File Path"
	KeyMetadata              = "RDMC Metadata"
	KeyDescription           = "Description"
	KeySubject               = "Subject"
	KeyLicense               = "License"
	KeyKeywords              = "Keywords"
	KeyContainerConcept      = "container-concept"
	KeyContributors          = "Contributors"
	KeyArtifacts             = "Artifacts"
	KeyArtifactsDetails      = "Artifacts Details"
)

// Access levels and resource types recognised in "Artifacts Details".
const (
	AccessLevelPublic     = "public"
	AccessLevelRestricted = "restricted"
	AccessLevelPrivate    = "private"

	ResourceTypeData     = "data"
	ResourceTypeSoftware = "software"
)
