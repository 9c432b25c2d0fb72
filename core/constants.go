package core

// Well-known SNOMED CT concept ids used by the import handlers.
const (
	// IsA is the relationship type of hierarchy edges.
	IsA = "116680003"

	// FSN is the description type of fully specified names.
	FSN = "900000000000003001"

	// Synonym is the description type of synonyms.
	Synonym = "900000000000013009"

	// StatedRelationship is the characteristic type of stated (as authored) relationships.
	StatedRelationship = "900000000000010007"

	// InferredRelationship is the characteristic type of classifier-inferred relationships.
	InferredRelationship = "900000000000011006"

	// Primitive and Defined are the two definition status ids of a concept.
	Primitive = "900000000000074008"
	Defined   = "900000000000073002"
)

// RF2 active flag values.
const (
	ActiveFlag   = "1"
	InactiveFlag = "0"
)
