package rf2

// Column indexes of RF2 snapshot files. Every component file starts with the
// id, effectiveTime, active and moduleId columns.
const (
	ColumnID            = 0
	ColumnEffectiveTime = 1
	ColumnActive        = 2
	ColumnModuleID      = 3
)

// Concept file columns.
const (
	ConceptDefinitionStatusID = 4

	conceptColumns = 5
)

// Description and text definition file columns.
const (
	DescriptionConceptID          = 4
	DescriptionLanguageCode       = 5
	DescriptionTypeID             = 6
	DescriptionTerm               = 7
	DescriptionCaseSignificanceID = 8

	descriptionColumns = 9
)

// Relationship file columns.
const (
	RelationshipSourceID             = 4
	RelationshipDestinationID        = 5
	RelationshipGroup                = 6
	RelationshipTypeID               = 7
	RelationshipCharacteristicTypeID = 8
	RelationshipModifierID           = 9

	relationshipColumns = 10
)

// Reference set member file columns. Columns after the referenced component
// depend on the reference set pattern (der2_cRefset, der2_iisssccRefset, ...).
const (
	RefsetRefsetID              = 4
	RefsetReferencedComponentID = 5

	refsetColumns = 6
)

// Delimiter separates the columns of a row.
const Delimiter = "\t"
