package storage

import (
	"github.com/poiesic/rf2boot/core"
)

// ComponentFactory receives the components accepted by an import.
// It owns the concept graph; the importer only creates and appends.
//
// Implementations must be thread-safe: during the second import phase several
// tasks call the Add methods concurrently, including for the same concept.
type ComponentFactory interface {
	// CreateConcept creates a concept record, or updates the metadata of an
	// existing one while keeping its accumulated parents, label and attributes.
	CreateConcept(id, effectiveTime string, active bool, moduleID, definitionStatusID string) error

	// AddConceptParent records an is-a edge from sourceID to destinationID.
	// Edges whose source concept does not exist must not fail.
	AddConceptParent(sourceID, destinationID string) error

	// AddConceptAttribute records a (type, value) attribute on sourceID.
	AddConceptAttribute(sourceID, typeID, value string) error

	// AddConceptFSN sets the fully specified name of conceptID.
	AddConceptFSN(conceptID, term string) error

	// AddRelationship stores a full relationship record.
	AddRelationship(relationship *core.Relationship) error

	// AddDescription stores a full description record.
	AddDescription(description *core.Description) error

	// AddConceptReferencedInRefsetID records that refsetID lists conceptID.
	AddConceptReferencedInRefsetID(refsetID, conceptID string) error

	// AddRefsetMember stores a full reference set member record.
	AddRefsetMember(member *core.RefsetMember) error

	// Concepts returns the concept graph keyed by concept id.
	Concepts() map[string]*core.Concept
}

// ComponentArchive stores the full component records an import materialises
// besides the concept graph. Records are written once and never updated.
// Implementations must be thread-safe.
type ComponentArchive interface {
	// PutRelationship stores a relationship keyed by its id.
	PutRelationship(relationship *core.Relationship) error

	// PutDescription stores a description keyed by its id.
	PutDescription(description *core.Description) error

	// PutRefsetMember stores a reference set member keyed by its id.
	PutRefsetMember(member *core.RefsetMember) error

	// Relationship returns a stored relationship.
	// Returns ErrNotFound if the relationship doesn't exist.
	Relationship(id string) (*core.Relationship, error)

	// Description returns a stored description.
	// Returns ErrNotFound if the description doesn't exist.
	Description(id string) (*core.Description, error)

	// RefsetMember returns a stored reference set member.
	// Returns ErrNotFound if the member doesn't exist.
	RefsetMember(id string) (*core.RefsetMember, error)

	// Count returns the number of stored records of each kind.
	Count() ArchiveCount

	// Close releases resources. The archive must not be used afterwards.
	Close() error
}

// ArchiveCount holds the number of records of each kind in an archive.
type ArchiveCount struct {
	Relationships int
	Descriptions  int
	RefsetMembers int
}

// Total returns the number of records of all kinds.
func (c ArchiveCount) Total() int {
	return c.Relationships + c.Descriptions + c.RefsetMembers
}
