package importer

import (
	"github.com/poiesic/rf2boot/core"
	"github.com/poiesic/rf2boot/profile"
	"github.com/poiesic/rf2boot/rf2"
	"github.com/poiesic/rf2boot/storage"
)

// handleConcept creates the concept of an accepted row.
func handleConcept(row rf2.ConceptRow, p *profile.LoadingProfile, f storage.ComponentFactory) (bool, error) {
	if !row.Active && !p.InactiveConcepts {
		return false, nil
	}
	return true, f.CreateConcept(row.ID, row.EffectiveTime, row.Active, row.ModuleID, row.DefinitionStatusID)
}

// handleRelationship folds an accepted relationship onto its source concept.
func handleRelationship(row rf2.RelationshipRow, p *profile.LoadingProfile, f storage.ComponentFactory) (bool, error) {
	if !row.Active && !p.InactiveRelationships {
		return false, nil
	}
	if row.CharacteristicTypeID == core.StatedRelationship && !p.StatedRelationships {
		return false, nil
	}

	if p.AttributeMapOnConcept {
		if err := f.AddConceptAttribute(row.SourceID, row.TypeID, row.DestinationID); err != nil {
			return true, err
		}
	}
	if row.TypeID == core.IsA {
		if err := f.AddConceptParent(row.SourceID, row.DestinationID); err != nil {
			return true, err
		}
	}
	if p.FullRelationshipObjects {
		if err := f.AddRelationship(row.Relationship()); err != nil {
			return true, err
		}
	}
	return true, nil
}

// handleDescription labels concepts with their fully specified names.
func handleDescription(row rf2.DescriptionRow, p *profile.LoadingProfile, f storage.ComponentFactory) (bool, error) {
	if !row.Active && !p.InactiveDescriptions {
		return false, nil
	}

	if row.TypeID == core.FSN {
		if err := f.AddConceptFSN(row.ConceptID, row.Term); err != nil {
			return true, err
		}
	}
	if p.FullDescriptionObjects {
		if err := f.AddDescription(row.Description()); err != nil {
			return true, err
		}
	}
	return true, nil
}

// handleRefsetMember records membership of tracked reference sets. Only
// members that reference concepts are projected onto the graph.
func handleRefsetMember(row rf2.RefsetMemberRow, p *profile.LoadingProfile, f storage.ComponentFactory) (bool, error) {
	if !row.Active && !p.InactiveRefsetMembers {
		return false, nil
	}
	if !p.IsRefset(row.RefsetID) {
		return false, nil
	}

	if core.IsConceptID(row.ReferencedComponentID) {
		if err := f.AddConceptReferencedInRefsetID(row.RefsetID, row.ReferencedComponentID); err != nil {
			return true, err
		}
	}
	if p.FullRefsetMemberObjects {
		if err := f.AddRefsetMember(row.RefsetMember()); err != nil {
			return true, err
		}
	}
	return true, nil
}

// rowHandler adapts a decoder and a typed handler into an rf2.RowHandler that
// counts accepted rows.
func rowHandler[R any](
	decode func([]string) (R, error),
	handle func(R, *profile.LoadingProfile, storage.ComponentFactory) (bool, error),
	p *profile.LoadingProfile,
	f storage.ComponentFactory,
	accepted *int64,
) rf2.RowHandler {
	return func(fields []string) error {
		row, err := decode(fields)
		if err != nil {
			return err
		}
		ok, err := handle(row, p, f)
		if ok {
			*accepted++
		}
		return err
	}
}
