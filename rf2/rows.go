package rf2

import (
	"fmt"
	"slices"

	"github.com/poiesic/rf2boot/core"
)

// ConceptRow is a decoded concept file row.
type ConceptRow struct {
	ID                 string
	EffectiveTime      string
	Active             bool
	ModuleID           string
	DefinitionStatusID string
}

// DescriptionRow is a decoded description file row.
type DescriptionRow struct {
	ID                 string
	EffectiveTime      string
	Active             bool
	ModuleID           string
	ConceptID          string
	LanguageCode       string
	TypeID             string
	Term               string
	CaseSignificanceID string
}

// RelationshipRow is a decoded relationship file row.
type RelationshipRow struct {
	ID                   string
	EffectiveTime        string
	Active               bool
	ModuleID             string
	SourceID             string
	DestinationID        string
	RelationshipGroup    string
	TypeID               string
	CharacteristicTypeID string
	ModifierID           string
}

// RefsetMemberRow is a decoded reference set member row.
type RefsetMemberRow struct {
	ID                    string
	EffectiveTime         string
	Active                bool
	ModuleID              string
	RefsetID              string
	ReferencedComponentID string
	AdditionalFields      []string
}

func checkColumns(kind string, fields []string, want int) error {
	if len(fields) < want {
		return fmt.Errorf("%w: %s row has %d columns, want %d", ErrShortRow, kind, len(fields), want)
	}
	return nil
}

// DecodeConceptRow decodes the fields of a concept file row.
func DecodeConceptRow(fields []string) (ConceptRow, error) {
	if err := checkColumns("concept", fields, conceptColumns); err != nil {
		return ConceptRow{}, err
	}
	return ConceptRow{
		ID:                 fields[ColumnID],
		EffectiveTime:      fields[ColumnEffectiveTime],
		Active:             core.ParseActive(fields[ColumnActive]),
		ModuleID:           fields[ColumnModuleID],
		DefinitionStatusID: fields[ConceptDefinitionStatusID],
	}, nil
}

// DecodeDescriptionRow decodes the fields of a description or text definition row.
func DecodeDescriptionRow(fields []string) (DescriptionRow, error) {
	if err := checkColumns("description", fields, descriptionColumns); err != nil {
		return DescriptionRow{}, err
	}
	return DescriptionRow{
		ID:                 fields[ColumnID],
		EffectiveTime:      fields[ColumnEffectiveTime],
		Active:             core.ParseActive(fields[ColumnActive]),
		ModuleID:           fields[ColumnModuleID],
		ConceptID:          fields[DescriptionConceptID],
		LanguageCode:       fields[DescriptionLanguageCode],
		TypeID:             fields[DescriptionTypeID],
		Term:               fields[DescriptionTerm],
		CaseSignificanceID: fields[DescriptionCaseSignificanceID],
	}, nil
}

// DecodeRelationshipRow decodes the fields of a relationship file row.
func DecodeRelationshipRow(fields []string) (RelationshipRow, error) {
	if err := checkColumns("relationship", fields, relationshipColumns); err != nil {
		return RelationshipRow{}, err
	}
	return RelationshipRow{
		ID:                   fields[ColumnID],
		EffectiveTime:        fields[ColumnEffectiveTime],
		Active:               core.ParseActive(fields[ColumnActive]),
		ModuleID:             fields[ColumnModuleID],
		SourceID:             fields[RelationshipSourceID],
		DestinationID:        fields[RelationshipDestinationID],
		RelationshipGroup:    fields[RelationshipGroup],
		TypeID:               fields[RelationshipTypeID],
		CharacteristicTypeID: fields[RelationshipCharacteristicTypeID],
		ModifierID:           fields[RelationshipModifierID],
	}, nil
}

// DecodeRefsetMemberRow decodes the fields of a reference set member row.
// Pattern specific columns are copied into AdditionalFields.
func DecodeRefsetMemberRow(fields []string) (RefsetMemberRow, error) {
	if err := checkColumns("reference set member", fields, refsetColumns); err != nil {
		return RefsetMemberRow{}, err
	}
	row := RefsetMemberRow{
		ID:                    fields[ColumnID],
		EffectiveTime:         fields[ColumnEffectiveTime],
		Active:                core.ParseActive(fields[ColumnActive]),
		ModuleID:              fields[ColumnModuleID],
		RefsetID:              fields[RefsetRefsetID],
		ReferencedComponentID: fields[RefsetReferencedComponentID],
	}
	if len(fields) > refsetColumns {
		row.AdditionalFields = slices.Clone(fields[refsetColumns:])
	}
	return row, nil
}

// Relationship converts the row into a full relationship record.
func (r RelationshipRow) Relationship() *core.Relationship {
	return &core.Relationship{
		ID:                   r.ID,
		EffectiveTime:        r.EffectiveTime,
		Active:               r.Active,
		ModuleID:             r.ModuleID,
		SourceID:             r.SourceID,
		DestinationID:        r.DestinationID,
		RelationshipGroup:    r.RelationshipGroup,
		TypeID:               r.TypeID,
		CharacteristicTypeID: r.CharacteristicTypeID,
		ModifierID:           r.ModifierID,
	}
}

// Description converts the row into a full description record.
func (r DescriptionRow) Description() *core.Description {
	return &core.Description{
		ID:        r.ID,
		Active:    r.Active,
		Term:      r.Term,
		ConceptID: r.ConceptID,
	}
}

// RefsetMember converts the row into a full reference set member record.
func (r RefsetMemberRow) RefsetMember() *core.RefsetMember {
	return &core.RefsetMember{
		ID:                    r.ID,
		EffectiveTime:         r.EffectiveTime,
		Active:                r.Active,
		ModuleID:              r.ModuleID,
		RefsetID:              r.RefsetID,
		ReferencedComponentID: r.ReferencedComponentID,
		AdditionalFields:      slices.Clone(r.AdditionalFields),
	}
}
