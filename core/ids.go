package core

// Partition identifies the component kind encoded in an SCTID.
// It is the second-to-last digit of the id (the last digit is the Verhoeff
// check digit); the digit before it distinguishes short and long format ids.
type Partition int

const (
	PartitionUnknown Partition = iota
	PartitionConcept
	PartitionDescription
	PartitionRelationship
)

// String returns the component kind name.
func (p Partition) String() string {
	switch p {
	case PartitionConcept:
		return "concept"
	case PartitionDescription:
		return "description"
	case PartitionRelationship:
		return "relationship"
	default:
		return "unknown"
	}
}

// PartitionOf returns the partition of an SCTID.
// Ids shorter than three characters have no partition.
func PartitionOf(sctid string) Partition {
	if len(sctid) < 3 {
		return PartitionUnknown
	}
	switch sctid[len(sctid)-2] {
	case '0':
		return PartitionConcept
	case '1':
		return PartitionDescription
	case '2':
		return PartitionRelationship
	default:
		return PartitionUnknown
	}
}

// IsConceptID reports whether an SCTID identifies a concept.
func IsConceptID(sctid string) bool {
	return PartitionOf(sctid) == PartitionConcept
}

// ParseActive reports whether an RF2 active column holds the active flag.
func ParseActive(value string) bool {
	return value == ActiveFlag
}

// FormatActive renders an active flag as it appears in RF2 files.
func FormatActive(active bool) string {
	if active {
		return ActiveFlag
	}
	return InactiveFlag
}
