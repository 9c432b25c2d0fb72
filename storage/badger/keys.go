package badger

// Key prefixes for different record kinds
const (
	relationshipPrefix = "rel:"
	descriptionPrefix  = "desc:"
	refsetMemberPrefix = "mem:"
)

func makeKey(prefix, id string) []byte {
	buf := make([]byte, len(prefix)+len(id))
	offset := copy(buf, prefix)
	copy(buf[offset:], id)
	return buf
}

// makeRelationshipKey generates a key for a relationship by ID.
func makeRelationshipKey(id string) []byte {
	return makeKey(relationshipPrefix, id)
}

// makeDescriptionKey generates a key for a description by ID.
func makeDescriptionKey(id string) []byte {
	return makeKey(descriptionPrefix, id)
}

// makeRefsetMemberKey generates a key for a reference set member by ID.
func makeRefsetMemberKey(id string) []byte {
	return makeKey(refsetMemberPrefix, id)
}
