package memory

import (
	"sync"

	"github.com/poiesic/rf2boot/core"
	"github.com/poiesic/rf2boot/storage"
)

// Archive is a map-backed storage.ComponentArchive.
type Archive struct {
	mu            sync.RWMutex
	relationships map[string]*core.Relationship
	descriptions  map[string]*core.Description
	members       map[string]*core.RefsetMember
	closed        bool
}

var _ storage.ComponentArchive = (*Archive)(nil)

// NewArchive creates an empty archive.
func NewArchive() *Archive {
	return &Archive{
		relationships: make(map[string]*core.Relationship),
		descriptions:  make(map[string]*core.Description),
		members:       make(map[string]*core.RefsetMember),
	}
}

func put[T any](a *Archive, m map[string]*T, id string, v *T) error {
	if id == "" {
		return core.ErrEmptyID
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return storage.ErrArchiveClosed
	}
	m[id] = v
	return nil
}

func get[T any](a *Archive, m map[string]*T, id string) (*T, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return nil, storage.ErrArchiveClosed
	}
	v, ok := m[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return v, nil
}

// PutRelationship stores a relationship keyed by its id.
func (a *Archive) PutRelationship(relationship *core.Relationship) error {
	return put(a, a.relationships, relationship.ID, relationship)
}

// PutDescription stores a description keyed by its id.
func (a *Archive) PutDescription(description *core.Description) error {
	return put(a, a.descriptions, description.ID, description)
}

// PutRefsetMember stores a reference set member keyed by its id.
func (a *Archive) PutRefsetMember(member *core.RefsetMember) error {
	return put(a, a.members, member.ID, member)
}

// Relationship returns a stored relationship.
func (a *Archive) Relationship(id string) (*core.Relationship, error) {
	return get(a, a.relationships, id)
}

// Description returns a stored description.
func (a *Archive) Description(id string) (*core.Description, error) {
	return get(a, a.descriptions, id)
}

// RefsetMember returns a stored reference set member.
func (a *Archive) RefsetMember(id string) (*core.RefsetMember, error) {
	return get(a, a.members, id)
}

// Count returns the number of stored records of each kind.
func (a *Archive) Count() storage.ArchiveCount {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return storage.ArchiveCount{
		Relationships: len(a.relationships),
		Descriptions:  len(a.descriptions),
		RefsetMembers: len(a.members),
	}
}

// Close drops all records.
func (a *Archive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	a.relationships = nil
	a.descriptions = nil
	a.members = nil
	return nil
}
