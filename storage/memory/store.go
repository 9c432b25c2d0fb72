package memory

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/poiesic/rf2boot/core"
	"github.com/poiesic/rf2boot/storage"
)

// Edge is a parent edge that was recorded before its source concept existed.
type Edge struct {
	SourceID      string
	DestinationID string
}

// ComponentStore is the in-memory concept graph. It implements
// storage.ComponentFactory and hands full component records to an archive.
type ComponentStore struct {
	mu       sync.RWMutex
	concepts map[string]*core.Concept

	danglingMu sync.Mutex
	dangling   []Edge

	dropped atomic.Int64
	archive storage.ComponentArchive
	logger  *slog.Logger
}

var _ storage.ComponentFactory = (*ComponentStore)(nil)

// StoreOption configures a ComponentStore.
type StoreOption func(*ComponentStore)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *ComponentStore) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// NewComponentStore creates an empty store writing full records to archive.
// A nil archive defaults to an in-memory Archive.
func NewComponentStore(archive storage.ComponentArchive, opts ...StoreOption) *ComponentStore {
	if archive == nil {
		archive = NewArchive()
	}
	s := &ComponentStore{
		concepts: make(map[string]*core.Concept),
		archive:  archive,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "store")
	return s
}

// CreateConcept creates a concept, or updates the metadata of an existing one.
func (s *ComponentStore) CreateConcept(id, effectiveTime string, active bool, moduleID, definitionStatusID string) error {
	if id == "" {
		return core.ErrEmptyID
	}

	s.mu.Lock()
	existing, ok := s.concepts[id]
	if !ok {
		s.concepts[id] = core.NewConcept(id, effectiveTime, active, moduleID, definitionStatusID)
	}
	s.mu.Unlock()

	if ok {
		existing.Update(effectiveTime, active, moduleID, definitionStatusID)
	}
	return nil
}

// concept looks up a concept under the read lock.
func (s *ComponentStore) concept(id string) *core.Concept {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.concepts[id]
}

// AddConceptParent records a parent edge. When the source concept is absent the
// edge is kept in the dangling edge list instead. The destination does not
// need to exist.
func (s *ComponentStore) AddConceptParent(sourceID, destinationID string) error {
	if c := s.concept(sourceID); c != nil {
		c.AddParent(destinationID)
		return nil
	}

	s.danglingMu.Lock()
	s.dangling = append(s.dangling, Edge{SourceID: sourceID, DestinationID: destinationID})
	s.danglingMu.Unlock()
	s.logger.Debug("parent edge without source concept", "source", sourceID, "destination", destinationID)
	return nil
}

// AddConceptAttribute records an attribute. Attributes of absent concepts are dropped.
func (s *ComponentStore) AddConceptAttribute(sourceID, typeID, value string) error {
	if c := s.concept(sourceID); c != nil {
		c.AddAttribute(typeID, value)
		return nil
	}
	s.dropped.Add(1)
	return nil
}

// AddConceptFSN sets the label of a concept. Labels of absent concepts are dropped.
func (s *ComponentStore) AddConceptFSN(conceptID, term string) error {
	if c := s.concept(conceptID); c != nil {
		c.SetFSN(term)
		return nil
	}
	s.dropped.Add(1)
	return nil
}

// AddConceptReferencedInRefsetID records reference set membership. Memberships
// of absent concepts are dropped.
func (s *ComponentStore) AddConceptReferencedInRefsetID(refsetID, conceptID string) error {
	if c := s.concept(conceptID); c != nil {
		c.AddMemberOfRefset(refsetID)
		return nil
	}
	s.dropped.Add(1)
	return nil
}

// AddRelationship archives a full relationship record.
func (s *ComponentStore) AddRelationship(relationship *core.Relationship) error {
	return s.archive.PutRelationship(relationship)
}

// AddDescription archives a full description record.
func (s *ComponentStore) AddDescription(description *core.Description) error {
	return s.archive.PutDescription(description)
}

// AddRefsetMember archives a full reference set member record.
func (s *ComponentStore) AddRefsetMember(member *core.RefsetMember) error {
	return s.archive.PutRefsetMember(member)
}

// Concepts returns a snapshot of the concept map. The records themselves are
// shared with the store.
func (s *ComponentStore) Concepts() map[string]*core.Concept {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make(map[string]*core.Concept, len(s.concepts))
	for id, c := range s.concepts {
		result[id] = c
	}
	return result
}

// Concept returns a single concept, or nil if it does not exist.
func (s *ComponentStore) Concept(id string) *core.Concept {
	return s.concept(id)
}

// Len returns the number of concepts.
func (s *ComponentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.concepts)
}

// DanglingEdges returns the parent edges whose source concept was absent.
func (s *ComponentStore) DanglingEdges() []Edge {
	s.danglingMu.Lock()
	defer s.danglingMu.Unlock()
	result := make([]Edge, len(s.dangling))
	copy(result, s.dangling)
	return result
}

// Dropped returns the number of labels, attributes and memberships that
// referenced absent concepts.
func (s *ComponentStore) Dropped() int64 {
	return s.dropped.Load()
}

// Archive returns the archive holding full component records.
func (s *ComponentStore) Archive() storage.ComponentArchive {
	return s.archive
}

// Close closes the archive.
func (s *ComponentStore) Close() error {
	return s.archive.Close()
}
