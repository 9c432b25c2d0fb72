// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package badger

import (
	"log/slog"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/poiesic/rf2boot/core"
	"github.com/poiesic/rf2boot/storage"
)

// DefaultCacheSize is the number of decoded records kept per kind.
const DefaultCacheSize = 4096

// Archive implements storage.ComponentArchive on an in-memory BadgerDB.
// Records are encoded with the storage codecs; lookups go through an LRU
// cache of decoded records.
type Archive struct {
	backend       *Backend
	ownsBackend   bool
	relationships *lru.Cache[string, *core.Relationship]
	descriptions  *lru.Cache[string, *core.Description]
	members       *lru.Cache[string, *core.RefsetMember]
	closed        atomic.Bool
	logger        *slog.Logger
}

var _ storage.ComponentArchive = (*Archive)(nil)

// ArchiveOption configures an Archive.
type ArchiveOption func(*Archive) error

// WithCacheSize sets the number of decoded records cached per kind.
func WithCacheSize(size int) ArchiveOption {
	return func(a *Archive) error {
		var err error
		if a.relationships, err = lru.New[string, *core.Relationship](size); err != nil {
			return err
		}
		if a.descriptions, err = lru.New[string, *core.Description](size); err != nil {
			return err
		}
		a.members, err = lru.New[string, *core.RefsetMember](size)
		return err
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) ArchiveOption {
	return func(a *Archive) error {
		if logger != nil {
			a.logger = logger
		}
		return nil
	}
}

// WithBackend makes the archive use an existing backend. The caller keeps
// ownership and must close it.
func WithBackend(backend *Backend) ArchiveOption {
	return func(a *Archive) error {
		a.backend = backend
		return nil
	}
}

// NewArchive creates an archive. Unless WithBackend is given, it opens and
// owns a fresh in-memory backend.
func NewArchive(opts ...ArchiveOption) (*Archive, error) {
	a := &Archive{logger: slog.Default()}
	if err := WithCacheSize(DefaultCacheSize)(a); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	base := a.logger
	a.logger = a.logger.With("component", "archive")

	if a.backend == nil {
		backend, err := OpenBackend(base)
		if err != nil {
			return nil, err
		}
		a.backend = backend
		a.ownsBackend = true
	}
	return a, nil
}

// put writes a record and evicts any cached copy of it.
func put[T any](a *Archive, cache *lru.Cache[string, *T], key []byte, id string, value []byte) error {
	if id == "" {
		return core.ErrEmptyID
	}
	if a.closed.Load() {
		return storage.ErrArchiveClosed
	}
	if err := a.backend.Put(key, value); err != nil {
		return err
	}
	cache.Remove(id)
	return nil
}

// PutRelationship stores a relationship keyed by its id.
func (a *Archive) PutRelationship(relationship *core.Relationship) error {
	id := relationship.ID
	return put(a, a.relationships, makeRelationshipKey(id), id, storage.MarshalRelationship(relationship))
}

// PutDescription stores a description keyed by its id.
func (a *Archive) PutDescription(description *core.Description) error {
	id := description.ID
	return put(a, a.descriptions, makeDescriptionKey(id), id, storage.MarshalDescription(description))
}

// PutRefsetMember stores a reference set member keyed by its id.
func (a *Archive) PutRefsetMember(member *core.RefsetMember) error {
	id := member.ID
	return put(a, a.members, makeRefsetMemberKey(id), id, storage.MarshalRefsetMember(member))
}

// read loads and decodes a record, consulting the cache first.
func read[T any](a *Archive, cache *lru.Cache[string, *T], key []byte, id string, decode func([]byte) (*T, error)) (*T, error) {
	if a.closed.Load() {
		return nil, storage.ErrArchiveClosed
	}
	if v, ok := cache.Get(id); ok {
		return v, nil
	}
	data, err := a.backend.Get(key)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, storage.ErrNotFound
	}
	v, err := decode(data)
	if err != nil {
		return nil, err
	}
	cache.Add(id, v)
	return v, nil
}

// Relationship returns a stored relationship.
func (a *Archive) Relationship(id string) (*core.Relationship, error) {
	return read(a, a.relationships, makeRelationshipKey(id), id, storage.UnmarshalRelationship)
}

// Description returns a stored description.
func (a *Archive) Description(id string) (*core.Description, error) {
	return read(a, a.descriptions, makeDescriptionKey(id), id, storage.UnmarshalDescription)
}

// RefsetMember returns a stored reference set member.
func (a *Archive) RefsetMember(id string) (*core.RefsetMember, error) {
	return read(a, a.members, makeRefsetMemberKey(id), id, storage.UnmarshalRefsetMember)
}

// Count returns the number of stored records of each kind.
// Returns zero counts once the archive is closed.
func (a *Archive) Count() storage.ArchiveCount {
	if a.closed.Load() {
		return storage.ArchiveCount{}
	}
	count := func(prefix string) int {
		n, err := a.backend.CountPrefix([]byte(prefix))
		if err != nil {
			a.logger.Warn("failed to count records", "prefix", prefix, "error", err)
		}
		return n
	}
	return storage.ArchiveCount{
		Relationships: count(relationshipPrefix),
		Descriptions:  count(descriptionPrefix),
		RefsetMembers: count(refsetMemberPrefix),
	}
}

// Close purges the caches and closes the backend if the archive owns it.
func (a *Archive) Close() error {
	if !a.closed.CompareAndSwap(false, true) {
		return nil
	}
	a.relationships.Purge()
	a.descriptions.Purge()
	a.members.Purge()
	if a.ownsBackend {
		return a.backend.Close()
	}
	return nil
}
