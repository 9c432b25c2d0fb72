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

// Package storage provides the storage abstraction layer for rf2boot.
//
// The importer never touches the concept graph directly. It talks to a
// ComponentFactory, which owns the graph and accepts create/append calls, and
// the factory hands full component records to a ComponentArchive.
//
// # Architecture
//
//   - ComponentFactory: the sink the import handlers write to
//   - ComponentArchive: write-once store for full relationship, description
//     and reference set member records
//   - memory: in-memory ComponentStore and Archive
//   - badger: Archive backed by an in-memory BadgerDB, records encoded with mus-go
//
// # Usage
//
//	archive := memory.NewArchive()
//	store := memory.NewComponentStore(archive)
//	defer store.Close()
//
// # Thread Safety
//
// All implementations must be thread-safe and support concurrent access from
// the import worker pool.
package storage
