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

// Package rf2boot loads RF2 terminology releases into an in-memory concept graph.
//
// LoadReleaseFiles is the one-call entry point. Loader keeps the component
// store and archive open after the import so full relationship, description
// and reference set member records can be looked up.
package rf2boot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/rf2boot/core"
	"github.com/poiesic/rf2boot/importer"
	"github.com/poiesic/rf2boot/profile"
	"github.com/poiesic/rf2boot/storage"
	"github.com/poiesic/rf2boot/storage/badger"
	"github.com/poiesic/rf2boot/storage/memory"
)

// ArchiveKind selects where full component records are kept.
type ArchiveKind string

const (
	ArchiveMemory ArchiveKind = "memory"
	ArchiveBadger ArchiveKind = "badger"
)

// ErrUnknownArchive is returned for an archive kind that is not supported.
var ErrUnknownArchive = errors.New("unknown archive kind")

type Loader struct {
	store    *memory.ComponentStore
	importer *importer.Importer
	logger   *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*loaderOptions)

type loaderOptions struct {
	archive      ArchiveKind
	importerOpts []importer.Option
	logger       *slog.Logger
}

// WithArchive selects the archive for full component records.
// Default is ArchiveMemory.
func WithArchive(kind ArchiveKind) LoaderOption {
	return func(o *loaderOptions) {
		o.archive = kind
	}
}

// WithImporterOptions passes options through to the importer.
func WithImporterOptions(opts ...importer.Option) LoaderOption {
	return func(o *loaderOptions) {
		o.importerOpts = append(o.importerOpts, opts...)
	}
}

// WithLogger sets the logger used by the loader and everything it creates.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(o *loaderOptions) {
		o.logger = logger
	}
}

func NewLoader(opts ...LoaderOption) (*Loader, error) {
	options := &loaderOptions{
		archive: ArchiveMemory,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	var archive storage.ComponentArchive
	switch options.archive {
	case ArchiveMemory, "":
		archive = memory.NewArchive()
	case ArchiveBadger:
		a, err := badger.NewArchive(badger.WithLogger(options.logger))
		if err != nil {
			return nil, err
		}
		archive = a
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownArchive, options.archive)
	}

	store := memory.NewComponentStore(archive, memory.WithLogger(options.logger))

	importerOpts := append([]importer.Option{importer.WithLogger(options.logger)}, options.importerOpts...)
	imp, err := importer.NewImporter(store, importerOpts...)
	if err != nil {
		store.Close()
		return nil, err
	}

	return &Loader{
		store:    store,
		importer: imp,
		logger:   options.logger,
	}, nil
}

// Import loads dir into the loader's store.
func (l *Loader) Import(ctx context.Context, dir string, p *profile.LoadingProfile) (*importer.Report, error) {
	return l.importer.Import(ctx, dir, p)
}

// Store returns the component store holding the concept graph.
func (l *Loader) Store() *memory.ComponentStore {
	return l.store
}

// Archive returns the archive holding full component records.
func (l *Loader) Archive() storage.ComponentArchive {
	return l.store.Archive()
}

// Close releases the worker pool and closes the archive.
func (l *Loader) Close() error {
	l.importer.Release()
	if err := l.store.Close(); err != nil {
		l.logger.Error("error closing component archive", "err", err)
		return err
	}
	return nil
}

// LoadReleaseFiles imports the release in dir and returns its concepts keyed by id.
func LoadReleaseFiles(ctx context.Context, dir string, p *profile.LoadingProfile, opts ...LoaderOption) (map[string]*core.Concept, error) {
	loader, err := NewLoader(opts...)
	if err != nil {
		return nil, err
	}
	defer loader.Close()

	if _, err := loader.Import(ctx, dir, p); err != nil {
		return nil, err
	}
	return loader.Store().Concepts(), nil
}
