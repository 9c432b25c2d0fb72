// Package importer loads an RF2 release directory into a storage.ComponentFactory.
//
// An import runs in two phases. Concept files are read first and serially,
// international before extension, because every other row kind refers to
// concept records. The remaining files of each bundle then run as one batch
// of concurrent tasks on a worker pool, international batch before extension
// batch.
//
// Rows are filtered against a profile.LoadingProfile while they stream, so
// raw rows are never materialised. A task that fails is logged and reported
// in the Report but does not stop its siblings or the import.
package importer
