// Package release classifies the files of an RF2 release directory.
//
// FindFiles walks a directory tree and sorts the snapshot files it finds into
// a ReleaseFiles bundle by role (concept, description, text definition,
// relationship, reference set members). File names are matched against an
// ordered table of glob rules; the International and Extension name filters
// split the files of one directory into the base release and whatever
// extension is layered on top of it.
//
// Reference set files are matched by der2_*Snapshot*, not by the der2_ prefix
// alone, so full and delta reference set files are never picked up.
package release
