// Package rf2 reads RF2 release files.
//
// It holds the column schema of the four row kinds the importer consumes
// (concept, description, relationship and reference set member), typed
// decoders from raw fields to row values, and ReadRows, a streaming reader
// that hands rows to a callback one at a time without buffering the file.
//
// The reader is not a validator: apart from the column counts checked by the
// decoders, rows are passed through as they appear in the file.
package rf2
