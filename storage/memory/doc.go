// Package memory provides the in-memory concept graph and component archive.
package memory
