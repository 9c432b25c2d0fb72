// Package profile defines the LoadingProfile, the policy that decides which
// rows of an RF2 release the importer keeps.
//
// Profiles are built from presets (Light, Standard, Full) and functional
// options, or loaded from YAML files:
//
//	inactive_relationships: true
//	full_description_objects: true
//	refset_ids:
//	  - "900000000000509007"
//
// A profile is read-only for the duration of an import.
package profile
