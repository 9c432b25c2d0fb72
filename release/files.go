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

package release

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// Role is the semantic role of a release file.
type Role int

const (
	RoleConcept Role = iota + 1
	RoleDescription
	RoleTextDefinition
	RoleRelationship
	RoleRefsetMember
)

// String returns the role name used in errors and logs.
func (r Role) String() string {
	switch r {
	case RoleConcept:
		return "concept snapshot"
	case RoleDescription:
		return "description snapshot"
	case RoleTextDefinition:
		return "text definition snapshot"
	case RoleRelationship:
		return "relationship snapshot"
	case RoleRefsetMember:
		return "reference set snapshot"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// ReleaseFiles is the set of files of one origin found in a release directory.
// Empty paths mean the role was not found.
type ReleaseFiles struct {
	ConceptSnapshot        string
	DescriptionSnapshot    string
	TextDefinitionSnapshot string
	RelationshipSnapshot   string
	RefsetSnapshots        []string // In walk order
}

// Path returns the file recorded for a singular role.
func (rf *ReleaseFiles) Path(role Role) string {
	switch role {
	case RoleConcept:
		return rf.ConceptSnapshot
	case RoleDescription:
		return rf.DescriptionSnapshot
	case RoleTextDefinition:
		return rf.TextDefinitionSnapshot
	case RoleRelationship:
		return rf.RelationshipSnapshot
	default:
		return ""
	}
}

// set records path for role. Singular roles may only be set once.
func (rf *ReleaseFiles) set(role Role, path string) error {
	if role == RoleRefsetMember {
		rf.RefsetSnapshots = append(rf.RefsetSnapshots, path)
		return nil
	}
	if existing := rf.Path(role); existing != "" {
		return fmt.Errorf("%w for %s: %s and %s", ErrDuplicateFile, role, existing, path)
	}
	switch role {
	case RoleConcept:
		rf.ConceptSnapshot = path
	case RoleDescription:
		rf.DescriptionSnapshot = path
	case RoleTextDefinition:
		rf.TextDefinitionSnapshot = path
	case RoleRelationship:
		rf.RelationshipSnapshot = path
	}
	return nil
}

// AnyFilesFound reports whether any role has a file.
func (rf *ReleaseFiles) AnyFilesFound() bool {
	return rf.ConceptSnapshot != "" ||
		rf.DescriptionSnapshot != "" ||
		rf.TextDefinitionSnapshot != "" ||
		rf.RelationshipSnapshot != "" ||
		len(rf.RefsetSnapshots) > 0
}

// Require checks that every given singular role has a file.
func (rf *ReleaseFiles) Require(roles ...Role) error {
	for _, role := range roles {
		if role == RoleRefsetMember {
			if len(rf.RefsetSnapshots) == 0 {
				return fmt.Errorf("%w: %s", ErrMissingFile, role)
			}
			continue
		}
		if rf.Path(role) == "" {
			return fmt.Errorf("%w: %s", ErrMissingFile, role)
		}
	}
	return nil
}

// AssertFullSet checks that both the concept and relationship snapshots are present.
func (rf *ReleaseFiles) AssertFullSet() error {
	return rf.Require(RoleConcept, RoleRelationship)
}

// Fingerprint returns a hex BLAKE2b digest of the bundle. Bundles holding the
// same paths in the same order have the same fingerprint.
func (rf *ReleaseFiles) Fingerprint() string {
	h, _ := blake2b.New(16, nil)
	for _, role := range []Role{RoleConcept, RoleDescription, RoleTextDefinition, RoleRelationship} {
		fmt.Fprintf(h, "%d=%s\n", role, rf.Path(role))
	}
	for _, path := range rf.RefsetSnapshots {
		fmt.Fprintf(h, "%d=%s\n", RoleRefsetMember, path)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// String renders the bundle for logging.
func (rf *ReleaseFiles) String() string {
	var sb strings.Builder
	sb.WriteString("ReleaseFiles{")
	fmt.Fprintf(&sb, "concept=%q, description=%q, textDefinition=%q, relationship=%q, refsets=[%s]",
		rf.ConceptSnapshot, rf.DescriptionSnapshot, rf.TextDefinitionSnapshot, rf.RelationshipSnapshot,
		strings.Join(rf.RefsetSnapshots, ", "))
	sb.WriteString("}")
	return sb.String()
}
