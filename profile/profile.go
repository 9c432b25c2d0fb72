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

package profile

import (
	"fmt"
	"slices"
	"strings"

	"github.com/poiesic/rf2boot/core"
)

// LoadingProfile decides which rows of a release are kept and how much of
// each row is materialised. A profile is read concurrently by every import
// task and must not be modified once an import has started; the With methods
// return modified copies.
type LoadingProfile struct {
	// InactiveConcepts keeps concept rows whose active flag is 0.
	InactiveConcepts bool `yaml:"inactive_concepts"`

	// InactiveDescriptions keeps description rows whose active flag is 0.
	InactiveDescriptions bool `yaml:"inactive_descriptions"`

	// InactiveRelationships keeps relationship rows whose active flag is 0.
	InactiveRelationships bool `yaml:"inactive_relationships"`

	// InactiveRefsetMembers keeps reference set member rows whose active flag is 0.
	InactiveRefsetMembers bool `yaml:"inactive_refset_members"`

	// StatedRelationships keeps relationships with the stated characteristic type.
	StatedRelationships bool `yaml:"stated_relationships"`

	// FullRelationshipObjects archives every accepted relationship row.
	FullRelationshipObjects bool `yaml:"full_relationship_objects"`

	// FullDescriptionObjects archives every accepted description row.
	FullDescriptionObjects bool `yaml:"full_description_objects"`

	// FullRefsetMemberObjects archives every accepted reference set member row.
	FullRefsetMemberObjects bool `yaml:"full_refset_member_objects"`

	// AttributeMapOnConcept folds every accepted relationship onto its source
	// concept as a (type, destination) attribute.
	AttributeMapOnConcept bool `yaml:"attribute_map_on_concept"`

	// AllRefsets tracks membership of every reference set.
	AllRefsets bool `yaml:"all_refsets"`

	// RefsetIDs lists the reference sets to track when AllRefsets is false.
	RefsetIDs []string `yaml:"refset_ids"`
}

// Option is a functional option for building a LoadingProfile.
type Option func(*LoadingProfile)

// WithInactiveConcepts keeps or drops inactive concepts.
func WithInactiveConcepts(keep bool) Option {
	return func(p *LoadingProfile) {
		p.InactiveConcepts = keep
	}
}

// WithInactiveDescriptions keeps or drops inactive descriptions.
func WithInactiveDescriptions(keep bool) Option {
	return func(p *LoadingProfile) {
		p.InactiveDescriptions = keep
	}
}

// WithInactiveRelationships keeps or drops inactive relationships.
func WithInactiveRelationships(keep bool) Option {
	return func(p *LoadingProfile) {
		p.InactiveRelationships = keep
	}
}

// WithInactiveRefsetMembers keeps or drops inactive reference set members.
func WithInactiveRefsetMembers(keep bool) Option {
	return func(p *LoadingProfile) {
		p.InactiveRefsetMembers = keep
	}
}

// WithInactive keeps or drops inactive rows of every kind.
func WithInactive(keep bool) Option {
	return func(p *LoadingProfile) {
		p.InactiveConcepts = keep
		p.InactiveDescriptions = keep
		p.InactiveRelationships = keep
		p.InactiveRefsetMembers = keep
	}
}

// WithStatedRelationships keeps or drops stated relationships.
func WithStatedRelationships(keep bool) Option {
	return func(p *LoadingProfile) {
		p.StatedRelationships = keep
	}
}

// WithFullRelationshipObjects enables archiving of relationship rows.
func WithFullRelationshipObjects(enabled bool) Option {
	return func(p *LoadingProfile) {
		p.FullRelationshipObjects = enabled
	}
}

// WithFullDescriptionObjects enables archiving of description rows.
func WithFullDescriptionObjects(enabled bool) Option {
	return func(p *LoadingProfile) {
		p.FullDescriptionObjects = enabled
	}
}

// WithFullRefsetMemberObjects enables archiving of reference set member rows.
func WithFullRefsetMemberObjects(enabled bool) Option {
	return func(p *LoadingProfile) {
		p.FullRefsetMemberObjects = enabled
	}
}

// WithAttributeMapOnConcept enables folding relationships onto concepts.
func WithAttributeMapOnConcept(enabled bool) Option {
	return func(p *LoadingProfile) {
		p.AttributeMapOnConcept = enabled
	}
}

// WithRefsets adds reference sets to track.
func WithRefsets(refsetIDs ...string) Option {
	return func(p *LoadingProfile) {
		p.RefsetIDs = append(p.RefsetIDs, refsetIDs...)
	}
}

// WithAllRefsets tracks membership of every reference set.
func WithAllRefsets() Option {
	return func(p *LoadingProfile) {
		p.AllRefsets = true
	}
}

// Light returns the default profile: active concepts with their parents and
// fully specified names, and nothing else.
func Light() *LoadingProfile {
	return New()
}

// Standard extends Light with the attribute map and full relationship and
// description objects.
func Standard() *LoadingProfile {
	return New(
		WithAttributeMapOnConcept(true),
		WithFullRelationshipObjects(true),
		WithFullDescriptionObjects(true),
	)
}

// Full keeps everything the importer can load, including inactive rows,
// stated relationships and every reference set.
func Full() *LoadingProfile {
	return New(
		WithInactive(true),
		WithStatedRelationships(true),
		WithAttributeMapOnConcept(true),
		WithFullRelationshipObjects(true),
		WithFullDescriptionObjects(true),
		WithFullRefsetMemberObjects(true),
		WithAllRefsets(),
	)
}

// Preset returns a copy of a named preset profile.
func Preset(name string) (*LoadingProfile, error) {
	switch strings.ToLower(name) {
	case "", "light":
		return Light(), nil
	case "standard":
		return Standard(), nil
	case "full":
		return Full(), nil
	default:
		return nil, fmt.Errorf("%w: unknown preset %q", ErrInvalidProfile, name)
	}
}

// New creates a Light profile and applies the provided options.
//
// Example:
//
//	p := profile.New(
//	    profile.WithInactiveRelationships(true),
//	    profile.WithRefsets("900000000000509007"),
//	)
func New(opts ...Option) *LoadingProfile {
	p := &LoadingProfile{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// With returns a copy of the profile with the options applied.
func (p *LoadingProfile) With(opts ...Option) *LoadingProfile {
	cp := *p
	cp.RefsetIDs = slices.Clone(p.RefsetIDs)
	for _, opt := range opts {
		opt(&cp)
	}
	return &cp
}

// IsRefset reports whether membership of refsetID is tracked. Ids are
// compared after trimming surrounding whitespace.
func (p *LoadingProfile) IsRefset(refsetID string) bool {
	if p.AllRefsets {
		return true
	}
	refsetID = strings.TrimSpace(refsetID)
	for _, id := range p.RefsetIDs {
		if strings.TrimSpace(id) == refsetID {
			return true
		}
	}
	return false
}

// TracksRefsets reports whether any reference set is tracked. Reference set
// files are not read at all when this is false.
func (p *LoadingProfile) TracksRefsets() bool {
	return p.AllRefsets || len(p.TrackedRefsets()) > 0
}

// TrackedRefsets returns the explicitly tracked reference set ids, trimmed,
// sorted and without duplicates.
func (p *LoadingProfile) TrackedRefsets() []string {
	ids := make([]string, 0, len(p.RefsetIDs))
	for _, id := range p.RefsetIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

// Validate checks that tracked reference set ids are concept ids.
func (p *LoadingProfile) Validate() error {
	for _, id := range p.RefsetIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			return fmt.Errorf("%w: empty reference set id", ErrInvalidProfile)
		}
		if !core.IsConceptID(id) {
			return fmt.Errorf("%w: reference set %s: %w", ErrInvalidProfile, id, core.ErrNotConceptID)
		}
	}
	return nil
}

// String renders the profile for logging.
func (p *LoadingProfile) String() string {
	refsets := "none"
	switch {
	case p.AllRefsets:
		refsets = "all"
	case len(p.TrackedRefsets()) > 0:
		refsets = strings.Join(p.TrackedRefsets(), ",")
	}
	return fmt.Sprintf(
		"LoadingProfile{inactiveConcepts=%t, inactiveDescriptions=%t, inactiveRelationships=%t, inactiveRefsetMembers=%t, "+
			"statedRelationships=%t, fullRelationships=%t, fullDescriptions=%t, fullRefsetMembers=%t, attributeMap=%t, refsets=%s}",
		p.InactiveConcepts, p.InactiveDescriptions, p.InactiveRelationships, p.InactiveRefsetMembers,
		p.StatedRelationships, p.FullRelationshipObjects, p.FullDescriptionObjects, p.FullRefsetMemberObjects,
		p.AttributeMapOnConcept, refsets)
}
