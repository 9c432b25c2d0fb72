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

package core

import (
	"slices"
	"sync"
)

// Concept is a node of the in-memory concept graph.
// Records are created during the concept phase of an import and then appended to
// concurrently by relationship, description and reference set tasks, so all
// mutation goes through the methods below.
type Concept struct {
	ID                 string
	EffectiveTime      string
	Active             bool
	ModuleID           string
	DefinitionStatusID string

	Parents         []string            // Destination ids of accepted is-a relationships
	FSN             string              // Fully specified name, empty until descriptions load
	Attributes      map[string][]string // Relationship type id -> destination ids
	MemberOfRefsets []string            // Tracked reference sets that list this concept

	mu sync.Mutex
}

// NewConcept creates a concept record with no parents, label or attributes.
func NewConcept(id, effectiveTime string, active bool, moduleID, definitionStatusID string) *Concept {
	return &Concept{
		ID:                 id,
		EffectiveTime:      effectiveTime,
		Active:             active,
		ModuleID:           moduleID,
		DefinitionStatusID: definitionStatusID,
	}
}

// Update replaces the concept metadata, keeping accumulated edges and labels.
// Extension releases override international rows for the same id.
func (c *Concept) Update(effectiveTime string, active bool, moduleID, definitionStatusID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.EffectiveTime = effectiveTime
	c.Active = active
	c.ModuleID = moduleID
	c.DefinitionStatusID = definitionStatusID
}

// AddParent records a parent edge. Duplicate parents are ignored.
func (c *Concept) AddParent(parentID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if slices.Contains(c.Parents, parentID) {
		return
	}
	c.Parents = append(c.Parents, parentID)
}

// AddAttribute records a (type, value) pair. Duplicate pairs are ignored.
func (c *Concept) AddAttribute(typeID, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Attributes == nil {
		c.Attributes = make(map[string][]string)
	}
	if slices.Contains(c.Attributes[typeID], value) {
		return
	}
	c.Attributes[typeID] = append(c.Attributes[typeID], value)
}

// SetFSN sets the fully specified name.
func (c *Concept) SetFSN(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.FSN = term
}

// AddMemberOfRefset records membership of a tracked reference set.
func (c *Concept) AddMemberOfRefset(refsetID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if slices.Contains(c.MemberOfRefsets, refsetID) {
		return
	}
	c.MemberOfRefsets = append(c.MemberOfRefsets, refsetID)
}

// IsMemberOfRefset reports whether the concept was recorded in the given reference set.
func (c *Concept) IsMemberOfRefset(refsetID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Contains(c.MemberOfRefsets, refsetID)
}

// ParentIDs returns a copy of the parent ids.
func (c *Concept) ParentIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.Parents)
}

// AttributeValues returns a copy of the values recorded for a relationship type.
func (c *Concept) AttributeValues(typeID string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.Attributes[typeID])
}

// Relationship is a full RF2 relationship row.
type Relationship struct {
	ID                   string
	EffectiveTime        string
	Active               bool
	ModuleID             string
	SourceID             string
	DestinationID        string
	RelationshipGroup    string
	TypeID               string
	CharacteristicTypeID string
	ModifierID           string
}

// Description is the subset of an RF2 description row kept when full
// description objects are requested.
type Description struct {
	ID        string
	Active    bool
	Term      string
	ConceptID string
}

// RefsetMember is an RF2 reference set member row. AdditionalFields holds the
// columns after referencedComponentId, which differ per reference set pattern.
type RefsetMember struct {
	ID                    string
	EffectiveTime         string
	Active                bool
	ModuleID              string
	RefsetID              string
	ReferencedComponentID string
	AdditionalFields      []string
}
