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

package storage

import (
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/rf2boot/core"
)

// Record kind tags, written as the first byte of every encoded record.
const (
	kindRelationship byte = iota + 1
	kindDescription
	kindRefsetMember
)

// MarshalRelationship serializes a Relationship to bytes.
func MarshalRelationship(r *core.Relationship) []byte {
	strs := []string{r.ID, r.EffectiveTime, r.ModuleID, r.SourceID, r.DestinationID,
		r.RelationshipGroup, r.TypeID, r.CharacteristicTypeID, r.ModifierID}
	buf := make([]byte, 1+ord.Bool.Size(r.Active)+sizeStrings(strs))
	buf[0] = kindRelationship
	n := 1
	n += ord.Bool.Marshal(r.Active, buf[n:])
	marshalStrings(strs, buf[n:])
	return buf
}

// UnmarshalRelationship deserializes a Relationship from bytes.
func UnmarshalRelationship(data []byte) (*core.Relationship, error) {
	d, err := newDecoder(data, kindRelationship)
	if err != nil {
		return nil, err
	}
	r := &core.Relationship{}
	r.Active = d.bool()
	r.ID = d.string()
	r.EffectiveTime = d.string()
	r.ModuleID = d.string()
	r.SourceID = d.string()
	r.DestinationID = d.string()
	r.RelationshipGroup = d.string()
	r.TypeID = d.string()
	r.CharacteristicTypeID = d.string()
	r.ModifierID = d.string()
	if err := d.finish(); err != nil {
		return nil, err
	}
	return r, nil
}

// MarshalDescription serializes a Description to bytes.
func MarshalDescription(desc *core.Description) []byte {
	strs := []string{desc.ID, desc.Term, desc.ConceptID}
	buf := make([]byte, 1+ord.Bool.Size(desc.Active)+sizeStrings(strs))
	buf[0] = kindDescription
	n := 1
	n += ord.Bool.Marshal(desc.Active, buf[n:])
	marshalStrings(strs, buf[n:])
	return buf
}

// UnmarshalDescription deserializes a Description from bytes.
func UnmarshalDescription(data []byte) (*core.Description, error) {
	d, err := newDecoder(data, kindDescription)
	if err != nil {
		return nil, err
	}
	desc := &core.Description{}
	desc.Active = d.bool()
	desc.ID = d.string()
	desc.Term = d.string()
	desc.ConceptID = d.string()
	if err := d.finish(); err != nil {
		return nil, err
	}
	return desc, nil
}

// MarshalRefsetMember serializes a RefsetMember to bytes.
// Additional fields are written as a length-prefixed list.
func MarshalRefsetMember(m *core.RefsetMember) []byte {
	strs := []string{m.ID, m.EffectiveTime, m.ModuleID, m.RefsetID, m.ReferencedComponentID}
	size := 1 + ord.Bool.Size(m.Active) + sizeStrings(strs) +
		varint.PositiveInt.Size(len(m.AdditionalFields)) + sizeStrings(m.AdditionalFields)
	buf := make([]byte, size)
	buf[0] = kindRefsetMember
	n := 1
	n += ord.Bool.Marshal(m.Active, buf[n:])
	n += marshalStrings(strs, buf[n:])
	n += varint.PositiveInt.Marshal(len(m.AdditionalFields), buf[n:])
	marshalStrings(m.AdditionalFields, buf[n:])
	return buf
}

// UnmarshalRefsetMember deserializes a RefsetMember from bytes.
func UnmarshalRefsetMember(data []byte) (*core.RefsetMember, error) {
	d, err := newDecoder(data, kindRefsetMember)
	if err != nil {
		return nil, err
	}
	m := &core.RefsetMember{}
	m.Active = d.bool()
	m.ID = d.string()
	m.EffectiveTime = d.string()
	m.ModuleID = d.string()
	m.RefsetID = d.string()
	m.ReferencedComponentID = d.string()
	if count := d.length(); count > 0 {
		m.AdditionalFields = make([]string, count)
		for i := range m.AdditionalFields {
			m.AdditionalFields[i] = d.string()
		}
	}
	if err := d.finish(); err != nil {
		return nil, err
	}
	return m, nil
}

func sizeStrings(strs []string) int {
	size := 0
	for _, s := range strs {
		size += ord.String.Size(s)
	}
	return size
}

func marshalStrings(strs []string, buf []byte) int {
	n := 0
	for _, s := range strs {
		n += ord.String.Marshal(s, buf[n:])
	}
	return n
}

// decoder reads fields in order and keeps the first error.
type decoder struct {
	data []byte
	pos  int
	err  error
}

func newDecoder(data []byte, kind byte) (*decoder, error) {
	if len(data) == 0 {
		return nil, ErrTruncatedData
	}
	if data[0] != kind {
		return nil, fmt.Errorf("%w: record kind %d, want %d", ErrSerializationFailed, data[0], kind)
	}
	return &decoder{data: data, pos: 1}, nil
}

func (d *decoder) bool() bool {
	if d.err != nil {
		return false
	}
	v, n, err := ord.Bool.Unmarshal(d.data[d.pos:])
	d.pos += n
	d.err = err
	return v
}

func (d *decoder) string() string {
	if d.err != nil {
		return ""
	}
	v, n, err := ord.String.Unmarshal(d.data[d.pos:])
	d.pos += n
	d.err = err
	return v
}

func (d *decoder) length() int {
	if d.err != nil {
		return 0
	}
	v, n, err := varint.PositiveInt.Unmarshal(d.data[d.pos:])
	d.pos += n
	d.err = err
	if v < 0 || v > len(d.data) {
		d.err = ErrTruncatedData
		return 0
	}
	return v
}

func (d *decoder) finish() error {
	if d.err != nil {
		return fmt.Errorf("%w: %w", ErrSerializationFailed, d.err)
	}
	if d.pos != len(d.data) {
		return fmt.Errorf("%w: %d trailing bytes", ErrSerializationFailed, len(d.data)-d.pos)
	}
	return nil
}
