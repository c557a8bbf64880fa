/*
 * Copyright 2026 The Couchkit Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package scheme extracts the persistable shape of application objects: the
// document id, the type name and the remaining properties.
package scheme

import (
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/couchkit/couchkit/pkg/document/diff"
	"github.com/couchkit/couchkit/pkg/errors"
)

// Reserved field names.
const (
	IDField       = "_id"
	IDAliasField  = "id"
	TypeField     = "type"
	RevisionField = "_rev"
)

var (
	// ErrMissingIDOrType is returned when an object has no id or no type field.
	ErrMissingIDOrType = errors.InvalidArgument("missing id or type field").WithCode("ErrMissingIDOrType")

	// ErrIDOrTypeNotString is returned when the id or the type is not a string.
	ErrIDOrTypeNotString = errors.InvalidArgument("id or type is not a string").WithCode("ErrIDOrTypeNotString")

	// ErrIDTypeMismatch is returned when exactly one of the id and the type is
	// empty.
	ErrIDTypeMismatch = errors.InvalidArgument(
		"id and type must be both empty or both set",
	).WithCode("ErrIDTypeMismatch")

	// ErrDuplicateID is returned when an object declares both "_id" and "id".
	ErrDuplicateID = errors.InvalidArgument("both _id and id are declared").WithCode("ErrDuplicateID")

	// ErrUnknownPropertyType is returned when a field has no JSON
	// representation.
	ErrUnknownPropertyType = errors.InvalidArgument("unknown property type").WithCode("ErrUnknownPropertyType")

	// ErrNotMappable is returned when an object is neither a struct nor a
	// Mappable.
	ErrNotMappable = errors.InvalidArgument("object is not mappable").WithCode("ErrNotMappable")
)

var (
	jsonMarshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// Scheme is the persistable shape of an object.
type Scheme struct {
	ID         string
	Type       string
	Revision   string
	ClassName  string
	Properties []diff.Property
}

// Document renders the scheme as a document body. The id is only present
// when it is set.
func (s *Scheme) Document() map[string]interface{} {
	doc := make(map[string]interface{}, len(s.Properties)+2)
	if s.ID != "" {
		doc[IDField] = s.ID
	}
	if s.Type != "" {
		doc[TypeField] = s.Type
	}
	for _, p := range s.Properties {
		doc[p.Name] = p.Value
	}
	return doc
}

// Object is a nested mapped object, a struct held by a field of another
// object.
type Object struct {
	Name       string
	Properties []diff.Property
}

// StructureName returns the type name of the object.
func (o Object) StructureName() string {
	return o.Name
}

// StructureProperties returns the properties of the object.
func (o Object) StructureProperties() []diff.Property {
	return o.Properties
}

// MarshalJSON encodes the object as a JSON object of its properties.
func (o Object) MarshalJSON() ([]byte, error) {
	m := make(map[string]interface{}, len(o.Properties))
	for _, p := range o.Properties {
		m[p.Name] = p.Value
	}
	return json.Marshal(m)
}

// Extractor extracts schemes from application objects.
type Extractor struct {
	provider FieldProvider
	identity TypeIdentity
}

// NewExtractor creates an Extractor. Nil collaborators fall back to
// ReflectProvider and ReflectIdentity.
func NewExtractor(provider FieldProvider, identity TypeIdentity) *Extractor {
	if provider == nil {
		provider = ReflectProvider{}
	}
	if identity == nil {
		identity = ReflectIdentity{}
	}
	return &Extractor{provider: provider, identity: identity}
}

// Identity returns the type identity used by the extractor.
func (e *Extractor) Identity() TypeIdentity {
	return e.identity
}

// Extract returns the scheme of the given object.
func (e *Extractor) Extract(obj interface{}) (*Scheme, error) {
	fields, err := e.provider.FieldsOf(obj)
	if err != nil {
		return nil, err
	}

	var idField, typeField, revField *Field
	var rest []Field
	for i := range fields {
		f := &fields[i]
		switch f.Name {
		case IDField, IDAliasField:
			if idField != nil {
				return nil, fmt.Errorf("extract %T: %q and %q: %w", obj, idField.Name, f.Name, ErrDuplicateID)
			}
			idField = f
			continue
		case TypeField:
			typeField = f
			continue
		case RevisionField:
			revField = f
			continue
		}
		rest = append(rest, *f)
	}

	if idField == nil || typeField == nil {
		return nil, fmt.Errorf("extract %T: %w", obj, ErrMissingIDOrType)
	}
	id, ok := stringOf(idField.Value)
	if !ok {
		return nil, fmt.Errorf("extract %T: %q: %w", obj, idField.Name, ErrIDOrTypeNotString)
	}
	typ, ok := stringOf(typeField.Value)
	if !ok {
		return nil, fmt.Errorf("extract %T: %q: %w", obj, typeField.Name, ErrIDOrTypeNotString)
	}
	if (id == "") != (typ == "") {
		return nil, fmt.Errorf("extract %T: id %q, type %q: %w", obj, id, typ, ErrIDTypeMismatch)
	}

	props, err := e.properties(rest)
	if err != nil {
		return nil, fmt.Errorf("extract %T: %w", obj, err)
	}

	s := &Scheme{
		ID:         id,
		Type:       typ,
		ClassName:  e.identity.ClassName(obj),
		Properties: props,
	}
	if revField != nil {
		s.Revision, _ = stringOf(revField.Value)
	}
	return s, nil
}

func (e *Extractor) properties(fields []Field) ([]diff.Property, error) {
	var props []diff.Property
	for _, f := range fields {
		typ := f.Type
		if typ == nil && f.Value != nil {
			typ = reflect.TypeOf(f.Value)
		}
		if typ != nil && !isKnownType(typ, map[reflect.Type]bool{}) {
			return nil, fmt.Errorf("%q of %s: %w", f.Name, typ, ErrUnknownPropertyType)
		}
		if f.Optional && isEmpty(f.Value) {
			continue
		}

		value, err := e.value(f.Value)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", f.Name, err)
		}
		props = append(props, diff.Property{Name: f.Name, Value: value, Optional: f.Optional})
	}
	return props, nil
}

// value converts nested structs into Objects. Other values are kept as they
// are and rendered by the JSON codec.
func (e *Extractor) value(v interface{}) (interface{}, error) {
	if _, ok := v.(Mappable); !ok && !isNestedStruct(v) {
		return v, nil
	}

	fields, err := e.provider.FieldsOf(v)
	if err != nil {
		return nil, err
	}
	props, err := e.properties(fields)
	if err != nil {
		return nil, err
	}
	return Object{Name: e.identity.ClassName(v), Properties: props}, nil
}

func isNestedStruct(v interface{}) bool {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return false
	}
	t := rv.Type()
	if t.Implements(jsonMarshalerType) || t.Implements(textMarshalerType) {
		return false
	}
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
		if rv.Type().Implements(jsonMarshalerType) || rv.Type().Implements(textMarshalerType) {
			return false
		}
	}
	return rv.Kind() == reflect.Struct
}

func isKnownType(t reflect.Type, seen map[reflect.Type]bool) bool {
	if seen[t] {
		return true
	}
	seen[t] = true

	if t.Implements(jsonMarshalerType) || t.Implements(textMarshalerType) {
		return true
	}

	switch t.Kind() {
	case reflect.Complex64, reflect.Complex128, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return false
	case reflect.Ptr, reflect.Slice, reflect.Array:
		return isKnownType(t.Elem(), seen)
	case reflect.Map:
		return t.Key().Kind() == reflect.String && isKnownType(t.Elem(), seen)
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if !sf.IsExported() || sf.Tag.Get("json") == "-" {
				continue
			}
			if !isKnownType(sf.Type, seen) {
				return false
			}
		}
	}
	return true
}

func stringOf(v interface{}) (string, bool) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "", true
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.String {
		return "", false
	}
	return rv.String(), true
}

func isEmpty(v interface{}) bool {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return true
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		return rv.Len() == 0
	}
	return rv.IsZero()
}
