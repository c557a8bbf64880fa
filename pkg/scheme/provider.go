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

package scheme

import (
	"fmt"
	"reflect"
	"strings"
)

// Field is a named value of an application object as seen by the extractor.
type Field struct {
	Name     string
	Value    interface{}
	Optional bool

	// Type is the declared type of the field. When nil, the dynamic type of
	// Value is used.
	Type reflect.Type
}

// FieldProvider lists the fields of application objects.
type FieldProvider interface {
	FieldsOf(obj interface{}) ([]Field, error)
}

// Mappable is implemented by objects that declare their fields explicitly
// instead of having them discovered by reflection.
type Mappable interface {
	MappedFields() []Field
}

// ReflectProvider discovers the exported fields of structs. Field names
// follow the `json` struct tags, and fields tagged "omitempty" or declared
// as pointers are optional.
type ReflectProvider struct{}

// FieldsOf returns the fields of the given object.
func (p ReflectProvider) FieldsOf(obj interface{}) ([]Field, error) {
	if m, ok := obj.(Mappable); ok {
		return m.MappedFields(), nil
	}

	rv := reflect.ValueOf(obj)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, fmt.Errorf("fields of nil %T: %w", obj, ErrNotMappable)
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("fields of %T: %w", obj, ErrNotMappable)
	}

	return structFields(rv), nil
}

func structFields(rv reflect.Value) []Field {
	var fields []Field
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		name, opts, tagged := parseTag(sf.Tag.Get("json"))
		if name == "-" && opts == "" {
			continue
		}

		if sf.Anonymous && !tagged {
			embedded := rv.Field(i)
			if embedded.Kind() == reflect.Ptr {
				if embedded.IsNil() {
					continue
				}
				embedded = embedded.Elem()
			}
			if embedded.Kind() == reflect.Struct {
				fields = append(fields, structFields(embedded)...)
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}

		if name == "" {
			name = sf.Name
		}
		fields = append(fields, Field{
			Name:     name,
			Value:    rv.Field(i).Interface(),
			Optional: strings.Contains(opts, "omitempty") || sf.Type.Kind() == reflect.Ptr,
			Type:     sf.Type,
		})
	}
	return fields
}

func parseTag(tag string) (string, string, bool) {
	if tag == "" {
		return "", "", false
	}
	name, opts, _ := strings.Cut(tag, ",")
	return name, opts, name != ""
}
