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

// Package tree provides kind classification, navigation and type-dispatched
// mutation of decoded JSON documents.
//
// A tree is made of the values encoding/json produces: nil, bool,
// json.Number, string, []interface{} and map[string]interface{}.
package tree

import (
	"encoding/json"
	"reflect"
)

// Kind is the JSON kind of a value.
type Kind int

// The kinds of JSON values.
const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
	Unknown
)

var kindNames = map[Kind]string{
	Null:    "null",
	Bool:    "bool",
	Number:  "number",
	String:  "string",
	Array:   "array",
	Object:  "object",
	Unknown: "unknown",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[Unknown]
}

// KindOf classifies the given value. Go values that are not tree values are
// classified by how encoding/json would render them.
func KindOf(v interface{}) Kind {
	switch v.(type) {
	case nil:
		return Null
	case bool:
		return Bool
	case json.Number, float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return Number
	case string:
		return String
	case []interface{}:
		return Array
	case map[string]interface{}:
		return Object
	}

	return kindOfValue(reflect.ValueOf(v))
}

func kindOfValue(rv reflect.Value) Kind {
	switch rv.Kind() {
	case reflect.Invalid:
		return Null
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return Null
		}
		return kindOfValue(rv.Elem())
	case reflect.Bool:
		return Bool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return Number
	case reflect.String:
		return String
	case reflect.Slice:
		if rv.IsNil() {
			return Null
		}
		return Array
	case reflect.Array:
		return Array
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Unknown
		}
		if rv.IsNil() {
			return Null
		}
		return Object
	case reflect.Struct:
		return Object
	default:
		return Unknown
	}
}
