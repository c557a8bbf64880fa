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

package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"sort"
)

// Decode decodes the given JSON into a tree. Numbers are kept as json.Number
// so that large integers survive a round trip.
func Decode(data []byte) (interface{}, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var v interface{}
	if err := decoder.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return v, nil
}

// DecodeObject decodes the given JSON, which must be an object.
func DecodeObject(data []byte) (map[string]interface{}, error) {
	v, err := Decode(data)
	if err != nil {
		return nil, err
	}

	obj, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("decode document: %s is not an object: %w", KindOf(v), ErrTypeMismatch)
	}
	return obj, nil
}

// Normalize converts an arbitrary Go value into a tree by encoding it.
func Normalize(v interface{}) (interface{}, error) {
	switch v.(type) {
	case nil, bool, string, json.Number:
		return v, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("normalize %T: %v: %w", v, err, ErrUnsupportedValue)
	}
	return Decode(data)
}

// Clone returns a deep copy of the given tree.
func Clone(v interface{}) interface{} {
	switch node := v.(type) {
	case map[string]interface{}:
		cloned := make(map[string]interface{}, len(node))
		for k, child := range node {
			cloned[k] = Clone(child)
		}
		return cloned
	case []interface{}:
		cloned := make([]interface{}, len(node))
		for i, child := range node {
			cloned[i] = Clone(child)
		}
		return cloned
	default:
		return v
	}
}

// Equal reports whether two values are deeply equal. Numbers are compared by
// value regardless of their Go type. Values of different kinds are never
// equal.
func Equal(a, b interface{}) bool {
	ka, kb := KindOf(a), KindOf(b)
	if ka != kb {
		return false
	}

	switch ka {
	case Null:
		return true
	case Number:
		return equalNumbers(a, b)
	case Bool:
		return indirect(a).Bool() == indirect(b).Bool()
	case String:
		return indirect(a).String() == indirect(b).String()
	case Array:
		xs, okA := a.([]interface{})
		ys, okB := b.([]interface{})
		if !okA || !okB {
			return equalNormalized(a, b)
		}
		if len(xs) != len(ys) {
			return false
		}
		for i := range xs {
			if !Equal(xs[i], ys[i]) {
				return false
			}
		}
		return true
	case Object:
		xs, okA := a.(map[string]interface{})
		ys, okB := b.(map[string]interface{})
		if !okA || !okB {
			return equalNormalized(a, b)
		}
		if len(xs) != len(ys) {
			return false
		}
		for k, x := range xs {
			y, ok := ys[k]
			if !ok || !Equal(x, y) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(a, b)
	}
}

func equalNormalized(a, b interface{}) bool {
	na, errA := Normalize(a)
	nb, errB := Normalize(b)
	if errA != nil || errB != nil {
		return reflect.DeepEqual(a, b)
	}
	return Equal(na, nb)
}

// equalNumbers compares decoded numbers and integers exactly. Native floats
// carry no more than float64 precision, so a comparison involving one is made
// in float64.
func equalNumbers(a, b interface{}) bool {
	if isFloat(a) || isFloat(b) {
		fa, okA := toFloat(a)
		fb, okB := toFloat(b)
		return okA && okB && fa == fb
	}

	ra, okA := toRat(a)
	rb, okB := toRat(b)
	if okA && okB {
		return ra.Cmp(rb) == 0
	}

	// literals big.Rat rejects compare by their text
	na, okA := a.(json.Number)
	nb, okB := b.(json.Number)
	return okA && okB && na == nb
}

func isFloat(v interface{}) bool {
	if _, ok := v.(json.Number); ok {
		return false
	}
	kind := indirect(v).Kind()
	return kind == reflect.Float32 || kind == reflect.Float64
}

func toRat(v interface{}) (*big.Rat, bool) {
	if n, ok := v.(json.Number); ok {
		return new(big.Rat).SetString(n.String())
	}

	rv := indirect(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return new(big.Rat).SetInt64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return new(big.Rat).SetUint64(rv.Uint()), true
	}
	return nil, false
}

func toFloat(v interface{}) (float64, bool) {
	if n, ok := v.(json.Number); ok {
		f, err := n.Float64()
		return f, err == nil
	}

	rv := indirect(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

func indirect(v interface{}) reflect.Value {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	return rv
}

// SortedKeys returns the keys of the given object in lexical order.
func SortedKeys(obj map[string]interface{}) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
