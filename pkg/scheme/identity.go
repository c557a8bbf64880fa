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
	"reflect"
	"strings"
)

// CollectionNamer is implemented by objects that declare the collection
// they are stored in.
type CollectionNamer interface {
	CollectionName() string
}

// TypeIdentity identifies application types.
type TypeIdentity interface {
	// ClassName returns the name of the type of the given object.
	ClassName(obj interface{}) string

	// CollectionNameFor returns the collection objects of the given type
	// belong to.
	CollectionNameFor(obj interface{}) string
}

// ReflectIdentity names types after their Go type. Unless an object
// implements CollectionNamer, its collection is the lower-cased type name.
type ReflectIdentity struct{}

// ClassName returns the name of the Go type of obj, without pointers.
func (ReflectIdentity) ClassName(obj interface{}) string {
	t := reflect.TypeOf(obj)
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// CollectionNameFor returns the collection of obj.
func (i ReflectIdentity) CollectionNameFor(obj interface{}) string {
	if namer, ok := obj.(CollectionNamer); ok {
		return namer.CollectionName()
	}
	return strings.ToLower(i.ClassName(obj))
}
