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

// Package validation provides the validation functions.
package validation

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

const (
	// collectionNameRegexString is the naming rule of databases in the store:
	// a lowercase letter followed by lowercase letters, digits and _$()+-/.
	collectionNameRegexString = `^[a-z][a-z0-9_$()+/-]*$`

	timeDurationFormatRegexString = `^(\d{1,2}h\s?)?(\d{1,2}m\s?)?(\d{1,2}s)?$`
)

var (
	collectionNameRegex     = regexp.MustCompile(collectionNameRegexString)
	timeDurationFormatRegex = regexp.MustCompile(timeDurationFormatRegexString)

	// reservedIDPrefixes are the only prefixes a document id may start with
	// when it begins with an underscore.
	reservedIDPrefixes = []string{"_design/", "_local/"}
)

var (
	defaultValidator = validator.New()
	defaultEn        = en.New()
	uni              = ut.New(defaultEn, defaultEn)

	trans, _ = uni.GetTranslator(defaultEn.Locale())
)

// CollectionName returns the normalized collection name, the first match of
// the naming rule in the given name. The second value is false when the name
// does not match.
func CollectionName(name string) (string, bool) {
	match := collectionNameRegex.FindString(name)
	return match, match != ""
}

func isValidDocumentID(id string) bool {
	if id == "" {
		return false
	}
	if !strings.HasPrefix(id, "_") {
		return true
	}
	for _, prefix := range reservedIDPrefixes {
		if strings.HasPrefix(id, prefix) && len(id) > len(prefix) {
			return true
		}
	}
	return false
}

// CustomRuleFunc custom rule check function.
type CustomRuleFunc = validator.Func

// FieldLevel is the field level interface.
type FieldLevel = validator.FieldLevel

// CustomRule is the custom rule struct.
type CustomRule struct {
	Tag  string
	Func CustomRuleFunc
	Err  error
}

// Violation is the error returned by the validation.
type Violation struct {
	Tag         string
	Field       string
	Err         error
	Description string
}

// Error returns the error message.
func (e Violation) Error() string {
	if e.Description != "" {
		return e.Description
	}
	return e.Err.Error()
}

// StructError is the error returned by the validation of struct.
type StructError struct {
	Violations []Violation
}

// Error returns the error message.
func (s StructError) Error() string {
	sb := strings.Builder{}

	for _, v := range s.Violations {
		sb.WriteString(v.Error())
		sb.WriteString("\n")
	}

	return strings.TrimSpace(sb.String())
}

// RegisterValidation registers a custom validation with the given tag.
func RegisterValidation(tag string, fn validator.Func) error {
	if err := defaultValidator.RegisterValidation(tag, fn); err != nil {
		return fmt.Errorf("register validation: %w", err)
	}
	return nil
}

// RegisterTranslation registers the message used when the given tag fails.
func RegisterTranslation(tag, msg string) error {
	if err := defaultValidator.RegisterTranslation(
		tag,
		trans,
		func(ut ut.Translator) error {
			if err := ut.Add(tag, msg, true); err != nil {
				return fmt.Errorf("register translation: %w", err)
			}
			return nil
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, fe.Field())
			return t
		},
	); err != nil {
		return fmt.Errorf("register translation: %w", err)
	}
	return nil
}

// ValidateValue validates the value with the tag.
func ValidateValue(v interface{}, tag string) error {
	if err := defaultValidator.Var(v, tag); err != nil {
		for _, e := range err.(validator.ValidationErrors) {
			return Violation{
				Tag:         e.Tag(),
				Err:         e,
				Description: e.Translate(trans),
			}
		}
	}
	return nil
}

// Validate validates the given string with tags and custom rules.
func Validate(v string, tagOrRules []interface{}) error {
	sb := strings.Builder{}

	for i, tagOrRule := range tagOrRules {
		if i != 0 {
			sb.WriteString(",")
		}

		switch value := tagOrRule.(type) {
		case string:
			sb.WriteString(value)
		case CustomRule:
			var tag = fmt.Sprintf("custom_key_%d", i)
			if value.Tag != "" {
				tag = value.Tag
			}

			if value.Func != nil {
				if err := RegisterValidation(tag, value.Func); err != nil {
					return fmt.Errorf("validation custom rule: %w", err)
				}
			}

			if value.Err != nil {
				if err := RegisterTranslation(tag, value.Err.Error()); err != nil {
					return fmt.Errorf("validation custom rule: %w", err)
				}
			}

			sb.WriteString(tag)
		}
	}

	return ValidateValue(v, sb.String())
}

// ValidateStruct validates the struct by its `validate` tags.
func ValidateStruct(s interface{}) error {
	if err := defaultValidator.Struct(s); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return fmt.Errorf("validate struct: %w", err)
		}

		structError := &StructError{}
		for _, e := range validationErrors {
			structError.Violations = append(structError.Violations, Violation{
				Tag:         e.Tag(),
				Field:       e.StructField(),
				Err:         e,
				Description: e.Translate(trans),
			})
		}
		return structError
	}

	return nil
}

func mustRegister(tag, msg string, fn validator.Func) {
	if err := RegisterValidation(tag, fn); err != nil {
		fmt.Fprintf(os.Stderr, "validation %s: %v\n", tag, err)
		os.Exit(1)
	}
	if err := RegisterTranslation(tag, msg); err != nil {
		fmt.Fprintf(os.Stderr, "validation %s: %v\n", tag, err)
		os.Exit(1)
	}
}

func init() {
	if err := entranslations.RegisterDefaultTranslations(defaultValidator, trans); err != nil {
		fmt.Fprintf(os.Stderr, "validation register default translations: %v\n", err)
		os.Exit(1)
	}

	mustRegister(
		"collection_name",
		"{0} must start with a lowercase letter and only contain lowercase letters, digits and _$()+-/",
		func(level validator.FieldLevel) bool {
			_, ok := CollectionName(level.Field().String())
			return ok
		},
	)

	mustRegister(
		"document_id",
		"{0} must not be empty or start with an underscore unless it is a design or local document",
		func(level validator.FieldLevel) bool {
			return isValidDocumentID(level.Field().String())
		},
	)

	mustRegister(
		"duration",
		"{0} must be a valid time duration string format",
		func(level validator.FieldLevel) bool {
			return timeDurationFormatRegex.MatchString(level.Field().String())
		},
	)
}
