// Package inputval validates catalog submissions.
//
// Rules are declared as go-playground/validator struct tags; a `label` tag
// names the field in messages and the `json` name becomes the error key.
// Every field is checked, so a caller can show all problems at once.
package inputval

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps an error key (e.g. "title" or "urls[2].url") to a
// user-facing message. An empty FieldErrors means the input is valid.
type FieldErrors map[string]string

// Keys returns the error keys in sorted order.
func (fe FieldErrors) Keys() []string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// First returns the message for the first key in sorted order.
func (fe FieldErrors) First() string {
	keys := fe.Keys()
	if len(keys) == 0 {
		return ""
	}
	return fe[keys[0]]
}

// Error joins all messages as "key: message" pairs.
func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, k := range fe.Keys() {
		parts = append(parts, k+": "+fe[k])
	}
	return strings.Join(parts, "; ")
}

var (
	validate   *validator.Validate
	labels     = map[string]string{}
	labelsOnce sync.Once
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Error namespaces use json names so keys match the submitted fields.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	_ = validate.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
		return IsValidHTTPURL(fl.Field().String())
	})
}

// collectLabels records the label tag of every json-named field reachable
// from the input types.
func collectLabels(types ...reflect.Type) {
	for _, t := range types {
		for t.Kind() == reflect.Slice || t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		if t.Kind() != reflect.Struct {
			continue
		}
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if l := f.Tag.Get("label"); l != "" && name != "" && name != "-" {
				labels[name] = l
			}
			collectLabels(f.Type)
		}
	}
}

func labelFor(field string) string {
	labelsOnce.Do(func() {
		collectLabels(reflect.TypeOf(SingleInput{}), reflect.TypeOf(CollectionInput{}))
	})
	if l, ok := labels[field]; ok {
		return l
	}
	return field
}

// check runs the struct rules and translates failures into FieldErrors.
func check(v any) FieldErrors {
	out := FieldErrors{}
	err := validate.Struct(v)
	if err == nil {
		return out
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out["_"] = err.Error()
		return out
	}
	for _, fe := range verrs {
		key := fe.Namespace()
		if i := strings.Index(key, "."); i >= 0 {
			key = key[i+1:]
		}
		out[key] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	label := labelFor(fe.Field())
	isList := fe.Kind() == reflect.Slice

	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "httpurl":
		if _, err := ValidateURL(fe.Value().(string)); err != nil {
			return err.Error()
		}
		return "Invalid URL"
	case "max":
		if isList {
			return fmt.Sprintf("Too many %s (max %s)", label, fe.Param())
		}
		return fmt.Sprintf("%s is too long (max %s characters)", label, fe.Param())
	case "min":
		if isList {
			return fmt.Sprintf("At least one %s is required", strings.TrimSuffix(label, "s"))
		}
		return fmt.Sprintf("%s is too short (min %s characters)", label, fe.Param())
	}
	return label + " is invalid"
}
