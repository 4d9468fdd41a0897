package forms

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/koen-wskcorporation/sportssass-sub002/internal/models"
)

// Recognized field types for form schemas.
const (
	FieldText     = "text"
	FieldEmail    = "email"
	FieldTextarea = "textarea"
	FieldSelect   = "select"
	FieldCheckbox = "checkbox"
)

var (
	fieldKeyRegex = regexp.MustCompile(`^[a-z0-9_]{1,64}$`)
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// ParseFields decodes a stored field schema. Empty raw decodes to an empty
// schema, not an error.
func ParseFields(raw json.RawMessage) ([]models.FormField, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []models.FormField{}, nil
	}
	var fields []models.FormField
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("invalid field schema: %w", err)
	}
	return fields, nil
}

// ValidateSchema checks a working field schema before save or publish.
// Returns per-index errors keyed "fields[i].key" style.
func ValidateSchema(fields []models.FormField) map[string]string {
	errs := map[string]string{}
	seen := map[string]struct{}{}
	for i, f := range fields {
		prefix := fmt.Sprintf("fields[%d]", i)
		if !fieldKeyRegex.MatchString(f.Key) {
			errs[prefix+".key"] = "must be 1–64 chars, lowercase letters, numbers, underscores"
		} else if _, dup := seen[f.Key]; dup {
			errs[prefix+".key"] = "duplicate field key"
		} else {
			seen[f.Key] = struct{}{}
		}
		if strings.TrimSpace(f.Label) == "" {
			errs[prefix+".label"] = "label required"
		}
		switch f.Type {
		case FieldText, FieldEmail, FieldTextarea, FieldCheckbox:
		case FieldSelect:
			if len(f.Options) == 0 {
				errs[prefix+".options"] = "select fields need at least one option"
			}
		default:
			errs[prefix+".type"] = "unknown field type"
		}
	}
	return errs
}

// ValidateAnswers checks submitted answers against a published schema and
// returns the cleaned answers document. Keys not in the schema are dropped;
// per-field errors come back keyed by field key.
func ValidateAnswers(fields []models.FormField, answers map[string]interface{}) (json.RawMessage, map[string]string) {
	errs := map[string]string{}
	clean := map[string]interface{}{}

	for _, f := range fields {
		v, present := answers[f.Key]
		switch f.Type {
		case FieldText, FieldTextarea, FieldEmail:
			s, _ := v.(string)
			s = strings.TrimSpace(s)
			if s == "" {
				if f.Required {
					errs[f.Key] = "this field is required"
				}
				continue
			}
			if f.Type == FieldEmail && !emailRegex.MatchString(s) {
				errs[f.Key] = "must be a valid email address"
				continue
			}
			clean[f.Key] = s

		case FieldSelect:
			values, ok := selectValues(v)
			if !ok || len(values) == 0 {
				if f.Required {
					errs[f.Key] = "this field is required"
				}
				continue
			}
			valid := true
			for _, val := range values {
				if !containsOption(f.Options, val) {
					valid = false
					break
				}
			}
			if !valid {
				errs[f.Key] = "not a valid choice"
				continue
			}
			if len(values) == 1 {
				clean[f.Key] = values[0]
			} else {
				clean[f.Key] = values
			}

		case FieldCheckbox:
			checked := checkboxValue(v)
			if f.Required && !checked {
				errs[f.Key] = "this field is required"
				continue
			}
			if present {
				clean[f.Key] = checked
			}
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	doc, err := json.Marshal(clean)
	if err != nil {
		return nil, map[string]string{"answers": "could not encode answers"}
	}
	return doc, nil
}

// selectValues accepts a single string or an array of strings.
func selectValues(v interface{}) ([]string, bool) {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil, true
		}
		return []string{s}, true
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			s = strings.TrimSpace(s)
			if s != "" {
				out = append(out, s)
			}
		}
		return out, true
	case nil:
		return nil, true
	}
	return nil, false
}

func checkboxValue(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true" || t == "on" || t == "1"
	}
	return false
}

func containsOption(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
