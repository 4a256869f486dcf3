// Package validation type-checks content documents against a content type's
// declared fields before anything is written to storage.
package validation

import (
	"encoding/json"
	"fmt"
	"time"

	"backend/internal/model"
)

// FieldError reports the single field that made a document invalid.
type FieldError struct {
	DisplayID string
	Reason    string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %s", e.DisplayID, e.Reason)
}

// Matches reports whether value satisfies the declared field type. No coercion
// is performed: a numeric-looking string is not a number. Unknown field types
// fail closed.
func Matches(fieldType model.FieldType, value interface{}) bool {
	switch fieldType {
	case model.FieldTypeText:
		_, ok := value.(string)
		return ok
	case model.FieldTypeNumber:
		switch value.(type) {
		case float64, float32, int, int32, int64, json.Number:
			return true
		}
		return false
	case model.FieldTypeBoolean:
		_, ok := value.(bool)
		return ok
	case model.FieldTypeDate:
		s, ok := value.(string)
		if !ok {
			return false
		}
		_, err := time.Parse(time.RFC3339, s)
		return err == nil
	}
	return false
}

// ValidateDocument checks doc against the schema fields, in schema order, and
// returns the filtered document containing only declared, type-valid keys.
// Keys not declared by any field are dropped silently. Validation stops at the
// first failing field, so a document with several problems reports only the
// earliest one in schema order.
func ValidateDocument(fields []model.Field, doc map[string]interface{}) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(fields))
	for _, field := range fields {
		value, present := doc[field.DisplayID]
		if present {
			if !Matches(field.FieldType, value) {
				return nil, &FieldError{
					DisplayID: field.DisplayID,
					Reason:    fmt.Sprintf("value does not match field type %q", field.FieldType),
				}
			}
			out[field.DisplayID] = value
			continue
		}
		if field.Required {
			return nil, &FieldError{
				DisplayID: field.DisplayID,
				Reason:    "required field is missing",
			}
		}
	}
	return out, nil
}
