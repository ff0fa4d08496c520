// Package models defines the documents the compiler reads and writes: the
// configuration document, the timetable document and its vignettes, and the
// todo sets of the reference catalog.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Vignette is one generated schedule entry (an opening, a closing or a single
// instant) filed under a calendar date.
type Vignette struct {
	ID                string
	Date              string
	Start             string
	End               string
	Duration          string
	Category          string
	Activity          string
	Place             string
	Department        string
	Type              string
	Origin            string
	Remark            string
	SourceKey         string
	PreparationStatus string
	Todo              []string
	TodoCategory      string

	// Extra holds fields this package does not model, such as additions made
	// through the API. They are written back untouched.
	Extra map[string]json.RawMessage
}

// legacyKeys maps field names found in timetables written by earlier
// versions to their current name.
var legacyKeys = map[string]string{
	"param_id":           "sourceKey",
	"preparation_status": "preparationStatus",
	"todo_category":      "todoCategory",
}

func (v *Vignette) stringFields() []struct {
	key string
	ptr *string
} {
	return []struct {
		key string
		ptr *string
	}{
		{"id", &v.ID},
		{"date", &v.Date},
		{"start", &v.Start},
		{"end", &v.End},
		{"duration", &v.Duration},
		{"category", &v.Category},
		{"activity", &v.Activity},
		{"place", &v.Place},
		{"department", &v.Department},
		{"type", &v.Type},
		{"origin", &v.Origin},
		{"remark", &v.Remark},
		{"sourceKey", &v.SourceKey},
		{"preparationStatus", &v.PreparationStatus},
	}
}

// MarshalJSON writes the known fields plus Extra. Keys come out sorted, so
// equal vignettes always encode to equal bytes.
func (v Vignette) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, 16+len(v.Extra))
	for k, raw := range v.Extra {
		out[k] = raw
	}
	for _, f := range v.stringFields() {
		out[f.key] = *f.ptr
	}
	todo := v.Todo
	if todo == nil {
		todo = []string{}
	}
	out["todo"] = todo
	if v.TodoCategory != "" {
		out["todoCategory"] = v.TodoCategory
	} else {
		delete(out, "todoCategory")
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads current and legacy field names. Unknown fields are kept
// in Extra; legacy names are folded into their current field.
func (v *Vignette) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*v = Vignette{}

	for old, current := range legacyKeys {
		val, ok := raw[old]
		if !ok {
			continue
		}
		delete(raw, old)
		if _, clash := raw[current]; !clash {
			raw[current] = val
		}
	}

	for _, f := range v.stringFields() {
		val, ok := raw[f.key]
		if !ok {
			continue
		}
		delete(raw, f.key)
		s, err := decodeString(val)
		if err != nil {
			return fmt.Errorf("field %q: %w", f.key, err)
		}
		*f.ptr = s
	}

	if val, ok := raw["todoCategory"]; ok {
		delete(raw, "todoCategory")
		s, err := decodeString(val)
		if err != nil {
			return fmt.Errorf("field %q: %w", "todoCategory", err)
		}
		v.TodoCategory = s
	}

	if val, ok := raw["todo"]; ok {
		delete(raw, "todo")
		if !isNull(val) {
			if err := json.Unmarshal(val, &v.Todo); err != nil {
				return fmt.Errorf("field %q: %w", "todo", err)
			}
		}
	}

	if len(raw) > 0 {
		v.Extra = raw
	}
	return nil
}

// decodeString accepts a JSON string, null, or a number or boolean (stored
// by hand-edited documents) rendered as text.
func decodeString(raw json.RawMessage) (string, error) {
	if isNull(raw) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var other any
	if err := json.Unmarshal(raw, &other); err != nil {
		return "", err
	}
	switch o := other.(type) {
	case float64, bool:
		return fmt.Sprint(o), nil
	default:
		return "", fmt.Errorf("expected a string, got %s", string(raw))
	}
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// Clone returns a deep copy.
func (v Vignette) Clone() Vignette {
	c := v
	if v.Todo != nil {
		c.Todo = append([]string(nil), v.Todo...)
	}
	if v.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(v.Extra))
		for k, raw := range v.Extra {
			c.Extra[k] = append(json.RawMessage(nil), raw...)
		}
	}
	return c
}
