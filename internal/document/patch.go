package document

import (
	"encoding/json"
)

// UpdatePolicy selects how Repository.Update folds a patch into the stored document.
type UpdatePolicy int

const (
	// Merge overwrites only the patch fields that are set and non-empty.
	Merge UpdatePolicy = iota
	// Replace overwrites the whole body with the patch contents; unset fields
	// become their zero value.
	Replace
)

func (p UpdatePolicy) String() string {
	if p == Replace {
		return "replace"
	}
	return "merge"
}

// Patch is the caller-supplied update for a document of type T. Apply never
// needs to preserve Meta: the repository re-attaches it afterwards.
type Patch[T any] interface {
	Apply(doc *T, policy UpdatePolicy)
}

// Optional is a patch field that remembers whether it was supplied. A JSON
// null is treated as absent.
type Optional[T any] struct {
	Value T
	Set   bool
}

// Some returns a set Optional.
func Some[T any](v T) Optional[T] { return Optional[T]{Value: v, Set: true} }

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		var zero T
		o.Value, o.Set = zero, false
		return nil
	}
	if err := json.Unmarshal(b, &o.Value); err != nil {
		return err
	}
	o.Set = true
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// SetString folds one string patch field into dst according to policy.
func SetString(policy UpdatePolicy, dst *string, v Optional[string]) {
	switch policy {
	case Replace:
		*dst = v.Value
	default:
		if v.Set && v.Value != "" {
			*dst = v.Value
		}
	}
}
