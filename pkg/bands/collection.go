package bands

import (
	"fmt"
	"reflect"
)

// Collection is an ordered source of records. Implementations may be backed
// by memory, a database or a document; records are opaque to this package
// except through FieldValue.
type Collection interface {
	Records() ([]interface{}, error)
}

// Records is an in-memory collection
type Records []interface{}

// Records returns a copy of the slice so callers cannot reorder the source
func (r Records) Records() ([]interface{}, error) {
	out := make([]interface{}, len(r))
	copy(out, r)
	return out, nil
}

// CollectionFunc adapts a function to the Collection interface
type CollectionFunc func() ([]interface{}, error)

// Records calls f
func (f CollectionFunc) Records() ([]interface{}, error) {
	return f()
}

// SliceOf wraps a typed slice as a collection
func SliceOf[T any](items []T) Records {
	out := make(Records, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

// toRecords turns the result of a relation into an ordered record slice.
// nil becomes an empty slice; anything that is not a sequence is an error.
func toRecords(value interface{}) ([]interface{}, error) {
	switch v := value.(type) {
	case nil:
		return []interface{}{}, nil
	case []interface{}:
		return v, nil
	case Collection:
		records, err := v.Records()
		if err != nil {
			return nil, err
		}
		if records == nil {
			records = []interface{}{}
		}
		return records, nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return []interface{}{}, nil
		}
		out := make([]interface{}, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = rv.Index(i).Interface()
		}
		return out, nil
	case reflect.Ptr:
		if rv.IsNil() {
			return []interface{}{}, nil
		}
		return toRecords(rv.Elem().Interface())
	}

	return nil, fmt.Errorf("value of type %T is not a sequence of records", value)
}
