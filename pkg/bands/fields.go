package bands

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// FieldGetter lets a record type expose named fields without reflection
type FieldGetter interface {
	Field(name string) (interface{}, bool)
}

var errFieldNotFound = errors.New("no such field")

// FieldValue reads a dotted path from a record. Each segment may name:
//   - a key of a string-keyed map
//   - an exported struct field, matched exactly, then case-insensitively, then
//     ignoring underscores (so "parent_id" finds ParentID)
//   - an exported method taking no arguments and returning a value, or a value and an error
//   - an index into a slice or array (negative indexes count from the end)
//
// JSONRecord values hand the rest of the path to gjson. A missing segment
// returns a *FieldError.
func FieldValue(record interface{}, path string) (interface{}, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return record, nil
	}

	current := record
	segments := strings.Split(path, ".")
	for i, segment := range segments {
		if jr, ok := current.(JSONRecord); ok {
			rest := strings.Join(segments[i:], ".")
			value, found := jr.Get(rest)
			if !found {
				return nil, &FieldError{Path: path, Record: describeRecord(record)}
			}
			return value, nil
		}

		next, err := selectField(current, segment)
		if err != nil {
			if errors.Is(err, errFieldNotFound) {
				return nil, &FieldError{Path: path, Record: describeRecord(record)}
			}
			return nil, &FieldError{Path: path, Record: describeRecord(record), Cause: err}
		}
		current = next
	}

	return current, nil
}

// selectField resolves a single path segment
func selectField(current interface{}, name string) (interface{}, error) {
	if current == nil {
		return nil, errFieldNotFound
	}

	switch v := current.(type) {
	case FieldGetter:
		if value, ok := v.Field(name); ok {
			return value, nil
		}
		return nil, errFieldNotFound
	case map[string]interface{}:
		value, ok := v[name]
		if !ok {
			return nil, errFieldNotFound
		}
		return value, nil
	case map[string]string:
		value, ok := v[name]
		if !ok {
			return nil, errFieldNotFound
		}
		return value, nil
	}

	rv := reflect.ValueOf(current)

	// Methods are looked up before dereferencing so pointer receivers are found.
	if method := findMethod(rv, name); method.IsValid() {
		return callAccessor(method)
	}

	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, errFieldNotFound
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Struct:
		field := findField(rv, name)
		if !field.IsValid() {
			return nil, errFieldNotFound
		}
		return field.Interface(), nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, errFieldNotFound
		}
		value := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if !value.IsValid() {
			return nil, errFieldNotFound
		}
		return value.Interface(), nil
	case reflect.Slice, reflect.Array:
		index, err := strconv.Atoi(name)
		if err != nil {
			return nil, errFieldNotFound
		}
		if index < 0 {
			index = rv.Len() + index
		}
		if index < 0 || index >= rv.Len() {
			return nil, errFieldNotFound
		}
		return rv.Index(index).Interface(), nil
	}

	return nil, errFieldNotFound
}

func findMethod(rv reflect.Value, name string) reflect.Value {
	if !rv.IsValid() || (rv.Kind() == reflect.Ptr && rv.IsNil()) {
		return reflect.Value{}
	}
	if m := rv.MethodByName(name); m.IsValid() {
		return m
	}
	normalized := normalizeFieldName(name)
	t := rv.Type()
	for i := 0; i < t.NumMethod(); i++ {
		if normalizeFieldName(t.Method(i).Name) == normalized {
			return rv.Method(i)
		}
	}
	return reflect.Value{}
}

func findField(rv reflect.Value, name string) reflect.Value {
	t := rv.Type()
	if sf, ok := t.FieldByName(name); ok && sf.IsExported() {
		return rv.FieldByIndex(sf.Index)
	}
	normalized := normalizeFieldName(name)
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		if normalizeFieldName(sf.Name) == normalized {
			return rv.Field(i)
		}
	}
	return reflect.Value{}
}

func normalizeFieldName(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "_", ""))
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// callAccessor calls a zero-argument method returning (T) or (T, error)
func callAccessor(method reflect.Value) (interface{}, error) {
	mt := method.Type()
	if mt.NumIn() != 0 {
		return nil, fmt.Errorf("method requires %d arguments", mt.NumIn())
	}

	switch mt.NumOut() {
	case 1:
		return method.Call(nil)[0].Interface(), nil
	case 2:
		if !mt.Out(1).Implements(errorType) {
			return nil, errors.New("second return value of accessor must be an error")
		}
		out := method.Call(nil)
		if !out[1].IsNil() {
			return nil, out[1].Interface().(error)
		}
		return out[0].Interface(), nil
	default:
		return nil, fmt.Errorf("accessor returns %d values", mt.NumOut())
	}
}

func describeRecord(record interface{}) string {
	if record == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%T", record)
}

// JSONRecord is a raw JSON document used as a record. Field paths use gjson
// syntax (for example "customer.name" or "items.0.sku").
type JSONRecord []byte

// Get looks up a gjson path. Objects and arrays are returned as JSONRecord so
// that further lookups stay on the raw document.
func (r JSONRecord) Get(path string) (interface{}, bool) {
	result := gjson.GetBytes(r, path)
	if !result.Exists() {
		return nil, false
	}
	return jsonResultValue(result), true
}

// Field implements FieldGetter
func (r JSONRecord) Field(name string) (interface{}, bool) {
	return r.Get(name)
}

// Records returns the elements of a JSON array, or the record itself for any other document
func (r JSONRecord) Records() ([]interface{}, error) {
	result := gjson.ParseBytes(r)
	if !result.IsArray() {
		return []interface{}{r}, nil
	}
	items := result.Array()
	out := make([]interface{}, 0, len(items))
	for _, item := range items {
		out = append(out, jsonResultValue(item))
	}
	return out, nil
}

func (r JSONRecord) String() string {
	return string(r)
}

func jsonResultValue(result gjson.Result) interface{} {
	if result.IsObject() || result.IsArray() {
		return JSONRecord(result.Raw)
	}
	return result.Value()
}

// decodeJSON unmarshals a record into maps, slices and scalars
func decodeJSON(r JSONRecord) (interface{}, error) {
	var doc interface{}
	if err := json.Unmarshal(r, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
