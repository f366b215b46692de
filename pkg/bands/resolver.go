package bands

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/PaesslerAG/gval"
	"github.com/PaesslerAG/jsonpath"
)

// RelationResolver derives the records of a subreport from one parent record
type RelationResolver interface {
	Resolve(parent interface{}) ([]interface{}, error)
}

// RelationFunc adapts a closure over the parent record
type RelationFunc func(parent interface{}) ([]interface{}, error)

// Resolve calls f
func (f RelationFunc) Resolve(parent interface{}) ([]interface{}, error) {
	return f(parent)
}

// FieldAccess follows a dotted path on the parent, e.g. "Orders" or
// "customer.addresses". The value found must be a sequence.
type FieldAccess struct {
	Path string
}

// Resolve implements RelationResolver
func (f FieldAccess) Resolve(parent interface{}) ([]interface{}, error) {
	value, err := FieldValue(parent, f.Path)
	if err != nil {
		return nil, NewEvaluationError(f.Path, err)
	}
	records, err := toRecords(value)
	if err != nil {
		return nil, NewEvaluationError(f.Path, err)
	}
	return records, nil
}

func (f FieldAccess) String() string {
	return "field:" + f.Path
}

// FilterByForeignKey keeps the records of Source whose Field equals the
// parent's ParentField, in source order.
type FilterByForeignKey struct {
	Source      Collection
	Field       string
	ParentField string
}

// Resolve implements RelationResolver
func (f FilterByForeignKey) Resolve(parent interface{}) ([]interface{}, error) {
	expr := f.String()
	if f.Source == nil {
		return nil, NewEvaluationError(expr, fmt.Errorf("no source collection"))
	}

	key, err := FieldValue(parent, f.ParentField)
	if err != nil {
		return nil, NewEvaluationError(expr, err)
	}

	records, err := f.Source.Records()
	if err != nil {
		return nil, NewEvaluationError(expr, err)
	}

	out := make([]interface{}, 0)
	for _, record := range records {
		value, err := FieldValue(record, f.Field)
		if err != nil {
			return nil, NewEvaluationError(expr, err)
		}
		if valuesEqual(value, key) {
			out = append(out, record)
		}
	}
	return out, nil
}

func (f FilterByForeignKey) String() string {
	parentField := f.ParentField
	if parentField == "" {
		parentField = "<parent>"
	}
	return fmt.Sprintf("filter(%s == parent.%s)", f.Field, parentField)
}

// JSONPath runs a JSONPath query against the parent. JSONRecord parents are
// decoded first; other parents should be maps and slices as produced by encoding/json.
type JSONPath struct {
	Path string
}

// Resolve implements RelationResolver
func (j JSONPath) Resolve(parent interface{}) ([]interface{}, error) {
	doc := parent
	if jr, ok := parent.(JSONRecord); ok {
		decoded, err := decodeJSON(jr)
		if err != nil {
			return nil, NewEvaluationError(j.Path, err)
		}
		doc = decoded
	}

	value, err := jsonpath.Get(j.Path, doc)
	if err != nil {
		return nil, NewEvaluationError(j.Path, err)
	}
	records, err := toRecords(value)
	if err != nil {
		return nil, NewEvaluationError(j.Path, err)
	}
	return records, nil
}

// ObjectPlaceholder is the token in a query string that stands for the parent record
const ObjectPlaceholder = "%(object)s"

// ParentVariable is the only variable visible to a query expression
const ParentVariable = "parent_object"

// Expression evaluates a query string such as
//
//	%(object)s.Orders
//	filter(%(object)s.Orders, "Status", "open")
//
// The placeholder is replaced with parent_object and the result is
// evaluated by a gval language whose only variable is the parent record.
// Functions must be registered explicitly; filter, exclude and all are built in.
type Expression struct {
	Query     string
	Functions map[string]QueryFunc
}

// QueryFunc is a function callable from a query expression. Arguments are
// the plain record values, never wrappers.
type QueryFunc func(args ...interface{}) (interface{}, error)

// NewExpression builds an expression resolver with extra functions
func NewExpression(query string, functions map[string]QueryFunc) *Expression {
	return &Expression{Query: query, Functions: functions}
}

// Source returns the query with the placeholder substituted
func (e *Expression) Source() string {
	return strings.ReplaceAll(e.Query, ObjectPlaceholder, ParentVariable)
}

func (e *Expression) language() gval.Language {
	extensions := []gval.Language{
		gval.Function("filter", filterRecords(true)),
		gval.Function("exclude", filterRecords(false)),
		gval.Function("all", func(args ...interface{}) (interface{}, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("all expects 1 argument, got %d", len(args))
			}
			return toRecords(unwrapSelectable(args[0]))
		}),
	}
	for name, fn := range e.Functions {
		fn := fn
		extensions = append(extensions, gval.Function(name, func(args ...interface{}) (interface{}, error) {
			plain := make([]interface{}, len(args))
			for i, arg := range args {
				plain[i] = unwrapSelectable(arg)
			}
			return fn(plain...)
		}))
	}
	return gval.Full(extensions...)
}

// Resolve implements RelationResolver
func (e *Expression) Resolve(parent interface{}) ([]interface{}, error) {
	source := e.Source()

	eval, err := e.language().NewEvaluable(source)
	if err != nil {
		return nil, NewEvaluationError(e.Query, err)
	}

	scope := map[string]interface{}{ParentVariable: wrapSelectable(parent)}
	value, err := eval(context.Background(), scope)
	if err != nil {
		return nil, NewEvaluationError(e.Query, err)
	}

	records, err := toRecords(unwrapSelectable(value))
	if err != nil {
		return nil, NewEvaluationError(e.Query, err)
	}
	for i, record := range records {
		records[i] = unwrapSelectable(record)
	}
	return records, nil
}

func (e *Expression) String() string {
	return e.Query
}

// filterRecords implements filter(seq, field, value) and exclude(seq, field, value)
func filterRecords(keep bool) func(args ...interface{}) (interface{}, error) {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 3 {
			return nil, fmt.Errorf("expected 3 arguments (sequence, field, value), got %d", len(args))
		}
		records, err := toRecords(unwrapSelectable(args[0]))
		if err != nil {
			return nil, err
		}
		field, ok := args[1].(string)
		if !ok {
			return nil, fmt.Errorf("field name must be a string, got %T", args[1])
		}
		want := unwrapSelectable(args[2])

		out := make([]interface{}, 0, len(records))
		for _, record := range records {
			record = unwrapSelectable(record)
			value, err := FieldValue(record, field)
			if err != nil {
				return nil, err
			}
			if valuesEqual(value, want) == keep {
				out = append(out, record)
			}
		}
		return out, nil
	}
}

// selectable routes gval's variable selection through FieldValue so query
// paths behave like every other field path in the package.
type selectable struct {
	value interface{}
}

// SelectGVal implements gval.Selector
func (s selectable) SelectGVal(_ context.Context, key string) (interface{}, error) {
	value, err := FieldValue(s.value, key)
	if err != nil {
		return nil, err
	}
	return wrapSelectable(value), nil
}

func wrapSelectable(value interface{}) interface{} {
	if value == nil {
		return nil
	}
	if _, ok := value.(JSONRecord); ok {
		return selectable{value: value}
	}
	switch reflect.Indirect(reflect.ValueOf(value)).Kind() {
	case reflect.Struct, reflect.Map, reflect.Slice, reflect.Array:
		return selectable{value: value}
	}
	return value
}

func unwrapSelectable(value interface{}) interface{} {
	if s, ok := value.(selectable); ok {
		return s.value
	}
	return value
}

// valuesEqual compares record values, treating all numeric kinds as comparable
func valuesEqual(a, b interface{}) bool {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return fa == fb
		}
		return false
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return reflect.DeepEqual(a, b)
	}
	return a == b
}

func toFloat(v interface{}) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
