package bands

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldAccess(t *testing.T) {
	parent := newCustomer()

	records, err := FieldAccess{Path: "Orders"}.Resolve(parent)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, 10, records[0].(order).ID)

	_, err = FieldAccess{Path: "missing"}.Resolve(parent)
	require.Error(t, err)
	assert.True(t, IsEvaluationError(err))
	assert.True(t, IsFieldError(err))

	_, err = FieldAccess{Path: "Name"}.Resolve(parent)
	require.Error(t, err)
	assert.True(t, IsEvaluationError(err))
	assert.Contains(t, err.Error(), "not a sequence")

	assert.Equal(t, "field:Orders", FieldAccess{Path: "Orders"}.String())
}

func TestFilterByForeignKey(t *testing.T) {
	orders := SliceOf([]order{
		{ID: 1, CustomerID: 1},
		{ID: 2, CustomerID: 2},
		{ID: 3, CustomerID: 1},
	})

	rel := FilterByForeignKey{Source: orders, Field: "customer_id", ParentField: "ID"}

	records, err := rel.Resolve(newCustomer())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 1, records[0].(order).ID)
	assert.Equal(t, 3, records[1].(order).ID)

	records, err = rel.Resolve(map[string]interface{}{"ID": 7.0})
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)

	t.Run("numeric kinds compare by value", func(t *testing.T) {
		records, err := rel.Resolve(map[string]interface{}{"ID": float64(2)})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, 2, records[0].(order).ID)
	})

	t.Run("missing source", func(t *testing.T) {
		_, err := FilterByForeignKey{Field: "CustomerID", ParentField: "ID"}.Resolve(newCustomer())
		require.Error(t, err)
		assert.True(t, IsEvaluationError(err))
	})

	t.Run("source failure", func(t *testing.T) {
		boom := errors.New("timeout")
		rel := FilterByForeignKey{
			Source:      CollectionFunc(func() ([]interface{}, error) { return nil, boom }),
			Field:       "CustomerID",
			ParentField: "ID",
		}
		_, err := rel.Resolve(newCustomer())
		assert.ErrorIs(t, err, boom)
	})
}

func TestRelationFunc(t *testing.T) {
	rel := RelationFunc(func(parent interface{}) ([]interface{}, error) {
		return []interface{}{parent, parent}, nil
	})

	records, err := rel.Resolve("x")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"x", "x"}, records)
}

func TestJSONPath(t *testing.T) {
	doc := map[string]interface{}{
		"name": "ada",
		"orders": []interface{}{
			map[string]interface{}{"id": 1.0, "status": "open"},
			map[string]interface{}{"id": 2.0, "status": "closed"},
		},
	}

	tests := []struct {
		name   string
		parent interface{}
		path   string
		want   int
	}{
		{name: "wildcard", parent: doc, path: "$.orders[*]", want: 2},
		{name: "array value", parent: doc, path: "$.orders", want: 2},
		{name: "filter", parent: doc, path: `$.orders[?(@.status == "open")]`, want: 1},
		{name: "raw json parent", parent: JSONRecord(`{"orders":[{"id":1},{"id":2},{"id":3}]}`), path: "$.orders[*].id", want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := JSONPath{Path: tt.path}.Resolve(tt.parent)
			require.NoError(t, err)
			assert.Len(t, records, tt.want)
		})
	}

	t.Run("invalid path", func(t *testing.T) {
		_, err := JSONPath{Path: "$.orders[?("}.Resolve(doc)
		require.Error(t, err)
		assert.True(t, IsEvaluationError(err))
	})

	t.Run("invalid raw json", func(t *testing.T) {
		_, err := JSONPath{Path: "$.orders"}.Resolve(JSONRecord(`{"orders":`))
		require.Error(t, err)
		assert.True(t, IsEvaluationError(err))
	})
}

func TestExpression(t *testing.T) {
	t.Run("placeholder substitution", func(t *testing.T) {
		e := NewExpression("%(object)s.Orders", nil)
		assert.Equal(t, "parent_object.Orders", e.Source())
		assert.Equal(t, "%(object)s.Orders", e.String())
	})

	t.Run("field path", func(t *testing.T) {
		records, err := NewExpression("%(object)s.Orders", nil).Resolve(newCustomer())
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.IsType(t, order{}, records[0])
	})

	t.Run("snake case path", func(t *testing.T) {
		parent := map[string]interface{}{"customer": newCustomer()}
		records, err := NewExpression("%(object)s.customer.orders", nil).Resolve(parent)
		require.NoError(t, err)
		assert.Len(t, records, 3)
	})

	t.Run("all", func(t *testing.T) {
		records, err := NewExpression("all(%(object)s.Orders)", nil).Resolve(newCustomer())
		require.NoError(t, err)
		assert.Len(t, records, 3)
	})

	t.Run("raw json parent", func(t *testing.T) {
		parent := JSONRecord(`{"lines":[{"sku":"A"},{"sku":"B"}]}`)
		records, err := NewExpression("%(object)s.lines", nil).Resolve(parent)
		require.NoError(t, err)
		require.Len(t, records, 2)

		sku, err := FieldValue(records[1], "sku")
		require.NoError(t, err)
		assert.Equal(t, "B", sku)
	})

	t.Run("custom function", func(t *testing.T) {
		e := NewExpression("big(%(object)s.Orders, 10)", map[string]QueryFunc{
			"big": func(args ...interface{}) (interface{}, error) {
				orders := args[0].([]order)
				limit := args[1].(float64)
				var out []order
				for _, o := range orders {
					if o.Total > limit {
						out = append(out, o)
					}
				}
				return out, nil
			},
		})

		records, err := e.Resolve(newCustomer())
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, 10, records[0].(order).ID)
		assert.Equal(t, 11, records[1].(order).ID)
	})

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			name  string
			query string
		}{
			{name: "malformed", query: "%(object)s.Orders["},
			{name: "missing field", query: "%(object)s.Invoices"},
			{name: "not a sequence", query: "%(object)s.Name"},
			{name: "bad filter arguments", query: "filter(%(object)s.Orders)"},
			{name: "unknown function", query: "load(%(object)s)"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := NewExpression(tt.query, nil).Resolve(newCustomer())
				require.Error(t, err)

				var eerr *EvaluationError
				require.True(t, errors.As(err, &eerr))
				assert.Equal(t, tt.query, eerr.Expression)
			})
		}
	})
}

func TestValuesEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b interface{}
		want bool
	}{
		{"ints", 1, 1, true},
		{"int and float", 1, 1.0, true},
		{"int and uint", int64(3), uint8(3), true},
		{"different numbers", 1, 2, false},
		{"strings", "a", "a", true},
		{"string and number", "1", 1, false},
		{"nils", nil, nil, true},
		{"nil and value", nil, "x", false},
		{"slices", []int{1}, []int{1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, valuesEqual(tt.a, tt.b))
		})
	}
}
