package bands

import (
	"errors"
	"strings"
)

type address struct {
	City    string
	Country string
}

type order struct {
	ID         int
	CustomerID int
	Status     string
	Total      float64
}

type customer struct {
	ID       int
	Name     string
	ParentID int
	Address  *address
	Orders   []order
	Tags     map[string]string
	internal string
}

func (c *customer) DisplayName() string {
	return strings.ToUpper(c.Name)
}

func (c customer) OrderCount() (int, error) {
	if c.Orders == nil {
		return 0, errors.New("orders not loaded")
	}
	return len(c.Orders), nil
}

func newCustomer() *customer {
	return &customer{
		ID:      1,
		Name:    "ada",
		Address: &address{City: "London", Country: "UK"},
		Orders: []order{
			{ID: 10, CustomerID: 1, Status: "open", Total: 12.5},
			{ID: 11, CustomerID: 1, Status: "closed", Total: 99},
			{ID: 12, CustomerID: 1, Status: "open", Total: 3},
		},
		Tags:     map[string]string{"tier": "gold"},
		internal: "hidden",
	}
}

// countingResolver counts Resolve calls
type countingResolver struct {
	calls   int
	records []interface{}
	err     error
}

func (c *countingResolver) Resolve(parent interface{}) ([]interface{}, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.records, nil
}
