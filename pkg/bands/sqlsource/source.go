// Package sqlsource reads report records from a SQL database.
//
// Rows are returned as map[string]interface{} keyed by column name, so field
// paths in band elements name columns directly. []byte column values are
// converted to strings.
package sqlsource

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/benjaminschreck/go-bands/pkg/bands"
)

// DefaultTimeout bounds every query issued by Records and Resolve
const DefaultTimeout = 30 * time.Second

// Query is a SQL statement read as a bands.Collection
type Query struct {
	DB   *sqlx.DB
	SQL  string
	Args []interface{}
	// Timeout defaults to DefaultTimeout
	Timeout time.Duration
}

// NewQuery returns a collection over the rows of query
func NewQuery(db *sqlx.DB, query string, args ...interface{}) *Query {
	return &Query{DB: db, SQL: query, Args: args}
}

// Records implements bands.Collection
func (q *Query) Records() ([]interface{}, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout(q.Timeout))
	defer cancel()
	return q.RecordsContext(ctx)
}

// RecordsContext runs the query with ctx
func (q *Query) RecordsContext(ctx context.Context) ([]interface{}, error) {
	if q.DB == nil {
		return nil, fmt.Errorf("sqlsource: no database")
	}
	return queryRows(ctx, q.DB, q.DB.Rebind(q.SQL), q.Args)
}

// Relation derives subreport records with a query parameterised by fields
// of the parent record.
//
// Positional form, with one parent field per placeholder:
//
//	Relation{DB: db, SQL: "SELECT * FROM orders WHERE customer_id = ?", Params: []string{"ID"}}
//
// Named form, where each :name is read from the parent under that name:
//
//	Relation{DB: db, SQL: "SELECT * FROM orders WHERE customer_id = :id", Params: []string{"id"}, Named: true}
//
// Placeholders are rebound to the driver's bind style.
type Relation struct {
	DB      *sqlx.DB
	SQL     string
	Params  []string
	Named   bool
	Timeout time.Duration
}

// Resolve implements bands.RelationResolver
func (r Relation) Resolve(parent interface{}) ([]interface{}, error) {
	if r.DB == nil {
		return nil, bands.NewEvaluationError(r.SQL, fmt.Errorf("no database"))
	}

	query, args, err := r.bind(parent)
	if err != nil {
		return nil, bands.NewEvaluationError(r.SQL, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout(r.Timeout))
	defer cancel()

	records, err := queryRows(ctx, r.DB, query, args)
	if err != nil {
		return nil, bands.NewEvaluationError(r.SQL, err)
	}
	return records, nil
}

func (r Relation) String() string {
	return "sql:" + r.SQL
}

func (r Relation) bind(parent interface{}) (string, []interface{}, error) {
	if !r.Named {
		args := make([]interface{}, len(r.Params))
		for i, field := range r.Params {
			value, err := bands.FieldValue(parent, field)
			if err != nil {
				return "", nil, err
			}
			args[i] = value
		}
		return r.DB.Rebind(r.SQL), args, nil
	}

	named := make(map[string]interface{}, len(r.Params))
	for _, field := range r.Params {
		value, err := bands.FieldValue(parent, field)
		if err != nil {
			return "", nil, err
		}
		named[field] = value
	}
	query, args, err := sqlx.Named(r.SQL, named)
	if err != nil {
		return "", nil, err
	}
	return r.DB.Rebind(query), args, nil
}

func queryRows(ctx context.Context, db *sqlx.DB, query string, args []interface{}) ([]interface{}, error) {
	start := time.Now()

	rows, err := db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	records := make([]interface{}, 0)
	for rows.Next() {
		row := make(map[string]interface{})
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		for k, v := range row {
			if b, ok := v.([]byte); ok {
				row[k] = string(b)
			}
		}
		records = append(records, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading rows failed: %w", err)
	}

	bands.GetLogger().Debug().
		Int("rows", len(records)).
		Dur("elapsed", time.Since(start)).
		Msg("sql records loaded")
	return records, nil
}

func timeout(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultTimeout
	}
	return d
}
