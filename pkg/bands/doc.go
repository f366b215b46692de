// Package bands provides declarative, banded report definitions.
//
// A report is described as a set of bands (horizontal page regions holding
// elements) bound to a collection of records. A separate generator walks the
// declaration and produces the actual document; this package only holds the
// declaration, resolves geometry and derives the data each band is bound to.
//
// # Quick Start
//
//	detail := bands.MustBand(bands.BandConfig{
//	    Height: bands.Float(0.6 * bands.Cm),
//	    Elements: []bands.Element{
//	        &bands.ObjectValue{AttributeName: "Name", Box: bands.Box{Width: bands.Inherit}},
//	    },
//	})
//
//	report, err := bands.NewReport(bands.ReportConfig{
//	    Title:  "Customers",
//	    Detail: detail,
//	}, bands.SliceOf(customers))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	out, err := report.GenerateBy(textgen.New(os.Stdout))
//
// # Bands and Elements
//
// A report has at most one band per slot: Begin, Summary, PageHeader,
// PageFooter and Detail. Groups add a header and footer band around runs of
// records sharing an attribute value. Bands declared on a report are
// templates; generators render clones (Band.Clone or Report.Prepare) so that
// values bound to one record never leak into the next.
//
// Element widths and heights are Dimensions: either Fixed(points) or Inherit,
// which takes the size of the band the element is placed in.
//
// # Subreports
//
// A SubReport derives its records from the current detail record through a
// RelationResolver:
//
//	FieldAccess{Path: "Orders"}
//	FilterByForeignKey{Source: orders, Field: "CustomerID", ParentField: "ID"}
//	RelationFunc(func(parent interface{}) ([]interface{}, error) { ... })
//	JSONPath{Path: "$.orders[*]"}
//	NewExpression(`filter(%(object)s.Orders, "Status", "open")`, nil)
//
// Derived records are computed on first read and cached until the parent or
// the relation is assigned again.
//
// # Page Geometry
//
// PageRect is computed once from PageSize and Margins and then cached. Direct
// assignment to the PageSize or Margins fields is not seen by later calls;
// SetPageSize, SetMargins and ResetPageRect drop the cache.
//
// # Error Handling
//
//   - ConfigurationError: invalid band, group, subreport or report declarations
//   - EvaluationError: a relation could not be resolved for a parent record
//   - FieldError: a record has no field with the requested name
//   - GenerationError: the generator failed
//
// Check error types using errors.As() or the Is* helpers.
//
// # Thread Safety
//
// Reports are built for one document at a time. SubReport caches are mutated
// on read; workers rendering in parallel should each use Report.Clone.
package bands
