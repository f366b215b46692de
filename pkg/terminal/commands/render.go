package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/benjaminschreck/go-bands/pkg/bands"
	"github.com/benjaminschreck/go-bands/pkg/bands/definition"
	"github.com/benjaminschreck/go-bands/pkg/bands/jsonsource"
	"github.com/benjaminschreck/go-bands/pkg/bands/sqlsource"
	"github.com/benjaminschreck/go-bands/pkg/bands/textgen"
)

// OpenDBFunc opens a database handle, like sqlx.Open
type OpenDBFunc func(driverName, dataSourceName string) (*sqlx.DB, error)

type RenderCmd struct {
	definition string
	data       string
	path       string
	driver     string
	dsn        string
	query      string
	output     string
	width      int
	openDB     OpenDBFunc
}

func NewRenderCmd(openDB OpenDBFunc) *cobra.Command {
	rc := &RenderCmd{openDB: openDB}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a report definition as text",
		Long: `Render a report definition as text.

Records come from a JSON document (--data, with --path selecting the
records inside it) or from a SQL query (--driver, --dsn, --query).`,
		RunE:         rc.run,
		SilenceUsage: true,
	}

	cmd.Flags().StringVarP(&rc.definition, "definition", "d", "", "Path to the report definition")
	cmd.Flags().StringVar(&rc.data, "data", "", "JSON or JSON Lines file holding the records")
	cmd.Flags().StringVar(&rc.path, "path", "", "gjson path of the records inside --data")
	cmd.Flags().StringVar(&rc.driver, "driver", "postgres", "SQL driver (postgres, pgx)")
	cmd.Flags().StringVar(&rc.dsn, "dsn", os.Getenv("BANDS_DSN"), "SQL data source name")
	cmd.Flags().StringVar(&rc.query, "query", "", "SQL query returning the records")
	cmd.Flags().StringVarP(&rc.output, "output", "o", "", "Write to a file instead of stdout")
	cmd.Flags().IntVar(&rc.width, "width", textgen.DefaultWidth, "Number of text columns")

	_ = cmd.MarkFlagRequired("definition")
	cmd.MarkFlagsMutuallyExclusive("data", "query")

	return cmd
}

func (rc *RenderCmd) run(cmd *cobra.Command, args []string) error {
	records, closeSource, err := rc.records()
	if err != nil {
		return err
	}
	defer closeSource()

	report, err := definition.LoadFile(rc.definition, records)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if rc.output != "" {
		f, err := os.Create(rc.output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	lines, err := report.GenerateBy(textgen.New(w, textgen.WithWidth(rc.width)))
	if err != nil {
		return err
	}

	bands.WithFields(bands.Fields{"definition": rc.definition, "lines": lines}).Info().Msg("report rendered")
	return nil
}

// records opens the record source named by the flags. Without one the
// report has no records.
func (rc *RenderCmd) records() (bands.Collection, func(), error) {
	noop := func() {}

	switch {
	case rc.data != "":
		var opts []jsonsource.Option
		if rc.path != "" {
			opts = append(opts, jsonsource.WithPath(rc.path))
		}
		source, err := jsonsource.Open(rc.data, opts...)
		if err != nil {
			return nil, noop, err
		}
		return source, noop, nil

	case rc.query != "":
		if rc.dsn == "" {
			return nil, noop, errors.New("--query needs --dsn (or BANDS_DSN)")
		}
		db, err := rc.openDB(rc.driver, rc.dsn)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open %s database: %w", rc.driver, err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), sqlsource.DefaultTimeout)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, noop, fmt.Errorf("failed to connect to %s database: %w", rc.driver, err)
		}
		return sqlsource.NewQuery(db, rc.query), func() { _ = db.Close() }, nil
	}

	return nil, noop, nil
}
