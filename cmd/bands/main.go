package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"

	"github.com/benjaminschreck/go-bands/pkg/bands"
	"github.com/benjaminschreck/go-bands/pkg/terminal"
)

var version = "0.1.0"

func main() {
	if err := godotenv.Load(); err == nil {
		bands.SetGlobalConfig(bands.ConfigFromEnvironment())
	}

	logger := bands.NewLogger(os.Stderr, bands.GetGlobalConfig().LogLevel).
		With().
		Str("run_id", uuid.NewString()).
		Logger()
	bands.SetLogger(logger)

	cli := terminal.NewCLI(terminal.Options{
		Output:  os.Stdout,
		Version: version,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
