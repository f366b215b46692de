package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/benjaminschreck/go-bands/pkg/bands"
	"github.com/benjaminschreck/go-bands/pkg/bands/definition"
)

type ValidateCmd struct {
	quiet bool
}

func NewValidateCmd() *cobra.Command {
	vc := &ValidateCmd{}
	cmd := &cobra.Command{
		Use:          "validate <definition>...",
		Short:        "Check report definitions without rendering them",
		Args:         cobra.MinimumNArgs(1),
		RunE:         vc.run,
		SilenceUsage: true,
	}

	cmd.Flags().BoolVarP(&vc.quiet, "quiet", "q", false, "Only report failing definitions")

	return cmd
}

func (vc *ValidateCmd) run(cmd *cobra.Command, args []string) error {
	errs := bands.NewMultiError()

	for _, path := range args {
		if err := validateFile(path); err != nil {
			errs.Add(err)
			continue
		}
		if !vc.quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
		}
	}

	if errs.Len() > 0 {
		bands.GetLogger().Debug().Int("failed", errs.Len()).Int("checked", len(args)).Msg("validation failed")
	}
	return errs.Err()
}

func validateFile(path string) error {
	def, err := definition.ParseFile(path)
	if err != nil {
		return err
	}
	if err := def.Validate(); err != nil {
		return bands.WithContext(err, "validate definition", map[string]interface{}{"file": path})
	}
	return nil
}
