package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aeronjl/auricle/internal/output"
)

func NewShowCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "show <transcript>",
		Short: "Print a saved transcript",
		Long:  "Print a saved transcript as JSON. Files in the older one-value-per-line layout are printed as a JSON array; lines that cannot be parsed are reported and skipped.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := output.NewFormatter(os.Stdout)
			stderr := output.NewFormatter(os.Stderr)

			artifact, err := deps.App.Store.Load(args[0])
			if err != nil {
				return err
			}
			for _, m := range artifact.Malformed {
				stderr.Warning(m.Error())
			}
			stdout.JSON(artifact.Value())
			return nil
		},
	}
}
