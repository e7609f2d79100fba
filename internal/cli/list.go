package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aeronjl/auricle/internal/output"
)

func NewListCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved transcripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := output.NewFormatter(os.Stdout)

			names, err := deps.App.Store.List()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				formatter.Info("No transcripts available")
				return nil
			}

			formatter.TranscriptListHeader()
			for _, name := range names {
				formatter.TranscriptListItem(name)
			}
			return nil
		},
	}

	return cmd
}
