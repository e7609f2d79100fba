package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aeronjl/auricle/internal/output"
)

func NewQuoteCmd(deps *Dependencies) *cobra.Command {
	var mimeType string
	var checkout bool

	cmd := &cobra.Command{
		Use:   "quote <file>",
		Short: "Show what transcribing a file would cost",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := output.NewFormatter(os.Stdout)

			media, err := readMedia(args[0], "", mimeType)
			if err != nil {
				return err
			}

			formatter.Converting()
			result, err := deps.App.Process.QuoteMedia(cmd.Context(), media, checkout)
			if err != nil {
				return err
			}
			formatter.PriceQuote(result.Quote)
			if result.Checkout != nil {
				formatter.CheckoutCreated(result.Checkout)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&mimeType, "type", "t", "", "Declared MIME type (default: guessed from the extension)")
	cmd.Flags().BoolVar(&checkout, "checkout", false, "Create a payment session for the quoted amount")

	return cmd
}
