package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aeronjl/auricle/internal/domain/transcript/usecases"
	"github.com/aeronjl/auricle/internal/output"
)

func NewTranscribeCmd(deps *Dependencies) *cobra.Command {
	var mimeType string
	var name string
	var sessionID string

	cmd := &cobra.Command{
		Use:   "transcribe <file>",
		Short: "Transcribe an audio or video file",
		Long:  "Convert the file to the canonical WAV profile, quote its price, transcribe it and save the transcript to the artifacts directory.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := output.NewFormatter(os.Stdout)

			if deps.Config.OpenAIAPIKey == "" {
				return fmt.Errorf("OpenAI API key not set. Set AURICLE_OPENAI_API_KEY or add openai_api_key to config")
			}

			media, err := readMedia(args[0], name, mimeType)
			if err != nil {
				return err
			}
			formatter.Uploaded(media.Name, media.Type)

			formatter.Converting()
			audio, err := deps.App.Normalize.Execute(cmd.Context(), media)
			if err != nil {
				return err
			}
			quote, err := deps.App.Quote.Execute(audio.Duration)
			if err != nil {
				return err
			}
			formatter.PriceQuote(quote)

			formatter.Transcribing()
			result, err := deps.App.Process.Execute(cmd.Context(), media, usecases.ProcessOptions{SessionID: sessionID})
			if err != nil {
				return err
			}
			formatter.TranscriptSaved(result.ArtifactPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&mimeType, "type", "t", "", "Declared MIME type (default: guessed from the extension)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Name the transcript is saved under (default: the file name)")
	cmd.Flags().StringVar(&sessionID, "session", "", "Paid checkout session, when payment is required")

	return cmd
}
