package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aeronjl/auricle/internal/output"
)

func NewDoctorCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check prerequisites",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := output.NewFormatter(os.Stdout)
			ok := true

			if err := deps.App.Converter.CheckFFmpeg(); err != nil {
				f.SetupCheck("ffmpeg", false, "not found. Install it or set AURICLE_FFMPEG_PATH")
				ok = false
			} else {
				f.SetupCheck("ffmpeg", true, "installed")
			}

			if deps.Config.OpenAIAPIKey != "" {
				f.SetupCheck("OpenAI API key", true, "configured ("+deps.Config.TranscriptionModel+")")
			} else {
				f.SetupCheck("OpenAI API key", false, "not set. Set AURICLE_OPENAI_API_KEY or add to config")
				ok = false
			}

			switch {
			case deps.Config.StripeSecretKey != "":
				f.SetupCheck("Stripe", true, "configured")
			case deps.Config.RequirePayment:
				f.SetupCheck("Stripe", false, "payment is required but no key is set")
				ok = false
			default:
				f.SetupCheck("Stripe", true, "not configured, transcription is free")
			}

			f.SetupCheck("Transcripts directory", true, deps.Config.ArtifactsDir)

			if ok {
				f.Success("\nAll prerequisites met. Ready to transcribe!")
			} else {
				f.Warning("\nSome prerequisites are missing.")
			}
			return nil
		},
	}
}
