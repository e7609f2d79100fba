package cli

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/aeronjl/auricle/config"
	"github.com/aeronjl/auricle/internal/app"
	"github.com/aeronjl/auricle/internal/version"
)

type Dependencies struct {
	App    *app.App
	Config *config.Config
	Logger *log.Logger
}

func NewRootCmd(deps *Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "auricle",
		Short:         "Transcribe audio and video files",
		Long:          "A tool that converts uploaded audio or video to 16 kHz mono WAV, transcribes it with an OpenAI-compatible speech model, and keeps the transcripts as JSON files.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(version.Full() + "\n")

	rootCmd.AddCommand(NewTranscribeCmd(deps))
	rootCmd.AddCommand(NewQuoteCmd(deps))
	rootCmd.AddCommand(NewListCmd(deps))
	rootCmd.AddCommand(NewShowCmd(deps))
	rootCmd.AddCommand(NewServeCmd(deps))
	rootCmd.AddCommand(NewDoctorCmd(deps))

	return rootCmd
}
