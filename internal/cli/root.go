package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/otsaloma/gaupol-sub002/internal/config"
	"github.com/otsaloma/gaupol-sub002/internal/logging"
	"github.com/otsaloma/gaupol-sub002/internal/position"
	"github.com/otsaloma/gaupol-sub002/internal/video"
)

var (
	verbose    bool
	configPath string
	encoding   string
	framerate  string
	outputPath string
	videoPath  string

	logger *logging.Logger
	cfg    *config.Config
	prober video.Prober = video.FFProbe{}
)

var rootCmd = &cobra.Command{
	Use:   "subed",
	Short: "Subtitle editor for the command line",
	Long: `Subed edits subtitle files: retiming, framerate conversion, merging,
splitting, search and replace, format conversion and AI translation.

It reads SubRip, WebVTT, SubStation Alpha, Advanced SubStation Alpha,
MicroDVD, SubViewer 2 and TTML files in any common text encoding.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.NewLogger(verbose)
		return loadConfig(cmd.Context())
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultPath, "Configuration file")
	rootCmd.PersistentFlags().
		StringVarP(&encoding, "encoding", "e", "", "Character encoding to try first when opening")
	rootCmd.PersistentFlags().
		StringVarP(&framerate, "framerate", "f", "", "Framerate (e.g., 23.976, 25, 24000/1001)")
	rootCmd.PersistentFlags().
		StringVarP(&outputPath, "output", "o", "", "Output file path (defaults to overwriting the input)")
	rootCmd.PersistentFlags().
		StringVar(&videoPath, "video", "", "Reference video to read the framerate from")
}

func loadConfig(ctx context.Context) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}

	if framerate != "" {
		f, err := position.ParseFramerate(framerate)
		if err != nil {
			return err
		}
		cfg.Framerate = f
	}

	if videoPath != "" {
		if ctx == nil {
			ctx = context.Background()
		}
		info, err := prober.Probe(ctx, videoPath)
		if err != nil {
			return fmt.Errorf("failed to probe video: %w", err)
		}
		logger.Infow("Read framerate from video",
			"video", videoPath,
			"framerate", info.Framerate.String(),
		)
		cfg.Framerate = info.Framerate
	}
	return nil
}
