package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/otsaloma/gaupol-sub002/internal/position"
)

var infoCmd = &cobra.Command{
	Use:   "info [subtitle_file]",
	Short: "Show format, encoding and timing of a subtitle file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	p, err := openProject(args[0])
	if err != nil {
		return err
	}

	main := p.Main()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "File: %s\n", main.Path)
	fmt.Fprintf(out, "  Format: %s\n", main.Format)
	fmt.Fprintf(out, "  Encoding: %s\n", main.Encoding)
	fmt.Fprintf(out, "  Mode: %s\n", p.Mode())
	fmt.Fprintf(out, "  Framerate: %s\n", p.Framerate())
	fmt.Fprintf(out, "  Subtitles: %d\n", p.Len())
	if p.Len() > 0 {
		first := p.Subtitle(0)
		last := p.Subtitle(p.Len() - 1)
		fmt.Fprintf(out, "  First: %s\n", position.FormatTime(first.StartTime()))
		fmt.Fprintf(out, "  Last: %s\n", position.FormatTime(last.EndTime()))
	}
	return nil
}
