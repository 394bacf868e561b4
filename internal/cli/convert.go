package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/otsaloma/gaupol-sub002/internal/charset"
)

var convertCmd = &cobra.Command{
	Use:   "convert [subtitle_file]",
	Short: "Convert a subtitle file to another format or encoding",
	Long: `Convert a subtitle file to another format, encoding or line ending.

Markup is translated between formats, e.g. SubRip <i> tags become
{\i1} overrides in SubStation Alpha.

Examples:
  subed convert movie.srt --to ass
  subed convert movie.sub -f 25 -o movie.srt
  subed convert movie.srt --to-encoding windows-1252 --newline windows`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().
		String("to", "", "Target format (srt, vtt, ssa, ass, sub, subviewer2, ttml)")
	convertCmd.Flags().
		String("to-encoding", "", "Target character encoding")
	convertCmd.Flags().
		String("newline", "", "Target line ending (unix, windows, mac)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	to, _ := cmd.Flags().GetString("to")
	toEncoding, _ := cmd.Flags().GetString("to-encoding")
	newline, _ := cmd.Flags().GetString("newline")

	if to == "" && outputPath == "" && toEncoding == "" && newline == "" {
		return fmt.Errorf("nothing to convert: give --to, --output, --to-encoding or --newline")
	}

	p, err := openProject(args[0])
	if err != nil {
		return err
	}

	main := p.Main()
	if toEncoding != "" {
		name, err := charset.Canonical(toEncoding)
		if err != nil {
			return err
		}
		main.Encoding = name
	}
	if newline != "" {
		cfg.Newline = newline
		sequence, err := cfg.NewlineSequence()
		if err != nil {
			return err
		}
		main.Newline = sequence
	}

	if err := saveProject(p, to); err != nil {
		return fmt.Errorf("failed to convert: %w", err)
	}

	saved := p.Main()
	absOutput, _ := filepath.Abs(saved.Path)
	fmt.Fprintf(cmd.OutOrStdout(), "Converted: %s\n", absOutput)
	fmt.Fprintf(cmd.OutOrStdout(), "  Format: %s\n", saved.Format)
	fmt.Fprintf(cmd.OutOrStdout(), "  Encoding: %s\n", saved.Encoding)
	return nil
}
