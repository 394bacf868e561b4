package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/otsaloma/gaupol-sub002/internal/position"
	"github.com/otsaloma/gaupol-sub002/internal/project"
	"github.com/otsaloma/gaupol-sub002/internal/subtitle"
)

var shiftCmd = &cobra.Command{
	Use:   "shift [subtitle_file] [amount]",
	Short: "Shift subtitles earlier or later",
	Long: `Shift subtitle positions by an amount given as seconds (-1.5),
a time (00:00:02.000) or frames (48f). Positions stop at zero.

Examples:
  subed shift movie.srt 2.5
  subed shift movie.srt -- -1.2 --range 10-20`,
	Args: cobra.ExactArgs(2),
	RunE: runShift,
}

var retimeCmd = &cobra.Command{
	Use:   "retime [subtitle_file] [number] [position] [number] [position]",
	Short: "Retime subtitles linearly from two sync points",
	Long: `Retime subtitles so that the two given subtitles start at the given
positions, stretching everything else linearly.

Examples:
  subed retime movie.srt 1 00:00:05.200 812 01:42:10.000`,
	Args: cobra.ExactArgs(5),
	RunE: runRetime,
}

var framerateCmd = &cobra.Command{
	Use:   "framerate [subtitle_file]",
	Short: "Convert or change the framerate",
	Long: `Convert positions computed with the wrong framerate (--from to --to),
or with --change only switch the framerate frame positions are read at.

Examples:
  subed framerate movie.srt --from 25 --to 23.976
  subed framerate movie.sub --to 25 --change`,
	Args: cobra.ExactArgs(1),
	RunE: runFramerate,
}

var mergeCmd = &cobra.Command{
	Use:   "merge [subtitle_file] [range]",
	Short: "Merge consecutive subtitles into one",
	Args:  cobra.ExactArgs(2),
	RunE:  runMerge,
}

var splitCmd = &cobra.Command{
	Use:   "split [subtitle_file] [number]",
	Short: "Split a subtitle in two at its midpoint",
	Args:  cobra.ExactArgs(2),
	RunE:  runSplit,
}

var breakCmd = &cobra.Command{
	Use:   "break [subtitle_file]",
	Short: "Rewrap subtitle texts into balanced lines",
	Args:  cobra.ExactArgs(1),
	RunE:  runBreak,
}

var appendCmd = &cobra.Command{
	Use:   "append [subtitle_file] [other_file]",
	Short: "Append another subtitle file after the last subtitle",
	Args:  cobra.ExactArgs(2),
	RunE:  runAppend,
}

func init() {
	rootCmd.AddCommand(shiftCmd, retimeCmd, framerateCmd, mergeCmd, splitCmd, breakCmd, appendCmd)

	for _, cmd := range []*cobra.Command{shiftCmd, retimeCmd, breakCmd} {
		cmd.Flags().
			StringP("range", "r", "", "Subtitle numbers to edit, e.g. 1-10,15 (default all)")
	}

	framerateCmd.Flags().String("from", "", "Framerate the positions were computed with")
	framerateCmd.Flags().String("to", "", "Target framerate (required)")
	framerateCmd.Flags().Bool("change", false, "Only change the framerate, keeping native positions")
	_ = framerateCmd.MarkFlagRequired("to")

	breakCmd.Flags().
		Int("max-chars", subtitle.DefaultMaxCharsPerLine, "Maximum characters per line")
	breakCmd.Flags().
		Int("max-lines", subtitle.DefaultMaxLines, "Maximum lines per subtitle")
	breakCmd.Flags().
		String("document", "primary", "Document to edit (primary, secondary)")
}

func rangeFlag(cmd *cobra.Command, p *project.Project) ([]int, error) {
	spec, _ := cmd.Flags().GetString("range")
	return parseIndices(spec, p.Len())
}

func runShift(cmd *cobra.Command, args []string) error {
	amount, err := parsePosition(args[1])
	if err != nil {
		return err
	}

	p, err := editFile(args[0], func(p *project.Project) error {
		indices, err := rangeFlag(cmd, p)
		if err != nil {
			return err
		}
		p.ShiftPositions(indices, amount)
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Shifted %d subtitles by %s: %s\n", p.Len(), args[1], p.Main().Path)
	return nil
}

func runRetime(cmd *cobra.Command, args []string) error {
	var points [2]project.SyncPoint
	for i := range points {
		n, err := strconv.Atoi(args[1+2*i])
		if err != nil {
			return fmt.Errorf("invalid subtitle number %q", args[1+2*i])
		}
		target, err := parsePosition(args[2+2*i])
		if err != nil {
			return err
		}
		points[i] = project.SyncPoint{Index: n - 1, Target: target}
	}

	p, err := editFile(args[0], func(p *project.Project) error {
		for _, point := range points {
			if point.Index < 0 || point.Index >= p.Len() {
				return fmt.Errorf("subtitle %d outside 1-%d", point.Index+1, p.Len())
			}
		}
		if p.Subtitle(points[0].Index).Start().Equal(p.Subtitle(points[1].Index).Start()) {
			return fmt.Errorf("sync points must start at different positions")
		}
		indices, err := rangeFlag(cmd, p)
		if err != nil {
			return err
		}
		p.TransformPositions(indices, points[0], points[1])
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Retimed %d subtitles: %s\n", p.Len(), p.Main().Path)
	return nil
}

func runFramerate(cmd *cobra.Command, args []string) error {
	fromFlag, _ := cmd.Flags().GetString("from")
	toFlag, _ := cmd.Flags().GetString("to")
	change, _ := cmd.Flags().GetBool("change")

	to, err := position.ParseFramerate(toFlag)
	if err != nil {
		return err
	}
	var from position.Framerate
	if fromFlag != "" {
		if from, err = position.ParseFramerate(fromFlag); err != nil {
			return err
		}
	}

	p, err := editFile(args[0], func(p *project.Project) error {
		if change {
			p.ChangeFramerate(to)
			return nil
		}
		if from == 0 {
			from = p.Framerate()
		}
		p.ConvertFramerate(nil, from, to)
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Framerate set to %s: %s\n", p.Framerate(), p.Main().Path)
	return nil
}

func runMerge(cmd *cobra.Command, args []string) error {
	p, err := editFile(args[0], func(p *project.Project) error {
		indices, err := parseIndices(args[1], p.Len())
		if err != nil {
			return err
		}
		if len(indices) < 2 {
			return fmt.Errorf("merge needs at least two subtitles, got %q", args[1])
		}
		for i := 1; i < len(indices); i++ {
			if indices[i] != indices[i-1]+1 {
				return fmt.Errorf("merge range %q must be consecutive", args[1])
			}
		}
		p.MergeSubtitles(indices)
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Merged subtitles %s: %d remain\n", args[1], p.Len())
	return nil
}

func runSplit(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid subtitle number %q", args[1])
	}

	p, err := editFile(args[0], func(p *project.Project) error {
		if n < 1 || n > p.Len() {
			return fmt.Errorf("subtitle %d outside 1-%d", n, p.Len())
		}
		p.SplitSubtitle(n - 1)
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Split subtitle %d: %d subtitles\n", n, p.Len())
	return nil
}

func runBreak(cmd *cobra.Command, args []string) error {
	maxChars, _ := cmd.Flags().GetInt("max-chars")
	maxLines, _ := cmd.Flags().GetInt("max-lines")
	docName, _ := cmd.Flags().GetString("document")
	doc, err := subtitle.ParseDocument(docName)
	if err != nil {
		return err
	}
	if maxChars <= 0 || maxLines <= 0 {
		return fmt.Errorf("max-chars and max-lines must be positive")
	}
	breaker := &subtitle.LineBreaker{MaxCharsPerLine: maxChars, MaxLines: maxLines}

	p, err := editFile(args[0], func(p *project.Project) error {
		indices, err := rangeFlag(cmd, p)
		if err != nil {
			return err
		}
		p.BreakLines(indices, doc, breaker)
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Rewrapped texts: %s\n", p.Main().Path)
	return nil
}

func runAppend(cmd *cobra.Command, args []string) error {
	other, err := openProject(args[1])
	if err != nil {
		return err
	}

	var added []int
	p, err := editFile(args[0], func(p *project.Project) error {
		added = p.AppendProject(other)
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Appended %d subtitles: %s\n", len(added), p.Main().Path)
	return nil
}
