package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/otsaloma/gaupol-sub002/internal/project"
	"github.com/otsaloma/gaupol-sub002/internal/search"
	"github.com/otsaloma/gaupol-sub002/internal/subtitle"
)

var findCmd = &cobra.Command{
	Use:   "find [subtitle_file] [pattern]",
	Short: "List matches of a pattern in subtitle texts",
	Args:  cobra.ExactArgs(2),
	RunE:  runFind,
}

var replaceCmd = &cobra.Command{
	Use:   "replace [subtitle_file] [pattern] [replacement]",
	Short: "Replace every match of a pattern in subtitle texts",
	Long: `Replace every match of a pattern. With --regex the replacement may
refer to groups as $1, $2 or ${name}.

Examples:
  subed replace movie.srt colour color
  subed replace movie.srt --regex '(\w+), (\w+)' '$2 $1'`,
	Args: cobra.ExactArgs(3),
	RunE: runReplace,
}

func init() {
	rootCmd.AddCommand(findCmd, replaceCmd)

	for _, cmd := range []*cobra.Command{findCmd, replaceCmd} {
		cmd.Flags().Bool("regex", false, "Treat the pattern as a regular expression")
		cmd.Flags().BoolP("ignore-case", "i", false, "Match regardless of case")
		cmd.Flags().
			StringSlice("document", []string{"primary"}, "Documents to search (primary, secondary)")
		cmd.Flags().
			StringP("range", "r", "", "Subtitle numbers to search, e.g. 1-10,15 (default all)")
	}
}

func setupSearch(cmd *cobra.Command, p *project.Project, pattern string) error {
	opts := p.SearchOptions()
	if cmd.Flags().Changed("regex") {
		opts.Regex, _ = cmd.Flags().GetBool("regex")
	}
	if cmd.Flags().Changed("ignore-case") {
		opts.IgnoreCase, _ = cmd.Flags().GetBool("ignore-case")
	}
	names, _ := cmd.Flags().GetStringSlice("document")
	var docs []subtitle.Document
	for _, name := range names {
		doc, err := subtitle.ParseDocument(name)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}
	indices, err := rangeFlag(cmd, p)
	if err != nil {
		return err
	}

	p.SetSearchTarget(indices, docs, false)
	return p.SetSearchPattern(pattern, opts)
}

func runFind(cmd *cobra.Command, args []string) error {
	p, err := openProject(args[0])
	if err != nil {
		return err
	}
	if err := setupSearch(cmd, p, args[1]); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	count := 0
	for {
		m, err := p.FindNext()
		if errors.Is(err, search.ErrNoMatch) {
			break
		}
		if err != nil {
			return err
		}
		count++
		text := p.Subtitle(m.Index).Text(m.Doc)
		fmt.Fprintf(out, "%d (%s) %d-%d: %s\n",
			m.Index+1, m.Doc, m.Start, m.End,
			strings.ReplaceAll(text, "\n", " | "))
	}

	logger.Infow("Search finished", "pattern", args[1], "matches", count)
	fmt.Fprintf(out, "%d matches\n", count)
	return nil
}

func runReplace(cmd *cobra.Command, args []string) error {
	var count int
	p, err := editFile(args[0], func(p *project.Project) error {
		if err := setupSearch(cmd, p, args[1]); err != nil {
			return err
		}
		p.SetReplacement(args[2])
		var err error
		count, err = p.ReplaceAll()
		return err
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Replaced %d matches: %s\n", count, p.Main().Path)
	return nil
}
