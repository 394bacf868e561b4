package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/otsaloma/gaupol-sub002/internal/clipboard"
	"github.com/otsaloma/gaupol-sub002/internal/subtitle"
)

var copyCmd = &cobra.Command{
	Use:   "copy [subtitle_file]",
	Short: "Copy subtitle texts to the system clipboard",
	Args:  cobra.ExactArgs(1),
	RunE:  runCopy,
}

func init() {
	rootCmd.AddCommand(copyCmd)

	copyCmd.Flags().
		StringP("range", "r", "", "Subtitle numbers to copy, e.g. 1-10,15 (default all)")
	copyCmd.Flags().
		String("document", "primary", "Document to copy (primary, secondary)")
}

func runCopy(cmd *cobra.Command, args []string) error {
	if !clipboard.Available() {
		return fmt.Errorf("no system clipboard available (install xclip, xsel or wl-clipboard)")
	}
	docName, _ := cmd.Flags().GetString("document")
	doc, err := subtitle.ParseDocument(docName)
	if err != nil {
		return err
	}

	p, err := openProject(args[0])
	if err != nil {
		return err
	}
	indices, err := rangeFlag(cmd, p)
	if err != nil {
		return err
	}

	p.SetClipboard(clipboard.System{})
	if err := p.CopyTexts(indices, doc); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Copied %d texts to the clipboard\n", len(p.CopiedTexts()))
	return nil
}
