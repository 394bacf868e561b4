package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/otsaloma/gaupol-sub002/internal/format"
	"github.com/otsaloma/gaupol-sub002/internal/project"
	"github.com/otsaloma/gaupol-sub002/internal/translate"
)

var translateCmd = &cobra.Command{
	Use:   "translate [subtitle_file]",
	Short: "Translate subtitles to another language using AI",
	Long: `Translate the texts of a subtitle file using an AI provider and write
them as a translation file with the same timing.

Markup is preserved, and the translation is saved in the format of the
input unless --output names another extension.

Examples:
  subed translate movie.srt --target-language japanese
  subed translate movie.ass --target-language fi --provider anthropic
  subed translate movie.vtt -l english --target-language spanish -o movie.es.vtt`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().
		StringP("target-language", "t", "", "Target language for translation (required)")
	translateCmd.Flags().
		StringP("language", "l", "", "Language of the input texts")
	translateCmd.Flags().
		StringP("api-key", "k", "", "API key (or set GEMINI_API_KEY/OPENAI_API_KEY/ANTHROPIC_API_KEY)")
	translateCmd.Flags().
		String("model", "", "Model to use for translation (provider-specific, uses sensible defaults)")
	translateCmd.Flags().
		String("provider", "", "Translation provider (gemini, openai, anthropic)")
	translateCmd.Flags().
		String("prompt", "", "Additional instructions for the model")
	translateCmd.Flags().
		Int("concurrency", 0, "Number of parallel translation workers")
	translateCmd.Flags().
		Int("batch-size", 0, "Number of subtitles per API request")

	_ = translateCmd.MarkFlagRequired("target-language")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	subtitlePath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	targetLang, _ := cmd.Flags().GetString("target-language")
	inputLang, _ := cmd.Flags().GetString("language")
	apiKey, _ := cmd.Flags().GetString("api-key")
	model, _ := cmd.Flags().GetString("model")
	providerStr, _ := cmd.Flags().GetString("provider")
	prompt, _ := cmd.Flags().GetString("prompt")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	batchSize, _ := cmd.Flags().GetInt("batch-size")

	if strings.TrimSpace(targetLang) == "" {
		return fmt.Errorf("target language is required")
	}
	if inputLang != "" &&
		strings.EqualFold(strings.TrimSpace(inputLang), strings.TrimSpace(targetLang)) {
		return fmt.Errorf(
			"input language %q and target language %q cannot be the same",
			inputLang,
			targetLang,
		)
	}

	if providerStr == "" {
		providerStr = cfg.Translate.Provider
	}
	provider, err := translate.ParseProvider(providerStr)
	if err != nil {
		return err
	}
	if apiKey == "" {
		apiKey = os.Getenv(provider.KeyEnv())
	}
	if apiKey == "" {
		return fmt.Errorf(
			"API key is required: use --api-key flag or set %s environment variable",
			provider.KeyEnv(),
		)
	}
	if model == "" {
		model = cfg.Translate.Model
	}
	if concurrency == 0 {
		concurrency = cfg.Translate.Concurrency
	}
	if batchSize == 0 {
		batchSize = cfg.Translate.BatchSize
	}
	if concurrency < 0 || batchSize < 0 {
		return fmt.Errorf("concurrency and batch-size must be positive")
	}

	p, err := openProject(subtitlePath)
	if err != nil {
		return err
	}
	if p.Len() == 0 {
		return fmt.Errorf("subtitle file contains no entries")
	}

	translator, err := translate.Factory(ctx, provider, apiKey, translate.Options{
		InputLanguage:  inputLang,
		TargetLanguage: targetLang,
		Model:          model,
		Prompt:         prompt,
		BatchSize:      batchSize,
		Concurrency:    concurrency,
	})
	if err != nil {
		return fmt.Errorf("failed to create translator: %w", err)
	}

	logger.Infow("Starting subtitle translation",
		"input", subtitlePath,
		"provider", string(provider),
		"target_language", targetLang,
		"subtitles", p.Len(),
	)

	n, err := p.FillTranslation(ctx, translator, nil)
	if err != nil {
		return err
	}

	file := translationFile(p, targetLang)
	if err := p.SaveTranslation(file); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	absOutput, _ := filepath.Abs(file.Path)
	fmt.Fprintf(cmd.OutOrStdout(), "Subtitles translated successfully: %s\n", absOutput)
	fmt.Fprintf(cmd.OutOrStdout(), "  Entries: %d\n", n)
	fmt.Fprintf(cmd.OutOrStdout(), "  Target language: %s\n", targetLang)
	return nil
}

// output file for a translation, next to the input unless --output is set
func translationFile(p *project.Project, lang string) *project.File {
	main := p.Main()
	file := &project.File{
		Path:     outputPath,
		Format:   main.Format,
		Encoding: main.Encoding,
		Newline:  main.Newline,
		Header:   main.Header,
	}
	if file.Path == "" {
		ext := filepath.Ext(main.Path)
		file.Path = fmt.Sprintf("%s.%s%s", strings.TrimSuffix(main.Path, ext), lang, ext)
		return file
	}
	if f, err := format.ParseFormat(filepath.Ext(file.Path)); err == nil && f != main.Format {
		file.Format = f
		file.Header = ""
	}
	return file
}
