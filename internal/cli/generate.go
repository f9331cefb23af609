package cli

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/alnah/go-titlegen/internal/apierr"
	"github.com/alnah/go-titlegen/internal/lang"
	"github.com/alnah/go-titlegen/internal/pipeline"
	"github.com/alnah/go-titlegen/internal/prompt"
	"github.com/alnah/go-titlegen/internal/titles"
)

// GenerateCmd creates the generate command.
// The env parameter provides injectable dependencies for testing.
func GenerateCmd(env *Env) *cobra.Command {
	var (
		numTitles   int
		description string
		provider    string
		model       string
		languages   []string
	)

	cmd := &cobra.Command{
		Use:   "generate [youtube-url]",
		Short: "Generate video title suggestions",
		Long: `Generate YouTube title suggestions from a video transcript or a
written description.

Given a YouTube URL, the video's transcript is fetched from
youtube-transcript.io and fed to the LLM. With --description the text
is used directly and no transcript is fetched.

Title generation uses OpenAI by default, or DeepSeek with
--provider deepseek.`,
		Example: `  titlegen generate https://www.youtube.com/watch?v=dQw4w9WgXcQ
  titlegen generate https://youtu.be/dQw4w9WgXcQ -n 3
  titlegen generate --description "Tutoriel Docker pour débutants"
  titlegen generate https://youtu.be/dQw4w9WgXcQ -l fr -l en
  titlegen generate https://youtu.be/dQw4w9WgXcQ --provider deepseek`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := ""
			if len(args) == 1 {
				url = args[0]
			}
			return runGenerate(cmd, env, url, description, numTitles, provider, model, languages)
		},
	}

	cmd.Flags().IntVarP(&numTitles, "num-titles", "n", 0, fmt.Sprintf("Number of titles to generate (%d-%d)", prompt.MinTitles, prompt.MaxTitles))
	cmd.Flags().StringVarP(&description, "description", "d", "", "Generate from a written description instead of a transcript")
	cmd.Flags().StringVar(&provider, "provider", "", "LLM provider: openai, deepseek")
	cmd.Flags().StringVarP(&model, "model", "m", "", "Chat model name (default depends on provider)")
	cmd.Flags().StringArrayVarP(&languages, "language", "l", nil, "Preferred transcript language, repeatable (ISO 639-1 code)")

	return cmd
}

// runGenerate executes the title generation workflow.
// Validation order: source -> languages -> provider -> API keys
func runGenerate(cmd *cobra.Command, env *Env, url, description string, numTitles int, providerName, model string, languages []string) error {
	ctx := cmd.Context()

	// 1. Exactly one source
	if url == "" && description == "" {
		return ErrNoSource
	}
	if url != "" && description != "" {
		return fmt.Errorf("pass a YouTube URL or --description, not both: %w", ErrNoSource)
	}

	// 2. Language validation
	for _, code := range languages {
		if err := lang.Validate(code); err != nil {
			return err
		}
	}

	// 3. Load config for defaults
	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: failed to load config: %v\n", err)
	}

	// 4. Provider and model resolution: flag > config > default
	llm, model, err := resolveProviderModel(providerName, model, cfg.Provider, cfg.Model)
	if err != nil {
		return err
	}

	// 5. Title count: flag > config > default, clamped to valid range
	if numTitles == 0 {
		numTitles = cfg.NumTitles
	}
	if numTitles == 0 {
		numTitles = prompt.DefaultTitles
	}
	numTitles = prompt.ClampCount(numTitles)

	// 6. API keys present
	llmKey := env.Getenv(llm.EnvKey())
	if llmKey == "" {
		return fmt.Errorf("%w: set %s in your environment or .env file", apierr.ErrCredentialMissing, llm.EnvKey())
	}
	var transcriptKey string
	if url != "" {
		transcriptKey = env.Getenv(EnvTranscriptAPIKey)
		if transcriptKey == "" {
			return fmt.Errorf("%w: set %s in your environment or .env file", apierr.ErrCredentialMissing, EnvTranscriptAPIKey)
		}
	}

	generator := env.GeneratorFactory.NewGenerator(llm, llmKey, titles.WithModel(model))

	var (
		result        titles.Result
		transcriptLen int
	)
	if url != "" {
		provider := env.TranscriptFactory.NewProvider(transcriptKey)
		pl := pipeline.New(provider, generator)

		fmt.Fprintln(env.Stderr, "Récupération de la transcription...")
		var text string
		text, err = pl.ResolveTranscript(ctx, url, languages...)
		if err == nil {
			transcriptLen = utf8.RuneCountInString(text)
			fmt.Fprintf(env.Stderr, "Transcription récupérée (%d caractères)\n", transcriptLen)
			fmt.Fprintln(env.Stderr, "Génération des titres...")
			result, err = pl.GenerateTitles(ctx, text, prompt.Options{
				NumTitles: numTitles,
				Kind:      prompt.SourceTranscript,
			})
		}
	} else {
		fmt.Fprintln(env.Stderr, "Génération des titres...")
		result, err = generator.Generate(ctx, description, prompt.Options{
			NumTitles: numTitles,
			Kind:      prompt.SourceDescription,
		})
	}
	if err != nil {
		fmt.Fprintln(env.Stderr, pipeline.UserMessage(err))
		if errors.Is(err, titles.ErrNoTitles) && result.RawText != "" {
			fmt.Fprintf(env.Stderr, "Réponse brute du modèle :\n%s\n", result.RawText)
		}
		return err
	}

	for i, title := range result.Titles {
		fmt.Fprintf(env.Stdout, "%d. %s\n", i+1, title)
	}

	return nil
}
