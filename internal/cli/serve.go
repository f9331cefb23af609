package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alnah/go-titlegen/internal/apierr"
	"github.com/alnah/go-titlegen/internal/pipeline"
	"github.com/alnah/go-titlegen/internal/server"
	"github.com/alnah/go-titlegen/internal/titles"
)

// ServeCmd creates the serve command.
func ServeCmd(env *Env) *cobra.Command {
	var (
		addr     string
		origins  []string
		provider string
		model    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and web form",
		Long: `Run an HTTP server exposing title generation as a JSON API and a
web form.

Routes:
  GET  /                 web form
  GET  /health           readiness probe
  POST /generate-titles  JSON API used by automation tools`,
		Example: `  titlegen serve
  titlegen serve --addr :9000
  titlegen serve --origins https://studio.example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, env, addr, origins, provider, model)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "Listen address")
	cmd.Flags().StringArrayVar(&origins, "origins", nil, "Allowed CORS origins, repeatable (default: any)")
	cmd.Flags().StringVar(&provider, "provider", "", "LLM provider: openai, deepseek")
	cmd.Flags().StringVarP(&model, "model", "m", "", "Chat model name (default depends on provider)")

	return cmd
}

func runServe(cmd *cobra.Command, env *Env, addr string, origins []string, providerName, model string) error {
	ctx := cmd.Context()

	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: failed to load config: %v\n", err)
	}

	llm, model, err := resolveProviderModel(providerName, model, cfg.Provider, cfg.Model)
	if err != nil {
		return err
	}

	llmKey := env.Getenv(llm.EnvKey())
	if llmKey == "" {
		return fmt.Errorf("%w: set %s in your environment or .env file", apierr.ErrCredentialMissing, llm.EnvKey())
	}
	transcriptKey := env.Getenv(EnvTranscriptAPIKey)
	if transcriptKey == "" {
		return fmt.Errorf("%w: set %s in your environment or .env file", apierr.ErrCredentialMissing, EnvTranscriptAPIKey)
	}

	generator := env.GeneratorFactory.NewGenerator(llm, llmKey, titles.WithModel(model))
	provider := env.TranscriptFactory.NewProvider(transcriptKey)
	pl := pipeline.New(provider, generator)

	// The probe re-reads the environment so a key removed after startup
	// flips the health endpoint without a restart.
	healthCheck := func() error {
		if env.Getenv(llm.EnvKey()) == "" {
			return fmt.Errorf("%w: %s", apierr.ErrCredentialMissing, llm.EnvKey())
		}
		return nil
	}

	srv := server.New(pl,
		server.WithAddr(addr),
		server.WithAllowedOrigins(origins),
		server.WithHealthCheck(healthCheck),
	)

	fmt.Fprintf(env.Stderr, "Serveur démarré sur %s (provider: %s, model: %s)\n", srv.Addr(), llm, model)
	return srv.Run(ctx)
}
