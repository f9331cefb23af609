package cli

// Coverage Notes:
// - The serve command needs both credentials before it binds a port;
//   each missing key is asserted on its sentinel and variable name.
// - The startup path runs against 127.0.0.1:0 with an already-cancelled
//   context so the server starts and shuts down within the test.

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-titlegen/internal/apierr"
	"github.com/alnah/go-titlegen/internal/config"
)

// runServeCmd executes the serve command with the given context and args.
func runServeCmd(t *testing.T, ctx context.Context, env *Env, args ...string) error {
	t.Helper()
	cmd := ServeCmd(env)
	cmd.SetArgs(args)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return cmd.ExecuteContext(ctx)
}

func TestServeCmd(t *testing.T) {
	t.Parallel()

	t.Run("missing LLM key fails before binding", func(t *testing.T) {
		t.Parallel()

		env, _ := newTestEnv(func(key string) string {
			if key == EnvTranscriptAPIKey {
				return "yt-test"
			}
			return ""
		})
		err := runServeCmd(t, context.Background(), env)
		if !errors.Is(err, apierr.ErrCredentialMissing) {
			t.Fatalf("error = %v, want ErrCredentialMissing", err)
		}
		if !strings.Contains(err.Error(), "OPENAI_API_KEY") {
			t.Errorf("error should name OPENAI_API_KEY, got %q", err)
		}
	})

	t.Run("missing transcript key fails before binding", func(t *testing.T) {
		t.Parallel()

		env, _ := newTestEnv(func(key string) string {
			if key == "OPENAI_API_KEY" {
				return "sk-test"
			}
			return ""
		})
		err := runServeCmd(t, context.Background(), env)
		if !errors.Is(err, apierr.ErrCredentialMissing) {
			t.Fatalf("error = %v, want ErrCredentialMissing", err)
		}
		if !strings.Contains(err.Error(), EnvTranscriptAPIKey) {
			t.Errorf("error should name %s, got %q", EnvTranscriptAPIKey, err)
		}
	})

	t.Run("unknown provider flag is rejected", func(t *testing.T) {
		t.Parallel()

		env, _ := newTestEnv(nil)
		err := runServeCmd(t, context.Background(), env, "--provider", "mistral")
		if !errors.Is(err, ErrUnsupportedProvider) {
			t.Fatalf("error = %v, want ErrUnsupportedProvider", err)
		}
	})

	t.Run("starts and shuts down on cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		env, m := newTestEnv(nil)
		if err := runServeCmd(t, ctx, env, "--addr", "127.0.0.1:0"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		msg := m.stderr.String()
		if !strings.Contains(msg, "Serveur démarré sur 127.0.0.1:0") {
			t.Errorf("stderr should announce startup, got %q", msg)
		}
		if m.transcripts.lastToken != "yt-test" {
			t.Errorf("transcript token = %q, want yt-test", m.transcripts.lastToken)
		}
		if m.generators.lastProvider != OpenAIProvider {
			t.Errorf("provider = %v, want openai default", m.generators.lastProvider)
		}
		if m.generators.lastKey != "sk-test" {
			t.Errorf("LLM key = %q, want sk-test", m.generators.lastKey)
		}
	})

	t.Run("provider and model from config", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		env, m := newTestEnv(nil)
		m.configLoader.LoadFunc = func() (config.Config, error) {
			return config.Config{Provider: "deepseek"}, nil
		}
		if err := runServeCmd(t, ctx, env, "--addr", "127.0.0.1:0"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if m.generators.lastProvider != DeepSeekProvider {
			t.Errorf("provider = %v, want deepseek from config", m.generators.lastProvider)
		}
		if m.generators.lastKey != "ds-test" {
			t.Errorf("LLM key = %q, want ds-test", m.generators.lastKey)
		}
		if msg := m.stderr.String(); !strings.Contains(msg, "model: deepseek-chat") {
			t.Errorf("stderr should show the deepseek default model, got %q", msg)
		}
	})
}
