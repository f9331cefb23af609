// Package titles turns source text into a bounded list of YouTube title
// proposals through an LLM chat-completion call.
//
// The generation layer performs no retries: LLM calls are rare and
// user-interactive, so transport failures surface immediately with a
// classified error and the user decides whether to try again. Retry
// policy lives in the transcript layer only.
package titles

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/alnah/go-titlegen/internal/apierr"
	"github.com/alnah/go-titlegen/internal/prompt"
)

// Default generation configuration.
const (
	defaultModel           = "gpt-4o-mini"
	defaultMaxOutputTokens = 1024

	// Ceiling for one generation call. Title lists are short; anything
	// past this is a stuck request.
	defaultGenTimeout = 2 * time.Minute
)

// chatCompleter is an internal interface for OpenAI chat completion.
// *openai.Client implements this implicitly.
// This allows injecting mocks in tests.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Result is the structured outcome of a successful generation.
type Result struct {
	// Titles is ordered, de-duplicated by extraction, and never longer
	// than the requested count.
	Titles []string
	// RawText is the completion exactly as the model produced it.
	RawText string
	// UsedOverride reports whether the external system prompt override
	// was in effect for this call.
	UsedOverride bool
}

// Generator orchestrates prompt building, the LLM call, and title
// extraction. Safe for concurrent use.
type Generator struct {
	client   chatCompleter
	override prompt.OverrideLoader
	model    string
	maxOut   int
	timeout  time.Duration
}

// Option configures a Generator.
type Option func(*Generator)

// WithModel sets the chat-completion model.
func WithModel(model string) Option {
	return func(g *Generator) {
		if model != "" {
			g.model = model
		}
	}
}

// WithMaxOutputTokens bounds the completion size.
func WithMaxOutputTokens(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxOut = n
		}
	}
}

// WithTimeout sets the per-call ceiling.
func WithTimeout(d time.Duration) Option {
	return func(g *Generator) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithOverrideLoader sets the system prompt override source.
func WithOverrideLoader(l prompt.OverrideLoader) Option {
	return func(g *Generator) {
		g.override = l
	}
}

// withChatCompleter sets a custom chat completer (for testing).
func withChatCompleter(cc chatCompleter) Option {
	return func(g *Generator) {
		g.client = cc
	}
}

// NewGenerator creates a Generator backed by the given OpenAI client.
// By default the override prompt is read from the user config directory.
func NewGenerator(client *openai.Client, opts ...Option) *Generator {
	g := &Generator{
		client:  client,
		model:   defaultModel,
		maxOut:  defaultMaxOutputTokens,
		timeout: defaultGenTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.override == nil {
		if path, err := prompt.DefaultOverridePath(); err == nil {
			g.override = prompt.NewFileOverride(path)
		} else {
			g.override = prompt.NoOverride{}
		}
	}
	return g
}

// Generate runs the full orchestration for one source text.
//
// On a transport, auth, or quota failure from the LLM call the error is
// classified and returned with a zero Result. When the call succeeds but
// no titles survive extraction, the returned Result still carries the
// raw completion and the error wraps ErrNoTitles.
func (g *Generator) Generate(ctx context.Context, sourceText string, opts prompt.Options) (Result, error) {
	override, err := g.override.Load()
	if err != nil {
		return Result{}, fmt.Errorf("reading override prompt: %w", err)
	}

	built := prompt.Build(sourceText, opts, override)

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if built.SystemInstructions != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: built.SystemInstructions,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: built.UserMessage,
	})

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:               g.model,
		MaxCompletionTokens: g.maxOut,
		Messages:            messages,
	})
	if err != nil {
		return Result{}, classifyGenerationError(err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, fmt.Errorf("no response choices from API: %w", apierr.ErrTransport)
	}

	raw := resp.Choices[0].Message.Content
	result := Result{
		Titles:       Extract(raw, prompt.ClampCount(opts.NumTitles)),
		RawText:      raw,
		UsedOverride: built.UsedOverride,
	}
	if len(result.Titles) == 0 {
		return result, fmt.Errorf("completion had %d characters but %w", len(raw), ErrNoTitles)
	}
	return result, nil
}

// classifyGenerationError maps LLM API errors to apierr sentinel errors.
// Uses errors.As for typed API errors instead of string matching.
func classifyGenerationError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			// Distinguish temporary throttling from an exhausted quota.
			if strings.Contains(apiErr.Message, "quota") ||
				strings.Contains(apiErr.Message, "billing") {
				return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrQuotaExceeded)
			}
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrRateLimit)
		case http.StatusPaymentRequired:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrQuotaExceeded)
		case http.StatusUnauthorized:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrAuthFailed)
		case http.StatusRequestTimeout, http.StatusGatewayTimeout:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrTimeout)
		case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrTransport)
		default:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrBadRequest)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("generation timed out: %w", apierr.ErrTimeout)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	return fmt.Errorf("LLM call failed: %v: %w", err, apierr.ErrTransport)
}
