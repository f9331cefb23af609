package cli

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/alnah/go-titlegen/internal/config"
	"github.com/alnah/go-titlegen/internal/pipeline"
	"github.com/alnah/go-titlegen/internal/prompt"
	"github.com/alnah/go-titlegen/internal/titles"
	"github.com/alnah/go-titlegen/internal/transcript"
	"github.com/alnah/go-titlegen/internal/video"
)

// ---------------------------------------------------------------------------
// syncBuffer - thread-safe bytes.Buffer for concurrent test output
// ---------------------------------------------------------------------------

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Compile-time check that syncBuffer implements io.Writer.
var _ io.Writer = (*syncBuffer)(nil)

// ---------------------------------------------------------------------------
// Mock ConfigLoader
// ---------------------------------------------------------------------------

type mockConfigLoader struct {
	LoadFunc func() (config.Config, error)
}

func (m *mockConfigLoader) Load() (config.Config, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc()
	}
	return config.Config{}, nil
}

// ---------------------------------------------------------------------------
// Mock transcript provider and factory
// ---------------------------------------------------------------------------

type mockProvider struct {
	FetchFunc func(ctx context.Context, id video.ID, prefs ...string) (string, error)

	mu        sync.Mutex
	lastID    video.ID
	lastPrefs []string
}

func (m *mockProvider) Fetch(ctx context.Context, id video.ID, prefs ...string) (string, error) {
	m.mu.Lock()
	m.lastID = id
	m.lastPrefs = prefs
	m.mu.Unlock()

	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, id, prefs...)
	}
	return "transcription factice pour les tests", nil
}

type mockTranscriptFactory struct {
	provider *mockProvider

	mu        sync.Mutex
	lastToken string
}

func (m *mockTranscriptFactory) NewProvider(token string) transcript.Provider {
	m.mu.Lock()
	m.lastToken = token
	m.mu.Unlock()
	return m.provider
}

// ---------------------------------------------------------------------------
// Mock title generator and factory
// ---------------------------------------------------------------------------

type mockGenerator struct {
	GenerateFunc func(ctx context.Context, sourceText string, opts prompt.Options) (titles.Result, error)

	mu       sync.Mutex
	lastText string
	lastOpts prompt.Options
}

func (m *mockGenerator) Generate(ctx context.Context, sourceText string, opts prompt.Options) (titles.Result, error) {
	m.mu.Lock()
	m.lastText = sourceText
	m.lastOpts = opts
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, sourceText, opts)
	}
	return titles.Result{
		Titles:  []string{"Premier titre proposé ici", "Deuxième titre proposé ici"},
		RawText: "1. Premier titre proposé ici\n2. Deuxième titre proposé ici",
	}, nil
}

type mockGeneratorFactory struct {
	generator *mockGenerator

	mu           sync.Mutex
	lastProvider Provider
	lastKey      string
}

func (m *mockGeneratorFactory) NewGenerator(p Provider, apiKey string, opts ...titles.Option) pipeline.TitleGenerator {
	m.mu.Lock()
	m.lastProvider = p
	m.lastKey = apiKey
	m.mu.Unlock()
	return m.generator
}

// ---------------------------------------------------------------------------
// testEnv - fully mocked Env
// ---------------------------------------------------------------------------

type testMocks struct {
	configLoader *mockConfigLoader
	provider     *mockProvider
	transcripts  *mockTranscriptFactory
	generator    *mockGenerator
	generators   *mockGeneratorFactory
	stdout       *syncBuffer
	stderr       *syncBuffer
}

// testKeys is the default environment for tests: every key set.
var testKeys = map[string]string{
	"OPENAI_API_KEY":    "sk-test",
	"DEEPSEEK_API_KEY":  "ds-test",
	EnvTranscriptAPIKey: "yt-test",
}

func newTestEnv(getenv func(string) string) (*Env, *testMocks) {
	m := &testMocks{
		configLoader: &mockConfigLoader{},
		provider:     &mockProvider{},
		generator:    &mockGenerator{},
		stdout:       &syncBuffer{},
		stderr:       &syncBuffer{},
	}
	m.transcripts = &mockTranscriptFactory{provider: m.provider}
	m.generators = &mockGeneratorFactory{generator: m.generator}

	if getenv == nil {
		getenv = func(key string) string { return testKeys[key] }
	}

	env := NewEnv(
		WithStdout(m.stdout),
		WithStderr(m.stderr),
		WithGetenv(getenv),
		WithConfigLoader(m.configLoader),
		WithTranscriptFactory(m.transcripts),
		WithGeneratorFactory(m.generators),
	)
	return env, m
}
