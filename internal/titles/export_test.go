package titles

// Test-only exports for injecting mocks into unexported fields.

// WithChatCompleter exposes the unexported chat completer option so
// black-box tests can stub the LLM call.
var WithChatCompleter = withChatCompleter

// ClassifyGenerationError exposes error classification for direct tests.
var ClassifyGenerationError = classifyGenerationError
