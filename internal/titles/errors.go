package titles

import "errors"

// ErrNoTitles indicates the model responded but extraction yielded zero
// candidate titles. Distinct from transport failures: the remedy is to
// inspect the raw response, not to retry the call. The Result returned
// alongside this error keeps the raw text for diagnostics.
var ErrNoTitles = errors.New("no titles parsed from model response")
