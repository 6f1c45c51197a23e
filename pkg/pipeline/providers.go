package pipeline

import (
	"github.com/intentguard/core/pkg/masking"
	"github.com/intentguard/core/pkg/sign"
)

// Providers bundles the pipeline's external collaborators so no step
// reaches for an ambient global (§9 "Global state → injected providers").
// Every step function receives the same bundle explicitly.
type Providers struct {
	Corpus CorpusProvider
	Signer *sign.Signer

	// Masker scrubs RawDocument content before step 0 persists it. Nil
	// falls back to masking.NewService()'s builtin pattern set.
	Masker *masking.Service
}
