package scheduler

import (
	"context"

	"github.com/intentguard/core/pkg/models"
)

// IdentitySovereigntyProvider reads the most recent identity vector from
// a shared pointer, populated by whatever keeps `<data>/identity-vector.json`
// current (§6 "Identity file... optional convenience pointer always
// reflecting the most recent successful step 4"). A nil identity means no
// pipeline run has completed yet.
type IdentitySovereigntyProvider struct {
	Loader func(ctx context.Context) (models.IdentityVector, error)
}

func (p IdentitySovereigntyProvider) CurrentIdentity(ctx context.Context) (models.IdentityVector, error) {
	return p.Loader(ctx)
}
