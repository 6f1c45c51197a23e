package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// IdentitySnapshot is one run's step-4 identity vector, kept for the
// /identity/latest and drift-over-time report endpoints (§3 DATA MODEL
// "IdentityVector").
type IdentitySnapshot struct {
	ent.Schema
}

func (IdentitySnapshot) Fields() []ent.Field {
	return []ent.Field{
		field.Time("computed_at").
			Default(time.Now),
		field.Float("sovereignty_score"),
		field.JSON("category_scores", map[string]float64{}),
		field.String("signature").
			Comment("blake2b keyed-hash detached signature, hex-encoded"),
	}
}

func (IdentitySnapshot) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("run", Run.Type).
			Ref("identity_snapshot").
			Unique().
			Required(),
	}
}

func (IdentitySnapshot) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("computed_at"),
	}
}
