package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// StepResult records one of the eight pipeline steps' outcome for a Run,
// mirroring pipeline.StepResult (§4.2) without the full artifact body —
// the artifact itself stays on disk under the run directory; this table
// only indexes its status for cross-run queries.
type StepResult struct {
	ent.Schema
}

func (StepResult) Fields() []ent.Field {
	return []ent.Field{
		field.Int("step_num"),
		field.String("status").
			Comment("ok, warning, or failed"),
		field.Int64("duration_ms"),
		field.String("error").
			Optional().
			Nillable(),
	}
}

func (StepResult) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("run", Run.Type).
			Ref("steps").
			Unique().
			Required(),
	}
}

func (StepResult) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("step_num"),
	}
}
