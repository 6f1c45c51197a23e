package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Run holds the schema definition for one content-addressed pipeline run
// (§3 DATA MODEL "PipelineRun"). Never gates checkPermission — the index
// is read-only history, not an authority the FIM engine consults.
type Run struct {
	ent.Schema
}

func (Run) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("run_id").
			Unique().
			Immutable().
			Comment("content-addressed: timestamp + blake2b seed hash"),
		field.Time("started_at").
			Default(time.Now),
		field.Time("completed_at").
			Optional().
			Nillable(),
		field.Int("from_step").
			Default(0),
		field.Int("to_step").
			Default(7),
		field.String("status").
			Comment("ok, warning, or failed — derived from worst step result"),
	}
}

func (Run) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("steps", StepResult.Type),
		edge.To("identity_snapshot", IdentitySnapshot.Type).
			Unique(),
	}
}

func (Run) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("started_at"),
		index.Fields("status"),
	}
}
