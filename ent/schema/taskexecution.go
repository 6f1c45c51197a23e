package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// TaskExecution records one scheduler emit() (§4.4), kept so the report
// API can show cooldown/budget history without the scheduler itself
// needing a persistence dependency — scheduler.ProactiveScheduler stays
// in-memory and fire-and-forget; it writes this row itself, through an
// optional Providers.Recorder, right after a successful substrate inject.
type TaskExecution struct {
	ent.Schema
}

func (TaskExecution) Fields() []ent.Field {
	return []ent.Field{
		field.String("task_name"),
		field.String("room"),
		field.String("tier").
			Comment("trusted, general, or blocked — the FIM tier at injection time"),
		field.Time("emitted_at").
			Default(time.Now),
	}
}

func (TaskExecution) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("task_name"),
		index.Fields("emitted_at"),
	}
}
