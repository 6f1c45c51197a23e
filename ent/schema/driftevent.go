package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// DriftEvent is one recorded permission denial (§7 "Logged to the drift
// log by the caller"; fim.DriftLog's jsonl entries, mirrored here for the
// /drift-log report endpoint). Append-only; nothing here feeds back into
// CheckPermission, which only ever sees the current identity vector.
type DriftEvent struct {
	ent.Schema
}

func (DriftEvent) Fields() []ent.Field {
	return []ent.Field{
		field.Time("occurred_at").
			Default(time.Now),
		field.String("tool"),
		field.Float("overlap"),
		field.Float("sovereignty"),
		field.JSON("failed_categories", []string{}).
			Comment("category IDs the requirement failed against, in fim.Overlap's sorted order"),
	}
}

func (DriftEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("tool"),
		index.Fields("occurred_at"),
	}
}
