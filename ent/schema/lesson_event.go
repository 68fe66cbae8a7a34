package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// LessonEvent records one learner action inside a lesson view: opening it,
// submitting an answer, completing it or sending a receipt.
type LessonEvent struct {
	ent.Schema
}

func (LessonEvent) Annotations() []schema.Annotation {
	return []schema.Annotation{entsql.Annotation{Table: "lesson_events"}}
}

func (LessonEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (LessonEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("view_id").NotEmpty().
			Comment("Random id of the lesson view the action happened in"),
		field.String("wallet").Default("").
			Comment("Identity whose progress was affected; empty is anonymous"),
		field.String("track").NotEmpty(),
		field.String("lesson_id").NotEmpty(),
		field.Enum("kind").
			Values("opened", "submitted", "completed", "receipt", "receipt_failed"),
		field.String("question_id").Default(""),
		field.String("choice_id").Default(""),
		field.Bool("correct").Default(false),
		field.Int("xp").Default(0).
			Comment("XP awarded by this action"),
		field.String("detail").Default("").
			Comment("Receipt signature or failure text"),
	}
}

func (LessonEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("track", "lesson_id"),
		index.Fields("wallet"),
	}
}
