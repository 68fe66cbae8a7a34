package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
)

// KVEntry is one progress record in the SQLite backend.
type KVEntry struct {
	ent.Schema
}

func (KVEntry) Annotations() []schema.Annotation {
	return []schema.Annotation{entsql.Annotation{Table: "kv"}}
}

func (KVEntry) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("storage_key").
			NotEmpty().
			Comment("progress:<identity>"),
		field.Text("value").
			Comment("JSON progress record"),
		field.String("updated_at"),
	}
}
