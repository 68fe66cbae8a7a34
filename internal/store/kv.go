package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// KVRepo is a string key-value table. It backs the default progress
// storage so progress and the event log share one database file.
type KVRepo struct {
	drv *entsql.Driver
}

func (r *KVRepo) Get(ctx context.Context, key string) (string, bool, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("value").
		From(entsql.Table("kv")).
		Where(entsql.EQ("storage_key", key)).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return "", false, fmt.Errorf("query kv %s: %w", key, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return "", false, fmt.Errorf("query kv %s: %w", key, err)
		}
		return "", false, nil
	}
	var value string
	if err := rows.Scan(&value); err != nil {
		return "", false, fmt.Errorf("scan kv %s: %w", key, err)
	}
	return value, true, nil
}

func (r *KVRepo) Set(ctx context.Context, key, value string) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Insert("kv").
		Columns("storage_key", "value", "updated_at").
		Values(key, value, formatTime(time.Now())).
		OnConflict(
			entsql.ConflictColumns("storage_key"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("upsert kv %s: %w", key, err)
	}
	return nil
}

func (r *KVRepo) Delete(ctx context.Context, key string) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Delete("kv").
		Where(entsql.EQ("storage_key", key)).
		Query()

	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("delete kv %s: %w", key, err)
	}
	return nil
}

// Keys lists stored keys with the given prefix in ascending order.
func (r *KVRepo) Keys(ctx context.Context, prefix string) ([]string, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("storage_key").
		From(entsql.Table("kv")).
		Where(entsql.HasPrefix("storage_key", prefix)).
		OrderBy("storage_key").
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("list kv keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan kv key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Close is a no-op; the owning Store closes the connection.
func (r *KVRepo) Close() error { return nil }

// timeLayout sorts lexically for UTC values.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
