package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

var lessonEventColumns = []string{
	"id", "sequence", "timestamp", "view_id", "wallet", "track", "lesson_id",
	"kind", "question_id", "choice_id", "correct", "xp", "detail",
}

func (r *eventRepo) AppendLessonEvent(ctx context.Context, data LessonEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert("lesson_events").
		Columns("sequence", "timestamp", "view_id", "wallet", "track", "lesson_id",
			"kind", "question_id", "choice_id", "correct", "xp", "detail").
		Values(seqNum, formatTime(time.Now()), data.ViewID, data.Wallet, data.Track, data.LessonID,
			data.Kind, data.QuestionID, data.ChoiceID, boolInt(data.Correct), data.XP, data.Detail).
		Query()

	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save lesson event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLessonEvents(ctx context.Context, opts QueryOpts) ([]LessonEventRecord, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(lessonEventColumns...).
		From(entsql.Table("lesson_events"))

	if opts.Wallet != "" {
		sel = sel.Where(entsql.EQ("wallet", opts.Wallet))
	}
	if opts.Track != "" {
		sel = sel.Where(entsql.EQ("track", opts.Track))
	}
	if opts.LessonID != "" {
		sel = sel.Where(entsql.EQ("lesson_id", opts.LessonID))
	}
	if opts.Kind != "" {
		sel = sel.Where(entsql.EQ("kind", opts.Kind))
	}
	query, args := opts.apply(sel).Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query lesson events: %w", err)
	}
	defer rows.Close()

	var records []LessonEventRecord
	for rows.Next() {
		var (
			rec     LessonEventRecord
			ts      string
			correct int
		)
		err := rows.Scan(&rec.ID, &rec.Sequence, &ts, &rec.ViewID, &rec.Wallet, &rec.Track,
			&rec.LessonID, &rec.Kind, &rec.QuestionID, &rec.ChoiceID, &correct, &rec.XP, &rec.Detail)
		if err != nil {
			return nil, fmt.Errorf("scan lesson event: %w", err)
		}
		rec.Timestamp = parseTime(ts)
		rec.Correct = correct != 0
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query lesson events: %w", err)
	}
	return records, nil
}
