package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := insert("session_events", []string{
		"sequence", "timestamp_ms", "session_id", "action", "exam", "task",
		"topic", "word_count", "remaining_secs", "score",
	},
		seqNum, time.Now().UnixMilli(), data.SessionID, data.Action, data.Exam, data.Task,
		data.Topic, data.WordCount, data.RemainingSecs, data.Score,
	)
	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) QuerySessionEvents(ctx context.Context, opts QueryOpts) ([]SessionEventRecord, error) {
	var extra []*entsql.Predicate
	if opts.SessionID != "" {
		extra = append(extra, entsql.EQ("session_id", opts.SessionID))
	}
	query, args := selectEvents("session_events", []string{
		"id", "sequence", "timestamp_ms", "session_id", "action", "exam", "task", "topic",
		"word_count", "remaining_secs", "score",
	}, opts, extra...)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	defer rows.Close()

	var records []SessionEventRecord
	for rows.Next() {
		var (
			rec SessionEventRecord
			ts  int64
		)
		if err := rows.Scan(&rec.ID, &rec.Sequence, &ts, &rec.SessionID, &rec.Action, &rec.Exam,
			&rec.Task, &rec.Topic, &rec.WordCount, &rec.RemainingSecs, &rec.Score); err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		rec.Timestamp = time.UnixMilli(ts)
		records = append(records, rec)
	}
	return records, rows.Err()
}
