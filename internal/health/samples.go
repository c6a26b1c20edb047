package health

import (
	"database/sql"
	"fmt"
	"time"
)

func (s *Store) AddSample(kind SampleKind, start, end time.Time, value float64) (*Sample, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("add sample: end %s before start %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	if value < 0 {
		return nil, fmt.Errorf("add sample: negative value %v", value)
	}
	res, err := s.db.Exec(
		`INSERT INTO samples (kind, start_time, end_time, value) VALUES (?, ?, ?, ?)`,
		int(kind), start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339), value,
	)
	if err != nil {
		return nil, fmt.Errorf("add sample: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetSample(id)
}

func (s *Store) GetSample(id int64) (*Sample, error) {
	sm := &Sample{}
	var kind int
	var startTime, endTime, createdAt string

	err := s.db.QueryRow(
		`SELECT id, kind, start_time, end_time, value, created_at
		 FROM samples WHERE id = ?`, id,
	).Scan(&sm.ID, &kind, &startTime, &endTime, &sm.Value, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("get sample %d: %w", id, err)
	}
	sm.Kind = SampleKind(kind)
	sm.Start, _ = time.Parse(time.RFC3339, startTime)
	sm.End, _ = time.Parse(time.RFC3339, endTime)
	sm.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return sm, nil
}

func (s *Store) ListSamples(f SampleFilter) ([]Sample, error) {
	query := `SELECT id, kind, start_time, end_time, value, created_at FROM samples WHERE 1=1`
	var args []any

	if f.Kind != nil {
		query += ` AND kind = ?`
		args = append(args, int(*f.Kind))
	}
	if f.From != nil {
		query += ` AND start_time >= ?`
		args = append(args, f.From.UTC().Format(time.RFC3339))
	}
	if f.To != nil {
		query += ` AND start_time < ?`
		args = append(args, f.To.UTC().Format(time.RFC3339))
	}
	query += ` ORDER BY start_time`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list samples: %w", err)
	}
	defer rows.Close()

	var samples []Sample
	for rows.Next() {
		var sm Sample
		var kind int
		var startTime, endTime, createdAt string
		if err := rows.Scan(&sm.ID, &kind, &startTime, &endTime, &sm.Value, &createdAt); err != nil {
			return nil, err
		}
		sm.Kind = SampleKind(kind)
		sm.Start, _ = time.Parse(time.RFC3339, startTime)
		sm.End, _ = time.Parse(time.RFC3339, endTime)
		sm.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		samples = append(samples, sm)
	}
	return samples, rows.Err()
}

// SumValues returns the sum of sample values of the given kind whose start
// falls in [from, to). Used for the cumulative metrics (steps, energy).
func (s *Store) SumValues(kind SampleKind, from, to time.Time) (float64, error) {
	var total sql.NullFloat64
	err := s.db.QueryRow(`
		SELECT COALESCE(SUM(value), 0)
		FROM samples
		WHERE kind = ? AND start_time >= ? AND start_time < ?`,
		int(kind), from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339),
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum %s: %w", kind, err)
	}
	return total.Float64, nil
}

// AverageValue returns the mean sample value of the given kind in [from, to),
// or nil when the window holds no samples. Used for discrete metrics
// (heart rate), where an empty window must read as absent, not zero.
func (s *Store) AverageValue(kind SampleKind, from, to time.Time) (*float64, error) {
	var avg sql.NullFloat64
	err := s.db.QueryRow(`
		SELECT AVG(value)
		FROM samples
		WHERE kind = ? AND start_time >= ? AND start_time < ?`,
		int(kind), from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339),
	).Scan(&avg)
	if err != nil {
		return nil, fmt.Errorf("average %s: %w", kind, err)
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}
