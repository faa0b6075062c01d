package repository

import (
	"context"
	"fmt"
)

func (s *SQLiteDB) Insert(ctx context.Context, m Measurement) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO measurements (loop_name, measure_name, timestamp, value)
		VALUES (?, ?, ?, ?)`,
		m.LoopName, m.MeasureName, m.Timestamp, m.Value,
	)
	if err != nil {
		return fmt.Errorf("error inserting measurement: %w", err)
	}
	return nil
}

// Query returns the samples for one control loop inside [start, end],
// ordered by time. No matches is an empty result, not an error.
func (s *SQLiteDB) Query(ctx context.Context, loopName, start, end string) ([]Measurement, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT loop_name, measure_name, timestamp, value
		FROM measurements
		WHERE loop_name = ? AND timestamp BETWEEN ? AND ?
		ORDER BY timestamp`,
		loopName, start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying measurements: %w", err)
	}
	defer rows.Close()

	var out []Measurement
	for rows.Next() {
		var m Measurement
		if err := rows.Scan(&m.LoopName, &m.MeasureName, &m.Timestamp, &m.Value); err != nil {
			return nil, fmt.Errorf("error scanning measurement: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
