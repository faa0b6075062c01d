package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/plcwatch/go-plc-alerts/internal/models"
)

const alertColumns = `id, opened_at, closed_at, status, severity, category,
	detail, name, description, closed_by, comment, conversation_id, meeting_ids`

func (s *SQLiteDB) Create(ctx context.Context, a *models.Alert) error {
	meetingIDs, err := json.Marshal(a.MeetingIDs)
	if err != nil {
		return fmt.Errorf("error encoding meeting ids: %w", err)
	}

	exists, err := s.alertExists(ctx, a.ID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, a.ID)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO alerts (`+alertColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.OpenedAt, a.ClosedAt, a.Status, a.Severity, a.Category,
		a.Detail, a.Name, a.Description, a.ClosedBy, a.Comment,
		a.ConversationID, string(meetingIDs),
	)
	if err != nil {
		return fmt.Errorf("error inserting alert: %w", err)
	}
	return nil
}

func (s *SQLiteDB) alertExists(ctx context.Context, id string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM alerts WHERE id = ?`, id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("error checking alert existence: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteDB) GetByID(ctx context.Context, id string) (*models.Alert, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+alertColumns+` FROM alerts WHERE id = ?`, id)
	a, err := scanAlert(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("error querying alert: %w", err)
	}
	return a, nil
}

// Update applies only the fields present in the patch; the SET clause is
// built from exactly those fields. An empty patch reads the alert back
// without touching the row.
func (s *SQLiteDB) Update(ctx context.Context, id string, patch models.AlertPatch) (*models.Alert, error) {
	if patch.IsEmpty() {
		return s.GetByID(ctx, id)
	}

	var sets []string
	var args []any
	if patch.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *patch.Status)
	}
	if patch.ClosedAt != nil {
		sets = append(sets, "closed_at = ?")
		args = append(args, *patch.ClosedAt)
	}
	if patch.ClosedBy != nil {
		sets = append(sets, "closed_by = ?")
		args = append(args, *patch.ClosedBy)
	}
	if patch.Comment != nil {
		sets = append(sets, "comment = ?")
		args = append(args, *patch.Comment)
	}
	if patch.ConversationID != nil {
		sets = append(sets, "conversation_id = ?")
		args = append(args, *patch.ConversationID)
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx,
		`UPDATE alerts SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("error updating alert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("error reading rows affected: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return s.GetByID(ctx, id)
}

func (s *SQLiteDB) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM alerts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("error deleting alert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (s *SQLiteDB) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM alerts`)
	if err != nil {
		return 0, fmt.Errorf("error deleting alerts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error reading rows affected: %w", err)
	}
	return n, nil
}

func (s *SQLiteDB) List(ctx context.Context, opts Filter) ([]models.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts`
	var args []any

	if opts.Status != "" {
		query += ` WHERE status = ?`
		args = append(args, opts.Status)
	}
	if opts.MostRecentFirst {
		query += ` ORDER BY opened_at DESC`
	} else {
		query += ` ORDER BY opened_at ASC`
	}
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing alerts: %w", err)
	}
	defer rows.Close()

	var alerts []models.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning alert: %w", err)
		}
		alerts = append(alerts, *a)
	}
	return alerts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAlert(row rowScanner) (*models.Alert, error) {
	var a models.Alert
	var meetingIDs string
	err := row.Scan(
		&a.ID, &a.OpenedAt, &a.ClosedAt, &a.Status, &a.Severity, &a.Category,
		&a.Detail, &a.Name, &a.Description, &a.ClosedBy, &a.Comment,
		&a.ConversationID, &meetingIDs,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(meetingIDs), &a.MeetingIDs); err != nil {
		return nil, fmt.Errorf("error decoding meeting ids: %w", err)
	}
	return &a, nil
}
