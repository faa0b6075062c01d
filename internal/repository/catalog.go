package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/plcwatch/go-plc-alerts/internal/models"
)

// Resolve looks up the static metadata for a fault code. A miss is a
// catalog inconsistency surfaced as ErrUnknownErrorCode, distinct from
// infrastructure failure.
func (s *SQLiteDB) Resolve(ctx context.Context, errorCode int) (*models.CatalogEntry, error) {
	var e models.CatalogEntry
	err := s.db.QueryRowContext(ctx, `
		SELECT error_code, severity, category, alert_detail, invoke_condition,
			tag_name, tag_description
		FROM error_catalog WHERE error_code = ?`, errorCode).
		Scan(&e.ErrorCode, &e.Severity, &e.Category, &e.AlertDetail,
			&e.InvokeCondition, &e.TagName, &e.TagDescription)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownErrorCode, errorCode)
	}
	if err != nil {
		return nil, fmt.Errorf("error querying catalog: %w", err)
	}
	return &e, nil
}

// Seed upserts catalog entries. Run at startup; idempotent.
func (s *SQLiteDB) Seed(ctx context.Context, entries []models.CatalogEntry) error {
	for _, e := range entries {
		if _, err := models.ParseSeverity(string(e.Severity)); err != nil {
			return fmt.Errorf("invalid catalog entry %d: %w", e.ErrorCode, err)
		}
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO error_catalog (error_code, severity, category,
				alert_detail, invoke_condition, tag_name, tag_description)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(error_code) DO UPDATE SET
				severity = excluded.severity,
				category = excluded.category,
				alert_detail = excluded.alert_detail,
				invoke_condition = excluded.invoke_condition,
				tag_name = excluded.tag_name,
				tag_description = excluded.tag_description`,
			e.ErrorCode, e.Severity, e.Category, e.AlertDetail,
			e.InvokeCondition, e.TagName, e.TagDescription,
		)
		if err != nil {
			return fmt.Errorf("error seeding catalog entry %d: %w", e.ErrorCode, err)
		}
	}
	return nil
}

// LoadCatalogFile reads catalog entries from a JSON file.
func LoadCatalogFile(path string) ([]models.CatalogEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading catalog file: %w", err)
	}
	var entries []models.CatalogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("error decoding catalog file: %w", err)
	}
	return entries, nil
}
