package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/plcwatch/go-plc-alerts/internal/models"
)

func setupTestDB(t *testing.T) *SQLiteDB {
	db, err := NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	return db
}

func testAlert(id, openedAt string) *models.Alert {
	return &models.Alert{
		ID:          id,
		OpenedAt:    openedAt,
		Status:      models.StatusOpen,
		Severity:    models.SeverityHigh,
		Category:    "F0023",
		Detail:      "System breakdown\nPressure over threshold",
		Name:        "water_pressure_pv",
		Description: "Water pressure sensor at location xxx",
		MeetingIDs:  []string{},
	}
}

func TestSQLiteDB_CreateAndGetAlert(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	alert := testAlert("a1", "2024-02-21T07:09:35.603000Z")

	if err := db.Create(ctx, alert); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := db.GetByID(ctx, "a1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.StatusOpen {
		t.Errorf("expected OPEN, got %s", got.Status)
	}
	if got.ClosedAt != "" {
		t.Errorf("expected empty closedAt, got %q", got.ClosedAt)
	}
	if got.Name != "water_pressure_pv" {
		t.Errorf("unexpected tag name: %s", got.Name)
	}
	if len(got.MeetingIDs) != 0 {
		t.Errorf("expected no meeting ids, got %v", got.MeetingIDs)
	}
}

func TestSQLiteDB_CreateDuplicateID(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	if err := db.Create(ctx, testAlert("a1", "2024-02-21T07:09:35.603000Z")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	err := db.Create(ctx, testAlert("a1", "2024-02-21T08:00:00.000000Z"))
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID, got %v", err)
	}
}

func TestSQLiteDB_GetMissing(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, err := db.GetByID(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteDB_UpdateSparse(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	alert := testAlert("a1", "2024-02-21T07:09:35.603000Z")
	alert.Comment = "keep me"
	if err := db.Create(ctx, alert); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	status := models.StatusClose
	closedAt := "2024-02-21T09:00:00.000000Z"
	got, err := db.Update(ctx, "a1", models.AlertPatch{
		Status:   &status,
		ClosedAt: &closedAt,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if got.Status != models.StatusClose {
		t.Errorf("expected CLOSE, got %s", got.Status)
	}
	if got.ClosedAt != closedAt {
		t.Errorf("expected closedAt %s, got %s", closedAt, got.ClosedAt)
	}
	// Field absent from the patch stays untouched.
	if got.Comment != "keep me" {
		t.Errorf("expected comment unchanged, got %q", got.Comment)
	}
}

func TestSQLiteDB_UpdateEmptyPatch(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	if err := db.Create(ctx, testAlert("a1", "2024-02-21T07:09:35.603000Z")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := db.Update(ctx, "a1", models.AlertPatch{})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.Status != models.StatusOpen || got.ClosedAt != "" {
		t.Errorf("empty patch changed the alert: %+v", got)
	}
}

func TestSQLiteDB_UpdateMissing(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	comment := "hello"
	_, err := db.Update(context.Background(), "nope", models.AlertPatch{Comment: &comment})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteDB_Delete(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	if err := db.Create(ctx, testAlert("a1", "2024-02-21T07:09:35.603000Z")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := db.Delete(ctx, "a1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := db.Delete(ctx, "a1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestSQLiteDB_DeleteAll(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	for _, id := range []string{"a1", "a2", "a3"} {
		if err := db.Create(ctx, testAlert(id, "2024-02-21T07:09:35.603000Z")); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	n, err := db.DeleteAll(ctx)
	if err != nil {
		t.Fatalf("DeleteAll failed: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 deleted, got %d", n)
	}

	n, err = db.DeleteAll(ctx)
	if err != nil {
		t.Fatalf("DeleteAll on empty store failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 deleted, got %d", n)
	}
}

func TestSQLiteDB_ListByStatus(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	open1 := testAlert("open1", "2024-02-20T12:08:33.603000Z")
	open2 := testAlert("open2", "2024-02-22T08:08:36.603000Z")
	closed := testAlert("closed1", "2024-02-21T14:08:37.603000Z")
	closed.Status = models.StatusClose
	closed.ClosedAt = "2024-02-21T16:08:33.603000Z"

	for _, a := range []*models.Alert{open1, open2, closed} {
		if err := db.Create(ctx, a); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	got, err := db.List(ctx, Filter{Status: models.StatusOpen, Limit: 250, MostRecentFirst: true})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 open alerts, got %d", len(got))
	}
	if got[0].ID != "open2" || got[1].ID != "open1" {
		t.Errorf("expected most recent first, got %s then %s", got[0].ID, got[1].ID)
	}
}

func TestSQLiteDB_ListLimitAndEmpty(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	for _, id := range []string{"a1", "a2", "a3"} {
		if err := db.Create(ctx, testAlert(id, "2024-02-21T07:09:35.603000Z")); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	got, err := db.List(ctx, Filter{Status: models.StatusOpen, Limit: 2})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 alerts, got %d", len(got))
	}

	// Absence of matches is not an error.
	got, err = db.List(ctx, Filter{Status: models.StatusClose, Limit: 250})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no closed alerts, got %d", len(got))
	}
}

func TestSQLiteDB_CatalogResolve(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	entries := []models.CatalogEntry{
		{
			ErrorCode:       12,
			Severity:        models.SeverityCritical,
			Category:        "F0023",
			AlertDetail:     "System breakdown",
			InvokeCondition: "Pressure over threshold",
			TagName:         "water_pressure_pv",
			TagDescription:  "Water pressure sensor at location xxx",
		},
	}
	if err := db.Seed(ctx, entries); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	got, err := db.Resolve(ctx, 12)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got.Severity != models.SeverityCritical {
		t.Errorf("unexpected severity: %s", got.Severity)
	}
	if got.Detail() != "System breakdown\nPressure over threshold" {
		t.Errorf("unexpected detail: %q", got.Detail())
	}

	_, err = db.Resolve(ctx, 999)
	if !errors.Is(err, ErrUnknownErrorCode) {
		t.Errorf("expected ErrUnknownErrorCode, got %v", err)
	}
}

func TestSQLiteDB_CatalogSeedIdempotent(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	entry := models.CatalogEntry{
		ErrorCode: 7, Severity: models.SeverityLow, Category: "F0001",
		AlertDetail: "old", InvokeCondition: "cond", TagName: "t", TagDescription: "d",
	}
	if err := db.Seed(ctx, []models.CatalogEntry{entry}); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	entry.AlertDetail = "new"
	if err := db.Seed(ctx, []models.CatalogEntry{entry}); err != nil {
		t.Fatalf("second Seed failed: %v", err)
	}

	got, err := db.Resolve(ctx, 7)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got.AlertDetail != "new" {
		t.Errorf("expected upserted detail, got %q", got.AlertDetail)
	}
}

func TestSQLiteDB_CatalogSeedInvalidSeverity(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	err := db.Seed(context.Background(), []models.CatalogEntry{
		{ErrorCode: 1, Severity: "EXTREME"},
	})
	if err == nil {
		t.Error("expected error for invalid severity")
	}
}

func TestSQLiteDB_Measurements(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	samples := []Measurement{
		{LoopName: "tank_pressure", MeasureName: "pressure", Timestamp: "2024-04-11T06:20:03.000000Z", Value: "1.2"},
		{LoopName: "tank_pressure", MeasureName: "pressure", Timestamp: "2024-04-11T06:20:01.000000Z", Value: "1.0"},
		{LoopName: "tank_pressure", MeasureName: "flow", Timestamp: "2024-04-11T06:20:01.000000Z", Value: "3.4"},
		{LoopName: "other_loop", MeasureName: "pressure", Timestamp: "2024-04-11T06:20:01.000000Z", Value: "9.9"},
	}
	for _, m := range samples {
		if err := db.Insert(ctx, m); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	got, err := db.Query(ctx, "tank_pressure", "2024-04-11T06:00:00.000000Z", "2024-04-11T07:00:00.000000Z")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 measurements, got %d", len(got))
	}
	// Ordered by time.
	if got[0].Timestamp > got[1].Timestamp || got[1].Timestamp > got[2].Timestamp {
		t.Errorf("measurements not time ordered: %+v", got)
	}

	got, err = db.Query(ctx, "tank_pressure", "2025-01-01T00:00:00.000000Z", "2025-01-02T00:00:00.000000Z")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no measurements in window, got %d", len(got))
	}
}
