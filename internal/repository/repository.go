package repository

import (
	"context"
	"errors"

	"github.com/plcwatch/go-plc-alerts/internal/models"
)

var (
	// ErrNotFound is the negative result for lifecycle operations on an
	// absent alert id.
	ErrNotFound = errors.New("alert not found")

	// ErrDuplicateID guards create semantics. Ids are minted fresh, so
	// this is expected never to trigger in practice.
	ErrDuplicateID = errors.New("alert id already exists")

	// ErrUnknownErrorCode signals a catalog miss: a data inconsistency
	// the caller must see, never retried here.
	ErrUnknownErrorCode = errors.New("error code not in catalog")
)

// Filter selects alerts by lifecycle status with a result-count ceiling.
type Filter struct {
	Status          models.Status
	Limit           int
	MostRecentFirst bool // order by opened_at descending
}

type AlertRepository interface {
	Create(ctx context.Context, a *models.Alert) error
	GetByID(ctx context.Context, id string) (*models.Alert, error)
	Update(ctx context.Context, id string, patch models.AlertPatch) (*models.Alert, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
	List(ctx context.Context, opts Filter) ([]models.Alert, error)
}

type CatalogRepository interface {
	Resolve(ctx context.Context, errorCode int) (*models.CatalogEntry, error)
	Seed(ctx context.Context, entries []models.CatalogEntry) error
}

// Measurement is one raw time-series sample from a PLC control loop.
type Measurement struct {
	LoopName    string
	MeasureName string
	Timestamp   string // ISO-8601 UTC
	Value       string
}

type MeasurementRepository interface {
	Insert(ctx context.Context, m Measurement) error
	Query(ctx context.Context, loopName, start, end string) ([]Measurement, error)
}
