// Package correlator turns an abnormal fault code into a durable alert
// record via the error catalog.
package correlator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/plcwatch/go-plc-alerts/internal/models"
	"github.com/plcwatch/go-plc-alerts/internal/repository"
)

type Correlator struct {
	catalog repository.CatalogRepository
	alerts  repository.AlertRepository
}

func New(catalog repository.CatalogRepository, alerts repository.AlertRepository) *Correlator {
	return &Correlator{
		catalog: catalog,
		alerts:  alerts,
	}
}

// Correlate resolves the catalog entry for a fault code and persists a
// fresh OPEN alert with the catalog fields copied verbatim. A catalog
// miss propagates repository.ErrUnknownErrorCode and creates nothing.
// Every call mints a new alert; there is no merge with an existing OPEN
// alert for the same code.
func (c *Correlator) Correlate(ctx context.Context, errorCode int, openedAtUTC string) (*models.Alert, error) {
	entry, err := c.catalog.Resolve(ctx, errorCode)
	if err != nil {
		return nil, fmt.Errorf("resolving error code %d: %w", errorCode, err)
	}

	alert := &models.Alert{
		ID:          uuid.NewString(),
		OpenedAt:    openedAtUTC,
		ClosedAt:    "",
		Status:      models.StatusOpen,
		Severity:    entry.Severity,
		Category:    entry.Category,
		Detail:      entry.Detail(),
		Name:        entry.TagName,
		Description: entry.TagDescription,
		MeetingIDs:  []string{},
	}

	if err := c.alerts.Create(ctx, alert); err != nil {
		return nil, fmt.Errorf("creating alert for error code %d: %w", errorCode, err)
	}

	slog.Info("alert created",
		"alert_id", alert.ID, "error_code", errorCode, "severity", alert.Severity)
	return alert, nil
}
