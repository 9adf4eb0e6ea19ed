package reporting

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	repo "github.com/mamadbah2/warehouse-tracker/internal/repository/sheets"
	"github.com/mamadbah2/warehouse-tracker/internal/service/inventory"
)

const (
	dateLayout         = "2006-01-02"
	inventoryDataRange = "Inventory!A:D"
	exportDatesRange   = "Inventory!A:A"
)

// SnapshotSource exposes the last fetched application state.
type SnapshotSource interface {
	Snapshot() inventory.State
}

// Service copies inventory snapshots into the reporting spreadsheet.
type Service struct {
	repo   repo.Repository
	source SnapshotSource
	logger *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(repository repo.Repository, source SnapshotSource, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repository, source: source, logger: logger}
}

// ExportInventory appends one row per inventory summary entry, stamped with
// the date of at. A date that already has rows in the sheet is skipped so a
// restarted scheduler does not export twice. It returns the number of rows
// written.
func (s *Service) ExportInventory(ctx context.Context, at time.Time) (int, error) {
	state := s.source.Snapshot()
	date := at.Format(dateLayout)

	if len(state.Inventory) == 0 {
		s.logger.Info("inventory snapshot empty, nothing to export", zap.String("date", date))
		return 0, nil
	}

	exported, err := s.alreadyExported(ctx, at)
	if err != nil {
		return 0, err
	}
	if exported {
		s.logger.Info("inventory already exported for date", zap.String("date", date))
		return 0, nil
	}

	rows := make([][]interface{}, 0, len(state.Inventory))
	for _, entry := range state.Inventory {
		rows = append(rows, []interface{}{date, entry.Product, entry.SKU, entry.CurrentStock})
	}

	if err := s.repo.AppendRows(ctx, inventoryDataRange, rows); err != nil {
		return 0, fmt.Errorf("export inventory: %w", err)
	}

	s.logger.Info("inventory exported", zap.String("date", date), zap.Int("rows", len(rows)))
	return len(rows), nil
}

func (s *Service) alreadyExported(ctx context.Context, at time.Time) (bool, error) {
	rows, err := s.repo.ReadRange(ctx, exportDatesRange)
	if err != nil {
		return false, fmt.Errorf("load export dates: %w", err)
	}

	day := at.Format(dateLayout)
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		dateValue, err := parseDate(row[0])
		if err != nil {
			s.logger.Debug("skip export row with invalid date", zap.Any("value", row[0]), zap.Error(err))
			continue
		}
		if dateValue.Format(dateLayout) == day {
			return true, nil
		}
	}
	return false, nil
}

func parseDate(value interface{}) (time.Time, error) {
	str := fmt.Sprint(value)
	if str == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if len(str) > 10 {
		str = str[:10]
	}
	return time.Parse(dateLayout, str)
}
