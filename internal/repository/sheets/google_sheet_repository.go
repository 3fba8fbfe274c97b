package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/saheed-11/milkyway-delivery-system-sub000/internal/config"
	"github.com/saheed-11/milkyway-delivery-system-sub000/internal/domain/models"
)

const dayCloseRange = "DayClose!A:G"

// Repository is the day-close export sink. Rows are append-only; the
// spreadsheet is a human-facing mirror of the archive, never read back.
type Repository interface {
	AppendDayClose(ctx context.Context, record models.DailyStockArchive) error
}

// GoogleSheetRepository implements the Repository interface using the official
// Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed export sink.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendDayClose appends one archived day as a spreadsheet row.
func (r *GoogleSheetRepository) AppendDayClose(ctx context.Context, record models.DailyStockArchive) error {
	payload := &sheetsapi.ValueRange{Values: [][]interface{}{{
		record.Date,
		record.TotalStock,
		record.AvailableStock,
		record.SoldStock,
		record.SubscriptionDemand,
		record.LeftoverMilk,
		record.ArchivedAt.Format("2006-01-02 15:04:05"),
	}}}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, dayCloseRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append day close row for %s: %w", record.Date, err)
	}

	r.logger.Debug("day close exported", zap.String("date", record.Date))
	return nil
}
