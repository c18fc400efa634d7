package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mawucano-design/diagnostico-forrajero/internal/config"
	"github.com/mawucano-design/diagnostico-forrajero/internal/domain/models"
)

const (
	summaryRange = "Resumen!A:K"
	parcelsRange = "Parcelas!A:O"
)

// Repository defines the report-export operations supported by the Google
// Sheets adapter.
type Repository interface {
	AppendSummary(ctx context.Context, record models.AnalysisRecord) error
	AppendParcelRows(ctx context.Context, record models.AnalysisRecord) error
}

// GoogleSheetRepository implements the Repository interface using the official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
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

// AppendSummary appends the one-line run summary to the report sheet.
func (r *GoogleSheetRepository) AppendSummary(ctx context.Context, record models.AnalysisRecord) error {
	row := []interface{}{
		record.ID,
		record.CreatedAt.Format("2006-01-02 15:04"),
		string(record.PastureType),
		string(record.Source),
		record.Summary.ParcelCount,
		record.Summary.TotalAreaHectares,
		record.Summary.MeanAvailableBiomassKgHa,
		record.Summary.MeanVegetationIndex,
		record.Summary.TotalSupportableUnits,
		record.Summary.MeanGrazingDurationDays,
		record.Condition,
	}
	return r.appendRow(ctx, summaryRange, row)
}

// AppendParcelRows appends one row per parcel to the detail sheet.
func (r *GoogleSheetRepository) AppendParcelRows(ctx context.Context, record models.AnalysisRecord) error {
	for _, p := range record.Parcels {
		row := []interface{}{
			record.ID,
			p.ParcelID,
			p.AreaHectares,
			p.VegetationIndex,
			string(p.SurfaceCategory),
			p.CoverFraction,
			p.TotalBiomassKgHa,
			p.AvailableBiomassKgHa,
			p.BiomassResult.DailyGrowthKgHaDay,
			p.QualityFactor,
			p.SupportableAnimalUnits,
			p.AnimalUnitsPerHectare,
			p.GrazingDurationDays,
			p.UtilizationRatio,
			p.StatusTier.Label(),
		}
		if err := r.appendRow(ctx, parcelsRange, row); err != nil {
			return err
		}
	}
	return nil
}

// appendRow appends the provided values to the supplied sheet range.
func (r *GoogleSheetRepository) appendRow(ctx context.Context, sheetRange string, values []interface{}) error {
	if sheetRange == "" {
		return fmt.Errorf("sheetRange must not be empty")
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, sheetRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append row into range %s: %w", sheetRange, err)
	}

	r.logger.Debug("row appended to sheet", zap.String("range", sheetRange))
	return nil
}
