package analysis

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mawucano-design/diagnostico-forrajero/internal/domain/models"
	"github.com/mawucano-design/diagnostico-forrajero/internal/repository/mongodb"
	sheetsrepo "github.com/mawucano-design/diagnostico-forrajero/internal/repository/sheets"
	"github.com/mawucano-design/diagnostico-forrajero/internal/service/forage"
	"github.com/mawucano-design/diagnostico-forrajero/internal/service/reporting"
	"github.com/mawucano-design/diagnostico-forrajero/internal/service/simulation"
	"github.com/mawucano-design/diagnostico-forrajero/pkg/clients/satellite"
)

// conditionNoParcels is the condition recorded for an empty (but valid) run.
const conditionNoParcels = "no parcels analyzed"

// Service orchestrates the forage pipeline: parameter resolution, index
// acquisition, aggregation, recommendation building, and persistence. The
// pipeline itself receives all inputs as arguments and returns all outputs as
// values; the service owns only the wiring around it.
type Service struct {
	aggregator *forage.Aggregator
	repo       mongodb.Repository
	sheets     sheetsrepo.Repository
	satClient  satellite.Client
	maxDays    float64
	logger     *zap.Logger
	now        func() time.Time
	newID      func() string
}

// NewService wires a new analysis service. The sheets repository and satellite
// client are optional and may be nil.
func NewService(aggregator *forage.Aggregator, repo mongodb.Repository, sheets sheetsrepo.Repository, satClient satellite.Client, maxGrazingDays float64, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		aggregator: aggregator,
		repo:       repo,
		sheets:     sheets,
		satClient:  satClient,
		maxDays:    maxGrazingDays,
		logger:     logger,
		now:        time.Now,
		newID:      func() string { return primitive.NewObjectID().Hex() },
	}
}

// Run executes a full analysis for the request, persists the record, and
// mirrors it to the report sheet when configured.
func (s *Service) Run(ctx context.Context, req models.AnalysisRequest) (models.AnalysisRecord, error) {
	params, err := forage.ResolveParameters(req.PastureType, req.CustomParameters)
	if err != nil {
		return models.AnalysisRecord{}, err
	}

	parcels := req.Parcels
	source := models.SourceSupplied
	if req.Options.Simulate {
		parcels = simulation.New(req.Options.SimulationSeed).Fill(parcels)
		source = models.SourceSimulated
	}

	record, err := s.analyze(ctx, parcels, params, req, source)
	if err != nil {
		return models.AnalysisRecord{}, err
	}

	if err := s.persist(ctx, record); err != nil {
		return models.AnalysisRecord{}, err
	}
	return record, nil
}

// RunForPaddock re-analyzes a monitored paddock, pulling a fresh index per
// parcel from the satellite client when available and falling back to the
// deterministic simulator otherwise.
func (s *Service) RunForPaddock(ctx context.Context, paddock models.Paddock, asOf time.Time) (models.AnalysisRecord, error) {
	params, err := forage.ResolveParameters(paddock.PastureType, nil)
	if err != nil {
		return models.AnalysisRecord{}, err
	}

	parcels, source := s.acquireIndices(ctx, paddock, asOf)

	req := models.AnalysisRequest{
		PastureType:    paddock.PastureType,
		AnimalWeightKg: paddock.AnimalWeightKg,
		HerdSize:       paddock.HerdSize,
	}

	record, err := s.analyze(ctx, parcels, params, req, source)
	if err != nil {
		return models.AnalysisRecord{}, err
	}

	if err := s.persist(ctx, record); err != nil {
		return models.AnalysisRecord{}, err
	}
	return record, nil
}

// Get fetches a stored run.
func (s *Service) Get(ctx context.Context, id string) (models.AnalysisRecord, error) {
	return s.repo.FindAnalysis(ctx, id)
}

// List returns the most recent stored runs, newest first.
func (s *Service) List(ctx context.Context, limit int64) ([]models.AnalysisRecord, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return s.repo.ListAnalyses(ctx, limit)
}

// RegisterPaddock stores a paddock for scheduled monitoring.
func (s *Service) RegisterPaddock(ctx context.Context, paddock models.Paddock) (models.Paddock, error) {
	if paddock.ID == "" {
		paddock.ID = s.newID()
	}
	paddock.CreatedAt = s.now().UTC()

	if _, err := forage.ResolveParameters(paddock.PastureType, nil); err != nil {
		return models.Paddock{}, err
	}
	if err := s.repo.SavePaddock(ctx, paddock); err != nil {
		return models.Paddock{}, err
	}
	return paddock, nil
}

// ListPaddocks returns every monitored paddock.
func (s *Service) ListPaddocks(ctx context.Context) ([]models.Paddock, error) {
	return s.repo.ListPaddocks(ctx)
}

func (s *Service) analyze(ctx context.Context, parcels []models.ParcelObservation, params models.ForageParameters, req models.AnalysisRequest, source models.AnalysisSource) (models.AnalysisRecord, error) {
	opts := forage.LivestockOptions{
		MaxGrazingDays: s.maxDays,
		GrowthAdjusted: req.Options.GrowthAdjusted,
	}

	results, summary, err := s.aggregator.Run(ctx, parcels, params, req.AnimalWeightKg, req.HerdSize, opts)
	if err != nil {
		return models.AnalysisRecord{}, fmt.Errorf("run forage pipeline: %w", err)
	}

	record := models.AnalysisRecord{
		ID:             s.newID(),
		CreatedAt:      s.now().UTC(),
		PastureType:    req.PastureType,
		Parameters:     params,
		AnimalWeightKg: req.AnimalWeightKg,
		HerdSize:       req.HerdSize,
		Source:         source,
		Parcels:        results,
		Summary:        summary,
	}

	if summary.ParcelCount == 0 {
		record.Condition = conditionNoParcels
		s.logger.Warn("analysis ran with no parcels", zap.String("analysis_id", record.ID))
	} else {
		record.Condition = reporting.ConditionLabel(summary.MeanAvailableBiomassKgHa)
	}
	record.Recommendations = reporting.Recommendations(summary)

	s.logger.Info("analysis completed",
		zap.String("analysis_id", record.ID),
		zap.String("pasture_type", string(record.PastureType)),
		zap.String("source", string(source)),
		zap.Int("parcels", summary.ParcelCount),
		zap.Float64("mean_available_biomass", summary.MeanAvailableBiomassKgHa))

	return record, nil
}

func (s *Service) persist(ctx context.Context, record models.AnalysisRecord) error {
	if err := s.repo.SaveAnalysis(ctx, record); err != nil {
		return fmt.Errorf("persist analysis: %w", err)
	}

	if s.sheets == nil {
		return nil
	}
	if err := s.sheets.AppendSummary(ctx, record); err != nil {
		// The run is already persisted; a failed sheet append should not void it.
		s.logger.Error("failed to append summary to sheet", zap.String("analysis_id", record.ID), zap.Error(err))
		return nil
	}
	if err := s.sheets.AppendParcelRows(ctx, record); err != nil {
		s.logger.Error("failed to append parcel rows to sheet", zap.String("analysis_id", record.ID), zap.Error(err))
	}
	return nil
}

// acquireIndices resolves an index per parcel. Satellite lookups cover the
// trailing 30 days up to asOf; any parcel the provider cannot answer for is
// simulated so a monitoring run always completes.
func (s *Service) acquireIndices(ctx context.Context, paddock models.Paddock, asOf time.Time) ([]models.ParcelObservation, models.AnalysisSource) {
	sim := simulation.New(asOf.Unix())

	if s.satClient == nil {
		return sim.Fill(clearIndices(paddock.Parcels)), models.SourceSimulated
	}

	parcels := make([]models.ParcelObservation, len(paddock.Parcels))
	satelliteUsed := false
	for i, p := range paddock.Parcels {
		parcels[i] = p
		if len(p.Geometry) == 0 {
			parcels[i].VegetationIndex = sim.Index(p.ParcelID)
			continue
		}

		mean, err := s.satClient.MeanIndex(ctx, satellite.IndexRequest{
			Geometry: p.Geometry,
			From:     asOf.AddDate(0, 0, -30),
			To:       asOf,
		})
		if err != nil {
			s.logger.Warn("satellite lookup failed, simulating parcel index",
				zap.String("parcel_id", p.ParcelID), zap.Error(err))
			parcels[i].VegetationIndex = sim.Index(p.ParcelID)
			continue
		}
		parcels[i].VegetationIndex = mean
		satelliteUsed = true
	}

	if !satelliteUsed {
		return parcels, models.SourceSimulated
	}
	return parcels, models.SourceSatellite
}

func clearIndices(parcels []models.ParcelObservation) []models.ParcelObservation {
	out := make([]models.ParcelObservation, len(parcels))
	for i, p := range parcels {
		p.VegetationIndex = 0
		out[i] = p
	}
	return out
}
