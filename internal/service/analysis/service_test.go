package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mawucano-design/diagnostico-forrajero/internal/domain/models"
	"github.com/mawucano-design/diagnostico-forrajero/internal/repository/mongodb"
	"github.com/mawucano-design/diagnostico-forrajero/internal/service/forage"
	"github.com/mawucano-design/diagnostico-forrajero/pkg/clients/satellite"
)

type fakeRepo struct {
	analyses map[string]models.AnalysisRecord
	paddocks map[string]models.Paddock
	saveErr  error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		analyses: make(map[string]models.AnalysisRecord),
		paddocks: make(map[string]models.Paddock),
	}
}

func (r *fakeRepo) SaveAnalysis(_ context.Context, record models.AnalysisRecord) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.analyses[record.ID] = record
	return nil
}

func (r *fakeRepo) FindAnalysis(_ context.Context, id string) (models.AnalysisRecord, error) {
	record, ok := r.analyses[id]
	if !ok {
		return models.AnalysisRecord{}, fmt.Errorf("analysis %s: %w", id, mongodb.ErrNotFound)
	}
	return record, nil
}

func (r *fakeRepo) ListAnalyses(_ context.Context, limit int64) ([]models.AnalysisRecord, error) {
	out := make([]models.AnalysisRecord, 0, len(r.analyses))
	for _, record := range r.analyses {
		out = append(out, record)
	}
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeRepo) SavePaddock(_ context.Context, paddock models.Paddock) error {
	r.paddocks[paddock.ID] = paddock
	return nil
}

func (r *fakeRepo) ListPaddocks(_ context.Context) ([]models.Paddock, error) {
	out := make([]models.Paddock, 0, len(r.paddocks))
	for _, paddock := range r.paddocks {
		out = append(out, paddock)
	}
	return out, nil
}

type fakeSheets struct {
	summaries  []models.AnalysisRecord
	parcelRows []models.AnalysisRecord
	summaryErr error
}

func (s *fakeSheets) AppendSummary(_ context.Context, record models.AnalysisRecord) error {
	if s.summaryErr != nil {
		return s.summaryErr
	}
	s.summaries = append(s.summaries, record)
	return nil
}

func (s *fakeSheets) AppendParcelRows(_ context.Context, record models.AnalysisRecord) error {
	s.parcelRows = append(s.parcelRows, record)
	return nil
}

type fakeSatellite struct {
	mean float64
	err  error
}

func (c *fakeSatellite) MeanIndex(_ context.Context, _ satellite.IndexRequest) (float64, error) {
	return c.mean, c.err
}

func newTestService(repo mongodb.Repository, sheets *fakeSheets, sat satellite.Client) *Service {
	svc := NewService(forage.NewAggregator(4), repo, nil, sat, 120, nil)
	if sheets != nil {
		svc.sheets = sheets
	}
	svc.now = func() time.Time { return time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC) }
	counter := 0
	svc.newID = func() string {
		counter++
		return fmt.Sprintf("id-%d", counter)
	}
	return svc
}

func suppliedRequest() models.AnalysisRequest {
	return models.AnalysisRequest{
		PastureType:    models.PastureFescue,
		AnimalWeightKg: 450,
		HerdSize:       50,
		Parcels: []models.ParcelObservation{
			{ParcelID: "p1", AreaHectares: 10, VegetationIndex: 0.45},
			{ParcelID: "p2", AreaHectares: 5, VegetationIndex: 0.25},
		},
	}
}

func TestServiceRun(t *testing.T) {
	repo := newFakeRepo()
	sheets := &fakeSheets{}
	svc := newTestService(repo, sheets, nil)

	record, err := svc.Run(context.Background(), suppliedRequest())
	require.NoError(t, err)

	assert.Equal(t, "id-1", record.ID)
	assert.Equal(t, models.SourceSupplied, record.Source)
	assert.Equal(t, models.PastureFescue, record.PastureType)
	assert.Len(t, record.Parcels, 2)
	assert.Equal(t, 2, record.Summary.ParcelCount)
	assert.NotEmpty(t, record.Condition)
	assert.NotEmpty(t, record.Recommendations)

	stored, err := svc.Get(context.Background(), record.ID)
	require.NoError(t, err)
	assert.Equal(t, record, stored)

	require.Len(t, sheets.summaries, 1)
	require.Len(t, sheets.parcelRows, 1)
	assert.Equal(t, record.ID, sheets.summaries[0].ID)
}

func TestServiceRunEmptyParcels(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil, nil)

	req := suppliedRequest()
	req.Parcels = nil

	record, err := svc.Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "no parcels analyzed", record.Condition)
	assert.Empty(t, record.Parcels)
	require.Len(t, record.Recommendations, 1)
	assert.Contains(t, record.Recommendations[0], "No parcels analyzed")
}

func TestServiceRunSimulated(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil, nil)

	req := suppliedRequest()
	req.Parcels = []models.ParcelObservation{
		{ParcelID: "p1", AreaHectares: 10},
		{ParcelID: "p2", AreaHectares: 5, VegetationIndex: 0.33},
	}
	req.Options.Simulate = true
	req.Options.SimulationSeed = 17

	record, err := svc.Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, models.SourceSimulated, record.Source)
	assert.NotZero(t, record.Parcels[0].VegetationIndex)
	assert.Equal(t, 0.33, record.Parcels[1].VegetationIndex)

	// Same seed yields the same simulated indices.
	again, err := svc.Run(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, record.Parcels[0].VegetationIndex, again.Parcels[0].VegetationIndex)
}

func TestServiceRunUnknownPasture(t *testing.T) {
	svc := newTestService(newFakeRepo(), nil, nil)

	req := suppliedRequest()
	req.PastureType = "TREBOL"

	_, err := svc.Run(context.Background(), req)
	require.ErrorIs(t, err, forage.ErrUnknownPastureType)
}

func TestServiceRunPersistFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.saveErr = errors.New("mongo down")
	svc := newTestService(repo, nil, nil)

	_, err := svc.Run(context.Background(), suppliedRequest())
	require.ErrorContains(t, err, "persist analysis")
}

func TestServiceRunSheetFailureDoesNotVoidRun(t *testing.T) {
	repo := newFakeRepo()
	sheets := &fakeSheets{summaryErr: errors.New("quota exceeded")}
	svc := newTestService(repo, sheets, nil)

	record, err := svc.Run(context.Background(), suppliedRequest())
	require.NoError(t, err)
	assert.Contains(t, repo.analyses, record.ID)
	assert.Empty(t, sheets.parcelRows)
}

func TestServiceList(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil, nil)

	_, err := svc.Run(context.Background(), suppliedRequest())
	require.NoError(t, err)
	_, err = svc.Run(context.Background(), suppliedRequest())
	require.NoError(t, err)

	records, err := svc.List(context.Background(), 0) // out-of-range limit falls back to 50
	require.NoError(t, err)
	assert.Len(t, records, 2)

	records, err = svc.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestServiceGetNotFound(t *testing.T) {
	svc := newTestService(newFakeRepo(), nil, nil)

	_, err := svc.Get(context.Background(), "missing")
	require.ErrorIs(t, err, mongodb.ErrNotFound)
}

func TestServiceRegisterPaddock(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil, nil)

	paddock := models.Paddock{
		Name:           "Lote Norte",
		PastureType:    models.PastureAlfalfa,
		AnimalWeightKg: 420,
		HerdSize:       80,
		Parcels:        []models.ParcelObservation{{ParcelID: "p1", AreaHectares: 12}},
	}

	saved, err := svc.RegisterPaddock(context.Background(), paddock)
	require.NoError(t, err)
	assert.Equal(t, "id-1", saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())
	assert.Contains(t, repo.paddocks, saved.ID)
}

func TestServiceRegisterPaddockUnknownPasture(t *testing.T) {
	svc := newTestService(newFakeRepo(), nil, nil)

	_, err := svc.RegisterPaddock(context.Background(), models.Paddock{
		Name:        "Lote Sur",
		PastureType: "SORGO",
	})
	require.ErrorIs(t, err, forage.ErrUnknownPastureType)
}

func TestServiceRunForPaddock(t *testing.T) {
	geom := json.RawMessage(`{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}`)
	paddock := models.Paddock{
		ID:             "pad-1",
		Name:           "Lote Este",
		PastureType:    models.PastureNaturalPasture,
		AnimalWeightKg: 380,
		HerdSize:       40,
		Parcels: []models.ParcelObservation{
			{ParcelID: "p1", AreaHectares: 8, Geometry: geom},
			{ParcelID: "p2", AreaHectares: 6, Geometry: geom},
		},
	}
	asOf := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	t.Run("satellite indices", func(t *testing.T) {
		repo := newFakeRepo()
		svc := newTestService(repo, nil, &fakeSatellite{mean: 0.52})

		record, err := svc.RunForPaddock(context.Background(), paddock, asOf)
		require.NoError(t, err)

		assert.Equal(t, models.SourceSatellite, record.Source)
		assert.Equal(t, 0.52, record.Parcels[0].VegetationIndex)
		assert.Equal(t, 0.52, record.Parcels[1].VegetationIndex)
	})

	t.Run("all lookups failing marks the run simulated", func(t *testing.T) {
		repo := newFakeRepo()
		svc := newTestService(repo, nil, &fakeSatellite{err: errors.New("cloud cover")})

		record, err := svc.RunForPaddock(context.Background(), paddock, asOf)
		require.NoError(t, err)

		assert.Equal(t, models.SourceSimulated, record.Source)
		for _, p := range record.Parcels {
			assert.GreaterOrEqual(t, p.VegetationIndex, 0.05)
			assert.LessOrEqual(t, p.VegetationIndex, 0.85)
		}
	})

	t.Run("partial satellite coverage keeps the satellite label", func(t *testing.T) {
		mixed := paddock
		mixed.Parcels = []models.ParcelObservation{
			{ParcelID: "p1", AreaHectares: 8, Geometry: geom},
			{ParcelID: "p2", AreaHectares: 6},
		}

		repo := newFakeRepo()
		svc := newTestService(repo, nil, &fakeSatellite{mean: 0.41})

		record, err := svc.RunForPaddock(context.Background(), mixed, asOf)
		require.NoError(t, err)

		assert.Equal(t, models.SourceSatellite, record.Source)
		assert.Equal(t, 0.41, record.Parcels[0].VegetationIndex)
		assert.NotZero(t, record.Parcels[1].VegetationIndex)
	})

	t.Run("no satellite client", func(t *testing.T) {
		repo := newFakeRepo()
		svc := newTestService(repo, nil, nil)

		record, err := svc.RunForPaddock(context.Background(), paddock, asOf)
		require.NoError(t, err)
		assert.Equal(t, models.SourceSimulated, record.Source)
	})
}
