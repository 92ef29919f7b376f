package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"newspulse/app/alert"
	"newspulse/app/analysis"
	"newspulse/app/connector"
	"newspulse/app/database"
	"newspulse/app/history"
	"newspulse/app/record"
	"newspulse/app/source"
)

// Pipeline wires the ingestion and analysis stages together: fetch and
// normalize raw records into the history store, derive the daily series,
// forecast future volume and dispatch spike alerts. It carries no state of
// its own beyond the injected collaborators; the history store's log is the
// only persistence across runs.
type Pipeline struct {
	configCache *source.ConfigCache
	connectors  map[string]connector.Connector
	normalizer  *record.Normalizer
	store       history.Store
	engine      analysis.Engine
	alertRepo   database.AlertRepository
	dispatcher  *alert.Dispatcher
	threshold   float64
	horizon     int
}

type Options struct {
	SpikeThreshold  float64
	ForecastHorizon int
}

func NewPipeline(configCache *source.ConfigCache, connectors map[string]connector.Connector,
	store history.Store, engine analysis.Engine, alertRepo database.AlertRepository,
	dispatcher *alert.Dispatcher, opts Options) *Pipeline {

	if opts.SpikeThreshold <= 0 {
		opts.SpikeThreshold = analysis.DefaultSpikeThreshold
	}
	if opts.ForecastHorizon <= 0 {
		opts.ForecastHorizon = 7
	}

	return &Pipeline{
		configCache: configCache,
		connectors:  connectors,
		normalizer:  record.NewNormalizer(),
		store:       store,
		engine:      engine,
		alertRepo:   alertRepo,
		dispatcher:  dispatcher,
		threshold:   opts.SpikeThreshold,
		horizon:     opts.ForecastHorizon,
	}
}

// Ingest fetches from every enabled source, normalizes the results and
// merges them into the history in a single pass. A failing source degrades
// to zero records; the merge still runs for the sources that answered. The
// query overrides each source's configured query when non-empty.
func (p *Pipeline) Ingest(ctx context.Context, query string) (history.MergeResult, error) {
	var batch []record.Record

	for name, sc := range p.configCache.GetEnabledConfigs() {
		conn, ok := p.connectors[name]
		if !ok {
			slog.Warn("No connector for source, skipping", "source", name)
			continue
		}

		effectiveQuery := sc.Query
		if query != "" {
			effectiveQuery = query
		}

		raws, err := conn.Fetch(ctx, effectiveQuery, sc.Settings.Limit)
		if err != nil {
			slog.Warn("Source fetch failed, contributing zero records", "source", name, "error", err)
			continue
		}

		for _, raw := range raws {
			batch = append(batch, p.normalizer.Run(raw))
		}

		slog.Debug("Source fetched", "source", name, "query", effectiveQuery, "records", len(raws))
	}

	result, err := p.store.Merge(batch)
	if err != nil {
		return history.MergeResult{}, fmt.Errorf("failed to merge fetched records: %w", err)
	}

	slog.Info("Ingestion completed",
		"fetched", len(batch),
		"accepted", result.Accepted,
		"duplicates", result.Duplicates)

	return result, nil
}

// IngestSource runs the fetch-normalize-merge chain for a single named
// source. Used by the background scheduler so each source is its own task.
func (p *Pipeline) IngestSource(ctx context.Context, sourceName string) (history.MergeResult, error) {
	sc, err := p.configCache.GetConfig(sourceName)
	if err != nil {
		return history.MergeResult{}, err
	}

	conn, ok := p.connectors[sourceName]
	if !ok {
		return history.MergeResult{}, fmt.Errorf("no connector for source %s", sourceName)
	}

	raws, err := conn.Fetch(ctx, sc.Query, sc.Settings.Limit)
	if err != nil {
		return history.MergeResult{}, fmt.Errorf("failed to fetch from %s: %w", sourceName, err)
	}

	batch := make([]record.Record, 0, len(raws))
	for _, raw := range raws {
		batch = append(batch, p.normalizer.Run(raw))
	}

	result, err := p.store.Merge(batch)
	if err != nil {
		return history.MergeResult{}, fmt.Errorf("failed to merge fetched records: %w", err)
	}

	return result, nil
}

// Analyze reduces the history to a daily series, forecasts future volume
// and checks the latest day for a spike. A history too short to forecast is
// not fatal: spike detection has its own, looser minimum and still runs.
func (p *Pipeline) Analyze(ctx context.Context) (*analysis.Forecast, *analysis.SpikeAlert, error) {
	if !p.store.Exists() {
		slog.Info("No history available, nothing to analyze")
		return nil, nil, nil
	}

	records, err := p.store.AllRecords()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read history: %w", err)
	}

	series := analysis.DailyCounts(records)

	forecast, err := p.engine.Forecast(series, p.horizon)
	if err != nil {
		if !errors.Is(err, analysis.ErrInsufficientData) {
			return nil, nil, fmt.Errorf("failed to forecast: %w", err)
		}
		slog.Info("Not enough history to forecast, continuing with spike detection", "days", len(series))
		forecast = nil
	}

	spike := analysis.DetectSpike(series, p.threshold)
	if spike == nil {
		slog.Info("No unusual spike detected", "days", len(series))
	}

	return forecast, spike, nil
}

// Dispatch delivers the alert unless one was already recorded for the same
// day. Returns whether a notification actually went out.
func (p *Pipeline) Dispatch(ctx context.Context, spike *analysis.SpikeAlert) bool {
	if spike == nil {
		return false
	}

	day := spike.Day.Format("2006-01-02")

	alerted, err := p.alertRepo.WasAlerted(day)
	if err != nil {
		slog.Warn("Failed to check alert ledger", "day", day, "error", err)
	} else if alerted {
		slog.Debug("Alert already dispatched for day, skipping", "day", day)
		return false
	}

	delivered := p.dispatcher.MaybeNotify(ctx, spike)

	message := alert.FormatMessage(spike)
	if err := p.alertRepo.RecordAlert(day, spike.Count, spike.Baseline, message, delivered); err != nil {
		slog.Warn("Failed to record alert in ledger", "day", day, "error", err)
	}

	return delivered
}
