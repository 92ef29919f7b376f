package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"newspulse/app/pipeline"
)

type AnalyzeTrendsTask struct {
	Task
	pipeline *pipeline.Pipeline
}

func NewAnalyzeTrendsTask(p *pipeline.Pipeline) *AnalyzeTrendsTask {
	return &AnalyzeTrendsTask{
		Task:     NewTask(TaskTypeAnalyzeTrends, "history"),
		pipeline: p,
	}
}

func (t *AnalyzeTrendsTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	forecast, spike, err := t.pipeline.Analyze(ctx)
	if err != nil {
		return fmt.Errorf("failed to analyze trends: %w", err)
	}

	delivered := t.pipeline.Dispatch(ctx, spike)

	forecastDays := 0
	if forecast != nil {
		forecastDays = len(forecast.Points)
	}

	slog.Info("Task completed",
		"type", "AnalyzeTrends",
		"duration", t.GetDuration(),
		"forecast_days", forecastDays,
		"spike", spike != nil,
		"alert_delivered", delivered)

	return nil
}
