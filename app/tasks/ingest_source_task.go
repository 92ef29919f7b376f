package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"newspulse/app/pipeline"
)

type IngestSourceTask struct {
	Task
	pipeline *pipeline.Pipeline
}

func NewIngestSourceTask(sourceName string, p *pipeline.Pipeline) *IngestSourceTask {
	return &IngestSourceTask{
		Task:     NewTask(TaskTypeIngestSource, sourceName),
		pipeline: p,
	}
}

func (t *IngestSourceTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	result, err := t.pipeline.IngestSource(ctx, t.SourceName)
	if err != nil {
		return fmt.Errorf("failed to ingest source: %w", err)
	}

	slog.Info("Task completed",
		"type", "IngestSource",
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"accepted", result.Accepted,
		"duplicates", result.Duplicates)

	return nil
}
