package api

import (
	"newspulse/app/database"
	"newspulse/app/history"
	"newspulse/app/pipeline"
	"newspulse/app/source"
	"newspulse/app/tasks"
)

type Handler struct {
	store       history.Store
	alertRepo   database.AlertRepository
	configCache *source.ConfigCache
	pipeline    *pipeline.Pipeline
	scheduler   tasks.TaskSchedulerInterface
}
