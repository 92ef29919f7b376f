package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"newspulse/app/analysis"
	"newspulse/app/database"
	"newspulse/app/history"
	"newspulse/app/pipeline"
	"newspulse/app/record"
	"newspulse/app/source"
	"newspulse/app/tasks"
)

func NewHandler(store history.Store, alertRepo database.AlertRepository,
	configCache *source.ConfigCache, p *pipeline.Pipeline,
	scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		store:       store,
		alertRepo:   alertRepo,
		configCache: configCache,
		pipeline:    p,
		scheduler:   scheduler,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp":      time.Now().In(time.Local).Format(time.RFC3339),
		"history_exists": h.store.Exists(),
		"loaded_sources": h.configCache.GetConfigCount(),
	}

	if count, err := h.store.RecordCount(); err == nil {
		health["records"] = count
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	records, err := h.store.AllRecords()
	if err != nil {
		slog.Error("History error", "operation", "all_records", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	series := analysis.DailyCounts(records)

	stats := gin.H{
		"records": len(records),
		"days":    len(series),
		"sources": h.configCache.GetConfigCount(),
	}

	if len(series) > 0 {
		stats["first_day"] = series[0].Date.Format("2006-01-02")
		stats["last_day"] = series[len(series)-1].Date.Format("2006-01-02")
	}

	if alertCount, err := h.alertRepo.GetAlertCount(); err == nil {
		stats["alerts"] = alertCount
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) GetRecords(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	records, err := h.store.AllRecords()
	if err != nil {
		slog.Error("History error", "operation", "all_records", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	// Latest arrivals last in the log; return the tail.
	if len(records) > limit {
		records = records[len(records)-limit:]
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(records),
		"records": recordsToJSON(records),
	})
}

func (h *Handler) APIListSources(c *gin.Context) {
	configs := h.configCache.GetConfigs()

	sources := make([]map[string]interface{}, 0, len(configs))
	for _, sourceConfig := range configs {
		sources = append(sources, map[string]interface{}{
			"name":    sourceConfig.Name,
			"type":    sourceConfig.Type,
			"query":   sourceConfig.Query,
			"enabled": sourceConfig.Settings.Enabled,
			"limit":   sourceConfig.Settings.Limit,
		})
	}

	c.JSON(http.StatusOK, gin.H{"sources": sources, "count": len(sources)})
}

func (h *Handler) APIIngest(c *gin.Context) {
	query := c.Query("query")

	result, err := h.pipeline.Ingest(c.Request.Context(), query)
	if err != nil {
		slog.Error("Ingestion failed", "query", query, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ingestion failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accepted":   result.Accepted,
		"duplicates": result.Duplicates,
	})
}

func (h *Handler) APIAnalyze(c *gin.Context) {
	forecast, spike, err := h.pipeline.Analyze(c.Request.Context())
	if err != nil {
		slog.Error("Analysis failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed"})
		return
	}

	response := gin.H{
		"forecast": forecast,
		"spike":    spike,
	}

	if c.Query("dispatch") == "true" {
		response["alert_delivered"] = h.pipeline.Dispatch(c.Request.Context(), spike)
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) APIListAlerts(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	alerts, err := h.alertRepo.GetRecentAlerts(limit)
	if err != nil {
		slog.Error("Database error", "operation", "recent_alerts", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	items := make([]map[string]interface{}, 0, len(alerts))
	for _, a := range alerts {
		items = append(items, map[string]interface{}{
			"day":          a.Day,
			"record_count": a.RecordCount,
			"baseline":     a.Baseline,
			"message":      a.Message,
			"delivered":    a.Delivered,
			"created_at":   a.CreatedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, gin.H{"alerts": items, "count": len(items)})
}

func recordsToJSON(records []record.Record) []map[string]interface{} {
	items := make([]map[string]interface{}, 0, len(records))
	for _, r := range records {
		timeValue := record.Unknown
		if r.HasTimestamp() {
			timeValue = r.Timestamp.Format("2006-01-02 15:04:05")
		}
		items = append(items, map[string]interface{}{
			"platform":    string(r.Platform),
			"time":        timeValue,
			"author":      r.Author,
			"title":       r.Title,
			"description": r.Description,
			"url":         r.URL,
		})
	}
	return items
}
