package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/stockwise/internal/database"
	"github.com/aristath/stockwise/internal/di"
)

// SystemStatusResponse is the body of GET /api/system/status
type SystemStatusResponse struct {
	StartedAt         time.Time                 `json:"started_at"`
	Databases         map[string]database.Stats `json:"databases"`
	Status            string                    `json:"status"`
	PriceProvider     string                    `json:"price_provider"`
	CPUPercent        float64                   `json:"cpu_percent"`
	RAMPercent        float64                   `json:"ram_percent"`
	UptimeSeconds     float64                   `json:"uptime_seconds"`
	PriceCacheEntries int                       `json:"price_cache_entries"`
}

// SystemHandlers serves process and host status
type SystemHandlers struct {
	container *di.Container
	startedAt time.Time
	now       func() time.Time
	log       zerolog.Logger
}

// NewSystemHandlers creates system handlers; uptime counts from this call
func NewSystemHandlers(container *di.Container, log zerolog.Logger) *SystemHandlers {
	return &SystemHandlers{
		container: container,
		startedAt: time.Now(),
		now:       time.Now,
		log:       log.With().Str("handler", "system").Logger(),
	}
}

// HandleSystemStatus returns host load, cache size, database stats and uptime
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuPercent, ramPercent := h.getSystemStats()

	response := SystemStatusResponse{
		Status:            "ok",
		StartedAt:         h.startedAt,
		UptimeSeconds:     h.now().Sub(h.startedAt).Seconds(),
		CPUPercent:        cpuPercent,
		RAMPercent:        ramPercent,
		PriceProvider:     h.container.PriceFetcher.Provider(),
		PriceCacheEntries: h.container.PriceCache.Len(),
		Databases:         make(map[string]database.Stats),
	}

	for name, db := range map[string]*database.DB{
		database.NamePortfolio: h.container.PortfolioDB,
		database.NameCache:     h.container.CacheDB,
	} {
		if db == nil {
			continue
		}
		stats, err := db.GetStats()
		if err != nil {
			h.log.Warn().Err(err).Str("database", name).Msg("Failed to get database stats")
			response.Status = "degraded"
			continue
		}
		response.Databases[name] = *stats
	}

	h.writeJSON(w, response)
}

// getSystemStats returns CPU and RAM usage percentages.
// CPU is sampled over 100ms to keep the endpoint responsive.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

// writeJSON writes a JSON response
func (h *SystemHandlers) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
