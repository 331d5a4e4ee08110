package handler

import (
	"net/http"
	"time"

	"github.com/skycast/skycast/internal/api/models"
	"github.com/skycast/skycast/internal/api/response"
	"github.com/skycast/skycast/internal/provider/resilience"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	registry  *resilience.Registry
}

// NewOpsHandler creates a new OpsHandler. Registry may be nil, in which
// case the status endpoint reports no providers.
func NewOpsHandler(version, buildTime string, registry *resilience.Registry) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		registry:  registry,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}
	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /v1/ops/status - provider circuit health.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	status := models.SystemStatus{
		Status:    models.HealthStatusOK,
		Time:      models.Timestamp(time.Now()),
		Providers: []models.ProviderStatus{},
	}

	if h.registry != nil {
		for _, ph := range h.registry.AllHealth() {
			ps := models.ProviderStatus{
				Provider:     ph.Name,
				Status:       providerStatus(ph),
				CircuitState: ph.CircuitState.String(),
			}
			if ph.LastSuccessAt != nil {
				t := models.Timestamp(*ph.LastSuccessAt)
				ps.LastSuccessAt = &t
			}
			if ph.LastFailureAt != nil {
				t := models.Timestamp(*ph.LastFailureAt)
				ps.LastFailureAt = &t
			}
			if ph.LastError != "" {
				msg := ph.LastError
				ps.Message = &msg
			}
			status.Providers = append(status.Providers, ps)

			if ps.Status != models.HealthStatusOK {
				status.Status = models.HealthStatusDegraded
			}
		}
	}

	response.JSON(w, r, http.StatusOK, status)
}

func providerStatus(ph *resilience.ProviderHealth) models.HealthStatus {
	if ph.Healthy() {
		return models.HealthStatusOK
	}
	return models.HealthStatusDegraded
}
