package controllers

import (
	"errors"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"chd/internal/models"
	"chd/internal/providers"
	"chd/internal/services"
)

const maxWebhookBodySize = 1 << 20 // 1 MB

// WebhookController is the ingest boundary. Skips answer 202 so providers
// don't retry deliveries we'll never process; hard errors answer 500 so
// they do.
type WebhookController struct {
	logger  providers.Logger
	service services.ProgressionServiceInterface
	metrics providers.MetricsProviderInterface
}

func NewWebhookController(logger providers.Logger, service services.ProgressionServiceInterface, metrics providers.MetricsProviderInterface) *WebhookController {
	return &WebhookController{
		logger:  logger,
		service: service,
		metrics: metrics,
	}
}

// deliveryID extracts the provider's delivery identifier, the idempotency
// key for the whole pipeline.
func deliveryID(r *http.Request) string {
	for _, header := range []string{"X-Delivery-ID", "X-GitHub-Delivery", "X-Request-UUID"} {
		if id := r.Header.Get(header); id != "" {
			return id
		}
	}
	return ""
}

// eventHint extracts the provider's event designator. Azure carries it in
// the body instead.
func eventHint(r *http.Request) string {
	if h := r.Header.Get("X-GitHub-Event"); h != "" {
		return h
	}
	return r.Header.Get("X-Event-Key")
}

func (wc *WebhookController) Receive(w http.ResponseWriter, r *http.Request) {
	provider := r.URL.Query().Get("provider")
	if provider == "" {
		http.Error(w, "Bad Request: missing provider", http.StatusBadRequest)
		return
	}

	id := deliveryID(r)
	if id == "" {
		// Without an external id there is nothing to deduplicate on.
		http.Error(w, "Bad Request: missing delivery id", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBodySize)
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := wc.service.ValidatePayload(provider, payload); err != nil {
		wc.logger.Warnf(providers.TypePost, "Rejected %s delivery %s: %s", provider, id, err)
		http.Error(w, "Bad Request: payload schema", http.StatusBadRequest)
		return
	}

	result, err := wc.service.ProcessEvent(provider, eventHint(r), id, payload, time.Now().UTC())
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			wc.logger.Errorf(providers.TypePost, "Delivery %s: user document missing: %s", id, err)
		} else {
			wc.logger.Errorf(providers.TypePost, "Delivery %s failed: %s", id, err)
		}
		wc.metrics.IncEventResult("error")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	wc.metrics.IncEventResult(result.Status)
	if result.Status == services.StatusProcessed {
		wc.metrics.AddXPAwarded(result.XPAwarded)
		wc.logger.Infof(providers.TypePost, "Delivery %s: +%d XP for %s (level %d, streak %d)",
			id, result.XPAwarded, result.Activity.UserID, result.NewLevel, result.NewStreak)
	} else {
		wc.logger.Debugf(providers.TypePost, "Delivery %s skipped: %s", id, result.Reason)
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_, _ = w.Write(gson)
}
