package audithandlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	auditservice "github.com/zrl-league/zrl-manager/app/modules/audit/application"
	"github.com/zrl-league/zrl-manager/app/shared/httpx"
)

func Mount(r chi.Router, h *AuditHandlers) {
	r.Get("/audit", h.HandleListEntries)
}

type AuditHandlers struct {
	service auditservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

func NewAuditHandlers(service auditservice.Service, logger *slog.Logger, tracer trace.Tracer) *AuditHandlers {
	return &AuditHandlers{service: service, logger: logger, tracer: tracer}
}

// HandleListEntries serves GET /audit?topic=&limit= to admins.
func (h *AuditHandlers) HandleListEntries(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "AuditHandlers.HandleListEntries")
	defer span.End()
	r = r.WithContext(ctx)

	if !httpx.Require(w, r, h.logger, httpx.PermViewAudit, 0) {
		return
	}
	limit, err := httpx.QueryInt64(r, "limit")
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	topic := strings.TrimSpace(r.URL.Query().Get("topic"))
	span.SetAttributes(attribute.String("topic", topic), attribute.Int64("limit", limit))

	entries, err := h.service.ListEntries(ctx, topic, int(limit))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, entries)
}
