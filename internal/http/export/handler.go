package export

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/shankh/internal/export"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/{table}", h.download)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	table := export.Table(chi.URLParam(r, "table"))

	format := export.Format(r.URL.Query().Get("format"))
	if format == "" {
		format = export.FormatCSV
	}

	// Headers go out only once the export has fully rendered.
	var buf bytes.Buffer
	if err := h.svc.Export(r.Context(), table, format, &buf); err != nil {
		switch {
		case errors.Is(err, export.ErrUnknownTable):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, export.ErrUnknownFormat):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			slog.Error("export failed", "table", table, "format", format, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", h.svc.Filename(table, format)))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}
