package importcsv

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/shankh/internal/http/httpx"
	"github.com/MrJamesThe3rd/shankh/internal/importer"
)

const maxUploadSize = 10 << 20

type Handler struct {
	svc *importer.Service
}

func NewHandler(svc *importer.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/day-book", h.importDaybook)
}

type importResponse struct {
	Profile  string `json:"profile"`
	Charset  string `json:"charset"`
	Imported int    `json:"imported"`
	FirstID  int64  `json:"first_id,omitempty"`
	LastID   int64  `json:"last_id,omitempty"`
}

func (h *Handler) importDaybook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	summary, err := h.svc.ImportDaybook(r.Context(), file)
	if err != nil {
		if errors.Is(err, importer.ErrInvalidFile) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		httpx.Error(w, err)

		return
	}

	httpx.JSON(w, http.StatusCreated, importResponse{
		Profile:  summary.Profile,
		Charset:  summary.Charset,
		Imported: summary.Imported,
		FirstID:  summary.FirstID,
		LastID:   summary.LastID,
	})
}
