package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/opsych/ophtheon/internal/model"
	"github.com/opsych/ophtheon/internal/service"
)

// 64 KiB is far above any real question-set file
const maxImportSize = 64 << 10

// ExamHandler handles exam session endpoints
type ExamHandler struct {
	examSvc *service.ExamService
}

// NewExamHandler creates a new exam handler
func NewExamHandler(examSvc *service.ExamService) *ExamHandler {
	return &ExamHandler{examSvc: examSvc}
}

// Import handles POST /v1/exams/import. The body is either the raw
// interchange text or a JSON object {"text": "..."}.
func (h *ExamHandler) Import(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	text := string(body)
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		var req struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		text = req.Text
	}
	if strings.TrimSpace(text) == "" {
		writeError(w, http.StatusBadRequest, "empty question set")
		return
	}

	exam, err := h.examSvc.Import(r.Context(), text)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to import exam")
		return
	}
	writeJSON(w, http.StatusCreated, exam)
}

// List handles GET /v1/exams. Only archived (finished) runs are listed.
func (h *ExamHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := int64(50)
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	exams, err := h.examSvc.ListRecent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list exams")
		return
	}
	if exams == nil {
		exams = []*model.ExamSession{}
	}
	writeJSON(w, http.StatusOK, exams)
}

// Get handles GET /v1/exams/{id}
func (h *ExamHandler) Get(w http.ResponseWriter, r *http.Request) {
	exam, err := h.examSvc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exam)
}

// PrepareNarration handles POST /v1/exams/{id}/narration
func (h *ExamHandler) PrepareNarration(w http.ResponseWriter, r *http.Request) {
	exam, err := h.examSvc.PrepareNarration(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exam)
}

// Start handles POST /v1/exams/{id}/start
func (h *ExamHandler) Start(w http.ResponseWriter, r *http.Request) {
	exam, err := h.examSvc.Start(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exam)
}

// Stop handles POST /v1/exams/{id}/stop
func (h *ExamHandler) Stop(w http.ResponseWriter, r *http.Request) {
	if err := h.examSvc.Stop(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "stopping"})
}

// Delete handles DELETE /v1/exams/{id}
func (h *ExamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.examSvc.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *ExamHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrExamNotFound):
		writeError(w, http.StatusNotFound, "exam not found")
	case errors.Is(err, service.ErrExamNotReady),
		errors.Is(err, service.ErrExamNotRunning),
		errors.Is(err, service.ErrExamAlreadyRunning):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
