package controllers

import (
	"errors"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"

	"brs/internal/models"
	"brs/internal/providers"
	"brs/internal/services"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type BillingController struct {
	logger  providers.Logger
	service services.BillingServiceInterface
}

func NewBillingController(logger providers.Logger, service services.BillingServiceInterface) *BillingController {
	return &BillingController{
		logger:  logger,
		service: service,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	gson, err := json.Marshal(body)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func writeError(w http.ResponseWriter, status int, reason string) {
	writeJSON(w, status, errorResponse{Error: reason})
}

// writeServiceError maps the error taxonomy to HTTP statuses. Internal
// failures never leak details to callers.
func (bc *BillingController) writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		writeError(w, http.StatusBadRequest, "Invalid JSON data")
	case errors.Is(err, models.ErrDuplicateID):
		writeError(w, http.StatusConflict, "Record ID already exists")
	case errors.Is(err, models.ErrArchivedImmutable):
		writeError(w, http.StatusNotFound, "Record not found or is archived (modifications not allowed for archived records)")
	case errors.Is(err, models.ErrNotFound):
		writeError(w, http.StatusNotFound, "Record not found")
	default:
		bc.logger.Errorf(providers.TypeApp, "Error in %s: %s", op, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (bc *BillingController) CreateRecord(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var input models.Record
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || len(input) == 0 {
		writeError(w, http.StatusBadRequest, "Invalid JSON data")
		return
	}

	record, err := bc.service.CreateRecord(input)
	if err != nil {
		bc.writeServiceError(w, "create", err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (bc *BillingController) GetRecord(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	record, err := bc.service.GetRecord(r.Context(), id)
	if err != nil {
		bc.writeServiceError(w, "get", err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (bc *BillingController) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var patch models.Record
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil || len(patch) == 0 {
		writeError(w, http.StatusBadRequest, "Invalid JSON data")
		return
	}

	record, err := bc.service.UpdateRecord(r.Context(), id, patch)
	if err != nil {
		bc.writeServiceError(w, "update", err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (bc *BillingController) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := bc.service.DeleteRecord(r.Context(), id); err != nil {
		bc.writeServiceError(w, "delete", err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Record deleted successfully"})
}

func (bc *BillingController) ListRecords(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 100)
	offset := queryInt(r, "offset", 0)

	page, err := bc.service.ListRecords(limit, offset)
	if err != nil {
		bc.writeServiceError(w, "list", err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

type batchRequest struct {
	IDs []string `json:"ids"`
}

func (bc *BillingController) BatchGetRecords(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Record IDs list is required")
		return
	}
	if req.IDs == nil {
		writeError(w, http.StatusBadRequest, "Record IDs list is required")
		return
	}

	results := bc.service.BatchGetRecords(r.Context(), req.IDs)
	writeJSON(w, http.StatusOK, results)
}

func (bc *BillingController) ArchiveStats(w http.ResponseWriter, r *http.Request) {
	stats, err := bc.service.ArchiveStats(r.Context())
	if err != nil {
		bc.writeServiceError(w, "archive stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
