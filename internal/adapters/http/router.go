package httpadapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/LennynMH/onecore.mx/internal/config"
	"github.com/LennynMH/onecore.mx/internal/core/domain"
	"github.com/LennynMH/onecore.mx/internal/core/ports"
	"github.com/LennynMH/onecore.mx/internal/observability/metrics"
)

const serviceName = "api"

type Router struct {
	cfg        config.Config
	ingestUC   ports.DocumentIngestor
	fileUC     ports.FileIngestor
	historyUC  ports.HistoryBrowser
	exportUC   ports.HistoryExporter
	classifier ports.TextClassifier
	reader     ports.DocumentReader
	fileReader ports.FileReader
	metrics    *metrics.HTTPServerMetrics
}

func NewRouter(
	cfg config.Config,
	ingestUC ports.DocumentIngestor,
	fileUC ports.FileIngestor,
	historyUC ports.HistoryBrowser,
	exportUC ports.HistoryExporter,
	classifier ports.TextClassifier,
	reader ports.DocumentReader,
	fileReader ports.FileReader,
	serverMetrics *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		cfg:        cfg,
		ingestUC:   ingestUC,
		fileUC:     fileUC,
		historyUC:  historyUC,
		exportUC:   exportUC,
		classifier: classifier,
		reader:     reader,
		fileReader: fileReader,
		metrics:    serverMetrics,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/documents", rt.uploadDocument)
	mux.HandleFunc("/v1/documents/", rt.getDocumentByID)
	mux.HandleFunc("/v1/files", rt.uploadFile)
	mux.HandleFunc("/v1/files/", rt.getFileByID)
	mux.HandleFunc("/v1/history", rt.listHistory)
	mux.HandleFunc("/v1/history/export", rt.exportHistory)
	mux.HandleFunc("/v1/classify", rt.classifyText)

	var handler http.Handler = mux
	handler = authMiddleware(handler, rt.cfg.APIAuthToken)
	if rt.cfg.APIMaxConcurrent > 0 {
		handler = backpressureMiddleware(handler, rt.cfg.APIMaxConcurrent, 50*time.Millisecond)
	}
	if rt.cfg.APIRateLimitRPS > 0 {
		handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	}
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if rt.cfg.UploadMaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, rt.cfg.UploadMaxBytes)
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	doc, err := rt.ingestUC.Upload(
		r.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordUploadSize(serviceName, fileHeader.Size)
	}
	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) getDocumentByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/documents/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "document id is required")
		return
	}

	doc, err := rt.reader.GetByID(r.Context(), id)
	if err != nil {
		writeMappedError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) listHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	filter, err := historyFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := rt.historyUC.List(r.Context(), filter)
	if err != nil {
		writeMappedError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (rt *Router) exportHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	filter, err := historyFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	raw, err := rt.exportUC.ExportXLSX(r.Context(), filter)
	if rt.metrics != nil {
		rt.metrics.RecordExport(serviceName, time.Since(start), err)
	}
	if err != nil {
		writeMappedError(w, err)
		return
	}

	filename := fmt.Sprintf("historial_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(raw)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

func (rt *Router) classifyText(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	result := rt.classifier.Classify(req.Text)
	if rt.metrics != nil {
		rt.metrics.RecordClassification(serviceName, string(result.Label), result.FiredRule)
	}
	writeJSON(w, http.StatusOK, result)
}

func historyFilterFromQuery(r *http.Request) (domain.HistoryFilter, error) {
	q := r.URL.Query()
	filter := domain.HistoryFilter{
		Classification: domain.DocumentClass(q.Get("classification")),
		Status:         domain.DocumentStatus(q.Get("status")),
		FilenameQuery:  q.Get("filename"),
	}

	var err error
	if filter.Page, err = intQuery(q.Get("page")); err != nil {
		return filter, fmt.Errorf("invalid page parameter")
	}
	if filter.PageSize, err = intQuery(q.Get("page_size")); err != nil {
		return filter, fmt.Errorf("invalid page_size parameter")
	}

	if raw := q.Get("date_from"); raw != "" {
		t, err := parseDateQuery(raw)
		if err != nil {
			return filter, fmt.Errorf("invalid date_from parameter")
		}
		filter.DateFrom = t
	}
	if raw := q.Get("date_to"); raw != "" {
		t, err := parseDateQuery(raw)
		if err != nil {
			return filter, fmt.Errorf("invalid date_to parameter")
		}
		filter.DateTo = t
	}
	return filter, nil
}

func intQuery(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func parseDateQuery(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeMappedError(w http.ResponseWriter, err error) {
	writeError(w, mapErrorToHTTPStatus(err), err.Error())
}
