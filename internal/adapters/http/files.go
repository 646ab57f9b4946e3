package httpadapter

import (
	"net/http"
	"strconv"
	"strings"
)

func (rt *Router) uploadFile(w http.ResponseWriter, r *http.Request) {
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

	param1 := r.FormValue("param1")
	param2 := r.FormValue("param2")
	if param1 == "" || param2 == "" {
		writeError(w, http.StatusBadRequest, "form fields 'param1' and 'param2' are required")
		return
	}

	result, err := rt.fileUC.UploadCSV(r.Context(), fileHeader.Filename, file, param1, param2)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordUploadSize(serviceName, fileHeader.Size)
	}
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) getFileByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	raw := strings.TrimPrefix(r.URL.Path, "/v1/files/")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "file id must be a positive integer")
		return
	}

	meta, err := rt.fileReader.GetFileMetadata(r.Context(), id)
	if err != nil {
		writeMappedError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, meta)
}
