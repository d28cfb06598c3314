package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mkotlarz/streampulse/internal/analytics"
	"github.com/mkotlarz/streampulse/internal/persistence"
)

// Uploads are raw CSV text; anything past this is not a dashboard dataset.
const maxUploadBytes = 32 << 20

// handleUpload accepts a CSV as multipart form field "file" or as a raw
// text/csv request body. A parseable upload is persisted and becomes the
// active dataset immediately.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	var (
		data []byte
		name string
		err  error
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, header, ferr := r.FormFile("file")
		if ferr != nil {
			writeError(w, http.StatusBadRequest, "missing multipart field \"file\"")
			return
		}
		defer file.Close()
		name = header.Filename
		data, err = io.ReadAll(file)
	} else {
		name = r.URL.Query().Get("name")
		data, err = io.ReadAll(r.Body)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "read upload: "+err.Error())
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "empty upload")
		return
	}

	stored, err := s.svc.UploadCSV(r.Context(), name, data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

func (s *Server) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	datasets, err := s.svc.Store().ListDatasets(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, datasets)
}

// handleActivateDataset routes POST /api/datasets/{id}/activate.
func (s *Server) handleActivateDataset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/api/datasets/")
	if !strings.HasSuffix(path, "/activate") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	id := strings.TrimSuffix(strings.TrimSuffix(path, "/activate"), "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing dataset id")
		return
	}
	if err := s.svc.ActivateDataset(r.Context(), id); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	_, meta := s.svc.Snapshot()
	writeJSON(w, http.StatusOK, meta)
}

type savePresetRequest struct {
	Name   string           `json:"name"`
	Filter analytics.Filter `json:"filter"`
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		presets, err := s.svc.Store().ListPresets(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, presets)
	case http.MethodPost:
		var req savePresetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json body")
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
		preset := persistence.FilterPreset{
			ID:        uuid.NewString(),
			Name:      req.Name,
			Filter:    req.Filter,
			CreatedAt: time.Now(),
		}
		if err := s.svc.Store().SavePreset(r.Context(), preset); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, preset)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
