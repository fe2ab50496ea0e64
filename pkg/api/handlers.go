package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"

	"github.com/ssargent/embla/pkg/codec"
	"github.com/ssargent/embla/pkg/storage"
	"github.com/ssargent/embla/pkg/strand"
)

// Server holds the API server state
type Server struct {
	archive ArchiveStore
	config  ServerConfig
	metrics *Metrics
	logger  *zap.Logger
}

// NewServer creates a new API server
func NewServer(archive ArchiveStore, config ServerConfig, metrics *Metrics, logger *zap.Logger) *Server {
	return &Server{
		archive: archive,
		config:  config,
		metrics: metrics,
		logger:  logger,
	}
}

// handleHealth reports whether the server is up.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleCreateStrand archives the request body as a new strand. The seed
// query parameter takes decimal or 0x-prefixed hex and defaults to zero.
func (s *Server) handleCreateStrand(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	seed, err := parseSeed(r)
	if err != nil {
		s.metrics.RecordArchiveOperation("create", false, time.Since(start))
		sendError(w, "Invalid seed parameter", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.metrics.RecordArchiveOperation("create", false, time.Since(start))
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	st := strand.FromBytes(seed, body)
	id, err := s.archive.Create(st)
	if err != nil {
		s.metrics.RecordArchiveOperation("create", false, time.Since(start))
		sendError(w, fmt.Sprintf("Failed to archive strand: %v", err), http.StatusInternalServerError)
		return
	}

	s.metrics.RecordArchiveOperation("create", true, time.Since(start))
	sendSuccess(w, StrandInfo{ID: id.String(), Seed: st.Seed(), Length: st.Len()})
}

// handleGetStrand returns a strand's data bytes. The seed and logical length
// travel in the X-Embla-Seed and X-Embla-Length headers.
func (s *Server) handleGetStrand(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, err := parseStrandID(r)
	if err != nil {
		s.metrics.RecordArchiveOperation("read", false, time.Since(start))
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	st, err := s.archive.Read(id)
	if err != nil {
		s.metrics.RecordArchiveOperation("read", false, time.Since(start))
		if errors.Is(err, storage.ErrNotFound) {
			sendError(w, "Strand not found", http.StatusNotFound)
		} else {
			sendError(w, fmt.Sprintf("Failed to read strand: %v", err), http.StatusInternalServerError)
		}
		return
	}

	s.metrics.RecordArchiveOperation("read", true, time.Since(start))

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("X-Embla-Seed", strconv.FormatUint(st.Seed(), 10))
	w.Header().Set("X-Embla-Length", strconv.Itoa(st.Len()))
	if _, err := w.Write(st.Bytes()[:st.Len()]); err != nil {
		s.logger.Warn("write strand response", zap.String("id", id.String()), zap.Error(err))
	}
}

// handleUpdateStrand replaces the strand under an existing id with the
// request body. Seed parsing matches handleCreateStrand.
func (s *Server) handleUpdateStrand(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, err := parseStrandID(r)
	if err != nil {
		s.metrics.RecordArchiveOperation("update", false, time.Since(start))
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	seed, err := parseSeed(r)
	if err != nil {
		s.metrics.RecordArchiveOperation("update", false, time.Since(start))
		sendError(w, "Invalid seed parameter", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.metrics.RecordArchiveOperation("update", false, time.Since(start))
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	st := strand.FromBytes(seed, body)
	if err := s.archive.Update(id, st); err != nil {
		s.metrics.RecordArchiveOperation("update", false, time.Since(start))
		if errors.Is(err, storage.ErrNotFound) {
			sendError(w, "Strand not found", http.StatusNotFound)
		} else {
			sendError(w, fmt.Sprintf("Failed to update strand: %v", err), http.StatusInternalServerError)
		}
		return
	}

	s.metrics.RecordArchiveOperation("update", true, time.Since(start))
	sendSuccess(w, StrandInfo{ID: id.String(), Seed: st.Seed(), Length: st.Len()})
}

// handleDeleteStrand removes a strand from the archive.
func (s *Server) handleDeleteStrand(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, err := parseStrandID(r)
	if err != nil {
		s.metrics.RecordArchiveOperation("delete", false, time.Since(start))
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.archive.Delete(id); err != nil {
		s.metrics.RecordArchiveOperation("delete", false, time.Since(start))
		sendError(w, fmt.Sprintf("Failed to delete strand: %v", err), http.StatusInternalServerError)
		return
	}

	s.metrics.RecordArchiveOperation("delete", true, time.Since(start))
	sendSuccess(w, map[string]string{"message": "Strand deleted successfully"})
}

// handleListStrands lists archived strand ids. A seed query parameter
// narrows the listing to the ids carrying that seed.
func (s *Server) handleListStrands(w http.ResponseWriter, r *http.Request) {
	var ids []ksuid.KSUID
	if raw := r.URL.Query().Get("seed"); raw != "" {
		seed, err := strconv.ParseUint(raw, 0, 64)
		if err != nil {
			sendError(w, "Invalid seed parameter", http.StatusBadRequest)
			return
		}
		ids = s.archive.FindSeed(seed)
	} else {
		all, err := s.archive.List()
		if err != nil {
			sendError(w, fmt.Sprintf("Failed to list strands: %v", err), http.StatusInternalServerError)
			return
		}
		ids = all
	}

	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	sendSuccess(w, map[string]interface{}{"ids": out})
}

// handleSnapshotDownload streams the whole archive as one snapshot.
func (s *Server) handleSnapshotDownload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ids, err := s.archive.List()
	if err != nil {
		s.metrics.RecordArchiveOperation("snapshot_download", false, time.Since(start))
		sendError(w, fmt.Sprintf("Failed to list strands: %v", err), http.StatusInternalServerError)
		return
	}

	strands := make([]*strand.Strand, 0, len(ids))
	for _, id := range ids {
		st, err := s.archive.Read(id)
		if err != nil {
			s.metrics.RecordArchiveOperation("snapshot_download", false, time.Since(start))
			sendError(w, fmt.Sprintf("Failed to read strand %s: %v", id, err), http.StatusInternalServerError)
			return
		}
		strands = append(strands, st)
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="embla.snapshot"`)
	if err := codec.WriteSnapshot(w, strands); err != nil {
		// Headers are already out; all we can do is log.
		s.metrics.RecordArchiveOperation("snapshot_download", false, time.Since(start))
		s.logger.Warn("write snapshot response", zap.Error(err))
		return
	}

	s.metrics.RecordArchiveOperation("snapshot_download", true, time.Since(start))
}

// handleSnapshotUpload reads a snapshot from the request body and archives
// every strand in it under fresh ids. A malformed snapshot archives nothing.
func (s *Server) handleSnapshotUpload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	strands, err := codec.ReadSnapshot(r.Body)
	if err != nil {
		s.metrics.RecordArchiveOperation("snapshot_upload", false, time.Since(start))
		if errors.Is(err, codec.ErrFormatMismatch) || errors.Is(err, codec.ErrTruncatedRecord) {
			sendError(w, fmt.Sprintf("Invalid snapshot: %v", err), http.StatusBadRequest)
		} else {
			sendError(w, fmt.Sprintf("Failed to read snapshot: %v", err), http.StatusInternalServerError)
		}
		return
	}

	infos := make([]StrandInfo, 0, len(strands))
	for _, st := range strands {
		id, err := s.archive.Create(st)
		if err != nil {
			s.metrics.RecordArchiveOperation("snapshot_upload", false, time.Since(start))
			sendError(w, fmt.Sprintf("Failed to archive strand: %v", err), http.StatusInternalServerError)
			return
		}
		infos = append(infos, StrandInfo{ID: id.String(), Seed: st.Seed(), Length: st.Len()})
	}

	s.metrics.RecordArchiveOperation("snapshot_upload", true, time.Since(start))
	sendSuccess(w, map[string]interface{}{"strands": infos})
}

// handleStats reports archive statistics.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.archive.Stats()
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to get stats: %v", err), http.StatusInternalServerError)
		return
	}

	// Update metrics with current stats
	s.metrics.UpdateArchiveStats(stats.Strands, stats.DataBytes)
	sendSuccess(w, stats)
}

// parseSeed reads the seed query parameter. Absent means zero.
func parseSeed(r *http.Request) (uint64, error) {
	raw := r.URL.Query().Get("seed")
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseUint(raw, 0, 64)
}

// parseStrandID reads the id route parameter.
func parseStrandID(r *http.Request) (ksuid.KSUID, error) {
	raw := chi.URLParam(r, "id")
	if raw == "" {
		return ksuid.Nil, errors.New("strand id is required")
	}
	id, err := ksuid.Parse(raw)
	if err != nil {
		return ksuid.Nil, fmt.Errorf("invalid strand id %q", raw)
	}
	return id, nil
}

// startMetricsUpdater periodically refreshes the archive gauges.
func (s *Server) startMetricsUpdater() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		stats, err := s.archive.Stats()
		if err != nil {
			s.logger.Warn("refresh archive stats", zap.Error(err))
			continue
		}
		s.metrics.UpdateArchiveStats(stats.Strands, stats.DataBytes)
	}
}
