package rest

import (
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/patrimonio/tracker-backend/internal/domain"
	"github.com/patrimonio/tracker-backend/internal/usecase/report"
	"github.com/patrimonio/tracker-backend/internal/usecase/snapshot"
)

// maxSaveBodyBytes caps the upsert payload; a manual entry form never
// legitimately produces more.
const maxSaveBodyBytes = 1 << 20

type snapshotResponse struct {
	ID        string              `json:"id"`
	Date      string              `json:"date"`
	Entries   []domain.AssetEntry `json:"entries"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

func toSnapshotResponse(snap *domain.Snapshot) snapshotResponse {
	return snapshotResponse{
		ID:        snap.ID.String(),
		Date:      snap.Date.Format(time.DateOnly),
		Entries:   snap.Entries,
		CreatedAt: snap.CreatedAt,
		UpdatedAt: snap.UpdatedAt,
	}
}

// handleListAssets serves GET /api/assets: the full history of the acting
// user, oldest first.
func (s *Server) handleListAssets(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFrom(r.Context())

	snapshots, err := s.SnapshotService.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	body := make([]snapshotResponse, 0, len(snapshots))
	for _, snap := range snapshots {
		body = append(body, toSnapshotResponse(snap))
	}
	respondJSON(w, http.StatusOK, body)
}

// handleSaveAssets serves POST /api/assets: a date-keyed batch of entries
// upserted into the acting user's history.
func (s *Server) handleSaveAssets(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFrom(r.Context())

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSaveBodyBytes))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, messageResponse{Message: "request body too large or unreadable"})
		return
	}

	batch, err := decodeSaveBatch(body)
	if err != nil {
		writeError(w, err)
		return
	}

	summary, err := s.SnapshotService.Save(r.Context(), snapshot.SaveInput{UserID: userID, Batch: batch})
	if err != nil {
		writeError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, struct {
		Message string                `json:"message"`
		Summary *snapshot.SaveSummary `json:"summary"`
	}{
		Message: "asset snapshots saved",
		Summary: summary,
	})
}

// handleDeleteAsset serves DELETE /api/assets/{id}.
func (s *Server) handleDeleteAsset(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFrom(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid snapshot id"})
		return
	}

	if err := s.SnapshotService.Delete(r.Context(), id, userID); err != nil {
		writeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, struct {
		Message string `json:"message"`
		ID      string `json:"id"`
	}{
		Message: "snapshot deleted",
		ID:      id.String(),
	})
}

// handleTotalsReport serves the running-totals series. With fewer than
// report.MinChartPoints snapshots the rows still come back, flagged so
// the client can show its "needs at least two points" notice.
func (s *Server) handleTotalsReport(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFrom(r.Context())

	snapshots, err := s.SnapshotService.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	rows := report.TotalSeries(snapshots)
	respondJSON(w, http.StatusOK, struct {
		Rows             []report.TotalRow `json:"rows"`
		InsufficientData bool              `json:"insufficientData"`
	}{
		Rows:             rows,
		InsufficientData: len(rows) < report.MinChartPoints,
	})
}

// handleCategoriesReport serves the per-asset-name series.
func (s *Server) handleCategoriesReport(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFrom(r.Context())

	snapshots, err := s.SnapshotService.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	names, rows := report.CategorySeries(snapshots)
	respondJSON(w, http.StatusOK, struct {
		Names []string             `json:"names"`
		Rows  []report.CategoryRow `json:"rows"`
	}{
		Names: names,
		Rows:  rows,
	})
}

// handleDeltasReport serves the period-over-period delta series.
func (s *Server) handleDeltasReport(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFrom(r.Context())

	snapshots, err := s.SnapshotService.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, struct {
		Rows []report.DeltaRow `json:"rows"`
	}{
		Rows: report.DeltaSeries(snapshots),
	})
}
