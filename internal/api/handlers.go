package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mondohq/mondo/internal/anilist"
	"github.com/mondohq/mondo/internal/logging"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.version,
	})
}

func (s *Server) handleListFolders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Folders())
}

type addFolderRequest struct {
	Path    string `json:"path"`
	MediaID *int   `json:"mediaId,omitempty"`
}

func (s *Server) handleAddFolder(w http.ResponseWriter, r *http.Request) {
	var req addFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "path is required")
		return
	}

	var err error
	if req.MediaID != nil {
		err = s.store.AddFolderWithID(r.Context(), req.Path, *req.MediaID)
	} else {
		err = s.store.AddFolder(r.Context(), req.Path)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "add_failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, s.store.Folders())
}

type removeFolderRequest struct {
	Path string `json:"path"`
}

func (s *Server) handleRemoveFolder(w http.ResponseWriter, r *http.Request) {
	var req removeFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "path is required")
		return
	}

	if err := s.store.RemoveFolder(req.Path); err != nil {
		writeError(w, http.StatusInternalServerError, "remove_failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, s.store.Folders())
}

type assignFolderRequest struct {
	Path    string `json:"path"`
	MediaID int    `json:"mediaId"`
}

func (s *Server) handleAssignFolder(w http.ResponseWriter, r *http.Request) {
	var req assignFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" || req.MediaID == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "path and mediaId are required")
		return
	}

	if err := s.store.AssignFolder(r.Context(), req.Path, req.MediaID); err != nil {
		writeError(w, http.StatusInternalServerError, "assign_failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, s.store.Folders())
}

func (s *Server) handleWatching(w http.ResponseWriter, r *http.Request) {
	if err := s.list.Refresh(r.Context()); err != nil {
		s.logger.Warn("api", "refresh failed, serving cached list", logging.F("error", err.Error()))
	}

	entries, err := s.list.Cache().Watching()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "cache_failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	if err := s.list.Refresh(r.Context()); err != nil {
		writeError(w, http.StatusBadGateway, "sync_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "synced"})
}

func (s *Server) handleMediaFolder(w http.ResponseWriter, r *http.Request) {
	mediaID, ok := mediaIDParam(w, r)
	if !ok {
		return
	}

	folder := s.store.FolderByID(mediaID)
	if folder == "" {
		writeError(w, http.StatusNotFound, "not_found", "no folder associated with this media")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"path": folder})
}

func (s *Server) handleUnassignFolder(w http.ResponseWriter, r *http.Request) {
	mediaID, ok := mediaIDParam(w, r)
	if !ok {
		return
	}

	if err := s.store.RemoveFolderFromID(mediaID); err != nil {
		writeError(w, http.StatusInternalServerError, "unassign_failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (s *Server) handleEpisodePath(w http.ResponseWriter, r *http.Request) {
	mediaID, ok := mediaIDParam(w, r)
	if !ok {
		return
	}
	episode := chi.URLParam(r, "episode")

	path, err := s.store.EpisodePath(r.Context(), mediaID, episode)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "resolve_failed", err.Error())
		return
	}
	if path == "" {
		writeError(w, http.StatusNotFound, "not_found", "no file found for this episode")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"path": path})
}

type playRequest struct {
	Episode string `json:"episode"`
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	mediaID, ok := mediaIDParam(w, r)
	if !ok {
		return
	}

	var req playRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Episode == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "episode is required")
		return
	}

	path, err := s.store.EpisodePath(r.Context(), mediaID, req.Episode)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "resolve_failed", err.Error())
		return
	}
	if path == "" {
		writeError(w, http.StatusNotFound, "not_found", "no file found for this episode")
		return
	}

	if err := s.player.Play(path); err != nil {
		writeError(w, http.StatusInternalServerError, "play_failed", err.Error())
		return
	}

	s.logger.Info("api", "playback started",
		logging.F("media_id", mediaID),
		logging.F("file", path))
	writeJSON(w, http.StatusOK, map[string]string{"path": path})
}

type progressRequest struct {
	Progress int `json:"progress"`
}

// handleProgress pushes watch progress to AniList and mirrors it into the
// cache. Reaching the final episode flips the entry to COMPLETED, matching
// what the tracker would do on its own site.
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	mediaID, ok := mediaIDParam(w, r)
	if !ok {
		return
	}

	var req progressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Progress < 1 {
		writeError(w, http.StatusBadRequest, "invalid_request", "progress must be at least 1")
		return
	}

	entry, err := s.list.Cache().Entry(mediaID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "cache_failed", err.Error())
		return
	}

	completed := entry != nil && entry.Episodes > 0 && req.Progress >= entry.Episodes
	if completed {
		err = s.client.CompleteMedia(r.Context(), mediaID, entry.Episodes)
	} else {
		err = s.client.SaveProgress(r.Context(), mediaID, req.Progress)
	}
	if err != nil {
		writeError(w, http.StatusBadGateway, "tracker_failed", err.Error())
		return
	}

	if err := s.list.Cache().SetProgress(mediaID, req.Progress); err != nil {
		writeError(w, http.StatusInternalServerError, "cache_failed", err.Error())
		return
	}
	if completed {
		if err := s.list.Cache().SetStatus(mediaID, anilist.StatusCompleted); err != nil {
			writeError(w, http.StatusInternalServerError, "cache_failed", err.Error())
			return
		}
	}

	status := "updated"
	if completed {
		status = "completed"
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": status})
}

func mediaIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	mediaID, err := strconv.Atoi(chi.URLParam(r, "mediaID"))
	if err != nil || mediaID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "media id must be a positive integer")
		return 0, false
	}
	return mediaID, true
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"code":    code,
		"message": message,
	})
}
