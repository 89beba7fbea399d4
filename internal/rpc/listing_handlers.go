package rpc

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/duopane/engine/pkg/types"
)

func (s *Server) registerListingRoutes(r *mux.Router) {
	r.HandleFunc("/path-exists", s.handlePathExists).Methods(http.MethodGet)
	r.HandleFunc("/listings", s.handleStartListing).Methods(http.MethodPost)
	r.HandleFunc("/listings/{id}/range", s.handleGetRange).Methods(http.MethodGet)
	r.HandleFunc("/listings/{id}/total-count", s.handleGetTotalCount).Methods(http.MethodGet)
	r.HandleFunc("/listings/{id}/find", s.handleFindFileIndex).Methods(http.MethodGet)
	r.HandleFunc("/listings/{id}/entry/{index}", s.handleGetFileAt).Methods(http.MethodGet)
	r.HandleFunc("/listings/{id}/resort", s.handleResortListing).Methods(http.MethodPost)
	r.HandleFunc("/listings/{id}", s.handleEndListing).Methods(http.MethodDelete)
	r.HandleFunc("/extended-metadata", s.handleGetExtendedMetadata).Methods(http.MethodPost)
}

// path_exists(path) -> bool (synchronous).
func (s *Server) handlePathExists(w http.ResponseWriter, r *http.Request) {
	path := expandTilde(r.URL.Query().Get("path"))
	vol, err := s.Volumes.Default()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"exists": vol.Exists(r.Context(), path)})
}

type startListingRequest struct {
	Path          string `json:"path"`
	IncludeHidden bool   `json:"includeHidden"`
	SortBy        string `json:"sortBy"`
	SortOrder     string `json:"sortOrder"`
}

// list_directory_start(path, include_hidden, sort_by, sort_order) ->
// {listing_id, total_count, max_filename_width?}
func (s *Server) handleStartListing(w http.ResponseWriter, r *http.Request) {
	var req startListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	vol, err := s.Volumes.Default()
	if err != nil {
		writeError(w, err)
		return
	}
	volumeID, err := s.Volumes.DefaultName()
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := s.Listings.StartListing(r.Context(), vol, volumeID, expandTilde(req.Path), req.IncludeHidden,
		types.SortBy(req.SortBy), types.SortOrder(req.SortOrder))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// get_file_range(listing_id, start, count, include_hidden) -> [FileEntry]
func (s *Server) handleGetRange(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	start := queryInt(r, "start", 0)
	count := queryInt(r, "count", 0)
	includeHidden := queryBool(r, "includeHidden")

	entries, err := s.Listings.GetRange(id, start, count, includeHidden)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// get_total_count(listing_id, include_hidden) -> uint
func (s *Server) handleGetTotalCount(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	count, err := s.Listings.GetTotalCount(id, queryBool(r, "includeHidden"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"totalCount": count})
}

// find_file_index(listing_id, name, include_hidden) -> uint?
func (s *Server) handleFindFileIndex(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	name := r.URL.Query().Get("name")
	idx, err := s.Listings.FindFileIndex(id, name, queryBool(r, "includeHidden"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]*int{"index": idx})
}

// get_file_at(listing_id, index, include_hidden) -> FileEntry?
func (s *Server) handleGetFileAt(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	index, err := strconv.Atoi(vars["index"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "index must be an integer"})
		return
	}
	entry, err := s.Listings.GetFileAt(vars["id"], index, queryBool(r, "includeHidden"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

type resortRequest struct {
	SortBy         string `json:"sortBy"`
	SortOrder      string `json:"sortOrder"`
	CursorFilename string `json:"cursorFilename"`
	IncludeHidden  bool   `json:"includeHidden"`
}

// resort_listing(listing_id, sort_by, sort_order, cursor_filename?,
// include_hidden) -> {new_cursor_index?}
func (s *Server) handleResortListing(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req resortRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	result, err := s.Listings.ResortListing(id, types.SortBy(req.SortBy), types.SortOrder(req.SortOrder), req.CursorFilename, req.IncludeHidden)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// list_directory_end(listing_id) (fire-and-forget)
func (s *Server) handleEndListing(w http.ResponseWriter, r *http.Request) {
	s.Listings.EndListing(mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}

type extendedMetadataRequest struct {
	Paths []string `json:"paths"`
}

// get_extended_metadata(paths) -> [ExtendedMetadata]
func (s *Server) handleGetExtendedMetadata(w http.ResponseWriter, r *http.Request) {
	var req extendedMetadataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	writeJSON(w, http.StatusOK, s.ExtendedMetadata.ExtendedRead(r.Context(), req.Paths))
}
