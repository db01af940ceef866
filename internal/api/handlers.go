package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/stenomix/internal/apperr"
	"github.com/starford/stenomix/internal/compiler"
	"github.com/starford/stenomix/internal/source"
)

const maxBody = 10 << 20

// Handler holds API route handlers.
type Handler struct {
	svc *compiler.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *compiler.Service) *Handler {
	return &Handler{svc: svc}
}

// sourcePath extracts the source path from the URL (everything after
// /api/dictionaries/). Supports encoded slashes (e.g. en%2Fmain.json).
func sourcePath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// requestFormat picks the entry document format from ?format= or the
// Content-Type header. JSON is the default.
func requestFormat(r *http.Request) source.Format {
	if f := r.URL.Query().Get("format"); f != "" {
		if f == "yaml" || f == "yml" {
			return source.FormatYAML
		}
		return source.FormatJSON
	}
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		return source.FormatYAML
	}
	return source.FormatJSON
}

// isCompileError reports whether err is caused by the submitted entries.
func isCompileError(err error) bool {
	return errors.Is(err, apperr.ErrParse) ||
		errors.Is(err, apperr.ErrLookup) ||
		errors.Is(err, apperr.ErrCycle) ||
		errors.Is(err, apperr.ErrLimit)
}

// Compile handles POST /api/compile.
//
//	@Summary		Compile an advanced dictionary document
//	@Tags			compile
//	@Accept			json
//	@Accept			application/yaml
//	@Produce		json
//	@Param			format	query		string	false	"Body format"	Enums(json, yaml)
//	@Success		200		{object}	CompileResponse
//	@Failure		400		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/compile [post]
func (h *Handler) Compile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read body"))
		return
	}
	entries, err := source.Decode(requestFormat(r), body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	res, err := h.svc.Compile(r.Context(), entries)
	if err != nil {
		if isCompileError(err) {
			writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error()))
		} else {
			slog.Error("compile failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ListDictionaries handles GET /api/dictionaries.
//
//	@Summary		List compiled source documents
//	@Tags			dictionaries
//	@Produce		json
//	@Success		200	{object}	DictionaryListResponse
//	@Security		BearerAuth
//	@Router			/dictionaries [get]
func (h *Handler) ListDictionaries(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.ListSources(r.Context())
	if err != nil {
		slog.Error("list dictionaries failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, DictionaryListResponse{Dictionaries: rows})
}

// GetDictionary handles GET /api/dictionaries/*.
//
//	@Summary		Get the compiled dictionary of a source document
//	@Tags			dictionaries
//	@Produce		json
//	@Param			path	path		string	true	"Source path"
//	@Success		200		{object}	map[string]string
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/dictionaries/{path} [get]
func (h *Handler) GetDictionary(w http.ResponseWriter, r *http.Request) {
	path := sourcePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	data, err := h.svc.ReadOutput(r.Context(), path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("read dictionary failed", slog.String("path", path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Build handles POST /api/build.
//
//	@Summary		Recompile changed source documents
//	@Tags			dictionaries
//	@Produce		json
//	@Param			force	query		bool	false	"Recompile every document"
//	@Success		200		{object}	BuildResponse
//	@Security		BearerAuth
//	@Router			/build [post]
func (h *Handler) Build(w http.ResponseWriter, r *http.Request) {
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))
	rep, err := h.svc.CompileAll(r.Context(), force)
	if err != nil {
		slog.Error("build failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// Lookup handles GET /api/lookup.
//
//	@Summary		Find the translations of a stroke sequence
//	@Tags			search
//	@Produce		json
//	@Param			strokes	query		string	true	"Stroke sequence"
//	@Success		200		{object}	LookupResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/lookup [get]
func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	strokes := r.URL.Query().Get("strokes")
	if strokes == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'strokes' is required"))
		return
	}
	entries, err := h.svc.Lookup(r.Context(), strokes)
	if err != nil {
		slog.Error("lookup failed", slog.String("strokes", strokes), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, LookupResponse{
		Strokes: h.svc.NormalizeStrokes(strokes),
		Entries: entries,
	})
}

// Search handles GET /api/search.
//
//	@Summary		Search compiled translations
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}
