package api

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strconv"
	"strings"

	"github.com/Paintersrp/zortex/internal/history"
	"github.com/Paintersrp/zortex/internal/index"
	"github.com/Paintersrp/zortex/internal/link"
	"github.com/Paintersrp/zortex/internal/resolver"
	"github.com/Paintersrp/zortex/internal/search"
)

type searchResponse struct {
	Query   string         `json:"query"`
	Tokens  []string       `json:"tokens"`
	Results []search.Entry `json:"results"`
}

// handleSearch ranks sections for the q parameter. An empty query lists one
// entry per document.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	tokens := search.Tokenize(q)
	results, err := s.state.Engine.Search(tokens)
	if err != nil {
		jsonError(w, "search failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	if results == nil {
		results = []search.Entry{}
	}

	writeJSON(w, http.StatusOK, searchResponse{Query: q, Tokens: tokens, Results: results})
}

type resolveResponse struct {
	Link    string           `json:"link"`
	Policy  string           `json:"policy"`
	Matches []resolver.Match `json:"matches"`
}

// handleResolve resolves the link parameter relative to current.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("link")
	current := r.URL.Query().Get("current")

	l, ok := link.Parse(raw)
	if !ok {
		jsonError(w, "not a link: "+raw, http.StatusBadRequest)
		return
	}

	matches, err := s.state.Resolver.Resolve(l, current)
	if err != nil {
		var nm *resolver.NoMatchError
		switch {
		case errors.As(err, &nm):
			writeJSON(w, http.StatusNotFound, map[string]any{
				"error":       nm.Error(),
				"component":   nm.Index,
				"suggestions": nm.Suggestions,
			})
		case errors.Is(err, resolver.ErrNoCurrentDocument):
			jsonError(w, err.Error(), http.StatusBadRequest)
		default:
			jsonError(w, "resolve failed: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, resolveResponse{
		Link:    l.String(),
		Policy:  resolver.Decide(l, matches).String(),
		Matches: matches,
	})
}

// handleLink builds the link addressing a line of a document.
func (s *Server) handleLink(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		jsonError(w, "path query parameter is required", http.StatusBadRequest)
		return
	}
	line, err := intParam(r, "line", 1)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	doc, ok := s.document(w, path)
	if !ok {
		return
	}

	l := link.Build(doc.Tree, doc.Lines, line)
	writeJSON(w, http.StatusOK, map[string]any{
		"path": doc.Path,
		"line": line,
		"link": l.String(),
	})
}

// handleListDocuments lists every corpus document with its metadata.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.state.Index.Documents()
	if err != nil {
		jsonError(w, "failed to list documents: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"documents": docs,
		"stats":     s.state.Index.Stats(),
	})
}

func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	docs, err := s.state.Index.Documents()
	if err != nil {
		jsonError(w, "failed to list documents: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tags": index.TagCounts(docs)})
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	entries := s.state.History.Entries()
	if entries == nil {
		entries = []history.Entry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

type recordRequest struct {
	File   string   `json:"file"`
	Line   int      `json:"line"`
	Tokens []string `json:"tokens"`
}

// handleRecordHistory records the selection of the section owning a line.
func (s *Server) handleRecordHistory(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.File) == "" {
		jsonError(w, "file is required", http.StatusBadRequest)
		return
	}

	doc, ok := s.document(w, req.File)
	if !ok {
		return
	}

	entry, err := s.state.History.Record(history.Selection{
		File:        doc.Path,
		SectionPath: doc.Tree.Refs(doc.Tree.Owner(req.Line)),
		Tokens:      req.Tokens,
	})
	if err != nil {
		jsonError(w, "failed to record selection: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) document(w http.ResponseWriter, path string) (*index.Document, bool) {
	doc, err := s.state.Index.Get(path)
	if err != nil {
		if errors.Is(err, index.ErrNotIndexed) || errors.Is(err, fs.ErrNotExist) {
			jsonError(w, "document not found: "+path, http.StatusNotFound)
		} else {
			jsonError(w, "failed to read document: "+err.Error(), http.StatusInternalServerError)
		}
		return nil, false
	}
	return doc, true
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(name + " must be an integer")
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
