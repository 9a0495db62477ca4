package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/lepinkainen/og-previewer/pkg/guide"
	"github.com/lepinkainen/og-previewer/pkg/opengraph"
	"github.com/lepinkainen/og-previewer/pkg/urlutils"
)

// pageData is rendered by the index template
type pageData struct {
	URL      string
	Result   *opengraph.Result
	Host     string
	Findings []guide.Finding
	JSON     string
	MetaTags string
	Guide    *guide.Guide
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, &pageData{Guide: s.guide})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if strings.TrimSpace(rawURL) == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	result := s.previewer.Preview(r.Context(), rawURL)
	data := &pageData{
		URL:    rawURL,
		Result: &result,
		Guide:  s.guide,
	}

	if result.OK() {
		rec := result.Data
		data.Host = rec.SiteName
		if data.Host == "" {
			data.Host = urlutils.Host(rec.URL)
		}
		if s.guide != nil {
			data.Findings = s.guide.Diagnose(rec)
		}
		if out, err := json.MarshalIndent(rec, "", "  "); err == nil {
			data.JSON = string(out)
		}
		data.MetaTags = opengraph.MetaTags(rec)
	}

	s.render(w, data)
}

// handleAPIOpenGraph always answers 200; failures are carried in the "error" field
func (s *Server) handleAPIOpenGraph(w http.ResponseWriter, r *http.Request) {
	result := s.previewer.Preview(r.Context(), r.URL.Query().Get("url"))
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAPIGuide(w http.ResponseWriter, r *http.Request) {
	if s.guide == nil {
		http.Error(w, "guide not available", http.StatusNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, s.guide)
}

func (s *Server) render(w http.ResponseWriter, data *pageData) {
	var buf bytes.Buffer
	if err := s.index.Execute(&buf, data); err != nil {
		s.logger.Error("Failed to render page", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Debug("Failed to write page", "error", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", "error", err)
	}
}
