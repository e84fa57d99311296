package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tordrt/pgmaint/internal/advisor"
	"github.com/tordrt/pgmaint/internal/script"
	"github.com/tordrt/pgmaint/internal/tables"
)

const (
	viewScripts = "scripts"
	viewTables  = "tables"
)

type pages struct {
	tmpl    *pageTemplates
	advisor *advisor.Service
	logger  *slog.Logger
}

// pageData feeds the index template
type pageData struct {
	Input   string
	View    string
	Tables  []tables.Record
	Scripts script.Scripts
	Advice  *advisor.Advice
}

func newPageData(input, view string) pageData {
	if view != viewTables {
		view = viewScripts
	}
	records := tables.Parse(input)
	return pageData{
		Input:   input,
		View:    view,
		Tables:  records,
		Scripts: script.Generate(records),
	}
}

func (p *pages) index(w http.ResponseWriter, r *http.Request) {
	p.render(w, newPageData(r.URL.Query().Get("input"), r.URL.Query().Get("view")))
}

func (p *pages) generate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	p.render(w, newPageData(r.PostForm.Get("input"), r.PostForm.Get("view")))
}

func (p *pages) advice(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	data := newPageData(r.PostForm.Get("input"), r.PostForm.Get("view"))
	if advice, ok := p.advisor.Advise(r.Context(), tables.RawNames(data.Tables)); ok {
		data.Advice = &advice
	}
	p.render(w, data)
}

func (p *pages) render(w http.ResponseWriter, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := p.tmpl.index.Execute(w, data); err != nil {
		p.logger.Error("failed to render page", "error", err)
	}
}

type parseRequest struct {
	Input string `json:"input"`
}

type parseResponse struct {
	Tables  []tables.Record `json:"tables"`
	Scripts script.Scripts  `json:"scripts"`
}

func (p *pages) apiParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	records := tables.Parse(req.Input)
	writeJSON(w, http.StatusOK, parseResponse{
		Tables:  records,
		Scripts: script.Generate(records),
	})
}

type adviceRequest struct {
	Input  string   `json:"input"`
	Tables []string `json:"tables"`
}

type adviceResponse struct {
	Advice    *advisor.Advice `json:"advice"`
	Requested bool            `json:"requested"`
}

func (p *pages) apiAdvice(w http.ResponseWriter, r *http.Request) {
	var req adviceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	// explicit lists are filtered and deduplicated like pasted text
	input := req.Input
	if len(req.Tables) > 0 {
		input = strings.Join(req.Tables, "\n")
	}
	names := tables.RawNames(tables.Parse(input))

	resp := adviceResponse{}
	if advice, ok := p.advisor.Advise(r.Context(), names); ok {
		resp.Advice = &advice
		resp.Requested = true
	}
	writeJSON(w, http.StatusOK, resp)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		status := http.StatusBadRequest
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
