package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/sw33tLie/geoshare/pkg/batch"
	"github.com/sw33tLie/geoshare/pkg/conversion"
	"github.com/sw33tLie/geoshare/pkg/inputs"
	"github.com/sw33tLie/geoshare/pkg/output"
	"github.com/sw33tLie/geoshare/pkg/storage"
)

// ConvertResponse is the body of /api/convert.
type ConvertResponse struct {
	State    string          `json:"state"`
	Input    string          `json:"input,omitempty"`
	Link     string          `json:"link,omitempty"`
	Position json.RawMessage `json:"position,omitempty"`
	Format   string          `json:"format,omitempty"`
	Output   string          `json:"output,omitempty"`
	Error    string          `json:"error,omitempty"`
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	text := q.Get("q")
	if text == "" {
		http.Error(w, "missing q parameter", http.StatusBadRequest)
		return
	}
	format := output.FormatGeoURI
	if f := q.Get("format"); f != "" {
		var err error
		if format, err = output.ParseFormat(f); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	env := s.Env
	begin := time.Now()
	state := conversion.Run(r.Context(), &env, text)
	s.finish(r.Context(), text, state, time.Since(begin))

	resp, err := newConvertResponse(state, format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	status := http.StatusOK
	if _, failed := state.(conversion.Failed); failed {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, resp)
}

// newConvertResponse describes a terminal state. Successes carry the
// position as JSON and, unless format is json, the rendered output.
func newConvertResponse(state conversion.State, format output.Format) (ConvertResponse, error) {
	resp := ConvertResponse{State: conversion.Name(state)}
	switch st := state.(type) {
	case conversion.Succeeded:
		resp.Input = st.Input.Name()
		resp.Link = st.URI.String(nil)
		pos, err := output.JSON(st.Position)
		if err != nil {
			return resp, err
		}
		resp.Position = json.RawMessage(pos)
		if format != output.FormatJSON {
			out, err := output.Render(format, st.Position)
			if err != nil {
				return resp, err
			}
			resp.Format, resp.Output = string(format), out
		}
	case conversion.Failed:
		if st.Input != nil {
			resp.Input = st.Input.Name()
		}
		resp.Error = st.Kind.String()
	}
	return resp, nil
}

// finish records a terminal state in the history and the metrics.
func (s *Server) finish(ctx context.Context, text string, state conversion.State, elapsed time.Duration) {
	s.metrics.observe(state, elapsed)
	if s.DB == nil {
		return
	}
	write := func() error {
		_, err := s.DB.RecordConversion(ctx, batch.Record(text, state))
		return err
	}
	var err error
	if s.Lock != nil {
		err = s.Lock.WithLock(write)
	} else {
		err = write()
	}
	if err != nil {
		s.Log.Warnf("Could not record conversion: %v", err)
	}
}

// InputInfo describes one input in /api/inputs.
type InputInfo struct {
	Name string `json:"name"`
	inputs.Documentation
}

func (s *Server) handleInputs(w http.ResponseWriter, r *http.Request) {
	var list []InputInfo
	for _, in := range s.Env.Registry.Inputs() {
		list = append(list, InputInfo{Name: in.Name(), Documentation: in.Documentation()})
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "history is disabled", http.StatusNotFound)
		return
	}
	q := r.URL.Query()
	opts := storage.ListOptions{
		Input:      q.Get("input"),
		FailedOnly: q.Get("failed") == "true",
		Limit:      50,
	}
	if l := q.Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n <= 0 {
			http.Error(w, "bad limit", http.StatusBadRequest)
			return
		}
		opts.Limit = n
	}
	if since := q.Get("since"); since != "" {
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			http.Error(w, "since must be an RFC 3339 time", http.StatusBadRequest)
			return
		}
		opts.Since = t
	}

	entries, err := s.DB.ListConversions(r.Context(), opts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []storage.Conversion{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// StatsResponse is the body of /api/stats.
type StatsResponse struct {
	Inputs  []storage.InputStats  `json:"inputs"`
	Domains []storage.DomainStats `json:"domains"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "history is disabled", http.StatusNotFound)
		return
	}
	inputStats, err := s.DB.GetStats(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	domainStats, err := s.DB.GetDomainStats(r.Context(), 10)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, StatsResponse{Inputs: inputStats, Domains: domainStats})
}

func (s *Server) handleDocs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(s.docs)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
