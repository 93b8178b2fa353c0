package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/matzehuels/seqdist/pkg/buildinfo"
	apperrors "github.com/matzehuels/seqdist/pkg/errors"
	"github.com/matzehuels/seqdist/pkg/pipeline"
	"github.com/matzehuels/seqdist/pkg/seqio"
)

// decode reads one JSON value from the request body into v.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return err
		}
		return apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode request body")
	}
	if _, err := dec.Token(); err != io.EOF {
		return apperrors.New(apperrors.ErrCodeInvalidFormat, "request body must hold a single JSON value")
	}
	return nil
}

func boolQuery(r *http.Request, name string) (bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, apperrors.New(apperrors.ErrCodeInvalidInput, "query %s: %q is not a boolean", name, v)
	}
	return b, nil
}

func (s *Server) options(r *http.Request) (pipeline.Options, error) {
	refresh, err := boolQuery(r, "refresh")
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{MaxLength: s.cfg.MaxLength, Refresh: refresh}, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) handleDistance(w http.ResponseWriter, r *http.Request) {
	var pair seqio.Pair
	if err := decode(r, &pair); err != nil {
		writeError(w, r, err)
		return
	}
	opts, err := s.options(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.runner.Compute(r.Context(), pair, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type explainResponse struct {
	Distance   int      `json:"distance"`
	Length     int      `json:"length"`
	LabelCount int      `json:"label_count"`
	Mapping    []int    `json:"mapping"`
	A          []string `json:"a"`
	B          []string `json:"b"`
}

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	var pair seqio.Pair
	if err := decode(r, &pair); err != nil {
		writeError(w, r, err)
		return
	}
	ex, err := s.runner.Explain(r.Context(), pair, pipeline.Options{MaxLength: s.cfg.MaxLength})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, explainResponse{
		Distance:   ex.Match.Distance,
		Length:     ex.Match.Len(),
		LabelCount: ex.Match.LabelCount,
		Mapping:    ex.Match.Mapping,
		A:          ex.LabelsA,
		B:          ex.LabelsB,
	})
}

type batchRequest struct {
	Kind     string       `json:"kind,omitempty"`
	Strategy string       `json:"strategy,omitempty"`
	Workers  int          `json:"workers,omitempty"`
	Pairs    []seqio.Pair `json:"pairs"`
}

type batchEntry struct {
	Name   string           `json:"name,omitempty"`
	Result *pipeline.Result `json:"result,omitempty"`
	Error  *errorDetail     `json:"error,omitempty"`
}

type batchResponse struct {
	Results []batchEntry `json:"results"`
	Failed  int          `json:"failed"`
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	opts, err := s.options(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	opts.Kind, opts.Strategy = req.Kind, req.Strategy

	workers := s.cfg.Workers
	if req.Workers > 0 && req.Workers < workers {
		workers = req.Workers
	}

	items, err := s.runner.Batch(r.Context(), req.Pairs, opts, workers)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := batchResponse{Results: make([]batchEntry, len(items))}
	for i, it := range items {
		entry := batchEntry{Name: it.Name, Result: it.Result}
		if it.Err != nil {
			resp.Failed++
			entry.Error = &errorDetail{
				Code:    string(apperrors.GetCode(it.Err)),
				Message: apperrors.UserMessage(it.Err),
			}
		}
		resp.Results[i] = entry
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePermutation(w http.ResponseWriter, r *http.Request) {
	var req pipeline.PermRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := apperrors.ValidateLength(len(req.P1), s.cfg.MaxLength); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.runner.Permutation(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	if s.runner.Store == nil {
		writeError(w, r, errNotFound("result history is not enabled"))
		return
	}
	limit := DefaultResultsLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 1000 {
			writeError(w, r, apperrors.New(apperrors.ErrCodeInvalidInput, "limit must be an integer in [1, 1000], got %q", v))
			return
		}
		limit = n
	}
	recs, err := s.runner.Store.List(r.Context(), limit)
	if err != nil {
		writeError(w, r, fmt.Errorf("list results: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": recs})
}
