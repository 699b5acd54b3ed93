package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/c360studio/semi"
	"github.com/c360studio/semi/hierarchy"
)

// ----------------------------------------------------------------------------
// GET /semi/info
// ----------------------------------------------------------------------------

// InfoResponse summarizes the loaded SEM-I.
type InfoResponse struct {
	Source     string `json:"source"`
	Types      int    `json:"types"`
	Variables  int    `json:"variables"`
	Roles      int    `json:"roles"`
	Predicates int    `json:"predicates"`
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	sem := s.current()
	writeJSON(w, http.StatusOK, InfoResponse{
		Source:     sem.Source(),
		Types:      sem.TypeHierarchy().Len(),
		Variables:  len(sem.Variables().Variables()),
		Roles:      len(sem.Roles().Roles()),
		Predicates: len(sem.Predicates().Predicates()),
	})
}

// ----------------------------------------------------------------------------
// GET /semi/document
// ----------------------------------------------------------------------------

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.current().Document())
}

// ----------------------------------------------------------------------------
// GET /semi/types/{type}/ancestors, GET /semi/types/{type}/descendants
// ----------------------------------------------------------------------------

// TypeListResponse carries an ordered list of type symbols for a query
// about one type.
type TypeListResponse struct {
	Type    string   `json:"type"`
	Symbols []string `json:"symbols"`
}

func (s *Server) handleAncestors(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("type")
	symbols, err := s.current().Ancestors(name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TypeListResponse{Type: name, Symbols: symbols})
}

func (s *Server) handleDescendants(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("type")
	symbols, err := s.current().Descendants(name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TypeListResponse{Type: name, Symbols: symbols})
}

// ----------------------------------------------------------------------------
// GET /semi/subsumes?a=X&b=Y, GET /semi/compatible?a=X&b=Y
// ----------------------------------------------------------------------------

// PairResponse answers a binary relation query over two type symbols.
type PairResponse struct {
	A      string `json:"a"`
	B      string `json:"b"`
	Result bool   `json:"result"`
}

func (s *Server) handleSubsumes(w http.ResponseWriter, r *http.Request) {
	s.handlePair(w, r, s.current().Subsumes)
}

func (s *Server) handleCompatible(w http.ResponseWriter, r *http.Request) {
	s.handlePair(w, r, s.current().Compatible)
}

func (s *Server) handlePair(w http.ResponseWriter, r *http.Request, relation func(a, b string) (bool, error)) {
	a := r.URL.Query().Get("a")
	b := r.URL.Query().Get("b")
	if a == "" || b == "" {
		http.Error(w, "query parameters a and b are required", http.StatusBadRequest)
		return
	}
	result, err := relation(a, b)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PairResponse{A: a, B: b, Result: result})
}

// ----------------------------------------------------------------------------
// GET /semi/variables/{var}/properties
// ----------------------------------------------------------------------------

// PropertiesResponse lists the properties a variable type carries,
// inherited ones included.
type PropertiesResponse struct {
	Variable   string               `json:"variable"`
	Properties []semi.PropertyEntry `json:"properties"`
}

func (s *Server) handleVariableProperties(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("var")
	props, err := s.current().Properties(name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PropertiesResponse{Variable: name, Properties: props})
}

// ----------------------------------------------------------------------------
// GET /semi/roles/{role}
// ----------------------------------------------------------------------------

// RoleResponse describes one role and its value constraint.
type RoleResponse struct {
	Role  string `json:"role"`
	Value string `json:"value"`
}

func (s *Server) handleRole(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("role")
	value, err := s.current().RoleValue(name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RoleResponse{Role: name, Value: value})
}

// ----------------------------------------------------------------------------
// GET /semi/predicates/{pred}
// ----------------------------------------------------------------------------

// PredicateResponse describes a predicate and its synopses.
type PredicateResponse struct {
	Predicate string          `json:"predicate"`
	Synopses  []semi.Synopsis `json:"synopses"`
}

func (s *Server) handlePredicate(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("pred")
	synopses, err := s.current().Synopses(name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PredicateResponse{Predicate: name, Synopses: synopses})
}

// ----------------------------------------------------------------------------
// POST /semi/predicates/{pred}/match
// ----------------------------------------------------------------------------

// MatchRequest is the request body for POST /semi/predicates/{pred}/match.
type MatchRequest struct {
	Args []semi.Arg `json:"args"`
}

// MatchResponse reports the synopsis that matched the observed
// arguments.
type MatchResponse struct {
	Predicate string        `json:"predicate"`
	Synopsis  semi.Synopsis `json:"synopsis"`
}

// NoMatchResponse reports per-alternative rejection reasons when no
// synopsis matched.
type NoMatchResponse struct {
	Predicate string                  `json:"predicate"`
	Rejected  []semi.RejectedSynopsis `json:"rejected"`
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("pred")

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	syn, err := s.current().FindSynopsis(name, req.Args)
	if err != nil {
		var noSyn *semi.NoSynopsisError
		if errors.As(err, &noSyn) {
			writeJSON(w, http.StatusUnprocessableEntity, NoMatchResponse{
				Predicate: noSyn.Predicate,
				Rejected:  noSyn.Rejected,
			})
			return
		}
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MatchResponse{Predicate: name, Synopsis: syn})
}

// ----------------------------------------------------------------------------
// Helpers
// ----------------------------------------------------------------------------

// writeError maps lookup failures to 404 and everything else to 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, hierarchy.ErrUnknownType),
		errors.Is(err, semi.ErrUnknownVariable),
		errors.Is(err, semi.ErrUnknownRole),
		errors.Is(err, semi.ErrUnknownPredicate):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		s.logger.Error("Request failed", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}

// writeJSON marshals v as JSON and writes it to w with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Response is already partially written; nothing to recover.
		_ = err
	}
}
