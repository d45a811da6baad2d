package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/internal/logging"
	"github.com/aretw0/lattice/pkg/domain"
)

// stubAnalyzer returns a fixed analysis or error.
type stubAnalyzer struct {
	analysis *lattice.Analysis
	err      error
	calls    int
}

func (s *stubAnalyzer) Analyze(ctx context.Context) (*lattice.Analysis, error) {
	s.calls++
	return s.analysis, s.err
}

func fixtureAnalysis() *lattice.Analysis {
	settings := &domain.Artifact{Kind: domain.KindVariable, Name: "Settings"}
	start := &domain.Node{UID: 0, Function: &domain.Function{Name: "Start"}, IsStart: true}
	scan := &domain.Node{UID: 1, Function: &domain.Function{Name: "Scan"}}

	return &lattice.Analysis{
		Graph: domain.Graph{
			Nodes: []*domain.Node{start, scan},
			Edges: []domain.Edge{
				{Origin: 0, Destination: 1, Token: domain.Token{ID: 1, Artifact: settings, Cardinality: domain.Unitary}, Relation: domain.DataFlow},
			},
		},
		Diagnostics: []domain.Diagnostic{
			{Severity: domain.SeverityWarning, Code: domain.DiagInferredArtifact, Message: "undefined artifact"},
		},
		PeakPools: 1,
	}
}

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Health(t *testing.T) {
	handler := NewHandler(&stubAnalyzer{analysis: fixtureAnalysis()}, logging.NewNop())

	rec := get(t, handler, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHandler_GraphJSON(t *testing.T) {
	stub := &stubAnalyzer{analysis: fixtureAnalysis()}
	handler := NewHandler(stub, logging.NewNop())

	rec := get(t, handler, "/graph")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var decoded struct {
		Nodes []map[string]any `json:"nodes"`
		Edges []map[string]any `json:"edges"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	require.Len(t, decoded.Nodes, 2)
	require.Equal(t, "Start", decoded.Nodes[0]["functionName"])
	require.Len(t, decoded.Edges, 1)
	require.Equal(t, float64(0), decoded.Edges[0]["originNodeUid"])
	require.Equal(t, 1, stub.calls)
}

func TestHandler_MermaidAndDOT(t *testing.T) {
	handler := NewHandler(&stubAnalyzer{analysis: fixtureAnalysis()}, logging.NewNop())

	rec := get(t, handler, "/graph.mmd")
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.HasPrefix(rec.Body.String(), "flowchart TD"))

	rec = get(t, handler, "/graph.dot")
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.HasPrefix(rec.Body.String(), "digraph Lattice"))
	require.Equal(t, "text/vnd.graphviz", rec.Header().Get("Content-Type"))
}

func TestHandler_Diagnostics(t *testing.T) {
	handler := NewHandler(&stubAnalyzer{analysis: fixtureAnalysis()}, logging.NewNop())

	rec := get(t, handler, "/diagnostics")
	require.Equal(t, http.StatusOK, rec.Code)

	var diags []domain.Diagnostic
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &diags))
	require.Len(t, diags, 1)
	require.Equal(t, domain.DiagInferredArtifact, diags[0].Code)
}

func TestHandler_DiagnosticsEmptyIsArray(t *testing.T) {
	analysis := fixtureAnalysis()
	analysis.Diagnostics = nil
	handler := NewHandler(&stubAnalyzer{analysis: analysis}, logging.NewNop())

	rec := get(t, handler, "/diagnostics")
	require.Equal(t, "[]\n", rec.Body.String())
}

func TestHandler_AnalyzeFailure(t *testing.T) {
	handler := NewHandler(&stubAnalyzer{err: errors.New("manifest exploded")}, logging.NewNop())

	for _, path := range []string{"/graph", "/graph.mmd", "/graph.dot", "/diagnostics"} {
		rec := get(t, handler, path)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code, path)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Contains(t, body["error"], "manifest exploded")
	}
}

func TestHandler_Metrics(t *testing.T) {
	handler := NewHandler(&stubAnalyzer{analysis: fixtureAnalysis()}, logging.NewNop())

	// Trigger an analysis so the counters move.
	get(t, handler, "/graph")

	rec := get(t, handler, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, `lattice_analyses_total{status="ok"} 1`)
	require.Contains(t, body, "lattice_analysis_duration_seconds")
	require.Contains(t, body, "lattice_peak_pools 1")
}

func TestHandler_TwoInstancesDoNotCollide(t *testing.T) {
	// Metrics live on a private registry per handler.
	a := NewHandler(&stubAnalyzer{analysis: fixtureAnalysis()}, logging.NewNop())
	b := NewHandler(&stubAnalyzer{analysis: fixtureAnalysis()}, logging.NewNop())

	get(t, a, "/graph")
	rec := get(t, b, "/metrics")
	require.NotContains(t, rec.Body.String(), `lattice_analyses_total{status="ok"} 1`)
}
