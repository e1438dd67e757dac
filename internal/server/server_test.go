package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvbarbosa/extrato/internal/common"
	"github.com/mvbarbosa/extrato/internal/model"
	"github.com/mvbarbosa/extrato/internal/storage"
)

type stubClassifier struct {
	result model.ClassificationResult
	err    error
	calls  int
}

func (s *stubClassifier) Classify(_ context.Context, _ string, _ decimal.Decimal, _ model.TransactionKind, _ []model.Category) (model.ClassificationResult, error) {
	s.calls++
	if s.err != nil {
		return model.ClassificationResult{}, s.err
	}
	return s.result, nil
}

func newTestServer(t *testing.T, classifier SuggestionClassifier) (*Server, *storage.SQLiteStorage) {
	t.Helper()
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))

	require.NoError(t, store.CreateCategory(context.Background(), &model.Category{
		ID: "cat-transporte", Name: "Transporte", Direction: model.DirectionDespesa, Active: true,
	}))
	require.NoError(t, store.CreateRule(context.Background(), &model.ClassificationRule{
		Kind: model.RuleContains, Expression: "UBER", CategoryID: "cat-transporte", Active: true,
	}))

	return New(store, store, classifier), store
}

func postClassify(t *testing.T, srv *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/classify", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestClassifyRuleMatch(t *testing.T) {
	stub := &stubClassifier{}
	srv, _ := newTestServer(t, stub)

	rec := postClassify(t, srv, `{"descricao": "UBER TRIP", "valor": "-34,50", "tipo": "debito"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp classifyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "cat-transporte", resp.CategoriaSugeridaID)
	assert.Equal(t, "rule", resp.Fonte)
	assert.False(t, resp.Cached)
	assert.Equal(t, 0, stub.calls)
}

func TestClassifyFallsBackToAI(t *testing.T) {
	stub := &stubClassifier{result: model.ClassificationResult{
		CategoryID:   "cat-transporte",
		CategoryName: "Transporte",
		Source:       model.SourceAI,
		Score:        0.88,
		Reason:       "corrida de aplicativo",
	}}
	srv, _ := newTestServer(t, stub)

	rec := postClassify(t, srv, `{"descricao": "99 POP VIAGEM", "valor": -21.9, "tipo": "debito"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp classifyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ai", resp.Fonte)
	assert.InDelta(t, 0.88, resp.Confianca, 0.001)
	assert.Equal(t, 1, stub.calls)
}

func TestClassifyCachedFlag(t *testing.T) {
	stub := &stubClassifier{result: model.ClassificationResult{
		CategoryID: "cat-transporte",
		Source:     model.SourceCache,
		Score:      0.9,
	}}
	srv, _ := newTestServer(t, stub)

	rec := postClassify(t, srv, `{"descricao": "99 POP", "valor": -10, "tipo": "debito"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp classifyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Cached)
}

func TestClassifyMissingFields(t *testing.T) {
	srv, _ := newTestServer(t, &stubClassifier{})

	for _, body := range []string{
		`{}`,
		`{"descricao": "X", "tipo": "debito"}`,
		`{"descricao": "X", "valor": -1}`,
		`não é json`,
	} {
		rec := postClassify(t, srv, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
	}
}

func TestClassifyInvalidTipo(t *testing.T) {
	srv, _ := newTestServer(t, &stubClassifier{})

	rec := postClassify(t, srv, `{"descricao": "X", "valor": -1, "tipo": "transferencia"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClassifyNoCategoriesForDirection(t *testing.T) {
	// Only a despesa category is registered; a credito has nowhere to go.
	srv, _ := newTestServer(t, &stubClassifier{})

	rec := postClassify(t, srv, `{"descricao": "TED RECEBIDA", "valor": 100, "tipo": "credito"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClassifyBudgetExceededIs429(t *testing.T) {
	stub := &stubClassifier{err: common.ErrBudgetExceeded}
	srv, _ := newTestServer(t, stub)

	rec := postClassify(t, srv, `{"descricao": "MERCADO", "valor": -50, "tipo": "debito"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestClassifyAIFailureIs500(t *testing.T) {
	stub := &stubClassifier{err: common.ErrClassificationFailed}
	srv, _ := newTestServer(t, stub)

	rec := postClassify(t, srv, `{"descricao": "MERCADO", "valor": -50, "tipo": "debito"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUsageEndpoint(t *testing.T) {
	srv, store := newTestServer(t, nil)

	now := time.Now().UTC()
	require.NoError(t, store.LogUsage(context.Background(), model.AIUsageRecord{
		ID: "u1", Timestamp: now, Model: "gpt-4o-mini", TokensTotal: 300, CostUSD: 0.004,
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/usage", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp usageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Chamadas)
	assert.Equal(t, 300, resp.TokensTotal)
	assert.InDelta(t, 0.004, resp.CustoUSD, 1e-9)
}
