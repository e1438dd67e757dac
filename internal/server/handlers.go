package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mvbarbosa/extrato/internal/common"
	"github.com/mvbarbosa/extrato/internal/model"
	"github.com/mvbarbosa/extrato/internal/normalize"
	"github.com/mvbarbosa/extrato/internal/rules"
)

// classifyRequest is the wire format of POST /api/classify. Field names stay
// in Portuguese: the consumers are spreadsheets and scripts written against
// the original API.
type classifyRequest struct {
	Descricao string          `json:"descricao"`
	Valor     json.RawMessage `json:"valor"`
	Tipo      string          `json:"tipo"`
	Config    *classifyConfig `json:"config,omitempty"`
}

type classifyConfig struct {
	Strategy string `json:"estrategia,omitempty"`
}

type classifyResponse struct {
	CategoriaSugeridaID string  `json:"categoria_sugerida_id"`
	CategoriaNome       string  `json:"categoria_nome,omitempty"`
	Confianca           float64 `json:"confianca"`
	Reasoning           string  `json:"reasoning,omitempty"`
	Fonte               string  `json:"fonte"`
	Cached              bool    `json:"cached"`
}

type errorResponse struct {
	Erro string `json:"erro"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Erro: msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleClassify classifies one ad-hoc transaction: rules first, AI only on
// a rule miss. Nothing is persisted; this is a suggestion endpoint.
func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "corpo da requisição não é JSON válido")
		return
	}

	if req.Descricao == "" || len(req.Valor) == 0 || req.Tipo == "" {
		writeError(w, http.StatusBadRequest, "campos obrigatórios: descricao, valor, tipo")
		return
	}

	kind := model.TransactionKind(req.Tipo)
	if kind != model.KindCredito && kind != model.KindDebito {
		writeError(w, http.StatusBadRequest, "tipo deve ser 'credito' ou 'debito'")
		return
	}

	amount, ok := parseAmount(req.Valor)
	if !ok {
		writeError(w, http.StatusBadRequest, "valor inválido")
		return
	}

	ctx := r.Context()

	allRules, err := s.store.GetRules(ctx, true)
	if err != nil {
		slog.Error("failed to load rules", "error", err)
		writeError(w, http.StatusInternalServerError, "falha ao carregar regras")
		return
	}

	if res := rules.NewEngine(allRules).Classify(req.Descricao); res.Classified() {
		writeJSON(w, http.StatusOK, resultToResponse(res))
		return
	}

	if s.classifier == nil {
		writeError(w, http.StatusServiceUnavailable, "classificador AI não configurado")
		return
	}

	categories, err := s.store.GetCategories(ctx)
	if err != nil {
		slog.Error("failed to load categories", "error", err)
		writeError(w, http.StatusInternalServerError, "falha ao carregar categorias")
		return
	}
	if len(model.FilterByDirection(categories, kind.Direction())) == 0 {
		writeError(w, http.StatusBadRequest, "nenhuma categoria cadastrada para esse tipo de transação")
		return
	}

	res, err := s.classifier.Classify(ctx, req.Descricao, amount, kind, categories)
	switch {
	case errors.Is(err, common.ErrBudgetExceeded):
		writeError(w, http.StatusTooManyRequests, "orçamento mensal de AI excedido")
		return
	case err != nil:
		slog.Error("AI classification failed", "error", err)
		writeError(w, http.StatusInternalServerError, "falha na classificação")
		return
	}

	writeJSON(w, http.StatusOK, resultToResponse(res))
}

// parseAmount accepts the value both as a JSON number and as a Brazilian
// formatted string, which is what spreadsheet clients send.
func parseAmount(raw json.RawMessage) (decimal.Decimal, bool) {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return normalize.Value(asString)
	}

	var asNumber float64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return decimal.NewFromFloat(asNumber), true
	}

	return decimal.Decimal{}, false
}

func resultToResponse(res model.ClassificationResult) classifyResponse {
	return classifyResponse{
		CategoriaSugeridaID: res.CategoryID,
		CategoriaNome:       res.CategoryName,
		Confianca:           res.Score,
		Reasoning:           res.Reason,
		Fonte:               string(res.Source),
		Cached:              res.Source == model.SourceCache,
	}
}

type usageResponse struct {
	Mes         string  `json:"mes"`
	Chamadas    int     `json:"chamadas"`
	TokensTotal int     `json:"tokens_total"`
	CustoUSD    float64 `json:"custo_usd"`
}

// handleUsage reports the month-to-date AI spend.
func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	records, err := s.ledger.GetUsage(r.Context(), now.Year(), now.Month())
	if err != nil {
		slog.Error("failed to load usage", "error", err)
		writeError(w, http.StatusInternalServerError, "falha ao consultar uso")
		return
	}

	resp := usageResponse{Mes: now.Format("2006-01")}
	for _, rec := range records {
		resp.Chamadas++
		resp.TokensTotal += rec.TokensTotal
		resp.CustoUSD += rec.CostUSD
	}

	writeJSON(w, http.StatusOK, resp)
}
