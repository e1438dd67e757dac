package ai

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mvbarbosa/extrato/internal/model"
)

const systemPrompt = "Você é um classificador de transações bancárias brasileiras. " +
	"Responda APENAS com um objeto JSON válido, sem texto explicativo, sem markdown e sem comentários. " +
	"Comece a resposta com { e termine com }."

// buildPrompt assembles the user message for one transaction. Only
// categories whose direction matches the transaction kind are offered, so
// the model cannot put a salary under groceries.
func buildPrompt(description string, amount decimal.Decimal, kind model.TransactionKind, categories []model.Category) string {
	var b strings.Builder

	tipo := "despesa (débito)"
	if kind == model.KindCredito {
		tipo = "receita (crédito)"
	}

	fmt.Fprintf(&b, "Classifique a transação bancária abaixo em uma das categorias disponíveis.\n\n")
	fmt.Fprintf(&b, "Transação: %q\nValor: R$ %s\nTipo: %s\n\nCategorias disponíveis:\n",
		description, amount.StringFixed(2), tipo)

	for _, c := range categories {
		fmt.Fprintf(&b, "- %s: %s\n", c.ID, c.Name)
	}

	b.WriteString("\nResponda com JSON no formato exato:\n")
	b.WriteString(`{"categoria_id": "<id de uma categoria da lista>", "confianca": <número entre 0 e 1>, "reasoning": "<justificativa curta>"}`)

	return b.String()
}
