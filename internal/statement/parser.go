// Package statement parses bank export files into canonical transactions.
// Parsing is tolerant by design: a malformed row is skipped and reported,
// never fatal; only a file whose structure cannot be located at all fails as
// a whole.
package statement

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mvbarbosa/extrato/internal/bank"
	"github.com/mvbarbosa/extrato/internal/model"
	"github.com/mvbarbosa/extrato/internal/normalize"
)

// headerSearchLines bounds the fuzzy header search. Some banks put half a
// page of account preamble above the actual column header.
const headerSearchLines = 20

// Footer markers shared by every profile; rows at or below one of these are
// summary lines, not transactions.
var commonFooterMarkers = []string{"TOTAL", "RESUMO", "ULTIMOS"}

// Rows that are balances rather than movements. These appear before the
// first transaction (Bradesco's "SALDO ANTERIOR"), so they are skipped, not
// treated as end-of-data.
var skipMarkers = []string{"SALDO ANTERIOR"}

// Result is the outcome of parsing one file. Errors collects row-level
// problems with 1-based line references; the batch always continues past
// them.
type Result struct {
	Transactions []model.RawTransaction
	Errors       []string
}

// Fatal reports whether the file as a whole failed to parse: nothing was
// extracted and at least one structural error was recorded.
func (r *Result) Fatal() bool {
	return len(r.Transactions) == 0 && len(r.Errors) > 0
}

// Parse converts raw file content into canonical transactions using the
// given profile. It never panics or returns a Go error for row-level
// problems; see Result.
func Parse(content string, profile bank.Profile) Result {
	if profile.FileKind == bank.KindOFX {
		return parseOFX(content)
	}
	return parseCSV(content, profile)
}

func parseCSV(content string, profile bank.Profile) Result {
	var res Result

	// Line endings vary per bank and per OS the export was produced on.
	content = strings.ReplaceAll(strings.ReplaceAll(content, "\r\n", "\n"), "\r", "\n")
	lines := strings.Split(content, "\n")

	headerIdx := findHeaderRow(lines, profile)
	if headerIdx < 0 {
		res.Errors = append(res.Errors, "linha de cabeçalho não encontrada: o arquivo não parece ser um extrato deste formato")
		return res
	}

	cols := profile.Columns
	footers := append([]string{}, commonFooterMarkers...)
	footers = append(footers, profile.FooterMarkers...)

	for i := headerIdx + 1; i < len(lines); i++ {
		lineNo := i + 1
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}

		if containsMarker(line, skipMarkers) {
			continue
		}
		if isFooter(line, footers) {
			break
		}

		cells := splitLine(line, profile.Separator)
		txn, err := parseRow(cells, cols, profile.DateFormats)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("linha %d: %v", lineNo, err))
			continue
		}
		txn.Line = lineNo
		res.Transactions = append(res.Transactions, *txn)
	}

	return res
}

// findHeaderRow locates the column header by fingerprint rather than a fixed
// line number. For registered profiles the fingerprint tokens must all be on
// the row; the generic profile settles for a date-ish plus a value-ish
// column name.
func findHeaderRow(lines []string, profile bank.Profile) int {
	limit := headerSearchLines
	if limit > len(lines) {
		limit = len(lines)
	}
	for i := 0; i < limit; i++ {
		norm := normalize.Description(lines[i])
		if norm == "" {
			continue
		}
		if profile.Generic() {
			if strings.Contains(norm, "DATA") || strings.Contains(norm, "DATE") {
				return i
			}
			continue
		}
		all := true
		for _, tok := range profile.HeaderFingerprint {
			if !strings.Contains(norm, tok) {
				all = false
				break
			}
		}
		if all {
			return i
		}
	}
	return -1
}

func isFooter(line string, markers []string) bool {
	norm := normalize.Description(line)
	for _, m := range markers {
		if strings.HasPrefix(norm, m) {
			return true
		}
	}
	return false
}

// containsMarker differs from isFooter because balance rows carry a leading
// date cell, so the marker is mid-line rather than a prefix.
func containsMarker(line string, markers []string) bool {
	norm := normalize.Description(line)
	for _, m := range markers {
		if strings.Contains(norm, m) {
			return true
		}
	}
	return false
}

func parseRow(cells []string, cols bank.ColumnMapping, dateFormats []string) (*model.RawTransaction, error) {
	dateStr := cellAt(cells, cols.Date)
	descStr := cellAt(cells, cols.Description)
	if dateStr == "" || descStr == "" {
		return nil, fmt.Errorf("campos obrigatórios ausentes (data ou descrição)")
	}

	isoDate, ok := normalize.Date(dateStr, dateFormats...)
	if !ok {
		return nil, fmt.Errorf("data inválida: %q", dateStr)
	}

	amount, kind, err := parseAmount(cells, cols)
	if err != nil {
		return nil, err
	}

	txn := &model.RawTransaction{
		Date:        dateStr,
		ISODate:     isoDate,
		Description: descStr,
		Amount:      amount,
		Kind:        kind,
		Document:    cellAt(cells, cols.Document),
	}

	if bal := cellAt(cells, cols.Balance); bal != "" {
		if v, balOK := normalize.Value(bal); balOK {
			txn.BalanceAfter = &v
		}
	}

	return txn, nil
}

// parseAmount resolves the transaction value and its direction. Explicit
// credit/debit columns always win over the sign: several banks export
// unsigned amounts split across the two columns.
func parseAmount(cells []string, cols bank.ColumnMapping) (decimal.Decimal, model.TransactionKind, error) {
	if cols.Credit >= 0 || cols.Debit >= 0 {
		creditStr := cellAt(cells, cols.Credit)
		debitStr := cellAt(cells, cols.Debit)

		if debitStr != "" {
			v, ok := normalize.Value(debitStr)
			if !ok {
				return decimal.Decimal{}, "", fmt.Errorf("valor de débito inválido: %q", debitStr)
			}
			if !v.IsZero() {
				return v.Abs(), model.KindDebito, nil
			}
		}
		if creditStr != "" {
			v, ok := normalize.Value(creditStr)
			if !ok {
				return decimal.Decimal{}, "", fmt.Errorf("valor de crédito inválido: %q", creditStr)
			}
			return v.Abs(), model.KindCredito, nil
		}
		return decimal.Decimal{}, "", fmt.Errorf("linha sem valor de crédito ou débito")
	}

	amountStr := cellAt(cells, cols.Amount)
	if amountStr == "" {
		return decimal.Decimal{}, "", fmt.Errorf("valor ausente")
	}
	v, ok := normalize.Value(amountStr)
	if !ok {
		return decimal.Decimal{}, "", fmt.Errorf("valor inválido: %q", amountStr)
	}
	kind := model.KindCredito
	if v.IsNegative() {
		kind = model.KindDebito
	}
	return v.Abs(), kind, nil
}

func cellAt(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}

// splitLine splits a CSV row on the separator while respecting double
// quotes, so "Empresa; Ltda" stays one cell in a semicolon file.
func splitLine(line string, sep rune) []string {
	var cells []string
	var current strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == sep && !inQuotes:
			cells = append(cells, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	cells = append(cells, strings.TrimSpace(current.String()))
	return cells
}
