package bank

import (
	"path/filepath"
	"strings"

	"github.com/mvbarbosa/extrato/internal/normalize"
)

// headerScanLines bounds how far into a file fingerprints are searched.
// Bank exports put preamble (account holder, period) above the header, but
// never more than a handful of lines of it.
const headerScanLines = 10

var ofxSignatures = []string{"<OFX>", "OFXHEADER", "<BANKTRANLIST>"}

// Detect picks the bank profile for a file. OFX files are recognized
// structurally before any CSV fingerprinting; otherwise the first registered
// profile whose fingerprint tokens all appear (case- and accent-insensitive,
// any order) in the first lines wins. When nothing matches, a generic CSV
// profile with a positionally inferred column mapping is returned, so Detect
// never fails.
func Detect(content, filename string) Profile {
	if isOFX(content, filename) {
		return ofxProfile()
	}

	lines := headLines(content, headerScanLines)
	haystack := make([]string, len(lines))
	for i, line := range lines {
		haystack[i] = normalize.Description(line)
	}
	joined := strings.Join(haystack, "\n")

	for _, p := range registry {
		if matchesFingerprint(joined, p.HeaderFingerprint) {
			return p
		}
	}

	return genericProfile(content)
}

func isOFX(content, filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".ofx", ".qfx":
		return true
	}
	head := content
	if len(head) > 4096 {
		head = head[:4096]
	}
	upper := strings.ToUpper(head)
	for _, sig := range ofxSignatures {
		if strings.Contains(upper, sig) {
			return true
		}
	}
	return false
}

func matchesFingerprint(normalized string, tokens []string) bool {
	if len(tokens) == 0 {
		return false
	}
	for _, tok := range tokens {
		if !strings.Contains(normalized, tok) {
			return false
		}
	}
	return true
}

// DetectSeparator returns the most frequent candidate separator in the given
// line. Semicolon is tried first because comma also shows up inside
// Brazilian decimal values.
func DetectSeparator(line string) rune {
	candidates := []rune{';', ',', '\t', '|'}
	best := ','
	bestCount := 0
	for _, sep := range candidates {
		if n := strings.Count(line, string(sep)); n > bestCount {
			bestCount = n
			best = sep
		}
	}
	return best
}

// Header keywords used for positional inference on unknown files.
var (
	genericDateTokens   = []string{"DATA", "DATE", "DIA"}
	genericDescTokens   = []string{"DESCRI", "HIST", "LANCAMENTO", "TITULO", "MEMO"}
	genericAmountTokens = []string{"VALOR", "AMOUNT", "MONTANTE"}
	genericCreditTokens = []string{"CREDITO", "CREDIT"}
	genericDebitTokens  = []string{"DEBITO", "DEBIT"}
	genericBalTokens    = []string{"SALDO", "BALANCE"}
	genericDocTokens    = []string{"DOCTO", "DOCUMENTO", "DOC"}
)

func genericProfile(content string) Profile {
	p := Profile{
		ID:          GenericProfileID,
		DisplayName: "Genérico - CSV",
		FileKind:    KindCSV,
		Separator:   ',',
		Encoding:    "utf-8",
		Columns:     ColumnMapping{Date: 0, Description: 1, Amount: 2, Credit: -1, Debit: -1, Document: -1, Balance: -1},
	}

	lines := headLines(content, 20)
	if len(lines) == 0 {
		return p
	}
	p.Separator = DetectSeparator(lines[0])

	for _, line := range lines {
		cells := strings.Split(line, string(p.Separator))
		if len(cells) < 2 {
			continue
		}
		mapping := inferMapping(cells)
		if mapping.Date >= 0 && mapping.Description >= 0 &&
			(mapping.Amount >= 0 || (mapping.Credit >= 0 && mapping.Debit >= 0)) {
			p.Columns = mapping
			break
		}
	}
	return p
}

func inferMapping(cells []string) ColumnMapping {
	m := noColumns()
	for i, cell := range cells {
		norm := normalize.Description(cell)
		switch {
		case m.Date < 0 && containsAny(norm, genericDateTokens):
			m.Date = i
		case m.Credit < 0 && containsAny(norm, genericCreditTokens):
			m.Credit = i
		case m.Debit < 0 && containsAny(norm, genericDebitTokens):
			m.Debit = i
		case m.Description < 0 && containsAny(norm, genericDescTokens):
			m.Description = i
		case m.Amount < 0 && containsAny(norm, genericAmountTokens):
			m.Amount = i
		case m.Balance < 0 && containsAny(norm, genericBalTokens):
			m.Balance = i
		case m.Document < 0 && containsAny(norm, genericDocTokens):
			m.Document = i
		}
	}
	return m
}

func containsAny(s string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(s, tok) {
			return true
		}
	}
	return false
}

func headLines(content string, n int) []string {
	normalized := strings.ReplaceAll(strings.ReplaceAll(content, "\r\n", "\n"), "\r", "\n")
	var lines []string
	for _, line := range strings.Split(normalized, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == n {
			break
		}
	}
	return lines
}
