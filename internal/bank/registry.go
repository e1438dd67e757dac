package bank

// GenericProfileID identifies the fallback CSV profile.
const GenericProfileID = "generic"

// OFXProfileID identifies the structural OFX profile shared by every bank
// that exports OFX.
const OFXProfileID = "ofx"

// Registry order is detection priority: more distinctive fingerprints come
// first so that a generic-looking header never shadows a specific bank.
// Fingerprint tokens are matched against normalized (uppercase,
// accent-stripped) text, and are deliberately short: "HIST" still matches a
// "Histórico" header that arrived with mangled ISO-8859-1 bytes.
var registry = []Profile{
	{
		ID:                "nubank",
		DisplayName:       "Nubank - Extrato de Conta",
		FileKind:          KindCSV,
		Separator:         ',',
		Encoding:          "utf-8",
		HeaderFingerprint: []string{"DATA", "VALOR", "IDENTIFICADOR", "DESCRI"},
		DateFormats:       []string{"02/01/2006", "2006-01-02"},
		Columns: ColumnMapping{
			Date: 0, Amount: 1, Document: 2, Description: 3,
			Credit: -1, Debit: -1, Balance: -1,
		},
	},
	{
		ID:                "bradesco",
		DisplayName:       "Bradesco - Extrato de Conta Corrente",
		FileKind:          KindCSV,
		Separator:         ';',
		Encoding:          "iso-8859-1",
		HeaderFingerprint: []string{"DATA", "HIST", "DOCTO"},
		DateFormats:       []string{"02/01/06", "02/01/2006"},
		FooterMarkers:     []string{"TOTAL", "ULTIMOS LANCAMENTOS", "OS DADOS ACIMA"},
		Columns: ColumnMapping{
			Date: 0, Description: 1, Document: 2, Credit: 3, Debit: 4, Balance: 5,
			Amount: -1,
		},
	},
	{
		ID:                "santander",
		DisplayName:       "Santander - Extrato de Conta",
		FileKind:          KindCSV,
		Separator:         ';',
		Encoding:          "iso-8859-1",
		HeaderFingerprint: []string{"DATA", "DESCRI", "AGENCIA"},
		DateFormats:       []string{"02/01/2006"},
		FooterMarkers:     []string{"RESUMO"},
		Columns: ColumnMapping{
			Date: 0, Description: 1, Document: 2, Amount: 4, Balance: 5,
			Credit: -1, Debit: -1,
		},
	},
	{
		ID:                "bb",
		DisplayName:       "Banco do Brasil - Extrato",
		FileKind:          KindCSV,
		Separator:         ';',
		Encoding:          "iso-8859-1",
		HeaderFingerprint: []string{"DATA", "HIST", "VALOR TRANSACAO"},
		DateFormats:       []string{"02/01/2006"},
		Columns: ColumnMapping{
			Date: 0, Description: 1, Document: 2, Amount: 3, Balance: 4,
			Credit: -1, Debit: -1,
		},
	},
	{
		ID:                "itau",
		DisplayName:       "Itaú - Extrato de Conta Corrente",
		FileKind:          KindCSV,
		Separator:         ',',
		Encoding:          "iso-8859-1",
		HeaderFingerprint: []string{"DATA", "LAN"},
		DateFormats:       []string{"02/01/2006"},
		Columns: ColumnMapping{
			Date: 0, Description: 1, Amount: 4,
			Credit: -1, Debit: -1, Document: -1, Balance: -1,
		},
	},
	{
		ID:                "c6",
		DisplayName:       "C6 Bank - Extrato",
		FileKind:          KindCSV,
		Separator:         ',',
		Encoding:          "utf-8",
		HeaderFingerprint: []string{"DATA", "DESCRI", "VALOR", "CATEGORIA"},
		DateFormats:       []string{"02/01/2006"},
		Columns: ColumnMapping{
			Date: 0, Description: 1, Amount: 2,
			Credit: -1, Debit: -1, Document: -1, Balance: -1,
		},
	},
	{
		ID:                "inter",
		DisplayName:       "Inter - Extrato de Conta",
		FileKind:          KindCSV,
		Separator:         ';',
		Encoding:          "utf-8",
		HeaderFingerprint: []string{"DATA", "DESCRI", "VALOR", "SALDO"},
		DateFormats:       []string{"02/01/2006"},
		Columns: ColumnMapping{
			Date: 0, Description: 1, Amount: 2, Balance: 3,
			Credit: -1, Debit: -1, Document: -1,
		},
	},
	{
		// Caixa exports the same shape as Inter; the Inter profile wins on
		// ambiguous files, which is harmless since the mappings agree.
		ID:                "caixa",
		DisplayName:       "Caixa Econômica - Extrato",
		FileKind:          KindCSV,
		Separator:         ';',
		Encoding:          "iso-8859-1",
		HeaderFingerprint: []string{"DATA", "DESCRI", "VALOR", "SALDO"},
		DateFormats:       []string{"02/01/2006"},
		Columns: ColumnMapping{
			Date: 0, Description: 1, Amount: 2, Balance: 3,
			Credit: -1, Debit: -1, Document: -1,
		},
	},
}

// Profiles returns a copy of the registered CSV profiles in detection order.
func Profiles() []Profile {
	out := make([]Profile, len(registry))
	copy(out, registry)
	return out
}

// ProfileByID looks up a registered profile by its key. Used when the caller
// forces a profile instead of relying on detection.
func ProfileByID(id string) (Profile, bool) {
	if id == OFXProfileID {
		return ofxProfile(), true
	}
	for _, p := range registry {
		if p.ID == id {
			return p, true
		}
	}
	return Profile{}, false
}

func ofxProfile() Profile {
	return Profile{
		ID:          OFXProfileID,
		DisplayName: "OFX / Money 2000+",
		FileKind:    KindOFX,
		Encoding:    "utf-8",
		Columns:     noColumns(),
	}
}
