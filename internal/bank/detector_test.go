package bank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectByExtension(t *testing.T) {
	for _, name := range []string{"extrato.ofx", "fatura.QFX"} {
		p := Detect("qualquer coisa", name)
		assert.Equal(t, OFXProfileID, p.ID, name)
		assert.Equal(t, KindOFX, p.FileKind)
	}
}

func TestDetectOFXBySignature(t *testing.T) {
	content := "OFXHEADER:100\nDATA:OFXSGML\n<OFX>\n"
	p := Detect(content, "download.txt")
	assert.Equal(t, OFXProfileID, p.ID)
}

func TestDetectRegisteredProfiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "nubank",
			content: "Data,Valor,Identificador,Descrição\n06/01/2025,-150.00,abc-123,Pix enviado\n",
			want:    "nubank",
		},
		{
			name:    "bradesco",
			content: "Extrato de: Ag 1234\nData;Histórico;Docto.;Crédito (R$);Débito (R$);Saldo (R$)\n",
			want:    "bradesco",
		},
		{
			name: "bradesco com mojibake",
			// "Histórico" after a bad ISO-8859-1 round trip; the short
			// HIST token still matches.
			content: "Data;Hist?rico;Docto.;Cr?dito;D?bito;Saldo\n",
			want:    "bradesco",
		},
		{
			name:    "inter",
			content: "Data;Descrição;Valor;Saldo\n06/01/2025;Pix recebido;2.500,00;3.000,00\n",
			want:    "inter",
		},
		{
			name:    "itau",
			content: "data lançamento,descrição,,valor,saldo\n06/01/2025,PIX TRANSF,,-150.00,850.00\n",
			want:    "itau",
		},
		{
			name:    "c6",
			content: "Data,Descrição,Valor,Categoria\n06/01/2025,Uber,-34.50,Transporte\n",
			want:    "c6",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Detect(tt.content, "extrato.csv")
			assert.Equal(t, tt.want, p.ID)
		})
	}
}

func TestDetectFallsBackToGeneric(t *testing.T) {
	content := "Data,Descrição,Valor\n06/01/2025,Compra,-10.00\n"
	p := Detect(content, "extrato.csv")

	assert.Equal(t, GenericProfileID, p.ID)
	assert.Equal(t, ',', p.Separator)
	assert.Equal(t, 0, p.Columns.Date)
	assert.Equal(t, 1, p.Columns.Description)
	assert.Equal(t, 2, p.Columns.Amount)
}

func TestGenericInfersCreditDebitColumns(t *testing.T) {
	content := "Dia|Lançamento|Crédito|Débito\n06/01/2025|Compra||10,00\n"
	p := Detect(content, "extrato.csv")

	require.Equal(t, GenericProfileID, p.ID)
	assert.Equal(t, '|', p.Separator)
	assert.Equal(t, 0, p.Columns.Date)
	assert.Equal(t, 1, p.Columns.Description)
	assert.Equal(t, 2, p.Columns.Credit)
	assert.Equal(t, 3, p.Columns.Debit)
	assert.Equal(t, -1, p.Columns.Amount)
}

func TestDetectSeparator(t *testing.T) {
	tests := []struct {
		line string
		want rune
	}{
		{"Data;Descrição;Valor", ';'},
		{"Data,Descrição,Valor", ','},
		{"Data\tDescrição\tValor", '\t'},
		{"Data|Descrição|Valor", '|'},
		{"sem separador nenhum", ','},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectSeparator(tt.line), tt.line)
	}
}

func TestProfileByID(t *testing.T) {
	p, ok := ProfileByID("bradesco")
	require.True(t, ok)
	assert.Equal(t, ';', p.Separator)
	assert.Equal(t, 3, p.Columns.Credit)
	assert.Equal(t, 4, p.Columns.Debit)

	ofx, ok := ProfileByID(OFXProfileID)
	require.True(t, ok)
	assert.Equal(t, KindOFX, ofx.FileKind)

	_, ok = ProfileByID("banco-fantasma")
	assert.False(t, ok)
}

func TestDecodeKeepsValidUTF8(t *testing.T) {
	in := []byte("Histórico çãõ")
	assert.Equal(t, "Histórico çãõ", Decode(in))
}

func TestDecodeFallsBackToLatin1(t *testing.T) {
	// "Histórico" encoded as ISO-8859-1: ó is a bare 0xF3 byte.
	in := []byte{'H', 'i', 's', 't', 0xF3, 'r', 'i', 'c', 'o'}
	assert.Equal(t, "Histórico", Decode(in))
}
