package statement

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvbarbosa/extrato/internal/bank"
	"github.com/mvbarbosa/extrato/internal/model"
)

const bradescoSample = `Extrato de: Ag: 1234 | Conta: 56789-0
Data;Histórico;Docto.;Crédito (R$);Débito (R$);Saldo (R$)
06/01/25;SALDO ANTERIOR;;;;1.000,00
06/01/25;PIX QR CODE ESTATICO;123456;;-150,00;850,00
07/01/25;TED RECEBIDA JOAO;654321;2.500,00;;3.350,00
08/01/25;TARIFA PACOTE;000111;;-29,90;3.320,10
Total;;;2.500,00;-179,90;
Os dados acima têm caráter meramente informativo.
`

func TestParseBradescoCSV(t *testing.T) {
	profile, ok := bank.ProfileByID("bradesco")
	require.True(t, ok)

	res := Parse(bradescoSample, profile)
	require.Empty(t, res.Errors)
	require.Len(t, res.Transactions, 3)

	pix := res.Transactions[0]
	assert.Equal(t, "2025-01-06", pix.ISODate)
	assert.Equal(t, "PIX QR CODE ESTATICO", pix.Description)
	assert.Equal(t, model.KindDebito, pix.Kind)
	assert.Equal(t, "150", pix.Amount.String())
	assert.Equal(t, "123456", pix.Document)
	require.NotNil(t, pix.BalanceAfter)
	assert.Equal(t, "850", pix.BalanceAfter.String())

	ted := res.Transactions[1]
	assert.Equal(t, model.KindCredito, ted.Kind)
	assert.Equal(t, "2500", ted.Amount.String())

	tarifa := res.Transactions[2]
	assert.Equal(t, model.KindDebito, tarifa.Kind)
	assert.Equal(t, "29.9", tarifa.Amount.String())
}

func TestParseGenericCSV(t *testing.T) {
	content := "Data,Descrição,Valor\n" +
		"15/03/2024,UBER TRIP,-34.50\n" +
		"16/03/2024,SALARIO EMPRESA,5000.00\n"

	profile := bank.Detect(content, "extrato.csv")
	res := Parse(content, profile)

	require.Empty(t, res.Errors)
	require.Len(t, res.Transactions, 2)
	assert.Equal(t, model.KindDebito, res.Transactions[0].Kind)
	assert.Equal(t, "34.5", res.Transactions[0].Amount.String())
	assert.Equal(t, model.KindCredito, res.Transactions[1].Kind)
	assert.Equal(t, "2024-03-16", res.Transactions[1].ISODate)
}

func TestParseSkipsBadRowsAndReports(t *testing.T) {
	content := "Data,Descrição,Valor\n" +
		"15/03/2024,UBER TRIP,-34.50\n" +
		"99/99/9999,LINHA QUEBRADA,10.00\n" +
		"17/03/2024,MERCADO,abc\n" +
		"18/03/2024,PADARIA,-12.00\n"

	profile := bank.Detect(content, "extrato.csv")
	res := Parse(content, profile)

	assert.False(t, res.Fatal())
	require.Len(t, res.Transactions, 2)
	require.Len(t, res.Errors, 2)
	assert.Contains(t, res.Errors[0], "linha 3")
	assert.Contains(t, res.Errors[1], "linha 4")
}

func TestParseMissingHeaderIsFatal(t *testing.T) {
	content := "isto não é um extrato\nsó texto solto\n"

	res := Parse(content, bank.Detect(content, "qualquer.csv"))
	assert.True(t, res.Fatal())
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "cabeçalho")
}

func TestParseQuotedSeparator(t *testing.T) {
	content := "Data,Descrição,Valor\n" +
		"15/03/2024,\"EMPRESA, LTDA\",-99.00\n"

	res := Parse(content, bank.Detect(content, "x.csv"))
	require.Empty(t, res.Errors)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "EMPRESA, LTDA", res.Transactions[0].Description)
}

func TestParseStopsAtFooter(t *testing.T) {
	content := "Data,Descrição,Valor\n" +
		"15/03/2024,UBER TRIP,-34.50\n" +
		"Total,,-34.50\n" +
		"16/03/2024,NUNCA LIDO,1.00\n"

	res := Parse(content, bank.Detect(content, "x.csv"))
	require.Len(t, res.Transactions, 1)
}

const ofxSample = `OFXHEADER:100
DATA:OFXSGML
VERSION:102

<OFX>
<BANKMSGSRSV1>
<STMTTRNRS>
<STMTRS>
<BANKTRANLIST>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[-03:EST]
<TRNAMT>-150.00
<FITID>2024011501
<MEMO>PIX ENVIADO MERCADO
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240116
<TRNAMT>2500.00
<FITID>2024011601
<MEMO>TED RECEBIDA
</STMTTRN>
</BANKTRANLIST>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>
`

func TestParseOFX(t *testing.T) {
	profile := bank.Detect(ofxSample, "extrato.ofx")
	require.Equal(t, bank.KindOFX, profile.FileKind)

	res := Parse(ofxSample, profile)
	require.Empty(t, res.Errors)
	require.Len(t, res.Transactions, 2)

	pix := res.Transactions[0]
	assert.Equal(t, "2024-01-15", pix.ISODate)
	assert.Equal(t, "PIX ENVIADO MERCADO", pix.Description)
	assert.Equal(t, model.KindDebito, pix.Kind)
	assert.Equal(t, "150", pix.Amount.String())
	assert.Equal(t, "2024011501", pix.Document)

	ted := res.Transactions[1]
	assert.Equal(t, "2024-01-16", ted.ISODate)
	assert.Equal(t, model.KindCredito, ted.Kind)
}

func TestParseOFXBrokenStructureUsesFallback(t *testing.T) {
	// No BANKTRANLIST wrapper and garbage around the blocks; only the
	// block-level fallback can read this.
	content := `lixo antes do arquivo
<STMTTRN>
<TRNTYPE>OTHER
<DTPOSTED>20240201
<TRNAMT>-42.10
<FITID>abc
<NAME>COMPRA CARTAO
</STMTTRN>
`
	res := parseOFX(content)
	require.Empty(t, res.Errors)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "2024-02-01", res.Transactions[0].ISODate)
	assert.Equal(t, model.KindDebito, res.Transactions[0].Kind)
	assert.Equal(t, "COMPRA CARTAO", res.Transactions[0].Description)
}

func TestParseOFXNoBlocks(t *testing.T) {
	res := parseOFX("<OFX></OFX>")
	assert.True(t, res.Fatal())
}

func TestPreprocessOFX(t *testing.T) {
	in := "   \n<OFX>\n<SEVERITY>Info</SEVERITY>\n<TRNAMT\n"
	out := preprocessOFX(in)
	assert.True(t, strings.HasPrefix(out, "<OFX>"))
	assert.Contains(t, out, "<SEVERITY>INFO</SEVERITY>")
	assert.Contains(t, out, "<TRNAMT>")
}
