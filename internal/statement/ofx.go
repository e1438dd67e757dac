package statement

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/mvbarbosa/extrato/internal/model"
	"github.com/mvbarbosa/extrato/internal/normalize"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	stmtTrnRegex  = regexp.MustCompile(`(?s)<STMTTRN>(.*?)</STMTTRN>`)
)

// preprocessOFX fixes the formatting quirks Brazilian banks ship in their
// SGML-era OFX 1.x files before handing them to a real parser.
func preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	content = tagFixRegex.ReplaceAllString(content, "$1>")
	return content
}

// parseOFX extracts transactions from an OFX/QFX file. The well-formed path
// goes through ofxgo; files too broken for it fall back to block-scoped
// <STMTTRN> tag extraction, which tolerates the unclosed leaf tags OFX 1.x
// is famous for.
func parseOFX(content string) Result {
	processed := preprocessOFX(content)

	if res, err := parseOFXStrict(processed); err == nil {
		return res
	}

	return parseOFXBlocks(processed)
}

func parseOFXStrict(content string) (Result, error) {
	resp, err := ofxgo.ParseResponse(strings.NewReader(content))
	if err != nil {
		return Result{}, fmt.Errorf("ofx parse: %w", err)
	}

	var res Result
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			for _, tx := range stmt.BankTranList.Transactions {
				res.append(convertOFXTransaction(tx))
			}
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			for _, tx := range stmt.BankTranList.Transactions {
				res.append(convertOFXTransaction(tx))
			}
		}
	}

	if len(res.Transactions) == 0 && len(res.Errors) == 0 {
		return Result{}, fmt.Errorf("ofx parse: no statement transactions found")
	}
	return res, nil
}

func (r *Result) append(txn *model.RawTransaction, err error) {
	if err != nil {
		r.Errors = append(r.Errors, err.Error())
		return
	}
	txn.Line = len(r.Transactions) + 1
	r.Transactions = append(r.Transactions, *txn)
}

func convertOFXTransaction(tx ofxgo.Transaction) (*model.RawTransaction, error) {
	amountStr := tx.TrnAmt.FloatString(2)
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("transação %s: valor inválido %q", tx.FiTID, amountStr)
	}

	description := string(tx.Name)
	if tx.Payee != nil && tx.Payee.Name != "" {
		description = string(tx.Payee.Name)
	}
	if description == "" {
		description = string(tx.Memo)
	}

	dateStr := tx.DtPosted.Time.Format("20060102")
	isoDate := tx.DtPosted.Time.Format("2006-01-02")

	return &model.RawTransaction{
		Date:        dateStr,
		ISODate:     isoDate,
		Description: description,
		Amount:      amount.Abs(),
		Kind:        ofxKind(fmt.Sprintf("%v", tx.TrnType), amount.IsNegative()),
		Document:    string(tx.FiTID),
	}, nil
}

// parseOFXBlocks is the tolerant fallback: each <STMTTRN> block is handled
// independently with simple tag extraction, so one broken block never loses
// the whole file.
func parseOFXBlocks(content string) Result {
	var res Result

	blocks := stmtTrnRegex.FindAllStringSubmatch(content, -1)
	if len(blocks) == 0 {
		res.Errors = append(res.Errors, "arquivo OFX sem blocos STMTTRN ou estrutura ilegível")
		return res
	}

	for i, m := range blocks {
		block := m[1]
		blockNo := i + 1

		dtPosted := extractTag(block, "DTPOSTED")
		isoDate, ok := ofxDate(dtPosted)
		if !ok {
			res.Errors = append(res.Errors, fmt.Sprintf("transação %d: data OFX inválida %q", blockNo, dtPosted))
			continue
		}

		amtStr := extractTag(block, "TRNAMT")
		amount, amtOK := normalize.Value(amtStr)
		if !amtOK {
			res.Errors = append(res.Errors, fmt.Sprintf("transação %d: valor OFX inválido %q", blockNo, amtStr))
			continue
		}

		description := extractTag(block, "MEMO")
		if description == "" {
			description = extractTag(block, "NAME")
		}
		if description == "" {
			res.Errors = append(res.Errors, fmt.Sprintf("transação %d: sem MEMO ou NAME", blockNo))
			continue
		}

		txn := model.RawTransaction{
			Date:        dtPosted,
			ISODate:     isoDate,
			Description: description,
			Amount:      amount.Abs(),
			Kind:        ofxKind(extractTag(block, "TRNTYPE"), amount.IsNegative()),
			Document:    extractTag(block, "FITID"),
			Line:        blockNo,
		}
		res.Transactions = append(res.Transactions, txn)
	}

	return res
}

// extractTag pulls <TAG>value out of an SGML-style block, with or without a
// closing tag.
func extractTag(block, tag string) string {
	re := regexp.MustCompile(`(?i)<` + tag + `>([^<\r\n]+)`)
	if m := re.FindStringSubmatch(block); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// ofxDate normalizes DTPOSTED values like "20240115120000[-03:EST]".
func ofxDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "["); idx >= 0 {
		s = s[:idx]
	}
	if len(s) < 8 {
		return "", false
	}
	return normalize.Date(s[:8])
}

// ofxKind resolves the transaction direction from TRNTYPE and the amount
// sign jointly: an explicit type wins, the sign breaks ties for the generic
// types ("OTHER", "POS").
func ofxKind(trnType string, negative bool) model.TransactionKind {
	up := strings.ToUpper(strings.TrimSpace(trnType))
	switch {
	case strings.Contains(up, "CREDIT"), strings.Contains(up, "DEP"), up == "INT":
		return model.KindCredito
	case strings.Contains(up, "DEBIT"), strings.Contains(up, "PAYMENT"), up == "FEE", up == "ATM", up == "CHECK":
		return model.KindDebito
	}
	if negative {
		return model.KindDebito
	}
	return model.KindCredito
}
