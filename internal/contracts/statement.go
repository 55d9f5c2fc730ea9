package contracts

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrStatementsNotFound is returned when a source has no statements for a code
	ErrStatementsNotFound = errors.New("statements not found")
	// ErrInvalidCode is returned for codes that are not 1-6 digits
	ErrInvalidCode = errors.New("invalid stock code")
	// ErrUnknownIndustry is returned for an industry id missing from the benchmark table
	ErrUnknownIndustry = errors.New("unknown industry")
)

// Security identifies a listed A-share equity
type Security struct {
	Code      string `json:"code"`                 // 6 digits
	Name      string `json:"name,omitempty"`       // 公司名称
	SectorTag string `json:"sector_tag,omitempty"` // 申万一级行业
}

// NormalizeCode trims whitespace and left-pads with zeros to 6 characters
func NormalizeCode(code string) string {
	code = strings.TrimSpace(code)
	if len(code) < 6 {
		code = strings.Repeat("0", 6-len(code)) + code
	}
	return code
}

// ValidateCode normalizes code and checks it is exactly 6 digits
func ValidateCode(code string) (string, error) {
	code = NormalizeCode(code)
	if len(code) != 6 {
		return "", ErrInvalidCode
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return "", ErrInvalidCode
		}
	}
	return code, nil
}

// Exchange returns the exchange prefix used by quote vendors: SH, SZ or BJ
func Exchange(code string) string {
	code = NormalizeCode(code)
	switch code[0] {
	case '6':
		return "SH"
	case '8', '4':
		return "BJ"
	default:
		return "SZ"
	}
}

// StatementKind identifies one of the three financial statements
type StatementKind string

const (
	StatementIncome   StatementKind = "income"
	StatementBalance  StatementKind = "balance"
	StatementCashFlow StatementKind = "cashflow"
)

// StatementKinds lists the statements in fetch order
var StatementKinds = []StatementKind{StatementIncome, StatementBalance, StatementCashFlow}

// StatementRow is one reporting period of a statement.
// Field names vary by source (eastmoney upper snake case, Chinese column names, snake case).
type StatementRow map[string]any

// StatementSet holds the three statements of one company, latest period first
type StatementSet struct {
	Code     string         `json:"code"`
	Name     string         `json:"name,omitempty"`
	Income   []StatementRow `json:"income"`
	Balance  []StatementRow `json:"balance"`
	CashFlow []StatementRow `json:"cashflow"`
}

// Rows returns the rows of one statement
func (s *StatementSet) Rows(kind StatementKind) []StatementRow {
	switch kind {
	case StatementIncome:
		return s.Income
	case StatementBalance:
		return s.Balance
	case StatementCashFlow:
		return s.CashFlow
	}
	return nil
}

// SetRows replaces the rows of one statement
func (s *StatementSet) SetRows(kind StatementKind, rows []StatementRow) {
	switch kind {
	case StatementIncome:
		s.Income = rows
	case StatementBalance:
		s.Balance = rows
	case StatementCashFlow:
		s.CashFlow = rows
	}
}

// Latest returns the most recent row of a statement, or nil
func (s *StatementSet) Latest(kind StatementKind) StatementRow {
	rows := s.Rows(kind)
	if len(rows) == 0 {
		return nil
	}
	return rows[0]
}

// Empty reports whether no statement has any row
func (s *StatementSet) Empty() bool {
	return len(s.Income) == 0 && len(s.Balance) == 0 && len(s.CashFlow) == 0
}

// ReportDate returns the latest report date found in income, balance or cash flow (in that order)
func (s *StatementSet) ReportDate() string {
	for _, kind := range StatementKinds {
		row := s.Latest(kind)
		if row == nil {
			continue
		}
		for _, key := range []string{"REPORT_DATE", "报告期", "report_date"} {
			if v, ok := row[key].(string); ok && v != "" {
				// "2024-12-31 00:00:00" → "2024-12-31"
				if len(v) >= 10 {
					return v[:10]
				}
				return v
			}
		}
	}
	return ""
}

// StatementSource loads the latest financial statements of a company
// ⭐ SSOT: 재무제표 입력 인터페이스 (HTTP / 파일 / DB)
type StatementSource interface {
	FetchStatements(ctx context.Context, code string) (*StatementSet, error)
}
