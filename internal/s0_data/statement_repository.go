package s0_data

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/wonny/caiwu/internal/contracts"
	"github.com/wonny/caiwu/pkg/logger"
)

// 재무제표별 최근 보고기 수
const latestPeriods = 4

// querier is the read side of pgxpool.Pool
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// StatementRepository reads statements collected by another system.
// It never writes.
// ⭐ SSOT: DB 재무제표 조회는 여기서만
type StatementRepository struct {
	db     querier
	logger *logger.Logger
}

// NewStatementRepository creates a new repository over a pool (or any querier)
func NewStatementRepository(db querier, log *logger.Logger) *StatementRepository {
	if log == nil {
		log = logger.Nop()
	}
	return &StatementRepository{
		db:     db,
		logger: log.Component("statement_repository"),
	}
}

// FetchStatements implements contracts.StatementSource
func (r *StatementRepository) FetchStatements(ctx context.Context, code string) (*contracts.StatementSet, error) {
	code, err := contracts.ValidateCode(code)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT statement, COALESCE(stock_name, ''), payload
		FROM (
			SELECT statement, stock_name, payload,
			       ROW_NUMBER() OVER (PARTITION BY statement ORDER BY report_date DESC) AS rn
			FROM data.financial_statements
			WHERE stock_code = $1
		) latest
		WHERE rn <= $2
		ORDER BY statement, rn
	`

	start := time.Now()
	rows, err := r.db.Query(ctx, query, code, latestPeriods)
	if err != nil {
		return nil, fmt.Errorf("query statements: %w", err)
	}
	defer rows.Close()

	set := &contracts.StatementSet{Code: code}
	for rows.Next() {
		var kind, name string
		var payload []byte
		if err := rows.Scan(&kind, &name, &payload); err != nil {
			return nil, fmt.Errorf("scan statement row: %w", err)
		}

		var row contracts.StatementRow
		if err := json.Unmarshal(payload, &row); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", kind, err)
		}

		k := contracts.StatementKind(kind)
		switch k {
		case contracts.StatementIncome, contracts.StatementBalance, contracts.StatementCashFlow:
			set.SetRows(k, append(set.Rows(k), row))
		default:
			r.logger.WithField("statement", kind).Warn("Unknown statement kind skipped")
			continue
		}

		if set.Name == "" {
			set.Name = name
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate statements: %w", err)
	}

	if set.Empty() {
		return nil, fmt.Errorf("%s: %w", code, contracts.ErrStatementsNotFound)
	}

	r.logger.WithFields(map[string]interface{}{
		"code":        code,
		"income":      len(set.Income),
		"balance":     len(set.Balance),
		"cashflow":    len(set.CashFlow),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("Loaded statements")

	return set, nil
}
