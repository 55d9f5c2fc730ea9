package eastmoney

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/caiwu/internal/contracts"
	"github.com/wonny/caiwu/pkg/config"
	"github.com/wonny/caiwu/pkg/httputil"
	"github.com/wonny/caiwu/pkg/logger"
	"github.com/wonny/caiwu/pkg/redis"
)

const (
	defaultBaseURL = "https://emweb.securities.eastmoney.com"
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

	// 최근 4개 보고기
	maxPeriods = 4
)

// 재무제표별 F10 엔드포인트
var endpoints = map[contracts.StatementKind]string{
	contracts.StatementIncome:   "lrbAjaxNew",
	contracts.StatementBalance:  "zcfzbAjaxNew",
	contracts.StatementCashFlow: "xjllbAjaxNew",
}

// Client fetches A-share financial statements from the Eastmoney F10 pages
// ⭐ SSOT: Eastmoney 재무제표 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	cache      *redis.Cache
	cacheTTL   time.Duration
	baseURL    string
	logger     *logger.Logger
}

// NewClient creates a new Eastmoney client. cache and limiter may be nil.
func NewClient(cfg config.EastmoneyConfig, cache *redis.Cache, limiter *redis.RateLimiter, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	httpClient := httputil.NewWithTimeout(log, timeout).
		WithRetry(3, 500*time.Millisecond).
		WithRPS(cfg.RPS).
		WithHeader("User-Agent", userAgent).
		WithHeader("Referer", defaultBaseURL+"/")
	if limiter != nil {
		httpClient.WithRateLimiter(limiter, redis.EastmoneyRateLimit)
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = redis.TTLLong
	}

	return &Client{
		httpClient: httpClient,
		cache:      cache,
		cacheTTL:   ttl,
		baseURL:    baseURL,
		logger:     log.Component("eastmoney"),
	}
}

// FetchStatements loads the latest income, balance and cash-flow statements
// concurrently. Any failed request fails the whole fetch.
func (c *Client) FetchStatements(ctx context.Context, code string) (*contracts.StatementSet, error) {
	code, err := contracts.ValidateCode(code)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows := make([][]contracts.StatementRow, len(contracts.StatementKinds))

	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range contracts.StatementKinds {
		i, kind := i, kind
		g.Go(func() error {
			r, err := c.statement(gctx, code, kind)
			if err != nil {
				return fmt.Errorf("%s statement: %w", kind, err)
			}
			rows[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	set := &contracts.StatementSet{Code: code}
	for i, kind := range contracts.StatementKinds {
		set.SetRows(kind, rows[i])
	}
	if set.Empty() {
		return nil, fmt.Errorf("%s: %w", code, contracts.ErrStatementsNotFound)
	}
	set.Name = securityName(set)

	c.logger.WithFields(map[string]interface{}{
		"code":        code,
		"income":      len(set.Income),
		"balance":     len(set.Balance),
		"cashflow":    len(set.CashFlow),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Fetched statements")

	return set, nil
}

func (c *Client) statement(ctx context.Context, code string, kind contracts.StatementKind) ([]contracts.StatementRow, error) {
	fetch := func() (interface{}, error) {
		return c.fetch(ctx, code, kind)
	}

	if c.cache == nil {
		r, err := fetch()
		if err != nil {
			return nil, err
		}
		return r.([]contracts.StatementRow), nil
	}

	var rows []contracts.StatementRow
	if err := c.cache.GetOrSet(ctx, redis.StatementKey(code, string(kind)), &rows, c.cacheTTL, fetch); err != nil {
		return nil, err
	}
	return rows, nil
}

type statementResponse struct {
	Data    []contracts.StatementRow `json:"data"`
	Message string                   `json:"message,omitempty"`
}

func (c *Client) fetch(ctx context.Context, code string, kind contracts.StatementKind) ([]contracts.StatementRow, error) {
	var resp statementResponse
	if err := c.httpClient.GetJSON(ctx, c.statementURL(code, kind), &resp); err != nil {
		var statusErr *httputil.StatusError
		if errors.As(err, &statusErr) {
			return nil, fmt.Errorf("eastmoney returned %d", statusErr.StatusCode)
		}
		return nil, err
	}

	if len(resp.Data) == 0 {
		c.logger.WithFields(map[string]interface{}{
			"code":    code,
			"kind":    kind,
			"message": resp.Message,
		}).Warn("Empty statement response")
		return []contracts.StatementRow{}, nil
	}

	if len(resp.Data) > maxPeriods {
		resp.Data = resp.Data[:maxPeriods]
	}
	return resp.Data, nil
}

// statementURL builds e.g. /PC_HSF10/NewFinanceAnalysis/lrbAjaxNew?code=SH600519&companyType=4&...
func (c *Client) statementURL(code string, kind contracts.StatementKind) string {
	params := url.Values{}
	params.Set("companyType", "4")
	params.Set("reportDateType", "0")
	params.Set("reportType", "1")
	params.Set("code", contracts.Exchange(code)+code)

	return fmt.Sprintf("%s/PC_HSF10/NewFinanceAnalysis/%s?%s", c.baseURL, endpoints[kind], params.Encode())
}

// securityName reads the short name carried on every statement row
func securityName(set *contracts.StatementSet) string {
	for _, kind := range contracts.StatementKinds {
		row := set.Latest(kind)
		if row == nil {
			continue
		}
		if name, ok := row["SECURITY_NAME_ABBR"].(string); ok && name != "" {
			return name
		}
	}
	return ""
}
