package nba

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/cookiejar"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/publicsuffix"

	"nbacorpus/logger"
	"nbacorpus/metrics"
	"nbacorpus/table"
	"nbacorpus/utils"
)

const (
	DefaultBaseURL   = "https://stats.nba.com/stats"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	DefaultLeagueID  = "00"
)

// stats.nba.com wants dates as MM/DD/YYYY.
const dateLayout = "01/02/2006"

// Client talks to the stats.nba.com JSON endpoints.
type Client struct {
	http     *resty.Client
	leagueID string
	metrics  *metrics.Manager
	log      logger.Logger

	playersMu  sync.RWMutex
	players    []CommonAllPlayer
	playersAt  time.Time
	playersTTL time.Duration
	now        func() time.Time
}

func NewClient(opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, utils.ErrorWithTrace(err)
	}

	r := resty.New().
		SetBaseURL(o.baseURL).
		SetTimeout(o.timeout).
		SetCookieJar(jar).
		SetHeaders(map[string]string{
			"Accept":             "application/json",
			"Referer":            "https://www.nba.com/",
			"Origin":             "https://www.nba.com",
			"User-Agent":         o.userAgent,
			"x-nba-stats-origin": "stats",
			"x-nba-stats-token":  "true",
		})

	return &Client{
		http:       r,
		leagueID:   o.leagueID,
		metrics:    o.metrics,
		log:        o.log,
		playersTTL: o.playersTTL,
		now:        time.Now,
	}, nil
}

type statsResp struct {
	ResultSets []resultSet `json:"resultSets"`
}

type resultSet struct {
	Name    string          `json:"name"`
	Headers []string        `json:"headers"`
	RowSet  [][]interface{} `json:"rowSet"`
}

func (c *Client) get(ctx context.Context, endpoint string, params map[string]string) (*statsResp, error) {
	start := time.Now()
	out, err := c.doGet(ctx, endpoint, params)
	c.metrics.RemoteCall(endpoint, time.Since(start), err)
	return out, err
}

func (c *Client) doGet(ctx context.Context, endpoint string, params map[string]string) (*statsResp, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get("/" + endpoint)
	if err != nil {
		return nil, utils.ErrorWithTrace(err)
	}
	if resp.IsError() {
		return nil, utils.ErrorWithTrace(&StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode()})
	}

	unmarshalledBody := statsResp{}
	if err := json.Unmarshal(resp.Body(), &unmarshalledBody); err != nil {
		return nil, utils.ErrorWithTrace(fmt.Errorf("%s: decode response: %w", endpoint, err))
	}
	return &unmarshalledBody, nil
}

// resultTable converts the named result set (or the first, if name is
// empty) into a table of strings.
func (r *statsResp) resultTable(endpoint, name string) (*table.Table, error) {
	for _, rs := range r.ResultSets {
		if name != "" && rs.Name != name {
			continue
		}
		t := table.New(rs.Headers...)
		for _, raw := range rs.RowSet {
			row := make([]string, len(raw))
			for i, cell := range raw {
				row[i] = cellString(cell)
			}
			t.Append(row...)
		}
		return t, nil
	}
	return nil, fmt.Errorf("%w: %s has no result set %q", ErrMalformedResponse, endpoint, name)
}

func cellString(x any) string {
	switch v := x.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

func maybe[T any](x any) *T {
	if x, ok := x.(T); ok {
		return &x
	}
	return nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
