package currency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"vivesbank/internal/config"
)

var ErrInvalidAmount = errors.New("amount must be positive")

// Rates is the body returned by the /latest endpoint.
type Rates struct {
	Amount decimal.Decimal            `json:"amount"`
	Base   string                     `json:"base"`
	Date   string                     `json:"date"`
	Rates  map[string]decimal.Decimal `json:"rates"`
}

// Client talks to a frankfurter-compatible exchange rate API.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.CurrencyAPIURL, "/"),
		http:    &http.Client{Timeout: cfg.RequestTimeout()},
	}
}

// Latest returns the rates for base against symbols. Empty symbols means all.
func (c *Client) Latest(ctx context.Context, base string, symbols []string) (*Rates, error) {
	q := url.Values{}
	if base != "" {
		q.Set("from", strings.ToUpper(base))
	}
	if len(symbols) > 0 {
		q.Set("to", strings.ToUpper(strings.Join(symbols, ",")))
	}
	var out Rates
	if err := c.get(ctx, "/latest", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Convert asks the API to convert amount from one currency to another.
func (c *Client) Convert(ctx context.Context, from, to string, amount decimal.Decimal) (*Rates, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	q := url.Values{}
	q.Set("amount", amount.String())
	q.Set("from", strings.ToUpper(from))
	q.Set("to", strings.ToUpper(to))
	var out Rates
	if err := c.get(ctx, "/latest", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Currencies returns code -> name for every supported currency.
func (c *Client) Currencies(ctx context.Context) (map[string]string, error) {
	out := map[string]string{}
	if err := c.get(ctx, "/currencies", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("currency api error: %d %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
