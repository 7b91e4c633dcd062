package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const defaultBybitURL = "https://api.bybit.com"

type BybitOrderbookResponse struct {
	RetCode int    `json:"retCode"`
	RetMsg  string `json:"retMsg"`
	Result  struct {
		Symbol string     `json:"s"`
		Bids   [][]string `json:"b"`
		Asks   [][]string `json:"a"`
	} `json:"result"`
}

// BybitProvider averages the best bids of the Bybit spot order book.
type BybitProvider struct {
	client    *http.Client
	baseURL   string
	positions int
}

func NewBybitProvider(baseURL string, timeout time.Duration, positions int) *BybitProvider {
	if baseURL == "" {
		baseURL = defaultBybitURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if positions <= 0 {
		positions = 5
	}
	return &BybitProvider{
		client:    &http.Client{Timeout: timeout},
		baseURL:   strings.TrimRight(baseURL, "/"),
		positions: positions,
	}
}

func (b *BybitProvider) GetName() string {
	return "bybit"
}

func (b *BybitProvider) GetRate(ctx context.Context, base, quote string) (decimal.Decimal, error) {
	symbol := strings.ToUpper(base + quote)
	url := fmt.Sprintf("%s/v5/market/orderbook?category=spot&symbol=%s&limit=%d", b.baseURL, symbol, b.positions)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get orderbook from Bybit: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("bybit API returned status: %d", resp.StatusCode)
	}

	var orderbook BybitOrderbookResponse
	if err := json.NewDecoder(resp.Body).Decode(&orderbook); err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse Bybit response: %w", err)
	}
	if orderbook.RetCode != 0 {
		return decimal.Zero, fmt.Errorf("bybit API error %d: %s", orderbook.RetCode, orderbook.RetMsg)
	}
	return b.averageBid(orderbook.Result.Bids)
}

// averageBid skips levels whose price does not parse.
func (b *BybitProvider) averageBid(bids [][]string) (decimal.Decimal, error) {
	total := decimal.Zero
	count := 0
	for _, level := range bids {
		if count == b.positions {
			break
		}
		if len(level) < 2 {
			continue
		}
		price, err := decimal.NewFromString(level[0])
		if err != nil || !price.IsPositive() {
			continue
		}
		total = total.Add(price)
		count++
	}
	if count == 0 {
		return decimal.Zero, fmt.Errorf("no bids in order book")
	}
	return total.Div(decimal.NewFromInt(int64(count))), nil
}

func (b *BybitProvider) IsHealthy(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := b.GetRate(ctx, "USDT", "USD")
	return err == nil
}
