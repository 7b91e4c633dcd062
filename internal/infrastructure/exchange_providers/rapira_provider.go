package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const defaultRapiraURL = "https://api.rapira.net"

type RapiraProvider struct {
	client    *http.Client
	baseURL   string
	positions int
}

type RapiraItem struct {
	Price  decimal.Decimal `json:"price"`
	Amount decimal.Decimal `json:"amount"`
}

type RapiraResponse struct {
	Ask struct {
		Direction string       `json:"direction"`
		Symbol    string       `json:"symbol"`
		Items     []RapiraItem `json:"items"`
	} `json:"ask"`
}

// NewRapiraProvider averages the best positions asks of the order book.
func NewRapiraProvider(baseURL string, timeout time.Duration, positions int) *RapiraProvider {
	if baseURL == "" {
		baseURL = defaultRapiraURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if positions <= 0 {
		positions = 5
	}
	return &RapiraProvider{
		client:    &http.Client{Timeout: timeout},
		baseURL:   strings.TrimRight(baseURL, "/"),
		positions: positions,
	}
}

func (r *RapiraProvider) GetName() string {
	return "rapira"
}

func (r *RapiraProvider) GetRate(ctx context.Context, base, quote string) (decimal.Decimal, error) {
	url := fmt.Sprintf("%s/market/exchange-plate-mini?symbol=%s/%s", r.baseURL, base, quote)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get rates from Rapira: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("rapira API returned status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read response body: %w", err)
	}

	var rapiraResponse RapiraResponse
	if err := json.Unmarshal(body, &rapiraResponse); err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse Rapira response: %w", err)
	}
	return r.averagePrice(rapiraResponse.Ask.Items)
}

func (r *RapiraProvider) averagePrice(items []RapiraItem) (decimal.Decimal, error) {
	total := decimal.Zero
	count := 0
	for _, item := range items {
		if count == r.positions {
			break
		}
		if !item.Price.IsPositive() {
			continue
		}
		total = total.Add(item.Price)
		count++
	}
	if count == 0 {
		return decimal.Zero, fmt.Errorf("no priced items in order book")
	}
	return total.Div(decimal.NewFromInt(int64(count))), nil
}

func (r *RapiraProvider) IsHealthy(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.GetRate(ctx, "USDT", "USD")
	return err == nil
}
