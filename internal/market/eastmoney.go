package market

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

const (
	eastmoneyKLineURL = "https://push2his.eastmoney.com/api/qt/stock/kline/get"
	eastmoneyTimeout  = 10 * time.Second
	eastmoneyReferer  = "https://quote.eastmoney.com/"
)

// Bar is one daily candle.
type Bar struct {
	Date  string
	Open  decimal.Decimal
	Close decimal.Decimal
}

// EastmoneyClient fetches A-share daily klines.
type EastmoneyClient struct {
	client  *resty.Client
	baseURL string
}

func NewEastmoneyClient() *EastmoneyClient {
	client := resty.New().
		SetTimeout(eastmoneyTimeout).
		SetHeader("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36").
		SetHeader("Referer", eastmoneyReferer).
		SetHeader("Accept", "application/json, text/plain, */*").
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)
	return &EastmoneyClient{client: client, baseURL: eastmoneyKLineURL}
}

// secidOf converts an exchange-suffixed symbol to the kline API's
// market-prefixed form: 600519.SH becomes 1.600519, Shenzhen and
// Beijing codes take the 0 prefix.
func secidOf(symbol string) (string, error) {
	dot := strings.LastIndex(symbol, ".")
	if dot <= 0 {
		return "", fmt.Errorf("market: symbol %q has no exchange suffix", symbol)
	}
	code, venue := symbol[:dot], symbol[dot+1:]
	switch venue {
	case "SH":
		return "1." + code, nil
	case "SZ", "BJ":
		return "0." + code, nil
	}
	return "", fmt.Errorf("market: unsupported venue %q", venue)
}

// DailyBars returns forward-adjusted daily bars in [start, end].
func (c *EastmoneyClient) DailyBars(symbol string, start, end time.Time) ([]Bar, error) {
	secid, err := secidOf(symbol)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.R().
		SetQueryParams(map[string]string{
			"secid":   secid,
			"fields1": "f1,f2,f3,f4,f5,f6",
			"fields2": "f51,f52,f53,f54,f55,f56",
			"klt":     "101",
			"fqt":     "1",
			"beg":     start.Format("20060102"),
			"end":     end.Format("20060102"),
		}).
		Get(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("market: kline request for %s: %w", symbol, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("market: kline request for %s: status %d", symbol, resp.StatusCode())
	}

	return parseKlines(resp.Body(), symbol)
}

// parseKlines decodes data.klines, an array of comma-joined strings
// laid out as date,open,close,high,low,volume.
func parseKlines(body []byte, symbol string) ([]Bar, error) {
	klines := gjson.GetBytes(body, "data.klines")
	if !klines.Exists() || !klines.IsArray() {
		return nil, fmt.Errorf("market: no klines for %s", symbol)
	}

	var bars []Bar
	for _, line := range klines.Array() {
		parts := strings.Split(line.String(), ",")
		if len(parts) < 3 {
			continue
		}
		open, err := decimal.NewFromString(parts[1])
		if err != nil {
			continue
		}
		closePrice, err := decimal.NewFromString(parts[2])
		if err != nil {
			continue
		}
		bars = append(bars, Bar{Date: parts[0], Open: open, Close: closePrice})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("market: empty kline window for %s", symbol)
	}
	return bars, nil
}
