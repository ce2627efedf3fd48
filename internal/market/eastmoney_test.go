package market

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const klineBody = `{"data":{"code":"600519","klines":[
"2026-03-02,1700.00,1717.00,1720.00,1695.00,32000",
"2026-03-03,1717.50,1700.32,1719.00,1698.00,28000"
]}}`

func TestDailyBars(t *testing.T) {
	var gotSecid string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSecid = r.URL.Query().Get("secid")
		w.Write([]byte(klineBody))
	}))
	defer server.Close()

	client := NewEastmoneyClient()
	client.baseURL = server.URL

	start, _ := time.Parse("2006-01-02", "2026-03-01")
	end, _ := time.Parse("2006-01-02", "2026-03-12")
	bars, err := client.DailyBars("600519.SH", start, end)
	if err != nil {
		t.Fatal(err)
	}
	if gotSecid != "1.600519" {
		t.Fatalf("secid = %q", gotSecid)
	}
	if len(bars) != 2 {
		t.Fatalf("bars = %d", len(bars))
	}
	if bars[0].Date != "2026-03-02" || bars[0].Open.String() != "1700" {
		t.Fatalf("first bar = %+v", bars[0])
	}
}

func TestParseKlinesRejectsEmpty(t *testing.T) {
	if _, err := parseKlines([]byte(`{"data":null}`), "600519.SH"); err == nil {
		t.Fatal("expected error for null data")
	}
	if _, err := parseKlines([]byte(`{"data":{"klines":[]}}`), "600519.SH"); err == nil {
		t.Fatal("expected error for empty klines")
	}
}
