package bankoftaiwan

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"family-dashboard/datasource"
)

const boardCSV = "\ufeff幣別,匯率,現金,即期,遠期10天,遠期30天,遠期60天,遠期90天,遠期120天,遠期150天,遠期180天,匯率,現金,即期,遠期10天,遠期30天,遠期60天,遠期90天,遠期120天,遠期150天,遠期180天\n" +
	"USD        ,本行買入,32.365,32.69,32.645,32.57,32.48,32.395,32.31,32.225,32.14,本行賣出,33.035,32.84,32.8,32.73,32.645,32.565,32.485,32.405,32.325\n" +
	"EUR        ,本行買入,33.41,34.08,34.13,34.12,34.09,34.06,34.03,34,33.97,本行賣出,34.75,34.48,34.57,34.57,34.56,34.54,34.53,34.51,34.5\n" +
	"JPY        ,本行買入,0.2045,0.2118,0.2127,0.2131,0.2139,0.2145,0.2152,0.2159,0.2166,本行賣出,0.2173,0.2168,0.2178,0.2182,0.2191,0.2198,0.2206,0.2214,0.2221\n"

func TestParseBoard(t *testing.T) {
	quoted := time.Date(2025, 1, 10, 15, 30, 0, 0, taipei)
	rates, err := ParseBoard(strings.NewReader(boardCSV), quoted)
	if err != nil {
		t.Fatal(err)
	}
	if len(rates) != 3 {
		t.Fatalf("got %d rates, want 3", len(rates))
	}

	usd := rates[0]
	if usd.Currency != "USD" {
		t.Errorf("got currency `%s`, want `USD`", usd.Currency)
	}
	if usd.CashBuy != "32.365" || usd.CashSell != "33.035" || usd.SpotBuy != "32.69" || usd.SpotSell != "32.84" {
		t.Errorf("unexpected USD quote %+v", usd)
	}
	if got := usd.Quote()[2]; got != "33.035" {
		t.Errorf("third quote field should be cash sell, got `%s`", got)
	}
	if rates[2].CashSell != "0.2173" {
		t.Errorf("got JPY cash sell `%s`, want `0.2173`", rates[2].CashSell)
	}
}

func TestParseBoardEmpty(t *testing.T) {
	_, err := ParseBoard(strings.NewReader("幣別,匯率\n"), time.Now())
	if err == nil {
		t.Error("expected error for a board without rows")
	}
}

func TestRates(t *testing.T) {
	t.Run("should download the board and read the quote time", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Disposition", `attachment; filename="ExchangeRate@202501101530.csv"`)
			w.Write([]byte(boardCSV))
		}))
		defer srv.Close()

		rates, err := NewRateClient(srv.URL).Rates(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		want := time.Date(2025, 1, 10, 15, 30, 0, 0, taipei)
		if !rates[0].Time.Equal(want) {
			t.Errorf("got quote time %v, want %v", rates[0].Time, want)
		}
	})

	t.Run("should report non-200 responses", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := NewRateClient(srv.URL).Rates(context.Background())
		if !datasource.IsStatusError(err) {
			t.Errorf("got `%v`, want a status error", err)
		}
	})
}
