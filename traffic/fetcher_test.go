package traffic

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"family-dashboard/datasource"
	"family-dashboard/models"

	"github.com/pkg/errors"
)

type fakeRouter struct {
	mutex   sync.Mutex
	element models.RouteElement
	err     error
	got     []datasource.RouteRequest
	stall   string // origin whose query blocks until ctx is done
}

func (f *fakeRouter) Route(ctx context.Context, req datasource.RouteRequest) (models.RouteElement, error) {
	f.mutex.Lock()
	f.got = append(f.got, req)
	f.mutex.Unlock()

	if req.Origin == f.stall {
		<-ctx.Done()
		return models.RouteElement{}, ctx.Err()
	}
	return f.element, f.err
}

func (f *fakeRouter) request(origin string) (datasource.RouteRequest, bool) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	for _, req := range f.got {
		if req.Origin == origin {
			return req, true
		}
	}
	return datasource.RouteRequest{}, false
}

func (f *fakeRouter) Name() string { return "Fake" }

func TestFetch(t *testing.T) {
	ctx := context.Background()
	q := Query{Origin: "A 路", Destination: "B 巷", Baseline: 76, Label: "往苗栗", Direction: models.Outbound}

	t.Run("unconfigured router still links", func(t *testing.T) {
		r := NewFetcher(nil, "zh-TW", nil).Fetch(ctx, q)
		if !strings.HasSuffix(r.Text, TextUnconfigured) {
			t.Errorf("got `%s`, want suffix `%s`", r.Text, TextUnconfigured)
		}
		if r.Color != models.ColorNeutral {
			t.Errorf("got color %s, want %s", r.Color, models.ColorNeutral)
		}
		if r.Link != RouteLink("A 路", "B 巷") {
			t.Errorf("got link `%s`", r.Link)
		}
		if r.Fallback != models.FallbackUnconfigured {
			t.Errorf("got fallback %q", r.Fallback)
		}
	})

	t.Run("prefers the traffic aware duration", func(t *testing.T) {
		router := &fakeRouter{element: models.RouteElement{
			Duration:          &models.TextValue{Text: "1 小時 16 分鐘"},
			DurationInTraffic: &models.TextValue{Text: "1 小時 40 分鐘"},
		}}
		r := NewFetcher(router, "zh-TW", nil).Fetch(ctx, q)
		if r.DurationText != "1 小時 40 分鐘" {
			t.Errorf("got duration `%s`", r.DurationText)
		}
		if r.Delta == nil || *r.Delta != 24 {
			t.Errorf("got delta %v, want 24", r.Delta)
		}
		if !strings.Contains(r.Text, "#ff5252") {
			t.Errorf("expected alert markup in `%s`", r.Text)
		}
		if router.got[0].Language != "zh-TW" || router.got[0].Origin != "A 路" {
			t.Errorf("unexpected request %+v", router.got[0])
		}
		if r.Link == "" {
			t.Error("link missing")
		}
	})

	t.Run("falls back to the static duration", func(t *testing.T) {
		router := &fakeRouter{element: models.RouteElement{Duration: &models.TextValue{Text: "1 小時 16 分鐘"}}}
		r := NewFetcher(router, "zh-TW", nil).Fetch(ctx, q)
		if r.Text != "往苗栗 : 1 小時 16 分鐘 (0分)" {
			t.Errorf("got `%s`", r.Text)
		}
	})

	t.Run("reports a missing estimate without delta", func(t *testing.T) {
		router := &fakeRouter{element: models.RouteElement{Status: "ZERO_RESULTS"}}
		r := NewFetcher(router, "zh-TW", nil).Fetch(ctx, q)
		if r.Text != "往苗栗 : "+TextNoEstimate {
			t.Errorf("got `%s`", r.Text)
		}
		if r.Delta != nil {
			t.Error("expected no delta")
		}
		if r.Color != models.ColorGold {
			t.Errorf("got color %s, want %s", r.Color, models.ColorGold)
		}
	})

	t.Run("query failure becomes a neutral row", func(t *testing.T) {
		router := &fakeRouter{err: errors.New("connection reset")}
		r := NewFetcher(router, "zh-TW", nil).Fetch(ctx, q)
		if r.Text != "往苗栗 : "+TextQueryFailed {
			t.Errorf("got `%s`", r.Text)
		}
		if r.Color != models.ColorNeutral || r.Fallback != models.FallbackUpstreamFailure {
			t.Errorf("got color %s fallback %q", r.Color, r.Fallback)
		}
		if r.Link != RouteLink("A 路", "B 巷") {
			t.Errorf("got link `%s`", r.Link)
		}
	})
}

func TestCard(t *testing.T) {
	router := &fakeRouter{element: models.RouteElement{Duration: &models.TextValue{Text: "35 分鐘"}}}
	loc := models.Location{Name: "秋華家", Address: "新竹的名人大矽谷", ReturnLabel: "反芎林", OutboundMinutes: 33, ReturnMinutes: 35}

	card := NewFetcher(router, "zh-TW", nil).Card(context.Background(), "BASE", "往苗栗", loc)

	if card.Name != "秋華家" {
		t.Errorf("got name `%s`", card.Name)
	}
	if req, ok := router.request(loc.Address); !ok || req.Destination != "BASE" {
		t.Errorf("outbound should run location -> base, got %+v", router.got)
	}
	if req, ok := router.request("BASE"); !ok || req.Destination != loc.Address {
		t.Errorf("return should run base -> location, got %+v", router.got)
	}
	if *card.Outbound.Delta != 2 || card.Outbound.Color != models.ColorGold {
		t.Errorf("unexpected outbound row %+v", card.Outbound)
	}
	if *card.Return.Delta != 0 || card.Return.Color != models.ColorCyan {
		t.Errorf("unexpected return row %+v", card.Return)
	}
	if card.Return.Label != "反芎林" {
		t.Errorf("got return label `%s`", card.Return.Label)
	}
}

func TestCardStalledDirection(t *testing.T) {
	router := &fakeRouter{
		element: models.RouteElement{Duration: &models.TextValue{Text: "35 分鐘"}},
		stall:   "新竹的名人大矽谷",
	}
	loc := models.Location{Name: "秋華家", Address: "新竹的名人大矽谷", ReturnLabel: "反芎林", OutboundMinutes: 33, ReturnMinutes: 35}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	card := NewFetcher(router, "zh-TW", nil).Card(ctx, "BASE", "往苗栗", loc)

	if card.Outbound.Fallback != models.FallbackUpstreamFailure {
		t.Errorf("got outbound fallback `%s`, want `%s`", card.Outbound.Fallback, models.FallbackUpstreamFailure)
	}
	if card.Return.Fallback != models.FallbackNone || card.Return.Delta == nil || *card.Return.Delta != 0 {
		t.Errorf("return row should not wait on the stalled outbound query, got %+v", card.Return)
	}
}

func TestConfigured(t *testing.T) {
	if NewFetcher(nil, "zh-TW", nil).Configured() {
		t.Error("fetcher without a router should not be configured")
	}
	if !NewFetcher(&fakeRouter{}, "zh-TW", nil).Configured() {
		t.Error("fetcher with a router should be configured")
	}
}
