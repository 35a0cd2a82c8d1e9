package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"family-dashboard/api"
	"family-dashboard/dlog"
	"family-dashboard/models"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	var (
		serverURL string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print every panel once as plain text",
		RunE: func(cmd *cobra.Command, args []string) error {
			var snapshot models.Snapshot

			if serverURL != "" {
				s, err := fetchSnapshot(cmd.Context(), serverURL)
				if err != nil {
					return err
				}
				snapshot = s
			} else {
				cfg, v, err := loadConfig(cmd)
				if err != nil {
					return err
				}
				d, err := newDashboard(cfg, v.GetBool("rate-limit"), dlog.Discard())
				if err != nil {
					return err
				}
				defer d.Close()
				snapshot = d.collector.Collect(cmd.Context())
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(snapshot)
			}
			printSnapshot(os.Stdout, snapshot)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "", "Read panels from a running dashboard (e.g. http://localhost:8080) instead of fetching directly")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the snapshot as JSON")
	return cmd
}

// fetchSnapshot reads /api/panels from a running dashboard
func fetchSnapshot(ctx context.Context, baseURL string) (models.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(baseURL, "/")+"/api/panels", nil)
	if err != nil {
		return models.Snapshot{}, errors.Wrap(err, "failed to create request")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return models.Snapshot{}, errors.Wrap(err, "failed to fetch panels")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return models.Snapshot{}, errors.Errorf("dashboard returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var snapshot models.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return models.Snapshot{}, errors.Wrap(err, "failed to decode panels")
	}
	return snapshot, nil
}

func printSnapshot(w io.Writer, s models.Snapshot) {
	section := func(title string, r models.FeedResult) {
		fmt.Fprintf(w, "== %s ==\n%s\n", title, strings.TrimRight(api.PlainText(r.HTML), "\n"))
		if r.Detail != "" {
			fmt.Fprintf(w, "   (%s: %s)\n", r.Fallback, r.Detail)
		}
		fmt.Fprintln(w)
	}

	section("世界時間", s.Clock)
	section("即時匯率 (台銀)", s.Currency)
	section("即時氣溫 & 降雨率", s.Weather)
	section("今日即時油價 (中油)", s.Fuel)

	fmt.Fprintln(w, "== 即時路況 ==")
	for _, card := range s.Routes {
		fmt.Fprintln(w, card.Name)
		for _, row := range []models.TrafficResult{card.Outbound, card.Return} {
			fmt.Fprintf(w, "  %s\n  %s\n", api.PlainText(row.Text), row.Link)
		}
	}
}
