// arenactl is a small operator CLI for a running prediction-arena server.
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var baseURL string

func main() {
	root := &cobra.Command{
		Use:   "arenactl",
		Short: "Query a prediction-arena server",
	}
	root.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8001", "server base URL")

	root.AddCommand(priceCmd(), marketsCmd(), leaderboardCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func priceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "price",
		Short: "Show the current price snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			var snap struct {
				Asset          string    `json:"asset"`
				CurrentPrice   string    `json:"current_price"`
				PriceChange24h string    `json:"price_change_24h"`
				MarketCap      string    `json:"market_cap"`
				Timestamp      time.Time `json:"timestamp"`
			}
			if err := getJSON("/api/v1/price", &snap); err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Asset", "Price", "24h %", "Market Cap", "As Of")
			table.Append(snap.Asset, "$"+snap.CurrentPrice, snap.PriceChange24h,
				snap.MarketCap, snap.Timestamp.Format(time.RFC3339))
			table.Render()
			return nil
		},
	}
}

func marketsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "markets",
		Short: "List markets",
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				Markets []struct {
					ID        string    `json:"id"`
					Title     string    `json:"title"`
					Status    string    `json:"status"`
					Outcome   string    `json:"outcome"`
					BasePrice string    `json:"base_price"`
					Deadline  time.Time `json:"deadline"`
				} `json:"markets"`
			}
			if err := getJSON("/api/v1/markets", &out); err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("ID", "Title", "Status", "Outcome", "Base", "Deadline")
			for _, m := range out.Markets {
				outcome := m.Outcome
				if outcome == "" {
					outcome = "-"
				}
				table.Append(m.ID, m.Title, m.Status, outcome, m.BasePrice,
					m.Deadline.Format("2006-01-02 15:04"))
			}
			table.Render()
			return nil
		},
	}
}

func leaderboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the accuracy leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				Entries []struct {
					Rank             int     `json:"rank"`
					UserAddress      string  `json:"user_address"`
					AccuracyScore    float64 `json:"accuracy_score"`
					TotalPredictions int     `json:"total_predictions"`
					AvgError         float64 `json:"avg_error"`
				} `json:"entries"`
			}
			if err := getJSON("/api/v1/leaderboard", &out); err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("#", "Address", "Accuracy", "Predictions", "Avg Error")
			for _, e := range out.Entries {
				table.Append(
					fmt.Sprintf("%d", e.Rank),
					e.UserAddress,
					fmt.Sprintf("%.3f", e.AccuracyScore),
					fmt.Sprintf("%d", e.TotalPredictions),
					fmt.Sprintf("%.2f", e.AvgError),
				)
			}
			table.Render()
			return nil
		},
	}
}

func getJSON(path string, out interface{}) error {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
