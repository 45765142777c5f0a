package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/gridfeed/app"
	"github.com/kilianp07/gridfeed/core/model"
	"github.com/kilianp07/gridfeed/pkg/export"
)

var chartFlags struct {
	out    string
	parser string
	target string
}

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render fetched data as HTML charts",
}

var chartPriceCmd = &cobra.Command{
	Use:   "price [zone]",
	Short: "Render day-ahead prices of a zone as a line chart",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runChartPrice,
}

func init() {
	chartPriceCmd.Flags().StringVarP(&chartFlags.out, "out", "o", "prices.html", "output HTML file")
	chartPriceCmd.Flags().StringVar(&chartFlags.parser, "parser", "", "override the configured price parser, e.g. RTE.fetch_wholesale_price")
	chartPriceCmd.Flags().StringVar(&chartFlags.target, "target-datetime", "", "fetch prices around this time (RFC3339)")
	chartCmd.AddCommand(chartPriceCmd)
	rootCmd.AddCommand(chartCmd)
}

func runChartPrice(cmd *cobra.Command, args []string) error {
	zone := "FR"
	if len(args) == 1 {
		zone = args[0]
	}
	req, err := fetchRequest([]string{zone, model.KindPrice.String()}, chartFlags.target, chartFlags.parser)
	if err != nil {
		return err
	}
	svc, err := app.New(cfg, false)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()
	res, err := svc.Fetch(ctx, req)
	if err != nil {
		return err
	}
	prices := priceRecords(res.Records)
	page, err := export.PriceChartHTML(fmt.Sprintf("%s prices (%s)", zone, res.Ref), prices)
	if err != nil {
		return err
	}
	if err := os.WriteFile(chartFlags.out, []byte(page), 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d prices to %s\n", len(prices), chartFlags.out)
	return nil
}

func priceRecords(recs []model.Record) []model.PriceRecord {
	out := make([]model.PriceRecord, 0, len(recs))
	for _, r := range recs {
		if p, ok := r.(model.PriceRecord); ok {
			out = append(out, p)
		}
	}
	return out
}
