package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/gridfeed/app"
	"github.com/kilianp07/gridfeed/core/model"
	coremon "github.com/kilianp07/gridfeed/core/monitoring"
	"github.com/kilianp07/gridfeed/infra/logger"
	"github.com/kilianp07/gridfeed/pkg/export"
)

// staleAfter is the age above which the latest record of a live fetch is
// reported as stale.
const staleAfter = 2 * time.Hour

var fetchFlags struct {
	target  string
	format  string
	parser  string
	publish bool
}

var fetchCmd = &cobra.Command{
	Use:   "fetch <zone|A->B> [kind]",
	Short: "Run the collector configured for a zone or exchange",
	Long: `Run the collector configured for a zone or an exchange pair and print
its records. kind defaults to production for zones and exchange for pairs.
Known kinds: ` + kindNames(),
	Args: cobra.RangeArgs(1, 2),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchFlags.target, "target-datetime", "", "fetch data around this time (RFC3339)")
	fetchCmd.Flags().StringVarP(&fetchFlags.format, "format", "f", string(export.FormatTable), "output format: json, csv or table")
	fetchCmd.Flags().StringVar(&fetchFlags.parser, "parser", "", "override the configured parser reference, e.g. RTE.fetch_wholesale_price")
	fetchCmd.Flags().BoolVar(&fetchFlags.publish, "publish", false, "publish the records to the configured MQTT broker")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	defer coremon.Recover()
	req, err := fetchRequest(args, fetchFlags.target, fetchFlags.parser)
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(fetchFlags.format)
	if err != nil {
		return err
	}
	svc, err := app.New(cfg, fetchFlags.publish)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()

	res, err := svc.Fetch(cmd.Context(), req)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if err := export.Write(out, format, res.Records); err != nil {
		return err
	}
	return writeSummary(cmd, req, res, time.Now())
}

// fetchRequest parses the positional arguments of the fetch command.
func fetchRequest(args []string, target, parser string) (app.Request, error) {
	req := app.Request{Key: args[0], Ref: parser, Kind: model.KindProduction}
	pair := strings.Contains(args[0], model.ExchangeSeparator)
	if pair {
		if _, err := model.ParseExchangeKey(args[0]); err != nil {
			return req, err
		}
		req.Kind = model.KindExchange
	}
	if len(args) == 2 {
		kind, err := model.ParseKind(args[1])
		if err != nil {
			return req, err
		}
		if kind.IsExchange() != pair {
			return req, fmt.Errorf("kind %s does not apply to %s", kind, args[0])
		}
		req.Kind = kind
	}
	if target != "" {
		t, err := time.Parse(time.RFC3339, target)
		if err != nil {
			return req, fmt.Errorf("invalid --target-datetime: %w", err)
		}
		req.Target = t.UTC()
	}
	return req, nil
}

func writeSummary(cmd *cobra.Command, req app.Request, res *app.Result, now time.Time) error {
	w := cmd.ErrOrStderr()
	fmt.Fprintln(w, "---------------------")
	fmt.Fprintf(w, "%s took %s\n", res.Ref, res.Duration.Round(time.Millisecond))
	for _, issue := range res.Issues {
		fmt.Fprintf(w, "quality check failed: %s\n", issue.Reason)
	}
	if len(res.Records) == 0 {
		_, err := fmt.Fprintln(w, "no records returned")
		return err
	}
	first, last := res.Records[0].RecordTime(), res.Records[0].RecordTime()
	for _, r := range res.Records[1:] {
		if dt := r.RecordTime(); dt.Before(first) {
			first = dt
		} else if dt.After(last) {
			last = dt
		}
	}
	fmt.Fprintf(w, "min returned datetime: %s UTC\n", first.UTC().Format(time.RFC3339))
	fmt.Fprintf(w, "max returned datetime: %s UTC\n", last.UTC().Format(time.RFC3339))
	if req.Target.IsZero() && now.Sub(last) > staleAfter && !isForecast(req.Kind) {
		fmt.Fprintf(w, "WARNING: the latest record is older than %s\n", staleAfter)
	}
	return nil
}

func isForecast(k model.Kind) bool {
	switch k {
	case model.KindExchangeForecast, model.KindGenerationForecast, model.KindConsumptionForecast, model.KindProductionPerModeForecast:
		return true
	}
	return false
}

func kindNames() string {
	names := make([]string, len(model.Kinds))
	for i, k := range model.Kinds {
		names[i] = k.String()
	}
	return strings.Join(names, ", ")
}
