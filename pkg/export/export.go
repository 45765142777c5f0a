// Package export renders collected records for humans and other tools.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/kilianp07/gridfeed/core/model"
)

// Format names an output format.
type Format string

const (
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
	FormatTable Format = "table"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatJSON, FormatCSV, FormatTable:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// Write renders recs to w in format f.
func Write(w io.Writer, f Format, recs []model.Record) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, recs)
	case FormatCSV:
		return WriteCSV(w, recs)
	case FormatTable:
		return WriteTable(w, recs)
	default:
		return fmt.Errorf("unknown output format %q", f)
	}
}

// WriteJSON writes one JSON document per record.
func WriteJSON(w io.Writer, recs []model.Record) error {
	enc := json.NewEncoder(w)
	for _, r := range recs {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteCSV writes recs with a header taken from the first record. Missing
// values are empty cells.
func WriteCSV(w io.Writer, recs []model.Record) error {
	if len(recs) == 0 {
		return nil
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(recs[0])); err != nil {
		return err
	}
	for _, r := range recs {
		if err := cw.Write(Row(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTable renders recs as a table.
func WriteTable(w io.Writer, recs []model.Record) error {
	if len(recs) == 0 {
		_, err := fmt.Fprintln(w, "no records")
		return err
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	header := table.Row{}
	for _, h := range Header(recs[0]) {
		header = append(header, h)
	}
	t.AppendHeader(header)
	for _, r := range recs {
		row := table.Row{}
		for _, v := range Row(r) {
			row = append(row, v)
		}
		t.AppendRow(row)
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
	return nil
}

// Header returns the column names of rec's kind.
func Header(rec model.Record) []string {
	base := []string{"key", "datetime", "source"}
	switch r := rec.(type) {
	case model.ProductionRecord:
		for _, k := range r.Production.Keys() {
			base = append(base, "production."+string(k))
		}
		for _, k := range r.Storage.Keys() {
			base = append(base, "storage."+string(k))
		}
	case model.ExchangeRecord:
		base = append(base, "netFlow")
	case model.ConsumptionRecord:
		base = append(base, "consumption")
	case model.PriceRecord:
		base = append(base, "price", "currency")
	case model.ForecastRecord:
		base = append(base, "value")
	case model.UnitProductionRecord:
		base = append(base, "unitKey", "unitName", "productionType", "production")
	}
	return base
}

// Row returns the cells of rec in Header order.
func Row(rec model.Record) []string {
	row := []string{rec.RecordKey(), rec.RecordTime().UTC().Format(time.RFC3339), rec.RecordSource()}
	switch r := rec.(type) {
	case model.ProductionRecord:
		for _, k := range r.Production.Keys() {
			row = append(row, cell(r.Production[k]))
		}
		for _, k := range r.Storage.Keys() {
			row = append(row, cell(r.Storage[k]))
		}
	case model.ExchangeRecord:
		row = append(row, number(r.NetFlow))
	case model.ConsumptionRecord:
		row = append(row, cell(r.Consumption))
	case model.PriceRecord:
		row = append(row, number(r.Price), r.Currency)
	case model.ForecastRecord:
		row = append(row, number(r.Value))
	case model.UnitProductionRecord:
		row = append(row, r.UnitKey, r.UnitName, string(r.ProductionType), number(r.Production))
	}
	return row
}

func cell(v model.Value) string {
	if f, ok := v.Get(); ok {
		return number(f)
	}
	return ""
}

func number(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
