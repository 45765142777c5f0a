package entsoe

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/gridfeed/connectors"
	"github.com/kilianp07/gridfeed/core/logger"
	"github.com/kilianp07/gridfeed/core/model"
	"github.com/kilianp07/gridfeed/core/series"
)

var (
	t0 = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	t1 = t0.Add(time.Hour)
	t2 = t1.Add(time.Hour)
)

func clockAt(t time.Time) connectors.Option {
	return connectors.WithClock(func() time.Time { return t })
}

func TestQueryValues(t *testing.T) {
	ref := time.Date(2024, 3, 1, 10, 37, 0, 0, time.FixedZone("CET", 3600))
	v := productionQuery(domains["FR"]).Values(ref, "tok")
	assert.Equal(t, "A75", v.Get("documentType"))
	assert.Equal(t, "A16", v.Get("processType"))
	assert.Equal(t, domains["FR"], v.Get("in_Domain"))
	assert.Equal(t, "202402280900", v.Get("periodStart"))
	assert.Equal(t, "202403010900", v.Get("periodEnd"))
	assert.Equal(t, "tok", v.Get("securityToken"))
	assert.False(t, v.Has("out_Domain"))

	v = priceQuery("D").Values(ref, "tok")
	assert.Equal(t, "D", v.Get("in_Domain"))
	assert.Equal(t, "D", v.Get("out_Domain"))
	assert.Equal(t, "202403020900", v.Get("periodEnd"))

	v = productionPerUnitsQuery("B14", "A").Values(ref, "tok")
	assert.Equal(t, "B14", v.Get("psrType"))
	assert.Equal(t, "202402290900", v.Get("periodStart"))
}

func TestMissingTokenFailsBeforeRequest(t *testing.T) {
	c, p := newTestClient(t, noData)
	c.tokenEnv = "GRIDFEED_TEST_UNSET_TOKEN"

	_, err := c.FetchProduction(context.Background(), "FR")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrAuth))
	var cfgErr *model.ConfigError
	assert.True(t, errors.As(err, &cfgErr))
	assert.Empty(t, p.Requests())
}

func TestUnknownZoneIsConfigError(t *testing.T) {
	c, p := newTestClient(t, noData)
	_, err := c.FetchProduction(context.Background(), "XX")
	assert.True(t, errors.Is(err, model.ErrUnknownZone))
	_, err = c.FetchExchange(context.Background(), "FR", "XX")
	assert.True(t, errors.Is(err, model.ErrUnknownZone))
	_, err = c.FetchProductionPerUnits(context.Background(), "FR")
	assert.True(t, errors.Is(err, model.ErrUnknownZone))
	assert.Empty(t, p.Requests())
}

func TestFetchProductionGroupsCategories(t *testing.T) {
	fr := domains["FR"]
	c, _ := newTestClient(t, func(q url.Values) reply {
		assert.Equal(t, "A75", q.Get("documentType"))
		return reply{body: doc(
			ts{in: fr, psr: "B04", quantities: []float64{100, 110}},
			ts{in: fr, psr: "B18", quantities: []float64{50, 60}},
			ts{in: fr, psr: "B19", quantities: []float64{100, 100}},
			ts{in: fr, psr: "B16", quantities: []float64{-30, 5}},
			ts{in: fr, psr: "B10", quantities: []float64{20, 0}},
			ts{out: fr, psr: "B10", quantities: []float64{30, 40}},
		)}
	})
	rec := &logger.Recorder{}
	recs, err := c.FetchProduction(context.Background(), "FR", connectors.WithLogger(rec))
	require.NoError(t, err)
	require.Len(t, recs, 2)

	first := recs[0]
	assert.Equal(t, t0, first.Datetime)
	assert.Equal(t, model.ZoneKey("FR"), first.ZoneKey)
	assert.Equal(t, Source, first.Source)
	for _, cat := range model.ProductionCategories {
		_, ok := first.Production[cat]
		assert.True(t, ok, "missing %s", cat)
	}
	assert.Equal(t, model.Some(100), first.Production[model.Gas])
	assert.Equal(t, model.Some(150), first.Production[model.Wind])
	assert.Equal(t, model.Some(0), first.Production[model.Solar])
	assert.True(t, first.Production[model.Coal].IsMissing())
	assert.Equal(t, model.Some(10), first.Storage[model.Hydro])
	assert.True(t, first.Storage[model.Battery].IsMissing())

	assert.Equal(t, model.Some(40), recs[1].Storage[model.Hydro])
	assert.Contains(t, rec.Warnings(), "setting small negative value to 0")
}

func TestFetchProductionRejectsImplausibleTotal(t *testing.T) {
	bg := domains["BG"]
	c, _ := newTestClient(t, func(url.Values) reply {
		return reply{body: doc(
			ts{in: bg, psr: "B02", quantities: []float64{10}},
			ts{in: bg, psr: "B14", quantities: []float64{20}},
			ts{in: bg, psr: "B12", quantities: []float64{10}},
		)}
	})
	rec := &logger.Recorder{}
	recs, err := c.FetchProduction(context.Background(), "BG", connectors.WithLogger(rec))
	require.NoError(t, err)
	assert.Empty(t, recs)
	assert.Contains(t, rec.Warnings(), "reported total falls outside expected range")
}

func TestUnsupportedResolutionIsFormatError(t *testing.T) {
	c, _ := newTestClient(t, func(url.Values) reply {
		return reply{body: doc(ts{in: "X", psr: "B04", resolution: "P1D", quantities: []float64{1}})}
	})
	_, err := c.FetchProduction(context.Background(), "FR")
	var fe *model.FormatError
	require.True(t, errors.As(err, &fe))
	assert.True(t, errors.Is(err, series.ErrResolution))
	assert.Contains(t, err.Error(), "P1D")
}

func TestNoMatchingDataIsEmptyResult(t *testing.T) {
	c, _ := newTestClient(t, noData)
	recs, err := c.FetchProduction(context.Background(), "FR")
	require.NoError(t, err)
	assert.Empty(t, recs)

	ex, err := c.FetchExchange(context.Background(), "DE", "FR")
	require.NoError(t, err)
	assert.Empty(t, ex)
}

func TestUpstreamFailureNamesQuery(t *testing.T) {
	c, _ := newTestClient(t, func(url.Values) reply {
		return reply{status: http.StatusUnauthorized, body: "<html><body>Unauthorized</body></html>"}
	})
	_, err := c.FetchPrice(context.Background(), "FR")
	var up *model.UpstreamQueryError
	require.True(t, errors.As(err, &up))
	assert.Contains(t, err.Error(), "ENTSOE Parser (FR): query_price failed")
	assert.Contains(t, err.Error(), "Unauthorized")
}

// legs answers exchange queries from a table keyed by "in>out" domains.
func legs(t *testing.T, table map[string]string) func(url.Values) reply {
	return func(q url.Values) reply {
		body, ok := table[q.Get("in_Domain")+">"+q.Get("out_Domain")]
		if !ok {
			t.Errorf("unexpected exchange query %v", q)
			return noData(q)
		}
		return reply{body: body}
	}
}

func TestFetchExchangeInnerJoinsLegs(t *testing.T) {
	de, fr := domains["DE"], domains["FR"]
	table := map[string]string{
		fr + ">" + de: doc(ts{quantities: []float64{10, 20}}),
		de + ">" + fr: doc(ts{quantities: []float64{3}}),
	}
	c, _ := newTestClient(t, legs(t, table))

	recs, err := c.FetchExchange(context.Background(), "DE", "FR", clockAt(t2))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, model.NewExchangeKey("DE", "FR"), recs[0].SortedZoneKeys)
	assert.Equal(t, t0, recs[0].Datetime)
	assert.Equal(t, 7.0, recs[0].NetFlow)
	assert.Equal(t, Source, recs[0].Source)

	swapped, err := c.FetchExchange(context.Background(), "FR", "DE", clockAt(t2))
	require.NoError(t, err)
	assert.Equal(t, recs, swapped)
}

func TestDirectedFlowIsAntisymmetric(t *testing.T) {
	de, fr := domains["DE"], domains["FR"]
	table := map[string]string{
		fr + ">" + de: doc(ts{quantities: []float64{10, 20, 5}}),
		de + ">" + fr: doc(ts{quantities: []float64{3, 25, 5}}),
	}
	c, _ := newTestClient(t, legs(t, table))
	o, err := c.options(nil)
	require.NoError(t, err)

	ab, err := c.directedFlow(context.Background(), o, "DE", "FR", exchangeQuery)
	require.NoError(t, err)
	ba, err := c.directedFlow(context.Background(), o, "FR", "DE", exchangeQuery)
	require.NoError(t, err)
	require.Equal(t, ab.Times(), ba.Times())
	for _, at := range ab.Times() {
		x, _ := ab.Get(at)
		y, _ := ba.Get(at)
		assert.Equal(t, x, -y, "at %s", at)
	}
}

func TestFetchExchangeDropsFutureAndSortsDescending(t *testing.T) {
	de, fr := domains["DE"], domains["FR"]
	table := map[string]string{
		fr + ">" + de: doc(ts{quantities: []float64{1, 2, 3}}),
		de + ">" + fr: doc(ts{quantities: []float64{0, 0, 0}}),
	}
	c, _ := newTestClient(t, legs(t, table))

	recs, err := c.FetchExchange(context.Background(), "DE", "FR", clockAt(t1.Add(time.Minute)))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, t1, recs[0].Datetime)
	assert.Equal(t, t0, recs[1].Datetime)

	c2, _ := newTestClient(t, func(q url.Values) reply {
		assert.Equal(t, "A09", q.Get("documentType"))
		return legs(t, table)(q)
	})
	forecast, err := c2.FetchExchangeForecast(context.Background(), "DE", "FR", clockAt(t1.Add(time.Minute)))
	require.NoError(t, err)
	require.Len(t, forecast, 3)
	assert.Equal(t, t2, forecast[0].Datetime)
}

func TestExchangeOverrideDomains(t *testing.T) {
	dk2, se4 := domains["DK-DK2"], domains["SE-SE4"]
	table := map[string]string{
		se4 + ">" + dk2: doc(ts{quantities: []float64{100}}),
		dk2 + ">" + se4: doc(ts{quantities: []float64{40}}),
	}
	c, p := newTestClient(t, legs(t, table))

	recs, err := c.FetchExchange(context.Background(), "SE", "DK-DK2", clockAt(t2))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "DK-DK2->SE", recs[0].SortedZoneKeys.String())
	assert.Equal(t, 60.0, recs[0].NetFlow)
	assert.Len(t, p.Requests(), 2)
}

func TestFetchConsumptionLatestUnlessTarget(t *testing.T) {
	fr := domains["FR"]
	c, _ := newTestClient(t, func(q url.Values) reply {
		assert.Equal(t, fr, q.Get("outBiddingZone_Domain"))
		return reply{body: doc(
			ts{out: fr, quantities: []float64{100, 200, 300}},
			ts{in: fr, quantities: []float64{1000, 1000, 1000}},
		)}
	})

	recs, err := c.FetchConsumption(context.Background(), "FR")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, t2, recs[0].Datetime)
	assert.Equal(t, model.Some(300), recs[0].Consumption)

	recs, err = c.FetchConsumption(context.Background(), "FR", connectors.WithTargetTime(t2))
	require.NoError(t, err)
	assert.Len(t, recs, 3)
}

func TestFetchForecasts(t *testing.T) {
	fr := domains["FR"]
	c, _ := newTestClient(t, func(q url.Values) reply {
		switch q.Get("documentType") {
		case "A71":
			return reply{body: doc(ts{in: fr, quantities: []float64{500, 600}}, ts{out: fr, quantities: []float64{1}})}
		case "A65":
			assert.Equal(t, "A01", q.Get("processType"))
			return reply{body: doc(ts{out: fr, quantities: []float64{700}})}
		case "A69":
			return reply{body: doc(
				ts{in: fr, psr: "B16", quantities: []float64{40, 0}},
				ts{in: fr, psr: "B19", quantities: []float64{90}},
			)}
		}
		return noData(q)
	})
	ctx := context.Background()

	gen, err := c.FetchGenerationForecast(ctx, "FR")
	require.NoError(t, err)
	require.Len(t, gen, 2)
	assert.Equal(t, 600.0, gen[1].Value)

	load, err := c.FetchConsumptionForecast(ctx, "FR")
	require.NoError(t, err)
	require.Len(t, load, 1)
	assert.Equal(t, 700.0, load[0].Value)

	ws, err := c.FetchWindSolarForecasts(ctx, "FR")
	require.NoError(t, err)
	require.Len(t, ws, 2)
	assert.Equal(t, model.Some(40), ws[0].Production[model.Solar])
	assert.Equal(t, model.Some(90), ws[0].Production[model.Wind])
	assert.True(t, ws[1].Production[model.Wind].IsMissing())
	assert.True(t, ws[0].Production[model.Nuclear].IsMissing())
}

func TestFetchPriceUsesPriceDomain(t *testing.T) {
	c, _ := newTestClient(t, func(q url.Values) reply {
		assert.Equal(t, domains["DE-LU"], q.Get("in_Domain"))
		return reply{body: doc(ts{currency: "EUR", resolution: "PT15M", prices: []float64{45.5, 50}})}
	})
	recs, err := c.FetchPrice(context.Background(), "DE")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "EUR", recs[0].Currency)
	assert.Equal(t, 45.5, recs[0].Price)
	assert.Equal(t, t0.Add(15*time.Minute), recs[1].Datetime)
}

func TestFetchProductionPerUnits(t *testing.T) {
	area := unitAreas["FI"]
	c, p := newTestClient(t, func(q url.Values) reply {
		assert.Equal(t, area, q.Get("in_Domain"))
		switch q.Get("psrType") {
		case "B14":
			return reply{body: doc(
				ts{in: area, psr: "B14", unitKey: "U1", unitName: "Loviisa 1 G11", quantities: []float64{480, 490}},
				ts{in: area, psr: "B14", unitKey: "U1", unitName: "Loviisa 1 G11", quantities: []float64{10}},
				ts{in: area, psr: "B14", unitKey: "U2", unitName: "Forsmark block 1 G11", quantities: []float64{900}},
				ts{in: area, psr: "B14", unitKey: "U3", unitName: "Mystery Plant", quantities: []float64{5}},
				ts{out: area, psr: "B14", unitKey: "U1", unitName: "Loviisa 1 G11", quantities: []float64{1}},
			)}
		case "B01":
			return reply{status: http.StatusInternalServerError, body: "boom"}
		}
		return noData(q)
	})
	rec := &logger.Recorder{}
	recs, err := c.FetchProductionPerUnits(context.Background(), "FI", connectors.WithLogger(rec))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "U1", recs[0].UnitKey)
	assert.Equal(t, 490.0, recs[0].Production)
	assert.Equal(t, model.Nuclear, recs[0].ProductionType)
	assert.Equal(t, model.ZoneKey("FI"), recs[0].ZoneKey)
	assert.Equal(t, t1, recs[1].Datetime)
	assert.Contains(t, rec.Warnings(), "unknown unit")
	assert.Len(t, p.Requests(), len(psrTypes))
}

func TestFetchProductionAggregate(t *testing.T) {
	ro, so := domains["IT-RO"], domains["IT-SO"]
	c, _ := newTestClient(t, func(q url.Values) reply {
		switch q.Get("in_Domain") {
		case ro:
			return reply{body: doc(ts{in: ro, psr: "B04", quantities: []float64{100, 100}})}
		case so:
			return reply{body: doc(ts{in: so, psr: "B04", quantities: []float64{40}}, ts{in: so, psr: "B16", quantities: []float64{-10}})}
		}
		return noData(q)
	})
	recs, err := c.FetchProductionAggregate(context.Background(), "IT-SO")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, model.ZoneKey("IT-SO"), recs[0].ZoneKey)
	assert.Equal(t, t0, recs[0].Datetime)
	assert.Equal(t, model.Some(140), recs[0].Production[model.Gas])
	assert.Equal(t, model.Some(0), recs[0].Production[model.Solar])
	assert.True(t, recs[0].Production[model.Coal].IsMissing())

	_, err = c.FetchProductionAggregate(context.Background(), "FR")
	assert.True(t, errors.Is(err, model.ErrUnknownZone))
}

func TestRulesFor(t *testing.T) {
	assert.Equal(t, []model.Category{model.Coal, model.Solar, model.Wind}, RulesFor("DK-DK1").Required)
	assert.Equal(t, []model.Category{model.Hydro}, RulesFor("NO-NO3").Required)
	assert.True(t, RulesFor("FR").IsZero())
	bg := RulesFor("BG")
	require.NotNil(t, bg.ExpectedRange)
	assert.Equal(t, 2000.0, bg.ExpectedRange.Low)
}
