package entsoe

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	infratransport "github.com/kilianp07/gridfeed/infra/transport"
)

const noDataBody = `<?xml version="1.0" encoding="UTF-8"?>
<Acknowledgement_MarketDocument xmlns="urn:iec62325.351:tc57wg16:451-1:acknowledgementdocument:7:0">
  <mRID>ack</mRID>
  <Reason>
    <code>999</code>
    <text>No matching data found for Data item ACTUAL_GENERATION_PER_PRODUCTION_TYPE [16.1.B_C]</text>
  </Reason>
</Acknowledgement_MarketDocument>`

// ts describes one TimeSeries of a fixture document.
type ts struct {
	in, out    string
	psr        string
	unitKey    string
	unitName   string
	currency   string
	start      string
	resolution string
	quantities []float64
	prices     []float64
}

func (s ts) xml() string {
	var b strings.Builder
	b.WriteString("  <TimeSeries>\n")
	if s.in != "" {
		fmt.Fprintf(&b, "    <inBiddingZone_Domain.mRID codingScheme=\"A01\">%s</inBiddingZone_Domain.mRID>\n", s.in)
	}
	if s.out != "" {
		fmt.Fprintf(&b, "    <outBiddingZone_Domain.mRID codingScheme=\"A01\">%s</outBiddingZone_Domain.mRID>\n", s.out)
	}
	if s.currency != "" {
		fmt.Fprintf(&b, "    <currency_Unit.name>%s</currency_Unit.name>\n", s.currency)
	}
	if s.psr != "" {
		b.WriteString("    <MktPSRType>\n")
		fmt.Fprintf(&b, "      <psrType>%s</psrType>\n", s.psr)
		if s.unitKey != "" {
			fmt.Fprintf(&b, "      <PowerSystemResources><mRID codingScheme=\"A01\">%s</mRID><name>%s</name></PowerSystemResources>\n", s.unitKey, s.unitName)
		}
		b.WriteString("    </MktPSRType>\n")
	}
	res := s.resolution
	if res == "" {
		res = "PT60M"
	}
	start := s.start
	if start == "" {
		start = "2024-03-01T10:00Z"
	}
	b.WriteString("    <Period>\n")
	fmt.Fprintf(&b, "      <timeInterval><start>%s</start><end>2024-03-02T10:00Z</end></timeInterval>\n", start)
	fmt.Fprintf(&b, "      <resolution>%s</resolution>\n", res)
	for i, q := range s.quantities {
		fmt.Fprintf(&b, "      <Point><position>%d</position><quantity>%g</quantity></Point>\n", i+1, q)
	}
	for i, p := range s.prices {
		fmt.Fprintf(&b, "      <Point><position>%d</position><price.amount>%g</price.amount></Point>\n", i+1, p)
	}
	b.WriteString("    </Period>\n  </TimeSeries>\n")
	return b.String()
}

func doc(series ...ts) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<GL_MarketDocument xmlns="urn:iec62325.351:tc57wg16:451-6:generationloaddocument:3:0">` + "\n")
	for _, s := range series {
		b.WriteString(s.xml())
	}
	b.WriteString("</GL_MarketDocument>\n")
	return b.String()
}

type reply struct {
	status int
	body   string
}

// platform is a fake transparency API answering by query parameters.
type platform struct {
	mu       sync.Mutex
	requests []url.Values
	answer   func(q url.Values) reply
}

func (p *platform) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p.mu.Lock()
	p.requests = append(p.requests, q)
	p.mu.Unlock()
	rep := p.answer(q)
	if rep.status == 0 {
		rep.status = http.StatusOK
	}
	w.WriteHeader(rep.status)
	_, _ = w.Write([]byte(rep.body))
}

func (p *platform) Requests() []url.Values {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]url.Values(nil), p.requests...)
}

func newTestClient(t *testing.T, answer func(q url.Values) reply) (*Client, *platform) {
	t.Helper()
	p := &platform{answer: answer}
	srv := httptest.NewServer(p)
	t.Cleanup(srv.Close)
	t.Setenv(DefaultTokenEnv, "secret")
	sess, err := infratransport.NewSession(infratransport.Config{}, nil)
	require.NoError(t, err)
	return New(Config{Endpoint: srv.URL}, sess), p
}

func noData(url.Values) reply { return reply{status: http.StatusBadRequest, body: noDataBody} }
