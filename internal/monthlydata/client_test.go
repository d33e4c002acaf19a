package monthlydata

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/runway/internal/model"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", "tok-123")
}

func TestNewClient_EmptyToken(t *testing.T) {
	if c := NewClient("http://localhost:3001", "  "); c != nil {
		t.Fatal("NewClient with empty token should return nil")
	}
}

func TestFetchMonthlyData(t *testing.T) {
	var gotAuth, gotQuery string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query().Get("startupId")
		if r.URL.Path != "/api/user/startup-monthly-data" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"monthlyData":[{"monthName":"Jan","marketingSpend":"2000","cac":25,"churnRate":0.04,"arpu":18,"teamSize":2}]}`))
	})

	records, err := c.FetchMonthlyData(context.Background(), "abc 1")
	if err != nil {
		t.Fatalf("FetchMonthlyData() error: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q, want Bearer tok-123", gotAuth)
	}
	if gotQuery != "abc 1" {
		t.Errorf("startupId = %q, want abc 1", gotQuery)
	}
	if len(records) != 1 || records[0].MarketingSpend != 2000 || records[0].TeamSize != 2 {
		t.Fatalf("records = %+v", records)
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestFetch_AppliesRequestTimeout(t *testing.T) {
	var deadline time.Time
	var hasDeadline bool
	c := NewClient("http://example.test", "tok").WithHTTPClient(&http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			deadline, hasDeadline = r.Context().Deadline()
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader(`[]`)),
				Header:     make(http.Header),
				Request:    r,
			}, nil
		}),
	})

	start := time.Now()
	if _, err := c.FetchMonthlyData(context.Background(), "s1"); err != nil {
		t.Fatalf("FetchMonthlyData() error: %v", err)
	}
	if !hasDeadline {
		t.Fatal("request context has no deadline")
	}
	if got := deadline.Sub(start); got > requestTimeout || got < requestTimeout-time.Second {
		t.Errorf("deadline in %v, want about %v", got, requestTimeout)
	}
}

func TestFetch_StatusErrors(t *testing.T) {
	cases := map[int]error{
		http.StatusUnauthorized: ErrUnauthorized,
		http.StatusForbidden:    ErrUnauthorized,
		http.StatusNotFound:     ErrNotFound,
	}
	for status, want := range cases {
		c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
		})
		if _, err := c.FetchMonthlyData(context.Background(), ""); !errors.Is(err, want) {
			t.Errorf("status %d: error = %v, want %v", status, err, want)
		}
	}

	c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	if _, err := c.FetchMonthlyData(context.Background(), ""); err == nil {
		t.Fatal("expected error for 502")
	}
}

func TestFetchStartup(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/business/s1" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"_id":"s1","name":"acme"}`))
	})

	s, err := c.FetchStartup(context.Background(), "s1")
	if err != nil {
		t.Fatalf("FetchStartup() error: %v", err)
	}
	if s.DisplayName() != "acme" {
		t.Fatalf("DisplayName() = %q, want acme", s.DisplayName())
	}
	if (Startup{}).DisplayName() != "Startup" {
		t.Fatal("empty startup should display as Startup")
	}
}

type stubFetcher struct {
	records []model.MonthlyRecord
	err     error
}

func (s stubFetcher) FetchMonthlyData(context.Context, string) ([]model.MonthlyRecord, error) {
	return s.records, s.err
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	var nilClient *Client
	if r := Resolve(ctx, nilClient, ""); r.Origin != OriginSeed || len(r.Records) != 3 || r.Warning != "" {
		t.Errorf("nil client: %+v, want silent seed", r)
	}

	r := Resolve(ctx, stubFetcher{err: ErrUnauthorized}, "")
	if r.Origin != OriginSeed || r.Warning == "" || !errors.Is(r.Err, ErrUnauthorized) {
		t.Errorf("failed fetch: %+v, want seed with warning", r)
	}

	r = Resolve(ctx, stubFetcher{}, "")
	if r.Origin != OriginSeed || len(r.Records) != 3 {
		t.Errorf("empty fetch: %+v, want seed", r)
	}

	want := []model.MonthlyRecord{{MonthName: "Jan", CAC: 30}}
	r = Resolve(ctx, stubFetcher{records: want}, "")
	if r.Origin != OriginRemote || len(r.Records) != 1 {
		t.Errorf("ok fetch: %+v, want remote", r)
	}
}
