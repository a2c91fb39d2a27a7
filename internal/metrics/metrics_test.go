package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

var (
	_ Recorder = (*NoopRecorder)(nil)
	_ Recorder = (*InMemoryRecorder)(nil)
	_ Recorder = (*PrometheusRecorder)(nil)
)

func TestInMemoryRecorder_Counts(t *testing.T) {
	m := NewInMemory()

	m.IncRegistration()
	m.IncLogin(OutcomeSuccess)
	m.IncLogin(OutcomeFailure)
	m.IncLogin(OutcomeFailure)
	m.IncEntryCreated(KindFood)
	m.IncEntryDeleted(KindWorkout)
	m.ObserveHTTPRequest(http.MethodGet, "/api/food", http.StatusOK, time.Millisecond)

	snap := m.Snapshot()
	if snap.Registrations != 1 {
		t.Errorf("Registrations = %d, want 1", snap.Registrations)
	}
	if snap.Logins[OutcomeFailure] != 2 || snap.Logins[OutcomeSuccess] != 1 {
		t.Errorf("unexpected logins: %v", snap.Logins)
	}
	if snap.EntriesCreated[KindFood] != 1 || snap.EntriesDeleted[KindWorkout] != 1 {
		t.Errorf("unexpected entry counts: %+v", snap)
	}
	if snap.HTTPRequests != 1 || snap.LastRequestStatus != http.StatusOK {
		t.Errorf("unexpected request counts: %+v", snap)
	}
}

func TestInMemoryRecorder_SnapshotIsCopy(t *testing.T) {
	m := NewInMemory()
	m.IncEntryCreated(KindFood)

	snap := m.Snapshot()
	snap.EntriesCreated[KindFood] = 99

	if got := m.Snapshot().EntriesCreated[KindFood]; got != 1 {
		t.Errorf("snapshot mutation leaked into recorder: %d", got)
	}
}

func TestPrometheusRecorder_Counters(t *testing.T) {
	p := NewPrometheus()

	p.IncEntryCreated(KindFood)
	p.IncEntryCreated(KindFood)
	p.IncLogin(OutcomeFailure)

	if got := testutil.ToFloat64(p.entries.WithLabelValues(KindFood, "create")); got != 2 {
		t.Errorf("food creates = %v, want 2", got)
	}
	if got := testutil.ToFloat64(p.logins.WithLabelValues(OutcomeFailure)); got != 1 {
		t.Errorf("login failures = %v, want 1", got)
	}
}

func TestPrometheusRecorder_Handler(t *testing.T) {
	p := NewPrometheus()
	p.IncRegistration()
	p.ObserveHTTPRequest(http.MethodPost, "/api/register", http.StatusCreated, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		"fitlog_accounts_registrations_total 1",
		`fitlog_http_requests_total{method="POST",route="/api/register",status="201"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("expected %q in exposition", want)
		}
	}
}
