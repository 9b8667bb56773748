package resolve

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/statuswatch/statuswatch/pkg/types"
)

// fakeStore serves canned per-service results.
type fakeStore struct {
	byService map[string]*types.Observation
	errs      map[string]error
	calls     []string
}

func (f *fakeStore) Latest(_ context.Context, service string) (*types.Observation, error) {
	f.calls = append(f.calls, service)
	if err, ok := f.errs[service]; ok {
		return nil, err
	}
	if obs, ok := f.byService[service]; ok {
		return obs, nil
	}
	return nil, types.ErrNoData
}

type fakeProbe bool

func (f fakeProbe) Healthy(context.Context) bool { return bool(f) }

func obs(service string, status types.Status, host string) *types.Observation {
	return &types.Observation{
		ServiceName: service,
		Status:      status,
		HostName:    host,
		ObservedAt:  time.Date(2024, 3, 15, 8, 30, 0, 0, time.UTC),
	}
}

func TestResolveOne_Found(t *testing.T) {
	st := &fakeStore{byService: map[string]*types.Observation{
		"httpd": obs("httpd", types.StatusUp, "h1"),
	}}
	r := New(types.DefaultRegistry(), st, fakeProbe(true))

	v, err := r.ResolveOne(context.Background(), "httpd")
	if err != nil {
		t.Fatalf("ResolveOne() error = %v", err)
	}
	if v.Status != types.StatusUp || v.HostName != "h1" {
		t.Errorf("view = %+v, want UP@h1", v)
	}
	if v.ObservedAt == nil {
		t.Fatal("ObservedAt = nil, want set")
	}
}

func TestResolveOne_FreeFormStatusVerbatim(t *testing.T) {
	st := &fakeStore{byService: map[string]*types.Observation{
		"httpd": obs("httpd", "DEGRADED", "h1"),
	}}
	r := New(types.DefaultRegistry(), st, fakeProbe(true))

	v, err := r.ResolveOne(context.Background(), "httpd")
	if err != nil {
		t.Fatalf("ResolveOne() error = %v", err)
	}
	if v.Status != "DEGRADED" {
		t.Errorf("status = %q, want DEGRADED passed through verbatim", v.Status)
	}
}

func TestResolveOne_EmptyIsNoDataNotError(t *testing.T) {
	st := &fakeStore{}
	r := New(types.DefaultRegistry(), st, fakeProbe(true))

	for _, name := range types.DefaultRegistry().Names() {
		v, err := r.ResolveOne(context.Background(), name)
		if err != nil {
			t.Fatalf("ResolveOne(%q) error = %v, want nil", name, err)
		}
		if v.Status != types.StatusNoData {
			t.Errorf("ResolveOne(%q).Status = %q, want NO_DATA", name, v.Status)
		}
		if v.ObservedAt != nil {
			t.Errorf("ResolveOne(%q).ObservedAt = %v, want nil", name, v.ObservedAt)
		}
	}
}

func TestResolveOne_QueryFailureDegradesToUnknown(t *testing.T) {
	st := &fakeStore{errs: map[string]error{"httpd": errors.New("malformed collection")}}
	r := New(types.DefaultRegistry(), st, fakeProbe(true))

	v, err := r.ResolveOne(context.Background(), "httpd")
	if err != nil {
		t.Fatalf("ResolveOne() error = %v, want nil — query failures do not fail the request", err)
	}
	if v.Status != types.StatusUnknown {
		t.Errorf("status = %q, want UNKNOWN", v.Status)
	}
}

func TestResolveOne_UnknownServiceNeverReachesStore(t *testing.T) {
	st := &fakeStore{}
	r := New(types.DefaultRegistry(), st, fakeProbe(true))

	_, err := r.ResolveOne(context.Background(), "ftp")
	if !errors.Is(err, types.ErrUnknownService) {
		t.Fatalf("error = %v, want ErrUnknownService", err)
	}
	if len(st.calls) != 0 {
		t.Errorf("store queried %v despite unknown service", st.calls)
	}
}

func TestResolveOne_BackendUnavailableFailsFast(t *testing.T) {
	st := &fakeStore{}
	r := New(types.DefaultRegistry(), st, fakeProbe(false))

	_, err := r.ResolveOne(context.Background(), "httpd")
	if !errors.Is(err, types.ErrBackendUnavailable) {
		t.Fatalf("error = %v, want ErrBackendUnavailable", err)
	}
	if len(st.calls) != 0 {
		t.Errorf("store queried %v despite failed probe", st.calls)
	}
}

func TestResolveOne_ReadsAreIdempotent(t *testing.T) {
	st := &fakeStore{byService: map[string]*types.Observation{
		"postgresql": obs("postgresql", types.StatusUp, "h3"),
	}}
	r := New(types.DefaultRegistry(), st, fakeProbe(true))

	a, err := r.ResolveOne(context.Background(), "postgresql")
	if err != nil {
		t.Fatal(err)
	}
	b, err := r.ResolveOne(context.Background(), "postgresql")
	if err != nil {
		t.Fatal(err)
	}
	if a.Status != b.Status || a.HostName != b.HostName || !a.ObservedAt.Equal(*b.ObservedAt) {
		t.Errorf("consecutive reads differ: %+v vs %+v", a, b)
	}
}

func TestResolveAll_CoversEveryServiceDespitePartialFailure(t *testing.T) {
	st := &fakeStore{
		byService: map[string]*types.Observation{
			"httpd": obs("httpd", types.StatusUp, "h1"),
		},
		errs: map[string]error{
			"rabbitmq": errors.New("shard failure"),
		},
		// postgresql: no entry → NO_DATA
	}
	r := New(types.DefaultRegistry(), st, fakeProbe(true))

	all, err := r.ResolveAll(context.Background())
	if err != nil {
		t.Fatalf("ResolveAll() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3 — every registered service must appear", len(all))
	}
	if all["httpd"].Status != types.StatusUp {
		t.Errorf("httpd = %q, want UP", all["httpd"].Status)
	}
	if all["rabbitmq"].Status != types.StatusError {
		t.Errorf("rabbitmq = %q, want ERROR — bulk failures degrade per entry", all["rabbitmq"].Status)
	}
	if all["postgresql"].Status != types.StatusNoData {
		t.Errorf("postgresql = %q, want NO_DATA", all["postgresql"].Status)
	}
}

func TestResolveAll_BackendUnavailable(t *testing.T) {
	st := &fakeStore{}
	r := New(types.DefaultRegistry(), st, fakeProbe(false))

	_, err := r.ResolveAll(context.Background())
	if !errors.Is(err, types.ErrBackendUnavailable) {
		t.Fatalf("error = %v, want ErrBackendUnavailable", err)
	}
	if len(st.calls) != 0 {
		t.Errorf("store queried %v despite failed probe", st.calls)
	}
}
