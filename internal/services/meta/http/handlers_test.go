package http

import (
	stdctx "context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	phttp "notary/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

type pingFunc func(stdctx.Context) error

func (f pingFunc) Ping(ctx stdctx.Context) error { return f(ctx) }

type agentStub struct{ peers []string }

func (agentStub) Name() string      { return "notary" }
func (a agentStub) Peers() []string { return a.peers }

func serve(t *testing.T, d Deps, path string) map[string]any {
	t.Helper()
	mux := chi.NewRouter()
	Register(phttp.AdaptChi(mux), d)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("%s status=%d body=%s", path, rec.Code, rec.Body.String())
	}
	var env struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return env.Data
}

func TestReadyAggregatesChecks(t *testing.T) {
	ok := pingFunc(func(stdctx.Context) error { return nil })
	bad := pingFunc(func(stdctx.Context) error { return errors.New("down") })

	cases := []struct {
		name   string
		checks []Check
		want   string
	}{
		{"no checks", nil, "ok"},
		{"all ok", []Check{{"ledger", ok}, {"peers", ok}}, "ok"},
		{"skipped degrades", []Check{{"ledger", ok}, {"classifier", nil}}, "degraded"},
		{"any failure fails", []Check{{"ledger", bad}, {"classifier", nil}}, "fail"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data := serve(t, Deps{ServiceName: "notary-agent", Checks: tc.checks}, "/ready")
			if data["status"] != tc.want {
				t.Fatalf("status=%v want %s", data["status"], tc.want)
			}
			checks, _ := data["checks"].([]any)
			if len(checks) != len(tc.checks) {
				t.Fatalf("checks=%v", data["checks"])
			}
		})
	}
}

func TestReadyKeepsCheckOrder(t *testing.T) {
	slow := pingFunc(func(ctx stdctx.Context) error {
		select {
		case <-time.After(20 * time.Millisecond):
		case <-ctx.Done():
		}
		return nil
	})
	fast := pingFunc(func(stdctx.Context) error { return errors.New("nope") })
	data := serve(t, Deps{Checks: []Check{{"ledger", slow}, {"classifier", fast}}}, "/ready")
	checks := data["checks"].([]any)
	first := checks[0].(map[string]any)
	second := checks[1].(map[string]any)
	if first["name"] != "ledger" || first["status"] != "ok" {
		t.Fatalf("first=%v", first)
	}
	if second["name"] != "classifier" || second["error"] != "nope" {
		t.Fatalf("second=%v", second)
	}
}

func TestHealthAndService(t *testing.T) {
	started := time.Now().Add(-time.Hour)
	d := Deps{ServiceName: "notary-agent", StartedAt: started}

	health := serve(t, d, "/health")
	if health["ok"] != true || health["service"] != "notary-agent" || health["started"] != started.UTC().Format(time.RFC3339) {
		t.Fatalf("health=%v", health)
	}
	svc := serve(t, d, "/service")
	if svc["name"] != "notary-agent" {
		t.Fatalf("service=%v", svc)
	}
	if up, _ := svc["uptime"].(float64); up < 3599 {
		t.Fatalf("uptime=%v", svc["uptime"])
	}
	if _, ok := svc["modules"]; ok {
		t.Fatalf("modules should be omitted: %v", svc)
	}

	d.Modules = func() []string { return []string{"agent", "chat"} }
	svc = serve(t, d, "/service")
	mods, _ := svc["modules"].([]any)
	if len(mods) != 2 || mods[0] != "agent" || mods[1] != "chat" {
		t.Fatalf("modules=%v", svc["modules"])
	}
}

func TestAgentReportsPeers(t *testing.T) {
	data := serve(t, Deps{Agent: agentStub{peers: []string{"bravo"}}}, "/agent")
	if data["name"] != "notary" {
		t.Fatalf("agent=%v", data)
	}
	peers := data["peers"].([]any)
	if len(peers) != 1 || peers[0] != "bravo" {
		t.Fatalf("peers=%v", peers)
	}

	anon := serve(t, Deps{}, "/agent")
	if p, _ := anon["peers"].([]any); len(p) != 0 {
		t.Fatalf("anonymous peers=%v", anon["peers"])
	}
	if _, ok := anon["build"].(map[string]any); !ok {
		t.Fatalf("missing build %v", anon)
	}
}
