package app

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	module "github.com/louisbranch/agenda/internal/services/web/module"
)

type stubModule struct {
	id       string
	mount    module.Mount
	mountErr error
}

func (s stubModule) ID() string { return s.id }

func (s stubModule) Mount() (module.Mount, error) { return s.mount, s.mountErr }

type healthStubModule struct {
	stubModule
	healthy bool
}

func (s healthStubModule) Healthy() bool { return s.healthy }

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestComposeRejectsDuplicateModulePrefix(t *testing.T) {
	t.Parallel()

	_, err := Composer{}.Compose(ComposeInput{
		Modules: []module.Module{
			stubModule{id: "one", mount: module.Mount{Prefix: "/one/", Handler: okHandler()}},
			stubModule{id: "two", mount: module.Mount{Prefix: "/one", Handler: okHandler()}},
		},
	})
	if err == nil || !strings.Contains(err.Error(), `owned by module "one"`) {
		t.Fatalf("expected duplicate prefix error, got %v", err)
	}
}

func TestComposeRejectsInvalidModules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		feature module.Module
	}{
		{name: "nil module", feature: nil},
		{name: "mount error", feature: stubModule{id: "broken", mountErr: errors.New("boom")}},
		{name: "missing prefix", feature: stubModule{id: "noprefix", mount: module.Mount{Prefix: " ", Handler: okHandler()}}},
		{name: "missing handler", feature: stubModule{id: "nohandler", mount: module.Mount{Prefix: "/x/"}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := (Composer{}).Compose(ComposeInput{Modules: []module.Module{tc.feature}}); err == nil {
				t.Fatal("expected compose error")
			}
		})
	}
}

func TestComposeRoutesToModule(t *testing.T) {
	t.Parallel()

	h, err := Composer{}.Compose(ComposeInput{
		Modules: []module.Module{stubModule{id: "one", mount: module.Mount{Prefix: "one", Handler: okHandler()}}},
	})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/one/thing", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNoContent)
	}
}

func TestComposeRejectsCrossOriginMutations(t *testing.T) {
	t.Parallel()

	h, err := Composer{}.Compose(ComposeInput{
		Modules: []module.Module{stubModule{id: "root", mount: module.Mount{Prefix: "/", Handler: okHandler()}}},
	})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	tests := []struct {
		name   string
		method string
		origin string
		want   int
	}{
		{name: "same origin post", method: http.MethodPost, origin: "http://example.com", want: http.StatusNoContent},
		{name: "no origin post", method: http.MethodPost, want: http.StatusNoContent},
		{name: "cross origin post", method: http.MethodPost, origin: "http://evil.test", want: http.StatusForbidden},
		{name: "cross origin get", method: http.MethodGet, origin: "http://evil.test", want: http.StatusNoContent},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(tc.method, "http://example.com/borrar/1", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tc.want {
				t.Fatalf("status = %d, want %d", rr.Code, tc.want)
			}
		})
	}
}

func TestHealthy(t *testing.T) {
	t.Parallel()

	plain := stubModule{id: "plain"}
	up := healthStubModule{stubModule: stubModule{id: "up"}, healthy: true}
	down := healthStubModule{stubModule: stubModule{id: "down"}, healthy: false}

	if !Healthy(nil) {
		t.Fatal("no modules should be healthy")
	}
	if !Healthy([]module.Module{plain, up}) {
		t.Fatal("expected healthy")
	}
	if Healthy([]module.Module{up, down}) {
		t.Fatal("expected unhealthy when any reporter is down")
	}
}
