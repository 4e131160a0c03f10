package client_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/adamwoolhether/curl/client"
	"github.com/adamwoolhether/curl/client/throttle"
)

var (
	logs        bytes.Buffer
	logsHandler = slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})
)

func TestMain(m *testing.M) {
	exitCode := m.Run()
	if exitCode != 0 {
		fmt.Println("******************** LOGS ********************")
		fmt.Print(logs.String())
		fmt.Println("******************** LOGS ********************")
	}
	os.Exit(exitCode)
}

// testLogger shares one handler so concurrent writers serialize on it.
func testLogger() *slog.Logger {
	return slog.New(logsHandler)
}

func slogTo(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// statusServer answers every request with code and records the last one.
func statusServer(t *testing.T, code int, check func(r *http.Request)) *httptest.Server {
	t.Helper()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.WriteHeader(code)
	}))
	t.Cleanup(ts.Close)

	return ts
}

func mustBuild(t *testing.T, opts ...client.Option) *client.Client {
	t.Helper()

	c, err := client.Build(append([]client.Option{client.WithLogger(testLogger())}, opts...)...)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return c
}

func TestClient_WithUserAgent(t *testing.T) {
	expectedUA := "TestUserAgent/1.0"

	ts := statusServer(t, http.StatusOK, func(r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != expectedUA {
			t.Errorf("expected User-Agent %q, got %q", expectedUA, ua)
		}
	})

	c := mustBuild(t, client.WithUserAgent(expectedUA))

	resp, err := c.NewRequest(http.MethodGet, ts.URL).Execute(t.Context())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	defer resp.Close()

	if resp.StatusCode() != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode())
	}
}

func TestClient_WithThrottleAndUserAgent(t *testing.T) {
	expectedUA := "ThrottledAgent/1.0"

	ts := statusServer(t, http.StatusOK, func(r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != expectedUA {
			t.Errorf("expected User-Agent %q, got %q", expectedUA, ua)
		}
	})

	// WithThrottle applied before WithUserAgent, order shouldn't matter.
	c := mustBuild(t,
		client.WithThrottle(100, 10),
		client.WithUserAgent(expectedUA),
	)

	for range 3 {
		resp, err := c.NewRequest(http.MethodGet, ts.URL).Execute(t.Context())
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		resp.Close()
	}
}

func TestClient_WithTransport(t *testing.T) {
	var called bool
	custom := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		called = true
		return http.DefaultTransport.RoundTrip(r)
	})

	ts := statusServer(t, http.StatusOK, nil)

	c := mustBuild(t, client.WithTransport(custom))

	resp, err := c.NewRequest(http.MethodGet, ts.URL).Execute(t.Context())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	resp.Close()

	if !called {
		t.Error("custom transport was not called")
	}
}

func TestClient_WithTransportNil(t *testing.T) {
	_, err := client.Build(client.WithTransport(nil))
	if err == nil {
		t.Fatal("expected error for nil transport")
	}
}

func TestClient_WithTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	c := mustBuild(t, client.WithTimeout(50*time.Millisecond))

	_, err := c.NewRequest(http.MethodGet, ts.URL).Execute(t.Context())
	if !errors.Is(err, client.ErrFatal) {
		t.Fatalf("expected fatal error on timeout, got: %v", err)
	}
}

func TestClient_WithTimeoutNegative(t *testing.T) {
	_, err := client.Build(client.WithTimeout(-1))
	if err == nil {
		t.Fatal("expected error for negative timeout")
	}
}

func TestClient_WithClient(t *testing.T) {
	var called bool
	custom := &http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			called = true
			return http.DefaultTransport.RoundTrip(r)
		}),
	}

	ts := statusServer(t, http.StatusOK, nil)

	c := mustBuild(t, client.WithClient(custom), client.WithTimeout(time.Second))

	resp, err := c.NewRequest(http.MethodGet, ts.URL).Execute(t.Context())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	resp.Close()

	if !called {
		t.Error("provided client's transport was not called")
	}
	if custom.Timeout != 0 {
		t.Errorf("provided client must not be modified, timeout is %v", custom.Timeout)
	}
}

func TestClient_WithClientNil(t *testing.T) {
	_, err := client.Build(client.WithClient(nil))
	if err == nil {
		t.Fatal("expected error for nil client")
	}
}

func TestClient_WithNoFollowRedirects(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/redirect" {
			http.Redirect(w, r, "/target", http.StatusFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	c := mustBuild(t, client.WithNoFollowRedirects())

	resp, err := c.NewRequest(http.MethodGet, ts.URL+"/redirect").Execute(t.Context())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	defer resp.Close()

	// With no-follow, we should get the redirect status, not follow it.
	if resp.StatusCode() != http.StatusFound {
		t.Errorf("expected 302 response without following, got %d", resp.StatusCode())
	}
}

// roundTripFunc adapts a function into an http.RoundTripper.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestClient_WithThrottleValidation(t *testing.T) {
	_, err := client.Build(client.WithThrottle(0, 10))
	if err == nil {
		t.Fatal("expected error for zero rps")
	}
	if !errors.Is(err, throttle.ErrMustNotBeZero) {
		t.Errorf("expected ErrMustNotBeZero, got: %v", err)
	}
}

func TestClient_OptionValidation(t *testing.T) {
	testCases := []struct {
		name   string
		opt    client.Option
		target error
	}{
		{name: "unknown encoding", opt: client.WithEncoding("klingon"), target: client.ErrInvalidEncoding},
		{name: "nil proxy", opt: client.WithProxy(nil)},
		{name: "ftp proxy", opt: client.WithProxy(&url.URL{Scheme: "ftp", Host: "proxy:21"})},
		{name: "nil pool", opt: client.WithPool(nil)},
		{name: "nil tracer", opt: client.WithTracer(nil)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := client.Build(tc.opt)
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.target != nil && !errors.Is(err, tc.target) {
				t.Errorf("expected %v, got %v", tc.target, err)
			}
		})
	}
}

func TestClient_WithProxyRequiresHTTPTransport(t *testing.T) {
	custom := roundTripFunc(http.DefaultTransport.RoundTrip)

	_, err := client.Build(
		client.WithTransport(custom),
		client.WithProxy(&url.URL{Scheme: "http", Host: "127.0.0.1:3128"}),
	)
	if !errors.Is(err, client.ErrProxyUnsupported) {
		t.Fatalf("expected ErrProxyUnsupported, got %v", err)
	}
}

func TestClient_WithEncoding(t *testing.T) {
	c := mustBuild(t, client.WithEncoding("ISO-8859-1"))

	req := c.NewRequest(http.MethodGet, "http://localhost:9200/")
	if req.Encoding() != "ISO-8859-1" {
		t.Errorf("expected request to inherit encoding, got %q", req.Encoding())
	}
}

func TestClient_Default(t *testing.T) {
	if client.Default() != client.Default() {
		t.Fatal("default client must be built once")
	}

	req := client.NewRequest(http.MethodGet, "http://localhost:9200/")
	if req.Encoding() != client.DefaultEncoding {
		t.Errorf("expected %s, got %q", client.DefaultEncoding, req.Encoding())
	}
}
