package client

import (
	"context"
	"net/http"
	"net/url"
	"testing"
)

func TestProxyTransport_Selection(t *testing.T) {
	httpProxy := &url.URL{Scheme: "http", Host: "proxy:3128"}
	socksProxy := &url.URL{Scheme: "socks5", Host: "proxy:1080"}
	fallback := &url.URL{Scheme: "http", Host: "fallback:3128"}

	testCases := []struct {
		name     string
		fallback *url.URL
		ctx      *url.URL
		want     *url.URL
	}{
		{name: "none"},
		{name: "request proxy", ctx: httpProxy, want: httpProxy},
		{name: "client fallback", fallback: fallback, want: fallback},
		{name: "request overrides client", fallback: fallback, ctx: httpProxy, want: httpProxy},
		{name: "socks dials instead", fallback: fallback, ctx: socksProxy},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			base := &http.Transport{}
			tr := proxyTransport(base, tc.fallback)

			ctx := context.Background()
			if tc.ctx != nil {
				ctx = withProxy(ctx, tc.ctx)
			}
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://localhost:9200/", nil)
			if err != nil {
				t.Fatalf("creating request: %v", err)
			}

			got, err := tr.Proxy(req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
			if base.Proxy != nil {
				t.Error("base transport must not be modified")
			}
		})
	}
}

func TestCheckProxy(t *testing.T) {
	testCases := []struct {
		name string
		u    *url.URL
		ok   bool
	}{
		{name: "http", u: &url.URL{Scheme: "http", Host: "p:1"}, ok: true},
		{name: "socks5h", u: &url.URL{Scheme: "socks5h", Host: "p:1"}, ok: true},
		{name: "nil"},
		{name: "no host", u: &url.URL{Scheme: "https"}},
		{name: "scheme", u: &url.URL{Scheme: "ws", Host: "p:1"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := checkProxy(tc.u)
			if tc.ok != (err == nil) {
				t.Errorf("expected ok=%v, got %v", tc.ok, err)
			}
		})
	}
}
