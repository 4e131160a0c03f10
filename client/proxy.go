package client

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/proxy"
)

type proxyKey struct{}

// withProxy stores the proxy a single dispatch must be routed through.
func withProxy(ctx context.Context, u *url.URL) context.Context {
	return context.WithValue(ctx, proxyKey{}, u)
}

func proxyFrom(ctx context.Context) *url.URL {
	u, _ := ctx.Value(proxyKey{}).(*url.URL)
	return u
}

func isSOCKS(u *url.URL) bool {
	return u.Scheme == "socks5" || u.Scheme == "socks5h"
}

func checkProxy(u *url.URL) error {
	if u == nil {
		return fmt.Errorf("proxy must not be nil")
	}
	switch u.Scheme {
	case "http", "https", "socks5", "socks5h":
	default:
		return fmt.Errorf("unsupported proxy scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("proxy %q has no host", u.Redacted())
	}
	return nil
}

type dialContextFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// forwardDialer lets the SOCKS dialer reach the proxy through the
// transport's own dialer.
type forwardDialer struct {
	ctx  context.Context
	dial dialContextFunc
}

func (f forwardDialer) Dial(network, addr string) (net.Conn, error) {
	return f.dial(f.ctx, network, addr)
}

func (f forwardDialer) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	return f.dial(ctx, network, addr)
}

// proxyTransport clones base and installs per-dispatch proxy selection.
// HTTP proxies go through Transport.Proxy, SOCKS proxies through a
// golang.org/x/net/proxy dialer. Dispatches without a proxy fall back to
// fallback, then to the base transport's own proxy func.
func proxyTransport(base *http.Transport, fallback *url.URL) *http.Transport {
	t := base.Clone()

	baseProxy := t.Proxy
	dial := dialContextFunc(t.DialContext)
	if t.DialContext == nil {
		dial = (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext
	}

	selected := func(ctx context.Context) *url.URL {
		if u := proxyFrom(ctx); u != nil {
			return u
		}
		return fallback
	}

	t.Proxy = func(r *http.Request) (*url.URL, error) {
		if u := selected(r.Context()); u != nil {
			if isSOCKS(u) {
				return nil, nil
			}
			return u, nil
		}
		if baseProxy != nil {
			return baseProxy(r)
		}
		return nil, nil
	}

	t.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		u := selected(ctx)
		if u == nil || !isSOCKS(u) {
			return dial(ctx, network, addr)
		}

		d, err := proxy.FromURL(u, forwardDialer{ctx: ctx, dial: dial})
		if err != nil {
			return nil, fmt.Errorf("socks proxy %s: %w", u.Redacted(), err)
		}
		if cd, ok := d.(proxy.ContextDialer); ok {
			return cd.DialContext(ctx, network, addr)
		}
		return d.Dial(network, addr)
	}

	return t
}
