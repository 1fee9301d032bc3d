// Package http は外部サービス呼び出し用のHTTPクライアントを提供します。
package http

import (
	"net"
	"net/http"
	"time"
)

// DefaultUserAgent is sent on every outbound request unless the caller set one.
const DefaultUserAgent = "skateswap-api/1.0"

// NewHTTPClient はメール配信などの外部API呼び出し用HTTPクライアントを作成します。
// http.DefaultClientにはタイムアウトがないため、常にこのクライアントを使用します。
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: &userAgentTransport{next: t, agent: DefaultUserAgent},
	}
}

type userAgentTransport struct {
	next  http.RoundTripper
	agent string
}

// RoundTrip sets User-Agent on a clone so the caller's request is left untouched.
func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.next.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", t.agent)
	return t.next.RoundTrip(r)
}
