// Package http は外部 API 呼び出し用の HTTP クライアントを提供します。
package http

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient は市場データ・生成AIなど外部API呼び出し用のHTTPクライアントを作成します。
// timeout はリクエスト全体の上限です。0 以下の場合は 10 秒を使います。
//
// http.DefaultClient にはタイムアウトがないため、外部呼び出しでは必ずこのクライアントを使うこと。
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	t := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment, // HTTP_PROXY などを尊重
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10, // 接続先はほぼ単一ホスト
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: timeout,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
