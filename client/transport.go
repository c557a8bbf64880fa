/*
 * Copyright 2026 The Couchkit Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"

	"github.com/couchkit/couchkit/api/types"
	"github.com/couchkit/couchkit/internal/version"
)

// Request is a request to the store.
type Request struct {
	Method string

	// Path is the escaped path relative to the root of the store, e.g.
	// "/users/alice".
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// Response is a response of the store.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Transport sends requests to the store. Implementations must be safe for
// concurrent use.
type Transport interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

// HTTPTransport is a Transport over HTTP.
type HTTPTransport struct {
	baseURL string
	client  *http.Client
	auth    Authenticator
	logger  *zap.Logger
}

// NewHTTPTransport creates an HTTPTransport for the store at baseURL.
func NewHTTPTransport(baseURL string, client *http.Client, auth Authenticator, logger *zap.Logger) *HTTPTransport {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPTransport{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
		auth:    auth,
		logger:  logger,
	}
}

// Send sends the request. Only failures to reach the store are returned as
// errors, every response is returned as is.
func (t *HTTPTransport) Send(ctx context.Context, req *Request) (*Response, error) {
	resp, err := t.send(ctx, req)
	if err != nil {
		return nil, err
	}

	if r, ok := t.auth.(refresher); ok && resp.StatusCode == http.StatusUnauthorized {
		t.logger.Debug("session expired, logging in again", zap.String("path", req.Path))
		r.Invalidate()
		return t.send(ctx, req)
	}
	return resp, nil
}

func (t *HTTPTransport) send(ctx context.Context, req *Request) (*Response, error) {
	target := t.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("Accept", types.JSONContentType)
	httpReq.Header.Set(types.UserAgentKey, types.GoSDKType+"/"+version.Version)
	if req.Body != nil {
		httpReq.Header.Set(types.ContentTypeKey, types.JSONContentType)
	}
	if t.auth != nil {
		if err := t.auth.Authenticate(ctx, httpReq); err != nil {
			return nil, err
		}
	}

	t.logger.Debug("request", zap.String("method", req.Method), zap.String("path", req.Path))
	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w: %w", req.Method, req.Path, ErrTransport, err)
	}
	defer func() {
		_ = httpResp.Body.Close()
	}()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w: %w", req.Method, req.Path, ErrTransport, err)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       respBody,
	}, nil
}

// newHTTPClient creates the HTTP client of the transport. Session auth needs
// a cookie jar, and a CA file replaces the system roots.
func newHTTPClient(options Options) (*http.Client, error) {
	if options.HTTPClient != nil {
		return options.HTTPClient, nil
	}

	client := &http.Client{Timeout: options.Timeout}
	if options.AuthMode == AuthSession {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		client.Jar = jar
	}

	if options.CertFile != "" {
		pem, err := os.ReadFile(options.CertFile)
		if err != nil {
			return nil, fmt.Errorf("read cert file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("read cert file %s: no certificates", options.CertFile)
		}
		client.Transport = &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12},
		}
	}

	return client, nil
}
