// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/googleapis/gax-go/v2/internallog"
	"github.com/wikisource/cloudvision/internal/trace"
	gtransport "google.golang.org/api/googleapi/transport"
)

const (
	userAgent     = "gcloud-golang-vision-rest/20261018"
	defaultMethod = "annotate"
)

// Send posts the request to the images:<method> endpoint and returns the
// decoded JSON response. An empty method means "annotate".
//
// The response is returned whatever its HTTP status: errors reported by the
// service are part of the document (see ResponseErrors). A body that is not a
// JSON object yields a nil map and a nil error. Only failures to reach the
// service, and missing credentials, image or features, are returned as
// errors.
func (b *RequestBuilder) Send(ctx context.Context, method string) (_ map[string]any, err error) {
	ctx = trace.StartSpan(ctx, "vision.Send")
	defer func() { trace.EndSpan(ctx, err) }()

	if b.s.apiKey == "" {
		return nil, ErrMissingCredential
	}
	if len(b.features) == 0 {
		return nil, ErrMissingFeatures
	}
	if b.image == nil {
		return nil, ErrMissingImage
	}
	if method == "" {
		method = defaultMethod
	}

	body, err := json.Marshal(b.RequestDocument())
	if err != nil {
		return nil, fmt.Errorf("vision: encoding request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.methodURL(method), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("vision: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	b.logger.DebugContext(ctx, "vision request", "request", internallog.HTTPRequest(req, body))

	resp, err := b.annotateClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("vision: images:%s: %w", method, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("vision: reading images:%s response: %w", method, err)
	}
	b.logger.DebugContext(ctx, "vision response", "response", internallog.HTTPResponse(resp, data))
	trace.TracePrintf(ctx, map[string]any{"http.status_code": resp.StatusCode}, "images:%s response", method)

	var res map[string]any
	if err := json.Unmarshal(data, &res); err != nil {
		b.logger.DebugContext(ctx, "vision response is not a JSON object", "status", resp.StatusCode, "error", err)
		return nil, nil
	}
	return res, nil
}

// methodURL returns the URL of an images method, without the API key.
func (b *RequestBuilder) methodURL(method string) string {
	return b.s.endpoint + b.s.version + "/images:" + method
}

// annotateClient returns a copy of the configured HTTP client whose
// transport adds the API key as the key query parameter. The configured
// client stays key-free so that image downloads never carry the key.
func (b *RequestBuilder) annotateClient() *http.Client {
	base := b.s.httpClient
	if base == nil {
		base = http.DefaultClient
	}
	hc := *base
	rt := hc.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}
	hc.Transport = &gtransport.APIKey{
		Key:       b.s.apiKey,
		Transport: rt,
	}
	return &hc
}
