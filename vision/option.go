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
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"cloud.google.com/go/storage"
)

const (
	defaultEndpoint = "https://vision.googleapis.com/"
	defaultVersion  = "v1"

	// DefaultMaxImageSize is the largest inline image accepted unless
	// overridden, matching the service limit of 4 MiB.
	DefaultMaxImageSize int64 = 4 << 20

	// apiKeyEnvVar names the environment variable consulted when no API key
	// is supplied through options.
	apiKeyEnvVar = "GCV_KEY"
)

type settings struct {
	apiKey       string
	endpoint     string
	version      string
	maxImageSize int64

	httpClient    *http.Client
	storageClient *storage.Client
	fsys          fs.FS
	logger        *slog.Logger
}

func defaultSettings() *settings {
	return &settings{
		apiKey:       os.Getenv(apiKeyEnvVar),
		endpoint:     defaultEndpoint,
		version:      defaultVersion,
		maxImageSize: DefaultMaxImageSize,
	}
}

// ClientOption configures a RequestBuilder.
type ClientOption interface {
	resolve(*settings)
}

// WithAPIKey returns a ClientOption that sets the API key sent with every
// request. Without it the key is read from the GCV_KEY environment variable.
func WithAPIKey(key string) ClientOption {
	return withAPIKey(key)
}

type withAPIKey string

func (w withAPIKey) resolve(s *settings) {
	s.apiKey = string(w)
}

// WithEndpoint returns a ClientOption that overrides the default base URL,
// for example to route requests through a proxy. The URL must end in a slash.
func WithEndpoint(url string) ClientOption {
	return withEndpoint(url)
}

type withEndpoint string

func (w withEndpoint) resolve(s *settings) {
	s.endpoint = string(w)
}

// WithVersion returns a ClientOption that overrides the API version segment
// of the request URL.
func WithVersion(version string) ClientOption {
	return withVersion(version)
}

type withVersion string

func (w withVersion) resolve(s *settings) {
	s.version = string(w)
}

// WithMaxImageSize returns a ClientOption that overrides the largest inline
// image, in bytes. Unlike SetMaxImageSize, which reports a negative size as
// ErrInvalidArgument, this option has no way to fail: a negative value leaves
// the limit at its previous setting.
func WithMaxImageSize(n int64) ClientOption {
	return withMaxImageSize(n)
}

type withMaxImageSize int64

func (w withMaxImageSize) resolve(s *settings) {
	if w >= 0 {
		s.maxImageSize = int64(w)
	}
}

// WithHTTPClient returns a ClientOption that specifies the HTTP client used
// for the annotate call and for http(s) image sources. The client's
// transport is wrapped to add the API key; the client itself is not modified.
func WithHTTPClient(client *http.Client) ClientOption {
	return withHTTPClient{client}
}

type withHTTPClient struct{ client *http.Client }

func (w withHTTPClient) resolve(s *settings) {
	s.httpClient = w.client
}

// WithStorageClient returns a ClientOption that specifies the Cloud Storage
// client used to read gs:// image files. Without it a client with default
// credentials is created on first use.
func WithStorageClient(client *storage.Client) ClientOption {
	return withStorageClient{client}
}

type withStorageClient struct{ client *storage.Client }

func (w withStorageClient) resolve(s *settings) {
	s.storageClient = w.client
}

// WithFS returns a ClientOption that resolves local image paths against fsys
// instead of the operating system's file system.
func WithFS(fsys fs.FS) ClientOption {
	return withFS{fsys}
}

type withFS struct{ fsys fs.FS }

func (w withFS) resolve(s *settings) {
	s.fsys = w.fsys
}

// WithLogger returns a ClientOption that sets the logger used for request
// and response debug logging.
func WithLogger(l *slog.Logger) ClientOption {
	return withLogger{l}
}

type withLogger struct{ l *slog.Logger }

func (w withLogger) resolve(s *settings) {
	s.logger = w.l
}
