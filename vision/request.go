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
	"encoding/json"
	"fmt"
	"log/slog"

	"cloud.google.com/go/storage"
	"github.com/googleapis/gax-go/v2/internallog"
)

// RequestDocument is the JSON body of an images:annotate call. It always
// holds exactly one AnnotateImageRequest.
type RequestDocument struct {
	Requests []AnnotateImageRequest `json:"requests"`
}

// AnnotateImageRequest describes one image and the detections to run on it.
// Fields that were never set are omitted from the JSON encoding.
type AnnotateImageRequest struct {
	Image        *Image       `json:"image,omitempty"`
	Features     []Feature    `json:"features,omitempty"`
	ImageContext ImageContext `json:"imageContext,omitempty"`
}

// Image is either inline base64 content or a reference to a Cloud Storage
// object. Exactly one of the fields is set.
type Image struct {
	Content string       `json:"content,omitempty"`
	Source  *ImageSource `json:"source,omitempty"`
}

// ImageSource references an image already stored in Cloud Storage.
type ImageSource struct {
	GCSImageURI string `json:"gcsImageUri"`
}

// A RequestBuilder accumulates the image, features and image context of a
// single annotate request and sends it.
//
// A RequestBuilder is not safe for concurrent use and is not meant to be
// reused after Send; create one per request.
type RequestBuilder struct {
	s      *settings
	logger *slog.Logger

	// ownStorage is set when the storage client was created by the builder
	// and must be closed by it.
	ownStorage *storage.Client

	image        *Image
	features     []Feature
	imageContext ImageContext
}

// NewRequestBuilder returns an empty RequestBuilder configured by opts.
func NewRequestBuilder(opts ...ClientOption) *RequestBuilder {
	s := defaultSettings()
	for _, o := range opts {
		o.resolve(s)
	}
	return &RequestBuilder{
		s:      s,
		logger: internallog.New(s.logger),
	}
}

// Close releases resources created by the builder, such as a Cloud Storage
// client opened to read gs:// files. Clients passed in with options are left
// open.
func (b *RequestBuilder) Close() error {
	if b.ownStorage == nil {
		return nil
	}
	err := b.ownStorage.Close()
	b.ownStorage = nil
	b.s.storageClient = nil
	return err
}

// SetEndpoint overrides the base URL requests are sent to. The URL is used
// as given and should end in a slash.
func (b *RequestBuilder) SetEndpoint(url string) {
	b.s.endpoint = url
}

// SetKey sets the API key sent with the request.
func (b *RequestBuilder) SetKey(key string) {
	b.s.apiKey = key
}

// SetMaxImageSize sets the largest inline image accepted, in bytes.
func (b *RequestBuilder) SetMaxImageSize(n int64) error {
	if n < 0 {
		return fmt.Errorf("%w: image size must be a non-negative number of bytes, got %d", ErrInvalidArgument, n)
	}
	b.s.maxImageSize = n
	return nil
}

// MaxImageSize returns the largest inline image accepted, in bytes.
func (b *RequestBuilder) MaxImageSize() int64 {
	return b.s.maxImageSize
}

// AddFeature appends a feature to the request. The type is not checked
// against the known FeatureType values. maxResults must be positive.
func (b *RequestBuilder) AddFeature(kind string, maxResults int) (*RequestDocument, error) {
	if maxResults < 1 {
		return nil, fmt.Errorf("%w: maxResults must be positive, got %d", ErrInvalidArgument, maxResults)
	}
	b.features = append(b.features, Feature{Type: kind, MaxResults: maxResults})
	return b.RequestDocument(), nil
}

// SetImageContext replaces the image context. Passing nil removes it. The
// context must be encodable as JSON.
func (b *RequestBuilder) SetImageContext(c ImageContext) (*RequestDocument, error) {
	if _, err := json.Marshal(c); err != nil {
		return nil, fmt.Errorf("%w: image context: %v", ErrInvalidArgument, err)
	}
	b.imageContext = c.clone()
	return b.RequestDocument(), nil
}

// RequestDocument returns the request body for the current state. The
// result does not share memory with the builder.
func (b *RequestBuilder) RequestDocument() *RequestDocument {
	var r AnnotateImageRequest
	if b.image != nil {
		img := *b.image
		if img.Source != nil {
			src := *img.Source
			img.Source = &src
		}
		r.Image = &img
	}
	if len(b.features) > 0 {
		r.Features = append([]Feature(nil), b.features...)
	}
	if len(b.imageContext) > 0 {
		r.ImageContext = b.imageContext.clone()
	}
	return &RequestDocument{Requests: []AnnotateImageRequest{r}}
}
