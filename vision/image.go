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
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"io/fs"
	"math"
	"net/http"
	"net/url"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/wikisource/cloudvision/internal/trace"
)

// ImageType tells SetImage how to interpret its input.
type ImageType int

const (
	// ImageTypeFile treats the input as a file location: a local path, an
	// http(s) URL or a gs:// URL. The image is read and sent inline.
	ImageTypeFile ImageType = iota

	// ImageTypeRaw treats the input as the image bytes.
	ImageTypeRaw

	// ImageTypeRemoteURI treats the input as a Cloud Storage URI that the
	// service reads itself.
	ImageTypeRemoteURI
)

func (t ImageType) String() string {
	switch t {
	case ImageTypeFile:
		return "FILE"
	case ImageTypeRaw:
		return "RAW"
	case ImageTypeRemoteURI:
		return "REMOTE_URI"
	}
	return fmt.Sprintf("ImageType(%d)", int(t))
}

// SetImage sets the image from input interpreted according to typ. A file
// location or URI must be a string; raw data may be a []byte or a string.
// It replaces any image set before.
func (b *RequestBuilder) SetImage(ctx context.Context, input any, typ ImageType) (*RequestDocument, error) {
	switch typ {
	case ImageTypeFile:
		loc, ok := input.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %v image wants a string location, got %T", ErrInvalidArgument, typ, input)
		}
		return b.SetImageFile(ctx, loc)
	case ImageTypeRaw:
		switch v := input.(type) {
		case []byte:
			return b.SetImageRaw(v)
		case string:
			return b.SetImageRaw([]byte(v))
		}
		return nil, fmt.Errorf("%w: %v image wants []byte, got %T", ErrInvalidArgument, typ, input)
	case ImageTypeRemoteURI:
		uri, ok := input.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %v image wants a string URI, got %T", ErrInvalidArgument, typ, input)
		}
		return b.SetImageURI(uri)
	}
	return nil, fmt.Errorf("%w: unknown image type %v", ErrInvalidArgument, typ)
}

// SetImageRaw sets the image to data, sent inline.
func (b *RequestBuilder) SetImageRaw(data []byte) (*RequestDocument, error) {
	if err := b.checkSize("raw image", int64(len(data))); err != nil {
		return nil, err
	}
	b.image = &Image{Content: base64.StdEncoding.EncodeToString(data)}
	return b.RequestDocument(), nil
}

// SetImageURI sets the image to a Cloud Storage object, in the form
// gs://bucket_name/object_name, which the service fetches itself. The URI is
// not checked.
func (b *RequestBuilder) SetImageURI(uri string) (*RequestDocument, error) {
	b.image = &Image{Source: &ImageSource{GCSImageURI: uri}}
	return b.RequestDocument(), nil
}

// SetImageFile reads the image at location and sets it as inline content.
// location is a local path, an http(s) URL or a gs:// URL. The size is
// checked before the content is read whenever the source reports it.
func (b *RequestBuilder) SetImageFile(ctx context.Context, location string) (_ *RequestDocument, err error) {
	ctx = trace.StartSpan(ctx, "vision.SetImageFile")
	defer func() { trace.EndSpan(ctx, err) }()

	data, err := b.readFile(ctx, location)
	if err != nil {
		return nil, err
	}
	b.image = &Image{Content: base64.StdEncoding.EncodeToString(data)}
	return b.RequestDocument(), nil
}

// EncodeFile returns the base64 encoding of the image at location, subject
// to the same size limit as SetImageFile. It does not change the builder.
func (b *RequestBuilder) EncodeFile(ctx context.Context, location string) (string, error) {
	data, err := b.readFile(ctx, location)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func (b *RequestBuilder) readFile(ctx context.Context, location string) ([]byte, error) {
	u, err := url.Parse(location)
	if err == nil {
		switch u.Scheme {
		case "http", "https":
			return b.readHTTP(ctx, location)
		case "gs":
			return b.readGCS(ctx, u)
		}
	}
	return b.readLocal(location)
}

func (b *RequestBuilder) checkSize(what string, size int64) error {
	if size > b.s.maxImageSize {
		return fmt.Errorf("%w: size of %s (%d) exceeds permitted size (%d)", ErrSizeLimitExceeded, what, size, b.s.maxImageSize)
	}
	return nil
}

// readLimited reads r, failing once more than the permitted size was read.
func (b *RequestBuilder) readLimited(what string, r io.Reader) ([]byte, error) {
	n := b.s.maxImageSize
	if n < math.MaxInt64 {
		n++
	}
	data, err := io.ReadAll(io.LimitReader(r, n))
	if err != nil {
		return nil, fmt.Errorf("vision: reading %s: %w", what, err)
	}
	if int64(len(data)) > b.s.maxImageSize {
		return nil, fmt.Errorf("%w: %s is larger than permitted size (%d)", ErrSizeLimitExceeded, what, b.s.maxImageSize)
	}
	return data, nil
}

func (b *RequestBuilder) readLocal(name string) ([]byte, error) {
	fsys := b.s.fsys
	if fsys == nil {
		fsys = osFS{}
	}
	fi, err := fs.Stat(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("vision: %w", err)
	}
	if err := b.checkSize(name, fi.Size()); err != nil {
		return nil, err
	}
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("vision: %w", err)
	}
	defer f.Close()
	return b.readLimited(name, f)
}

func (b *RequestBuilder) readHTTP(ctx context.Context, location string) ([]byte, error) {
	hc := b.s.httpClient
	if hc == nil {
		hc = http.DefaultClient
	}

	// Servers that reject HEAD or omit Content-Length are still bounded by
	// readLimited below.
	if req, err := http.NewRequestWithContext(ctx, http.MethodHead, location, nil); err == nil {
		if resp, err := hc.Do(req); err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				if err := b.checkSize(location, resp.ContentLength); err != nil {
					return nil, err
				}
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("vision: %w", err)
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vision: fetching image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vision: fetching %s: %s", location, resp.Status)
	}
	if err := b.checkSize(location, resp.ContentLength); err != nil {
		return nil, err
	}
	return b.readLimited(location, resp.Body)
}

func (b *RequestBuilder) readGCS(ctx context.Context, u *url.URL) ([]byte, error) {
	bucket, object := u.Host, strings.TrimPrefix(u.Path, "/")
	if bucket == "" || object == "" {
		return nil, fmt.Errorf("%w: %q is not of the form gs://bucket/object", ErrInvalidArgument, u)
	}
	client, err := b.storageClient(ctx)
	if err != nil {
		return nil, err
	}
	obj := client.Bucket(bucket).Object(object)
	attrs, err := obj.Attrs(ctx)
	if err != nil {
		return nil, fmt.Errorf("vision: %s: %w", u, err)
	}
	if err := b.checkSize(u.String(), attrs.Size); err != nil {
		return nil, err
	}
	r, err := obj.NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("vision: %s: %w", u, err)
	}
	defer r.Close()
	return b.readLimited(u.String(), r)
}

func (b *RequestBuilder) storageClient(ctx context.Context) (*storage.Client, error) {
	if b.s.storageClient != nil {
		return b.s.storageClient, nil
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("vision: creating storage client: %w", err)
	}
	b.s.storageClient = client
	b.ownStorage = client
	return client, nil
}

// osFS opens names with the os package, so both absolute and relative paths
// work.
type osFS struct{}

func (osFS) Open(name string) (fs.File, error)     { return os.Open(name) }
func (osFS) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }
