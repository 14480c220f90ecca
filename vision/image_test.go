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
	"errors"
	"fmt"
	"io/fs"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/go-cmp/cmp"
	"github.com/wikisource/cloudvision/internal/testutil"
)

func TestEncodeFileDeterministic(t *testing.T) {
	ctx := context.Background()
	path, data := writeTestImage(t, smallImageSize)
	b := NewRequestBuilder()

	first, err := b.EncodeFile(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	second, err := b.EncodeFile(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != smallImageEncoded || len(second) != smallImageEncoded {
		t.Errorf("got lengths %d and %d, want %d", len(first), len(second), smallImageEncoded)
	}
	if want := base64.StdEncoding.EncodeToString(data); first != want {
		t.Error("encoding does not match the file content")
	}
	if doc := b.RequestDocument(); doc.Requests[0].Image != nil {
		t.Error("EncodeFile changed the request")
	}
}

func TestSetImageFileAndRawAgree(t *testing.T) {
	ctx := context.Background()
	path, data := writeTestImage(t, smallImageSize)

	fromFile, err := NewRequestBuilder().SetImageFile(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	fromRaw, err := NewRequestBuilder().SetImageRaw(data)
	if err != nil {
		t.Fatal(err)
	}
	if fromFile.Requests[0].Image.Content == "" {
		t.Fatal("file image has empty content")
	}
	if diff := cmp.Diff(fromFile, fromRaw); diff != "" {
		t.Errorf("file and raw documents differ (-file +raw):\n%s", diff)
	}
}

func TestSetImageURI(t *testing.T) {
	const uri = "gs://bucket_name/object_name.jpg"
	doc, err := NewRequestBuilder().SetImage(context.Background(), uri, ImageTypeRemoteURI)
	if err != nil {
		t.Fatal(err)
	}
	want := &Image{Source: &ImageSource{GCSImageURI: uri}}
	if diff := cmp.Diff(want, doc.Requests[0].Image); diff != "" {
		t.Errorf("image mismatch (-want +got):\n%s", diff)
	}
}

func TestSetImageReplaces(t *testing.T) {
	ctx := context.Background()
	b := NewRequestBuilder()
	if _, err := b.SetImageURI("gs://b/o"); err != nil {
		t.Fatal(err)
	}
	doc, err := b.SetImageRaw([]byte("abc"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(&Image{Content: "YWJj"}, doc.Requests[0].Image); diff != "" {
		t.Errorf("raw after uri (-want +got):\n%s", diff)
	}
	doc, err = b.SetImage(ctx, "gs://b/o2", ImageTypeRemoteURI)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(&Image{Source: &ImageSource{GCSImageURI: "gs://b/o2"}}, doc.Requests[0].Image); diff != "" {
		t.Errorf("uri after raw (-want +got):\n%s", diff)
	}
}

func TestSetImageInvalidInput(t *testing.T) {
	ctx := context.Background()
	for _, test := range []struct {
		input any
		typ   ImageType
	}{
		{[]byte("path"), ImageTypeFile},
		{42, ImageTypeRaw},
		{[]byte("gs://b/o"), ImageTypeRemoteURI},
		{"x", ImageType(7)},
	} {
		_, err := NewRequestBuilder().SetImage(ctx, test.input, test.typ)
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("SetImage(%T, %v): got %v, want ErrInvalidArgument", test.input, test.typ, err)
		}
	}
}

func TestSetImageRawString(t *testing.T) {
	doc, err := NewRequestBuilder().SetImage(context.Background(), "abc", ImageTypeRaw)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := doc.Requests[0].Image.Content, "YWJj"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestImageTypeString(t *testing.T) {
	for typ, want := range map[ImageType]string{
		ImageTypeFile:      "FILE",
		ImageTypeRaw:       "RAW",
		ImageTypeRemoteURI: "REMOTE_URI",
		ImageType(9):       "ImageType(9)",
	} {
		if got := typ.String(); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}
}

func TestMaxImageSize(t *testing.T) {
	b := NewRequestBuilder()
	if got := b.MaxImageSize(); got != DefaultMaxImageSize {
		t.Errorf("default: got %d, want %d", got, DefaultMaxImageSize)
	}
	if err := b.SetMaxImageSize(-1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("negative: got %v, want ErrInvalidArgument", err)
	}
	if err := b.SetMaxImageSize(3); err != nil {
		t.Fatal(err)
	}
	if _, err := b.SetImageRaw([]byte("abc")); err != nil {
		t.Errorf("at limit: %v", err)
	}
	if _, err := b.SetImageRaw([]byte("abcd")); !errors.Is(err, ErrSizeLimitExceeded) {
		t.Errorf("over limit: got %v, want ErrSizeLimitExceeded", err)
	}

	b = NewRequestBuilder(WithMaxImageSize(2))
	if _, err := b.SetImageRaw([]byte("abc")); !errors.Is(err, ErrSizeLimitExceeded) {
		t.Errorf("option: got %v, want ErrSizeLimitExceeded", err)
	}
}

func TestMaxImageSizeOptionIgnoresNegative(t *testing.T) {
	b := NewRequestBuilder(WithMaxImageSize(10), WithMaxImageSize(-1))
	if got, want := b.MaxImageSize(), int64(10); got != want {
		t.Errorf("got %d, want %d", got, want)
	}
	b = NewRequestBuilder(WithMaxImageSize(-5))
	if got := b.MaxImageSize(); got != DefaultMaxImageSize {
		t.Errorf("got %d, want %d", got, DefaultMaxImageSize)
	}
}

func TestUnlimitedMaxImageSize(t *testing.T) {
	ctx := context.Background()
	path, data := writeTestImage(t, 100)
	want := base64.StdEncoding.EncodeToString(data)

	b := NewRequestBuilder()
	if err := b.SetMaxImageSize(math.MaxInt64); err != nil {
		t.Fatal(err)
	}
	doc, err := b.SetImageFile(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if got := doc.Requests[0].Image.Content; got != want {
		t.Errorf("file: got %d content bytes, want %d", len(got), len(want))
	}

	srv := newImageServer(100, true)
	defer srv.Close()
	b = NewRequestBuilder(WithHTTPClient(srv.Client()), WithMaxImageSize(math.MaxInt64))
	got, err := b.EncodeFile(ctx, srv.URL+"/image.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(want) {
		t.Errorf("http: got %d content bytes, want %d", len(got), len(want))
	}
}

// statOnlyFS reports a file of the given size and records any attempt to
// open it.
type statOnlyFS struct {
	size   int64
	opened bool
}

func (f *statOnlyFS) Open(name string) (fs.File, error) {
	f.opened = true
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
}

func (f *statOnlyFS) Stat(name string) (fs.FileInfo, error) {
	return fakeFileInfo{name: name, size: f.size}, nil
}

type fakeFileInfo struct {
	name string
	size int64
}

func (fi fakeFileInfo) Name() string       { return fi.name }
func (fi fakeFileInfo) Size() int64        { return fi.size }
func (fi fakeFileInfo) Mode() fs.FileMode  { return 0o444 }
func (fi fakeFileInfo) ModTime() time.Time { return time.Time{} }
func (fi fakeFileInfo) IsDir() bool        { return false }
func (fi fakeFileInfo) Sys() any           { return nil }

func TestSetImageFileChecksSizeBeforeOpening(t *testing.T) {
	fsys := &statOnlyFS{size: largeImageSize}
	b := NewRequestBuilder(WithFS(fsys))
	_, err := b.SetImageFile(context.Background(), "large.jpg")
	if !errors.Is(err, ErrSizeLimitExceeded) {
		t.Fatalf("got %v, want ErrSizeLimitExceeded", err)
	}
	if fsys.opened {
		t.Error("file was opened although its size is over the limit")
	}
}

func TestSetImageFileFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"images/dog.jpg": {Data: []byte("woof")},
	}
	b := NewRequestBuilder(WithFS(fsys))
	doc, err := b.SetImageFile(context.Background(), "images/dog.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := doc.Requests[0].Image.Content, base64.StdEncoding.EncodeToString([]byte("woof")); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if _, err := b.SetImageFile(context.Background(), "images/cat.jpg"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file: got %v, want fs.ErrNotExist", err)
	}
}

func TestSetImageFileTraced(t *testing.T) {
	ctx := context.Background()
	te := testutil.NewOpenTelemetryTestExporter()
	t.Cleanup(func() {
		te.Unregister(ctx)
	})
	path, _ := writeTestImage(t, 10)
	if _, err := NewRequestBuilder().SetImageFile(ctx, path); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"vision.SetImageFile"}, te.SpanNames()); diff != "" {
		t.Errorf("spans (-want +got):\n%s", diff)
	}
}

// imageServer serves size bytes at /image.jpg and counts GET requests.
type imageServer struct {
	*httptest.Server
	mu         sync.Mutex
	gets       int
	size       int
	omitLength bool
}

func newImageServer(size int, omitLength bool) *imageServer {
	s := &imageServer{size: size, omitLength: omitLength}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/image.jpg" {
			http.NotFound(w, r)
			return
		}
		if r.Method == http.MethodGet {
			s.mu.Lock()
			s.gets++
			s.mu.Unlock()
		}
		if !s.omitLength {
			w.Header().Set("Content-Length", strconv.Itoa(s.size))
		}
		w.Header().Set("Content-Type", "image/jpeg")
		if r.Method == http.MethodHead {
			return
		}
		w.Write([]byte(strings.Repeat("x", s.size)))
	}))
	return s
}

func (s *imageServer) getCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets
}

func TestSetImageFileHTTP(t *testing.T) {
	ctx := context.Background()
	srv := newImageServer(100, false)
	defer srv.Close()

	b := NewRequestBuilder(WithHTTPClient(srv.Client()))
	doc, err := b.SetImageFile(ctx, srv.URL+"/image.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := doc.Requests[0].Image.Content, base64.StdEncoding.EncodeToString([]byte(strings.Repeat("x", 100))); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	if _, err := b.SetImageFile(ctx, srv.URL+"/missing.jpg"); err == nil || errors.Is(err, ErrSizeLimitExceeded) {
		t.Errorf("missing image: got %v, want a fetch error", err)
	}
}

func TestSetImageFileHTTPTooLarge(t *testing.T) {
	ctx := context.Background()
	for _, omitLength := range []bool{false, true} {
		t.Run(fmt.Sprintf("omitLength=%v", omitLength), func(t *testing.T) {
			srv := newImageServer(100, omitLength)
			defer srv.Close()

			b := NewRequestBuilder(WithHTTPClient(srv.Client()), WithMaxImageSize(50))
			_, err := b.SetImageFile(ctx, srv.URL+"/image.jpg")
			if !errors.Is(err, ErrSizeLimitExceeded) {
				t.Fatalf("got %v, want ErrSizeLimitExceeded", err)
			}
			// With a known length the HEAD request is enough to refuse.
			if !omitLength && srv.getCount() != 0 {
				t.Errorf("got %d GET requests, want 0", srv.getCount())
			}
		})
	}
}

func TestSetImageFileGCSTooLarge(t *testing.T) {
	ctx := context.Background()
	var (
		mu    sync.Mutex
		reads int
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/download/") || r.URL.Query().Get("alt") == "media" || !strings.Contains(r.URL.Path, "/o/") {
			mu.Lock()
			reads++
			mu.Unlock()
			http.Error(w, "unexpected read", http.StatusTeapot)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"kind":"storage#object","bucket":"my-bucket","name":"large.jpg","size":"%d"}`, largeImageSize)
	}))
	defer srv.Close()
	t.Setenv("STORAGE_EMULATOR_HOST", srv.Listener.Addr().String())

	client, err := storage.NewClient(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	b := NewRequestBuilder(WithStorageClient(client))
	_, err = b.SetImageFile(ctx, "gs://my-bucket/large.jpg")
	if !errors.Is(err, ErrSizeLimitExceeded) {
		t.Fatalf("got %v, want ErrSizeLimitExceeded", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if reads != 0 {
		t.Errorf("got %d content reads, want 0", reads)
	}
	if err := b.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestSetImageFileGCSBadURL(t *testing.T) {
	b := NewRequestBuilder()
	for _, loc := range []string{"gs://bucket-only", "gs:///object"} {
		if _, err := b.SetImageFile(context.Background(), loc); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("%s: got %v, want ErrInvalidArgument", loc, err)
		}
	}
}
