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

/*
Package vision builds and sends requests to the Google Cloud Vision API.

Google Cloud Vision allows easy integration of vision detection features
into developer applications, including image labeling, face and landmark
detection, optical character recognition (OCR), and tagging of explicit
content. For more information about Cloud Vision, read the Google Cloud Vision API
Documentation at https://cloud.google.com/vision/docs.

The package talks to the REST images:annotate method directly and
authenticates with an API key only. You can find or create an API key for
your project from the Credentials page of the Cloud Console.

# Building Requests

A RequestBuilder accumulates one image, a list of features and an optional
image context. Every setter returns the request document as it would be sent,
so a request can be inspected without calling the service:

	b := vision.NewRequestBuilder(vision.WithAPIKey(key))
	if _, err := b.SetImageFile(ctx, "path/to/image.jpg"); err != nil {
		// TODO: handle error.
	}
	if _, err := b.AddLabelDetection(10); err != nil {
		// TODO: handle error.
	}
	res, err := b.Send(ctx, "")

Images can come from a local file, an http(s) URL or a gs:// object
(SetImageFile), from memory (SetImageRaw), or be passed to the service by
reference (SetImageURI). Cloud Vision sets upper limits on file size; the
builder rejects inline images larger than 4 MiB by default, before reading
their content whenever the size is known up front. See
https://cloud.google.com/vision/docs/supported-files for current limits.

# Responses

Send returns the decoded JSON body unchanged, whatever the HTTP status.
Failed requests and failed per-image annotations are reported inside that
document; ResponseErrors extracts them as Go errors.

A RequestBuilder is meant to be used for a single request from a single
goroutine. Create a new one for each request.
*/
package vision // import "github.com/wikisource/cloudvision/vision"
