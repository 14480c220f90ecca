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

import "errors"

// Errors returned by RequestBuilder. They are wrapped with details about the
// offending value; test for them with errors.Is.
var (
	// ErrInvalidArgument reports a setter argument of the wrong type or value.
	ErrInvalidArgument = errors.New("vision: invalid argument")

	// ErrSizeLimitExceeded reports an inline image larger than the
	// configured maximum.
	ErrSizeLimitExceeded = errors.New("vision: image size limit exceeded")

	// ErrMissingCredential is returned by Send when no API key is set.
	ErrMissingCredential = errors.New("vision: API key is empty, create one at https://console.cloud.google.com/apis/credentials")

	// ErrMissingFeatures is returned by Send when no feature was added.
	ErrMissingFeatures = errors.New("vision: no features requested")

	// ErrMissingImage is returned by Send when no image was set.
	ErrMissingImage = errors.New("vision: no image set")
)
