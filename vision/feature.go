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
	"fmt"
	"strconv"
	"strings"
)

// A FeatureType names a detection to run on the image.
type FeatureType string

// Feature types known to this package. AddFeature accepts any string, so
// types added to the service later can be requested before they appear here.
const (
	Unspecified         FeatureType = "TYPE_UNSPECIFIED"
	FaceDetection       FeatureType = "FACE_DETECTION"
	LandmarkDetection   FeatureType = "LANDMARK_DETECTION"
	LogoDetection       FeatureType = "LOGO_DETECTION"
	LabelDetection      FeatureType = "LABEL_DETECTION"
	TextDetection       FeatureType = "TEXT_DETECTION"
	SafeSearchDetection FeatureType = "SAFE_SEARCH_DETECTION"
	ImageProperties     FeatureType = "IMAGE_PROPERTIES"
)

var knownFeatures = map[FeatureType]bool{
	Unspecified:         true,
	FaceDetection:       true,
	LandmarkDetection:   true,
	LogoDetection:       true,
	LabelDetection:      true,
	TextDetection:       true,
	SafeSearchDetection: true,
	ImageProperties:     true,
}

// Known reports whether t is one of the feature types declared by this package.
func (t FeatureType) Known() bool {
	return knownFeatures[t]
}

// A Feature is a requested detection together with a cap on the number of
// results returned for it.
type Feature struct {
	Type       string `json:"type"`
	MaxResults int    `json:"maxResults"`
}

// ParseFeature parses a feature written as TYPE or TYPE:MAX, as accepted on
// command lines and in configuration files. MAX defaults to 1.
func ParseFeature(s string) (Feature, error) {
	kind, max, hasMax := strings.Cut(strings.TrimSpace(s), ":")
	if kind == "" {
		return Feature{}, fmt.Errorf("%w: empty feature type in %q", ErrInvalidArgument, s)
	}
	f := Feature{Type: kind, MaxResults: 1}
	if hasMax {
		n, err := strconv.Atoi(max)
		if err != nil {
			return Feature{}, fmt.Errorf("%w: maxResults %q is not an integer", ErrInvalidArgument, max)
		}
		f.MaxResults = n
	}
	if f.MaxResults < 1 {
		return Feature{}, fmt.Errorf("%w: maxResults must be positive, got %d", ErrInvalidArgument, f.MaxResults)
	}
	return f, nil
}

// AddFeatureType appends a feature of a known type.
//
// The AddXxx helpers below are one-line shorthands for AddFeatureType with
// the matching constant, kept so each detection has a named method. New
// feature types need only a constant here; AddFeature accepts any string.
func (b *RequestBuilder) AddFeatureType(t FeatureType, maxResults int) (*RequestDocument, error) {
	return b.AddFeature(string(t), maxResults)
}

// AddUnspecified requests the unspecified feature type.
func (b *RequestBuilder) AddUnspecified(maxResults int) (*RequestDocument, error) {
	return b.AddFeatureType(Unspecified, maxResults)
}

// AddFaceDetection requests up to maxResults detected faces.
func (b *RequestBuilder) AddFaceDetection(maxResults int) (*RequestDocument, error) {
	return b.AddFeatureType(FaceDetection, maxResults)
}

// AddLandmarkDetection requests up to maxResults detected landmarks.
func (b *RequestBuilder) AddLandmarkDetection(maxResults int) (*RequestDocument, error) {
	return b.AddFeatureType(LandmarkDetection, maxResults)
}

// AddLogoDetection requests up to maxResults detected logos.
func (b *RequestBuilder) AddLogoDetection(maxResults int) (*RequestDocument, error) {
	return b.AddFeatureType(LogoDetection, maxResults)
}

// AddLabelDetection requests up to maxResults labels.
func (b *RequestBuilder) AddLabelDetection(maxResults int) (*RequestDocument, error) {
	return b.AddFeatureType(LabelDetection, maxResults)
}

// AddTextDetection requests optical character recognition.
func (b *RequestBuilder) AddTextDetection(maxResults int) (*RequestDocument, error) {
	return b.AddFeatureType(TextDetection, maxResults)
}

// AddSafeSearchDetection requests safe-search likelihoods.
func (b *RequestBuilder) AddSafeSearchDetection(maxResults int) (*RequestDocument, error) {
	return b.AddFeatureType(SafeSearchDetection, maxResults)
}

// AddImageProperties requests image properties such as dominant colors.
func (b *RequestBuilder) AddImageProperties(maxResults int) (*RequestDocument, error) {
	return b.AddFeatureType(ImageProperties, maxResults)
}
