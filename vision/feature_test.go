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
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFeatureHelpers(t *testing.T) {
	helpers := []struct {
		add  func(*RequestBuilder, int) (*RequestDocument, error)
		want FeatureType
	}{
		{(*RequestBuilder).AddUnspecified, Unspecified},
		{(*RequestBuilder).AddFaceDetection, FaceDetection},
		{(*RequestBuilder).AddLandmarkDetection, LandmarkDetection},
		{(*RequestBuilder).AddLogoDetection, LogoDetection},
		{(*RequestBuilder).AddLabelDetection, LabelDetection},
		{(*RequestBuilder).AddTextDetection, TextDetection},
		{(*RequestBuilder).AddSafeSearchDetection, SafeSearchDetection},
		{(*RequestBuilder).AddImageProperties, ImageProperties},
	}
	for _, h := range helpers {
		doc, err := h.add(NewRequestBuilder(), 7)
		if err != nil {
			t.Fatalf("%s: %v", h.want, err)
		}
		want := []Feature{{Type: string(h.want), MaxResults: 7}}
		if diff := cmp.Diff(want, doc.Requests[0].Features); diff != "" {
			t.Errorf("%s: (-want +got):\n%s", h.want, diff)
		}
		if !h.want.Known() {
			t.Errorf("%s: not reported as known", h.want)
		}
	}
	if FeatureType("CROP_HINTS").Known() {
		t.Error("CROP_HINTS reported as known")
	}
}

func TestParseFeature(t *testing.T) {
	for _, test := range []struct {
		in   string
		want Feature
	}{
		{"LABEL_DETECTION", Feature{Type: "LABEL_DETECTION", MaxResults: 1}},
		{"FACE_DETECTION:10", Feature{Type: "FACE_DETECTION", MaxResults: 10}},
		{" TEXT_DETECTION:2 ", Feature{Type: "TEXT_DETECTION", MaxResults: 2}},
	} {
		got, err := ParseFeature(test.in)
		if err != nil {
			t.Errorf("ParseFeature(%q): %v", test.in, err)
			continue
		}
		if got != test.want {
			t.Errorf("ParseFeature(%q) = %+v, want %+v", test.in, got, test.want)
		}
	}
}

func TestParseFeatureErrors(t *testing.T) {
	for _, in := range []string{
		"dddd:dddd",
		"LABEL_DETECTION:not-a-number",
		"LABEL_DETECTION:0",
		"LABEL_DETECTION:",
		":3",
		"",
	} {
		if _, err := ParseFeature(in); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("ParseFeature(%q): got %v, want ErrInvalidArgument", in, err)
		}
	}
}
