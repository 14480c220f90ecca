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

	"google.golang.org/api/googleapi"
	spb "google.golang.org/genproto/googleapis/rpc/status"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
)

// ResponseErrors extracts the errors reported inside a response returned by
// Send. A request rejected as a whole (a top-level "error" object) yields a
// *googleapi.Error. A failed annotation of an individual image yields an
// error carrying a gRPC status, which status.Code and status.FromError
// understand. ResponseErrors returns nil when the response reports no errors.
func ResponseErrors(res map[string]any) []error {
	var errs []error
	if e, ok := res["error"].(map[string]any); ok {
		errs = append(errs, apiError(e))
	}
	responses, _ := res["responses"].([]any)
	for i, r := range responses {
		m, ok := r.(map[string]any)
		if !ok {
			continue
		}
		if e, ok := m["error"].(map[string]any); ok {
			errs = append(errs, fmt.Errorf("vision: responses[%d]: %w", i, statusError(e)))
		}
	}
	return errs
}

func apiError(e map[string]any) *googleapi.Error {
	ae := &googleapi.Error{}
	if c, ok := e["code"].(float64); ok {
		ae.Code = int(c)
	}
	ae.Message, _ = e["message"].(string)
	if body, err := json.Marshal(map[string]any{"error": e}); err == nil {
		ae.Body = string(body)
	}
	items, _ := e["errors"].([]any)
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		var item googleapi.ErrorItem
		item.Reason, _ = m["reason"].(string)
		item.Message, _ = m["message"].(string)
		ae.Errors = append(ae.Errors, item)
	}
	return ae
}

func statusError(e map[string]any) error {
	s := &spb.Status{}
	raw, err := json.Marshal(e)
	if err == nil {
		err = protojson.UnmarshalOptions{DiscardUnknown: true}.Unmarshal(raw, s)
	}
	if err != nil {
		// Details can hold Any messages of types this binary does not know.
		s = &spb.Status{}
		if c, ok := e["code"].(float64); ok {
			s.Code = int32(c)
		}
		s.Message, _ = e["message"].(string)
	}
	if s.Code == int32(codes.OK) {
		s.Code = int32(codes.Unknown)
	}
	return status.ErrorProto(s)
}
