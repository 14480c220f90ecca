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
	"encoding/json"
	"fmt"
	"reflect"

	"golang.org/x/text/language"
)

// ImageContext holds auxiliary hints for the service, such as
// {"languageHints": ["th"]} for text detection. It is sent verbatim.
type ImageContext map[string]any

// LanguageHints returns an ImageContext hinting that text in the image is
// written in the given languages.
func LanguageHints(tags ...language.Tag) ImageContext {
	hints := make([]string, 0, len(tags))
	for _, t := range tags {
		if t == language.Und {
			continue
		}
		hints = append(hints, t.String())
	}
	return ImageContext{"languageHints": hints}
}

// ParseImageContext decodes a JSON image context. The document must be a
// JSON object.
func ParseImageContext(data []byte) (ImageContext, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil, fmt.Errorf("%w: image context must be a JSON object", ErrInvalidArgument)
	}
	var c ImageContext
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: image context: %v", ErrInvalidArgument, err)
	}
	return c, nil
}

func (c ImageContext) clone() ImageContext {
	if c == nil {
		return nil
	}
	return cloneValue(map[string]any(c)).(map[string]any)
}

// cloneValue copies the maps and slices reachable from v so the request
// document does not alias caller-owned state. Pointers and struct fields are
// copied shallowly.
func cloneValue(v any) any {
	switch v := v.(type) {
	case nil:
		return nil
	case map[string]any:
		m := make(map[string]any, len(v))
		for k, e := range v {
			m[k] = cloneValue(e)
		}
		return m
	case ImageContext:
		return ImageContext(cloneValue(map[string]any(v)).(map[string]any))
	case []any:
		s := make([]any, len(v))
		for i, e := range v {
			s[i] = cloneValue(e)
		}
		return s
	case []string:
		return append([]string(nil), v...)
	}
	return cloneReflect(reflect.ValueOf(v)).Interface()
}

// cloneReflect handles typed maps and slices such as []float64 or
// map[string]string.
func cloneReflect(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		m := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			m.SetMapIndex(iter.Key(), cloneElem(iter.Value(), v.Type().Elem()))
		}
		return m
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		s := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			s.Index(i).Set(cloneElem(v.Index(i), v.Type().Elem()))
		}
		return s
	case reflect.Array:
		a := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			a.Index(i).Set(cloneElem(v.Index(i), v.Type().Elem()))
		}
		return a
	}
	return v
}

// cloneElem clones a container element and converts it back to the
// element type t, which may be an interface.
func cloneElem(e reflect.Value, t reflect.Type) reflect.Value {
	if e.Kind() == reflect.Interface {
		if e.IsNil() {
			return reflect.Zero(t)
		}
		e = e.Elem()
	}
	c := reflect.ValueOf(cloneValue(e.Interface()))
	if !c.IsValid() {
		return reflect.Zero(t)
	}
	return c.Convert(t)
}
