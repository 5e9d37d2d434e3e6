// Copyright 2025 by Harald Albrecht
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy
// of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations
// under the License.

package interpolate

import (
	"fmt"
	"strconv"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Unresolved returns the paths to all string values in the passed (recursive)
// data that still contain placeholders after interpolation. The data is
// typically the result of unmarshalling an interpolated YAML document into an
// “any”. Unresolved returns nil if there are no leftovers.
func Unresolved(data any) []Path {
	var paths []Path
	recursively(data, "", &paths)
	return paths
}

// recursively check string values, string values inside mappings, and string
// values inside sequences.
func recursively(data any, path Path, paths *[]Path) {
	switch value := data.(type) {
	case string:
		if HasPlaceholder(value) {
			*paths = append(*paths, path)
		}
	case map[string]any:
		unresolvedMapping(value, path, paths)
	case map[any]any:
		m := make(map[string]any, len(value))
		for key, v := range value {
			m[fmt.Sprint(key)] = v
		}
		unresolvedMapping(m, path, paths)
	case []any:
		unresolvedSequence(value, path, paths)
	}
}

// unresolvedMapping recursively checks the values in the mapping, in order of
// their keys.
func unresolvedMapping(values map[string]any, path Path, paths *[]Path) {
	keys := maps.Keys(values)
	slices.Sort(keys)
	for _, key := range keys {
		recursively(values[key], path.Append(key), paths)
	}
}

// unresolvedSequence recursively checks the values of the sequence.
func unresolvedSequence(values []any, path Path, paths *[]Path) {
	for idx, value := range values {
		recursively(value, path.AppendIndex(idx), paths)
	}
}

// Path represents the path to a scalar.
type Path string

// Append the name of a mapping key or a scalar to the path, returning the new
// Path.
func (p Path) Append(name string) Path {
	if p == "" {
		return Path(name)
	}
	return Path(string(p) + "." + name)
}

// Append the index of an element to the path, returning the new Path.
func (p Path) AppendIndex(idx int) Path {
	return Path(string(p) + "[" + strconv.FormatInt(int64(idx), 10) + "]")
}
