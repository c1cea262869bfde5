// Copyright 2025 EngFlow Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package collections provides the generic slice and container helpers the
// analyzer needs: predicate filtering, flattening of per-file result groups,
// a membership set for glob scanning, and a comparison-ordered queue for
// merged symbol output.
package collections

// FilterSlice returns a new slice holding the elements of s for which keep
// returns true, preserving their order.
func FilterSlice[S ~[]T, T any](s S, keep func(T) bool) S {
	out := make(S, 0, len(s))
	for _, elem := range s {
		if keep(elem) {
			out = append(out, elem)
		}
	}
	return out
}

// FlatMapSlice applies expand to every element of s and concatenates the
// resulting slices in order.
func FlatMapSlice[S ~[]T, VS ~[]V, T, V any](s S, expand func(T) VS) VS {
	var out VS
	for _, elem := range s {
		out = append(out, expand(elem)...)
	}
	return out
}
