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

package collections

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterSliceKeepsMatchingElements(t *testing.T) {
	even := func(x int) bool { return x%2 == 0 }

	assert.Equal(t, []int{2, 4}, FilterSlice([]int{1, 2, 3, 4}, even))
	assert.Empty(t, FilterSlice([]int{1, 3}, even))
	assert.Empty(t, FilterSlice([]int(nil), even))
}

func TestFlatMapSliceConcatenatesInOrder(t *testing.T) {
	doubled := FlatMapSlice([]int{1, 2}, func(x int) []int { return []int{x, x} })
	assert.Equal(t, []int{1, 1, 2, 2}, doubled)

	groups := [][]string{{"a", "b"}, nil, {"c"}}
	flat := FlatMapSlice(groups, func(g []string) []string { return g })
	assert.Equal(t, []string{"a", "b", "c"}, flat)
}

func TestSetAddContains(t *testing.T) {
	s := NewSet("a", "b", "a")
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains("a"))
	assert.False(t, s.Contains("c"))

	s.Add("c")
	assert.True(t, s.Contains("c"))

	empty := Set[string]{}
	assert.False(t, empty.Contains("a"))
	empty.Add("a")
	assert.True(t, empty.Contains("a"))
}
