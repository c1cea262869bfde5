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

package track

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/branchcc/branchcc/internal/condition"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []Event {
	t.Helper()
	var events []Event
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		var e Event
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e))
		events = append(events, e)
	}
	return events
}

func TestRecorderEmitsOneJSONObjectPerLine(t *testing.T) {
	var buf bytes.Buffer
	r := NewRecorder(&buf)
	u := condition.NewUniverse()
	a := u.Defined("A").Cond()

	r.Fork("*", "*:1", a)
	r.Activate("*:1")
	r.LogicLinePursue("*:1", "int x;")
	r.Deactivate("*:1")
	r.Join("*:1", "*:2", "*:1+*:2", condition.Top())
	r.JoinForks("*", "*:1")
	r.EOFDangling("*:3", a)

	events := decodeLines(t, &buf)
	require.Len(t, events, 7)
	assert.Equal(t, KindFork, events[0].Kind)
	assert.Equal(t, "*", events[0].ParentID)
	assert.Equal(t, "*:1", events[0].ForkID)
	assert.Equal(t, "defined(A)", events[0].Condition)
	assert.Equal(t, KindActivate, events[1].Kind)
	assert.Equal(t, KindLogicLinePursue, events[2].Kind)
	assert.Equal(t, "int x;", events[2].Content)
	assert.Equal(t, KindDeactivate, events[3].Kind)
	assert.Equal(t, KindJoin, events[4].Kind)
	assert.Equal(t, "*:1+*:2", events[4].IntoID)
	assert.Equal(t, KindJoinForks, events[5].Kind)
	assert.Equal(t, KindEOFDangling, events[6].Kind)
	assert.Equal(t, "*:3", events[6].BranchID)
}

func TestNilRecorderDiscardsEvents(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.Fork("*", "*:1", condition.Top())
		r.LogicLinePursue("*", "anything")
	})
}
