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

// Package track implements the branch-track recorder: a passive
// observer of the parser driver that emits a structured, newline-delimited
// event stream describing every fork, join, activation and deactivation of
// the compilation-branch tree, for an external tool to render as a timeline.
package track

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/branchcc/branchcc/internal/condition"
)

// Kind identifies the shape of one recorded Event.
type Kind string

const (
	KindLogicLinePursue Kind = "logic_line_pursue"
	KindFork            Kind = "ccbranch_fork"
	KindJoin            Kind = "ccbranch_join"
	KindJoinForks       Kind = "ccbranch_join_forks"
	KindActivate        Kind = "ccbranch_activate"
	KindDeactivate      Kind = "ccbranch_deactivate"
	// KindEOFDangling is emitted for a branch still active at end of input:
	// some conditional never reached its #endif, and a downstream consumer
	// needs a record of that rather than a silently truncated timeline.
	KindEOFDangling Kind = "eof_dangling"
)

// Event is one record of the branch-track stream, encoded as one JSON
// object per line. Fields irrelevant to a given Kind are omitted.
type Event struct {
	Kind      Kind   `json:"kind"`
	BranchID  string `json:"branch_id,omitempty"`
	ForkID    string `json:"fork_id,omitempty"`
	ParentID  string `json:"parent_id,omitempty"`
	IntoID    string `json:"into_id,omitempty"`
	FirstID   string `json:"first_id,omitempty"`
	SecondID  string `json:"second_id,omitempty"`
	FromID    string `json:"from_id,omitempty"`
	Condition string `json:"condition,omitempty"`
	Content   string `json:"content,omitempty"`
}

// Recorder writes an Event stream to an underlying io.Writer as newline
// delimited JSON (NDJSON). A nil *Recorder is valid and silently discards
// every event, so the driver can record unconditionally without every
// caller needing to thread an "is tracking enabled" flag through itself.
// One Recorder may be shared by drivers parsing separate translation units
// concurrently; events from one driver are never interleaved mid-record.
type Recorder struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewRecorder returns a Recorder that writes NDJSON events to w.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{enc: json.NewEncoder(w)}
}

func (r *Recorder) emit(e Event) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	// Encode errors here mean the sink is gone (closed pipe, full disk);
	// the core parse must not fail because the passive observer did.
	_ = r.enc.Encode(e)
}

// LogicLinePursue records that branchID consumed one logical line of
// source, content being the line's raw text.
func (r *Recorder) LogicLinePursue(branchID, content string) {
	r.emit(Event{Kind: KindLogicLinePursue, BranchID: branchID, Content: content})
}

// Fork records that parentID forked into forkID under the given condition.
func (r *Recorder) Fork(parentID, forkID string, cond condition.Condition) {
	r.emit(Event{Kind: KindFork, ParentID: parentID, ForkID: forkID, Condition: cond.String()})
}

// Join records that firstID and secondID were consolidated into intoID.
func (r *Recorder) Join(firstID, secondID, intoID string, cond condition.Condition) {
	r.emit(Event{Kind: KindJoin, FirstID: firstID, SecondID: secondID, IntoID: intoID, Condition: cond.String()})
}

// JoinForks records that parentID absorbed its single remaining fork forkID.
func (r *Recorder) JoinForks(parentID, forkID string) {
	r.emit(Event{Kind: KindJoinForks, ParentID: parentID, ForkID: forkID})
}

// Activate records that branchID transitioned inactive -> active.
func (r *Recorder) Activate(branchID string) {
	r.emit(Event{Kind: KindActivate, BranchID: branchID})
}

// Deactivate records that branchID transitioned active -> inactive.
func (r *Recorder) Deactivate(branchID string) {
	r.emit(Event{Kind: KindDeactivate, BranchID: branchID})
}

// EOFDangling records that branchID was still active when input ran out,
// meaning some #if never reached a matching #endif.
func (r *Recorder) EOFDangling(branchID string, cond condition.Condition) {
	r.emit(Event{Kind: KindEOFDangling, BranchID: branchID, Condition: cond.String()})
}
