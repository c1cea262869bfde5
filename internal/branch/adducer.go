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

package branch

// AdducerKind classifies why a Branch came to exist.
type AdducerKind int

const (
	AdducerDirective AdducerKind = iota
	AdducerJoin
	AdducerJoinForks
)

// Adducer identifies the code element responsible for a Branch's creation:
// a preprocessor directive, or (for a branch produced by a join) the pair of
// branches it replaced. Used only for diagnostics and the branch-track
// recorder; it carries no semantic weight for parsing itself.
type Adducer struct {
	Kind        AdducerKind
	Description string
	Line        int
}
