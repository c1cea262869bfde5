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

import "container/heap"

// pqHeap adapts an item slice plus a less function to heap.Interface.
type pqHeap[T any] struct {
	items []T
	less  func(a, b T) bool
}

func (h *pqHeap[T]) Len() int           { return len(h.items) }
func (h *pqHeap[T]) Less(i, j int) bool { return h.less(h.items[i], h.items[j]) }
func (h *pqHeap[T]) Swap(i, j int)      { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *pqHeap[T]) Push(x any)         { h.items = append(h.items, x.(T)) }
func (h *pqHeap[T]) Pop() any {
	last := h.items[len(h.items)-1]
	h.items = h.items[:len(h.items)-1]
	return last
}

// PriorityQueue pops elements in the order defined by a caller-supplied
// less function, smallest first. Unlike a sort, elements may keep being
// pushed while the queue drains.
type PriorityQueue[T any] struct {
	h pqHeap[T]
}

// NewPriorityQueue returns a queue over init, ordered by less. The queue
// takes ownership of the init slice.
func NewPriorityQueue[T any](init []T, less func(a, b T) bool) *PriorityQueue[T] {
	q := &PriorityQueue[T]{h: pqHeap[T]{items: init, less: less}}
	heap.Init(&q.h)
	return q
}

// Empty reports whether the queue holds no elements.
func (q *PriorityQueue[T]) Empty() bool { return q.h.Len() == 0 }

// Push adds item to the queue.
func (q *PriorityQueue[T]) Push(item T) { heap.Push(&q.h, item) }

// Pop removes and returns the least element by the queue's less function.
// Panics if the queue is empty.
func (q *PriorityQueue[T]) Pop() T { return heap.Pop(&q.h).(T) }
