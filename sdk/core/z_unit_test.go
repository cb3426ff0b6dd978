// Copyright 2025 Zintix Labs
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

package core

import (
	"sync"
	"testing"
)

func TestCoreDeterminism(t *testing.T) {
	c1 := New(Default().New(7))
	c2 := New(Default().New(7))
	for i := 0; i < 5; i++ {
		if c1.Uint64() != c2.Uint64() {
			t.Fatalf("Uint64 mismatch at %d", i)
		}
	}
	if c1.IntN(10) != c2.IntN(10) {
		t.Fatalf("IntN mismatch")
	}
	if c1.Float64() != c2.Float64() {
		t.Fatalf("Float64 mismatch")
	}
}

func TestCoreBounds(t *testing.T) {
	c := NewWithSeed(9)
	if got := c.IntN(0); got != -1 {
		t.Fatalf("IntN(0) expected -1, got %d", got)
	}
	if got := c.UintN(0); got != 0 {
		t.Fatalf("UintN(0) expected 0, got %d", got)
	}
	for i := 0; i < 1000; i++ {
		if f := c.Float64(); f < 0 || f >= 1 {
			t.Fatalf("Float64 out of [0,1): %v", f)
		}
		if n := c.IntN(7); n < 0 || n >= 7 {
			t.Fatalf("IntN(7) out of range: %d", n)
		}
	}
}

func TestSeedMakerUniqueConcurrent(t *testing.T) {
	sm := NewSeedMaker(2025)
	const workers, per = 8, 500
	out := make(chan int64, workers*per)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < per; i++ {
				out <- sm.Next()
			}
		}()
	}
	wg.Wait()
	close(out)

	seen := make(map[int64]struct{}, workers*per)
	for s := range out {
		if s < 0 {
			t.Fatalf("negative seed %d", s)
		}
		if _, dup := seen[s]; dup {
			t.Fatalf("duplicate seed %d", s)
		}
		seen[s] = struct{}{}
	}
	if sm.Base() != 2025 {
		t.Fatalf("base seed lost")
	}
}
