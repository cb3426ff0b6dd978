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

import "sync/atomic"

const mask63 = uint64(1<<63) - 1

// SeedMaker 由一個 base seed 派生出不重複的子 seed。
//
// 可在多個 goroutine 同時呼叫 Next：state 以 CAS 推進，每次呼叫取得唯一的下一個 state。
type SeedMaker struct {
	base  int64
	state atomic.Uint64 // always in [0, 2^63)
}

func NewSeedMaker(seed int64) *SeedMaker {
	s := &SeedMaker{base: seed}
	s.state.Store(uint64(seed) & mask63)
	return s
}

// Base 回傳建立時的 base seed。
func (s *SeedMaker) Base() int64 {
	return s.base
}

// Next 以全週期 LCG (mod 2^63) 推進 state，再用可逆 mix63 打散，回傳值一定非負。
func (s *SeedMaker) Next() int64 {
	for {
		old := s.state.Load()
		next := (old*6364136223846793005 + 1442695040888963407) & mask63
		if s.state.CompareAndSwap(old, next) {
			return int64(mix63(next))
		}
	}
}

// NextCore 派生一個新的子 seed 並建立對應的 Core。
func (s *SeedMaker) NextCore(f PRNGFactory) (*Core, int64) {
	seed := s.Next()
	if f == nil {
		f = Default()
	}
	return New(f.New(seed)), seed
}

// mix63：只用「可逆」的 bit 操作 + 乘奇數（mod 2^63）
func mix63(x uint64) uint64 {
	x &= mask63
	x ^= x >> 30
	x = (x * 0xBF58476D1CE4E5B9) & mask63
	x ^= x >> 27
	x = (x * 0x94D049BB133111EB) & mask63
	x ^= x >> 31
	return x & mask63
}
