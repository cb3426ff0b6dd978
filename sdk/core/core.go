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

// Package core 提供模擬路徑（shot sampling）與合成資料所需的可重現亂數核心。
//
// 一個 Core 不是 goroutine-safe 的：每一次模擬呼叫都應該持有自己的 Core，
// 由 SeedMaker 以原子方式派生子 seed。
package core

// PRNG 定義 Core 所需的亂數來源。
type PRNG interface {
	RAND
}

// RAND 定義核心亂數取樣能力。
//
// Uint64 使 PRNG 同時滿足 math/rand/v2 的 Source 介面，
// 因此可直接交給 gonum distuv 當 Src 使用。
type RAND interface {
	// Uint64 回傳非負 uint64 亂數。
	Uint64() uint64
	// Float64 回傳 [0,1) 的浮點亂數。
	Float64() float64
	// UintN 回傳 [0,max) 的 uint 亂數，若 max == 0 回傳 0。
	UintN(uint) uint
	// IntN 回傳 [0,max) 的 int 亂數，若 max <= 0 回傳 -1。
	IntN(int) int
}

type PRNGFactory interface {
	// New 以指定 seed 建立新的 PRNG。
	//
	// 合約：相同的 seed 必須產生相同的初始內部狀態與輸出序列。
	New(int64) PRNG
}

// DefaultPRNG 實作預設的 PRNGFactory（PCG64）。
type DefaultPRNG struct{}

func (d *DefaultPRNG) New(seed int64) PRNG {
	return NewPCG64WithSeed(seed)
}

func Default() *DefaultPRNG {
	return &DefaultPRNG{}
}

// Core 封裝 PRNG，並提供常用取樣工具。
type Core struct {
	PRNG
}

// New 允許使用外部自實現的 PRNG 建立 Core。
func New(rng PRNG) *Core {
	return &Core{rng}
}

// NewWithSeed 以預設 PCG64 建立 Core。
func NewWithSeed(seed int64) *Core {
	return &Core{NewPCG64WithSeed(seed)}
}
