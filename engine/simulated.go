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

package engine

import (
	"log/slog"

	"github.com/zintix-labs/qplant/circuit"
	"github.com/zintix-labs/qplant/errs"
	"github.com/zintix-labs/qplant/sdk/core"
)

// Counts 為量測結果標籤 → 次數。標籤字首為 qubit 0。
type Counts map[string]int

// Backend 是電路模擬後端的能力。
//
// Run 必須只使用傳入的 rng，不可持有共享可變狀態，讓 Simulated 可以並行呼叫。
type Backend interface {
	Name() string
	Run(c *circuit.Circuit, shots int, rng *core.Core) (Counts, error)
}

// Simulated 以後端執行電路並以 shots 次量測估計機率。
//
// 每次呼叫都由 SeedMaker 派生一個新的 Core，因此沒有共享的亂數狀態，可並行呼叫。
type Simulated struct {
	backend Backend
	shots   int
	seeds   *core.SeedMaker
	pf      core.PRNGFactory
	log     *slog.Logger
}

// NewSimulated 建立模擬引擎。shots <= 0 使用 DefaultShots；log 為 nil 時靜默。
func NewSimulated(b Backend, shots int, seed int64, log *slog.Logger) (*Simulated, error) {
	if b == nil {
		return nil, errs.NewFatal("simulated engine requires a backend")
	}
	if shots <= 0 {
		shots = DefaultShots
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Simulated{
		backend: b,
		shots:   shots,
		seeds:   core.NewSeedMaker(seed),
		pf:      core.Default(),
		log:     log,
	}, nil
}

func (s *Simulated) Mode() Mode {
	return ModeSimulated
}

func (s *Simulated) Shots() int {
	return s.shots
}

func (s *Simulated) Backend() Backend {
	return s.backend
}

func (s *Simulated) SingleQubit(theta float64) (Single, circuit.Renderable) {
	c := circuit.Encoding(theta)
	if !finite(theta) {
		return nanSingle(), c
	}
	rng, _ := s.seeds.NextCore(s.pf)
	counts, err := s.Sample(c, rng)
	if err != nil {
		s.log.Error("simulate single qubit failed", slog.Float64("theta", theta), slog.Any("err", err))
		return nanSingle(), c
	}
	n := float64(s.shots)
	return Single{P0: float64(counts["0"]) / n, P1: float64(counts["1"]) / n}, c
}

func (s *Simulated) TwoQubit(theta1, theta2 float64) (Joint, circuit.Renderable) {
	c := circuit.Encoding(theta1, theta2)
	if !finite(theta1, theta2) {
		return nanJoint(), c
	}
	rng, _ := s.seeds.NextCore(s.pf)
	counts, err := s.Sample(c, rng)
	if err != nil {
		s.log.Error("simulate two qubits failed",
			slog.Float64("theta1", theta1), slog.Float64("theta2", theta2), slog.Any("err", err))
		return nanJoint(), c
	}
	return counts.Joint(s.shots), c
}

// Sample 以指定的 rng 執行一次 shots 次量測，回傳原始次數。
// 供需要自行管理 Core 的呼叫端（例如收斂性檢驗）使用。
func (s *Simulated) Sample(c *circuit.Circuit, rng *core.Core) (Counts, error) {
	if rng == nil {
		return nil, errs.NewFatal("sample requires a core")
	}
	counts, err := s.backend.Run(c, s.shots, rng)
	if err != nil {
		return nil, errs.Wrap(err, "backend "+s.backend.Name()+" run failed")
	}
	return counts, nil
}

// Joint 把兩 qubit 的次數正規化成 Joint；未出現的結果補 0。
func (cs Counts) Joint(shots int) Joint {
	var p [4]float64
	if shots <= 0 {
		return NewJoint(p)
	}
	for i, k := range Outcomes {
		p[i] = float64(cs[k]) / float64(shots)
	}
	return NewJoint(p)
}

// Total 回傳所有結果次數和。
func (cs Counts) Total() int {
	n := 0
	for _, v := range cs {
		n += v
	}
	return n
}
