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
	"fmt"
	"math"
)

// Outcomes 為兩個 qubit 的固定結果標籤，字首為 qubit 0。
var Outcomes = [4]string{"00", "01", "10", "11"}

// Single 單一 qubit 的兩個結果機率（|0⟩、|1⟩）。
type Single struct {
	P0 float64 `json:"p0" yaml:"p0"`
	P1 float64 `json:"p1" yaml:"p1"`
}

func (s Single) Sum() float64 {
	return s.P0 + s.P1
}

// Slice 回傳 [P0, P1]，方便畫長條圖。
func (s Single) Slice() []float64 {
	return []float64{s.P0, s.P1}
}

// Joint 兩個 qubit 的聯合分布；鍵一定恰好是 Outcomes 四個。
type Joint map[string]float64

// NewJoint 依 Outcomes 順序建立 Joint。
func NewJoint(p [4]float64) Joint {
	j := make(Joint, len(Outcomes))
	for i, k := range Outcomes {
		j[k] = p[i]
	}
	j.mustFixedKeys()
	return j
}

// Array 依 Outcomes 順序回傳機率。
func (j Joint) Array() [4]float64 {
	j.mustFixedKeys()
	var out [4]float64
	for i, k := range Outcomes {
		out[i] = j[k]
	}
	return out
}

func (j Joint) Sum() float64 {
	s := 0.0
	for _, k := range Outcomes {
		s += j[k]
	}
	return s
}

// Marginal 回傳 qubit q (0 或 1) 的邊際分布。
func (j Joint) Marginal(q int) Single {
	p := j.Array()
	if q == 0 {
		return Single{P0: p[0] + p[1], P1: p[2] + p[3]}
	}
	return Single{P0: p[0] + p[2], P1: p[1] + p[3]}
}

// mustFixedKeys 是內部不變量檢查：缺任何一個鍵都是程式錯誤，直接 panic。
func (j Joint) mustFixedKeys() {
	if len(j) != len(Outcomes) {
		panic(fmt.Sprintf("engine: joint distribution has %d keys, want %d", len(j), len(Outcomes)))
	}
	for _, k := range Outcomes {
		if _, ok := j[k]; !ok {
			panic("engine: joint distribution missing outcome " + k)
		}
	}
}

func nanSingle() Single {
	return Single{P0: math.NaN(), P1: math.NaN()}
}

func nanJoint() Joint {
	n := math.NaN()
	return NewJoint([4]float64{n, n, n, n})
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
