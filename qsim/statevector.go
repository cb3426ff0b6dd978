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

package qsim

import (
	"math"
	"math/cmplx"
)

// maxQubits 限制狀態向量大小；這裡只處理角度編碼的小電路。
const maxQubits int = 8

// StateVector 以 2^n 個複數振幅表示 n 個 qubit 的純態。
// 基底索引 i 的第 q 個 bit 對應 qubit q。
type StateVector struct {
	Amplitudes []complex128
	NumQubits  int
}

// NewStateVector 建立 |0...0⟩。
func NewStateVector(numQubits int) *StateVector {
	amps := make([]complex128, 1<<numQubits)
	amps[0] = 1
	return &StateVector{Amplitudes: amps, NumQubits: numQubits}
}

// ApplyRY 對 qubit q 套用
//
//	RY(θ) = [cos(θ/2) -sin(θ/2)]
//	        [sin(θ/2)  cos(θ/2)]
func (s *StateVector) ApplyRY(q int, theta float64) {
	bit := 1 << q
	sn, cs := math.Sincos(theta / 2)
	c := complex(cs, 0)
	sv := complex(sn, 0)
	for i := range s.Amplitudes {
		if i&bit != 0 {
			continue
		}
		j := i | bit
		a0, a1 := s.Amplitudes[i], s.Amplitudes[j]
		s.Amplitudes[i] = c*a0 - sv*a1
		s.Amplitudes[j] = sv*a0 + c*a1
	}
}

// Probabilities 回傳每個基底態的 Born 機率 |amp|²。
func (s *StateVector) Probabilities() []float64 {
	out := make([]float64, len(s.Amplitudes))
	for i, a := range s.Amplitudes {
		m := cmplx.Abs(a)
		out[i] = m * m
	}
	return out
}

// Norm 回傳 Σ|amp|²，理想上恆為 1。
func (s *StateVector) Norm() float64 {
	n := 0.0
	for _, p := range s.Probabilities() {
		n += p
	}
	return n
}
