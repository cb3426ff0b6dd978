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
	"math"

	"github.com/zintix-labs/qplant/circuit"
)

// ClosedForm 以解析式計算機率，沒有狀態。
type ClosedForm struct{}

func NewClosedForm() ClosedForm {
	return ClosedForm{}
}

func (ClosedForm) Mode() Mode {
	return ModeClosedForm
}

func (ClosedForm) SingleQubit(theta float64) (Single, circuit.Renderable) {
	return Marginal(theta), circuit.SketchSingle(theta)
}

func (ClosedForm) TwoQubit(theta1, theta2 float64) (Joint, circuit.Renderable) {
	return Product(Marginal(theta1), Marginal(theta2)), circuit.SketchJoint(theta1, theta2)
}

// Marginal 回傳 RY(theta)|0⟩ 的 Born 機率 (cos²(θ/2), sin²(θ/2))。
//
// θ 恰為 π/2 整數倍時直接給出 0、0.5、1，使 pH=4/6/8 這類錨點的結果是精確值。
// |k| 超過 anchorLimit 後 float64 已無小數位，每個值都會被誤判為整數倍，只能走 Sincos。
func Marginal(theta float64) Single {
	if k := theta / (math.Pi / 2); math.Abs(k) < anchorLimit && k == math.Trunc(k) {
		switch quadrant(k) {
		case 0:
			return Single{P0: 1, P1: 0}
		case 2:
			return Single{P0: 0, P1: 1}
		default:
			return Single{P0: 0.5, P1: 0.5}
		}
	}
	s, c := math.Sincos(theta / 2)
	return Single{P0: c * c, P1: s * s}
}

// Product 依獨立假設計算 p(b0,b1) = p(b0|q0) * p(b1|q1)。
func Product(q0, q1 Single) Joint {
	return NewJoint([4]float64{
		q0.P0 * q1.P0,
		q0.P0 * q1.P1,
		q0.P1 * q1.P0,
		q0.P1 * q1.P1,
	})
}

// anchorLimit 精確錨點只在 |θ/(π/2)| 小於此值時使用
const anchorLimit float64 = 1 << 20

// quadrant 回傳整數 k mod 4（非負）。
func quadrant(k float64) int {
	r := math.Mod(k, 4)
	if r < 0 {
		r += 4
	}
	return int(r)
}
