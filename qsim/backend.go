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

// Package qsim 是狀態向量模擬後端。
//
// 匯入本套件（通常是 blank import）就會在 engine 登記 "statevector" 後端：
//
//	import _ "github.com/zintix-labs/qplant/qsim"
//
// 沒有匯入的執行檔在 ModeAuto 下會退回解析解。
//
// 只支援 RY 與 MEASURE，且量測必須在所有 RY 之後；這不是通用量子模擬器。
package qsim

import (
	"math"
	"strings"

	"github.com/zintix-labs/qplant/circuit"
	"github.com/zintix-labs/qplant/engine"
	"github.com/zintix-labs/qplant/errs"
	"github.com/zintix-labs/qplant/sdk/core"
	"github.com/zintix-labs/qplant/sdk/sampler"
)

func init() {
	engine.Register(engine.DefaultBackend, Backend{})
}

// Backend 沒有狀態，可被並行使用。
type Backend struct{}

func (Backend) Name() string {
	return engine.DefaultBackend
}

// Run 依序套用 RY，接著從 Born 分布抽 shots 次，並把有量測的 qubit 依 clbit 順序組成標籤。
//
// 所有可能的標籤都會出現在結果中（未觀測到的次數為 0）。
func (Backend) Run(c *circuit.Circuit, shots int, rng *core.Core) (engine.Counts, error) {
	if c == nil {
		return nil, errs.NewFatal("qsim: nil circuit")
	}
	if c.Qubits < 1 || c.Qubits > maxQubits {
		return nil, errs.Fatalf("qsim: qubit count %d out of range [1,%d]", c.Qubits, maxQubits)
	}
	if shots < 1 {
		return nil, errs.Warnf("qsim: shots must > 0, got %d", shots)
	}

	sv := NewStateVector(c.Qubits)
	measuring := false
	for _, g := range c.Gates {
		switch g.Kind {
		case circuit.GateRY:
			if measuring {
				return nil, errs.NewFatal("qsim: gate after measurement is not supported")
			}
			sv.ApplyRY(g.Qubit, g.Theta)
		case circuit.GateMeasure:
			measuring = true
		default:
			return nil, errs.Fatalf("qsim: unsupported gate %s", g.Kind)
		}
	}

	measured := c.Measured()
	if len(measured) == 0 {
		return nil, errs.NewFatal("qsim: circuit has no measurement")
	}

	probs := sv.Probabilities()
	for _, p := range probs {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, errs.NewWarn("qsim: non-finite amplitude, check rotation angles")
		}
	}
	counts := sampler.BuildCDF(probs).Counts(rng, shots)

	out := make(engine.Counts, 1<<len(measured))
	for idx := 0; idx < 1<<len(measured); idx++ {
		out[labelOf(idx, measured, true)] = 0
	}
	for basis, n := range counts {
		if n == 0 {
			continue
		}
		out[labelOf(basis, measured, false)] += n
	}
	return out, nil
}

// labelOf 把基底索引轉為量測標籤，第 k 個字元為第 k 個被量測 qubit 的值。
// compact 為 true 時 idx 的第 k 個 bit 直接對應第 k 個字元（用於列舉所有標籤）。
func labelOf(idx int, measured []int, compact bool) string {
	var sb strings.Builder
	for k, q := range measured {
		bit := q
		if compact {
			bit = k
		}
		if idx&(1<<bit) != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
