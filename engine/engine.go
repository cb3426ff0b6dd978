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

// Package engine 是雙路徑機率引擎。
//
// 同一個 Engine 介面有兩種實作：
//   - ClosedForm：p0 = cos²(θ/2)、p1 = sin²(θ/2)，兩個 qubit 取邊際乘積。精確且決定性。
//   - Simulated ：建出 RY 編碼電路交給 Backend 執行 shots 次量測，以次數/shots 估計。
//
// 兩者必須在抽樣誤差內收斂到同一個分布。選哪一個由 Resolve 在啟動時決定一次，
// 之後不再重新探測；呼叫端只透過 circuit.Renderable 看到電路描述。
//
// 非有限角度（NaN / ±Inf）：兩條路徑都回傳 NaN 機率，不回 error、不 panic。
package engine

import (
	"strings"

	"github.com/zintix-labs/qplant/circuit"
	"github.com/zintix-labs/qplant/errs"
)

// DefaultShots 為模擬路徑的固定量測次數
const DefaultShots int = 1024

// Engine 即 ProbabilityEngine 能力。實作必須可重入、可被多個 goroutine 同時呼叫。
type Engine interface {
	// SingleQubit 回傳單一 qubit 經 RY(theta) 後的量測分布與電路描述。
	SingleQubit(theta float64) (Single, circuit.Renderable)
	// TwoQubit 回傳兩個獨立 qubit（無糾纏）的聯合分布與電路描述。
	TwoQubit(theta1, theta2 float64) (Joint, circuit.Renderable)
	// Mode 回傳實際採用的執行模式（ModeClosedForm 或 ModeSimulated）。
	Mode() Mode
}

// Mode 執行模式
type Mode uint8

const (
	// ModeAuto 有後端就模擬，沒有就用解析解
	ModeAuto Mode = iota
	ModeClosedForm
	ModeSimulated
)

func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeClosedForm:
		return "closed"
	case ModeSimulated:
		return "simulated"
	default:
		return "unknown"
	}
}

// ParseMode 解析設定檔/flag 的模式字串（不分大小寫），空字串視為 auto。
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ModeAuto, nil
	case "closed", "closed-form", "closedform", "analytic":
		return ModeClosedForm, nil
	case "sim", "simulated", "simulation":
		return ModeSimulated, nil
	default:
		return ModeAuto, errs.Warnf("unknown engine mode: %q", s)
	}
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
