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

// Package circuit 定義電路描述子（circuit descriptor）。
//
// 對外只承諾一件事：Renderable.Draw() 產生人類可讀的電路文字。
// 兩種實作：
//   - *Circuit：模擬路徑實際建出並交給後端執行的電路。
//   - Sketch  ：解析路徑產生的文字替身。
//
// 消費端（dashboard / CLI / HTTP）只呼叫 Draw，不應檢查內部結構，
// 因此無法從行為上分辨是哪一條路徑產生的。
package circuit

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/zintix-labs/qplant/errs"
)

// Renderable 是電路描述子的唯一能力。
type Renderable interface {
	Draw() string
}

// GateKind 閘種類
type GateKind uint8

const (
	GateRY GateKind = iota + 1
	GateMeasure
)

func (k GateKind) String() string {
	switch k {
	case GateRY:
		return "RY"
	case GateMeasure:
		return "MEASURE"
	default:
		return fmt.Sprintf("GATE(%d)", uint8(k))
	}
}

// Gate 為電路上的一個操作。
//   - RY：Qubit 為目標，Theta 為旋轉角。
//   - MEASURE：Qubit 量測到 Clbit。
type Gate struct {
	Kind  GateKind
	Qubit int
	Clbit int
	Theta float64
}

// Circuit 持有量子位元數、古典位元數與依序套用的閘列表。
type Circuit struct {
	Qubits int
	Clbits int
	Gates  []Gate
}

// NewCircuit 建立 n 個 qubit 與 n 個 clbit 的空電路。
func NewCircuit(n int) *Circuit {
	n = max(0, n)
	return &Circuit{Qubits: n, Clbits: n, Gates: make([]Gate, 0, 2*n)}
}

// Encoding 建立角度編碼電路：每個 qubit i 套用 RY(thetas[i])，最後全部量測。
func Encoding(thetas ...float64) *Circuit {
	c := NewCircuit(len(thetas))
	for q, th := range thetas {
		c.Gates = append(c.Gates, Gate{Kind: GateRY, Qubit: q, Theta: th})
	}
	c.MeasureAll()
	return c
}

// RY 在 qubit q 上加入 Y 軸旋轉。
func (c *Circuit) RY(q int, theta float64) error {
	if q < 0 || q >= c.Qubits {
		return errs.Warnf("ry: qubit %d out of range [0,%d)", q, c.Qubits)
	}
	c.Gates = append(c.Gates, Gate{Kind: GateRY, Qubit: q, Theta: theta})
	return nil
}

// Measure 把 qubit q 量測到 clbit cb。
func (c *Circuit) Measure(q, cb int) error {
	if q < 0 || q >= c.Qubits {
		return errs.Warnf("measure: qubit %d out of range [0,%d)", q, c.Qubits)
	}
	if cb < 0 || cb >= c.Clbits {
		return errs.Warnf("measure: clbit %d out of range [0,%d)", cb, c.Clbits)
	}
	c.Gates = append(c.Gates, Gate{Kind: GateMeasure, Qubit: q, Clbit: cb})
	return nil
}

// MeasureAll 依序把 qubit i 量測到 clbit i。
func (c *Circuit) MeasureAll() {
	for q := 0; q < min(c.Qubits, c.Clbits); q++ {
		c.Gates = append(c.Gates, Gate{Kind: GateMeasure, Qubit: q, Clbit: q})
	}
}

// Measured 回傳有被量測的 qubit（依 clbit 順序），未量測的 qubit 不出現在結果標籤中。
func (c *Circuit) Measured() []int {
	byClbit := make([]int, c.Clbits)
	for i := range byClbit {
		byClbit[i] = -1
	}
	for _, g := range c.Gates {
		if g.Kind == GateMeasure {
			byClbit[g.Clbit] = g.Qubit
		}
	}
	out := make([]int, 0, c.Clbits)
	for _, q := range byClbit {
		if q >= 0 {
			out = append(out, q)
		}
	}
	return out
}

// Draw 以每個 qubit 一條線的方式輸出電路，例如：
//
//	q0: ──RY(1.571)──M(c0)──
//	q1: ──RY(0.785)──M(c1)──
//	2 qubits, 2 clbits
func (c *Circuit) Draw() string {
	cols := make([][]string, c.Qubits)
	for _, g := range c.Gates {
		if g.Qubit < 0 || g.Qubit >= c.Qubits {
			continue
		}
		cols[g.Qubit] = append(cols[g.Qubit], gateLabel(g))
	}

	depth := 0
	for _, row := range cols {
		depth = max(depth, len(row))
	}
	widths := make([]int, depth)
	for _, row := range cols {
		for i, lb := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(lb))
		}
	}

	var sb strings.Builder
	for q, row := range cols {
		fmt.Fprintf(&sb, "q%d: ──", q)
		for i := 0; i < depth; i++ {
			lb := ""
			if i < len(row) {
				lb = row[i]
			}
			sb.WriteString(lb)
			sb.WriteString(strings.Repeat("─", widths[i]-runewidth.StringWidth(lb)+2))
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "%d qubits, %d clbits", c.Qubits, c.Clbits)
	return sb.String()
}

// QASM 匯出 OpenQASM 2.0 文字，方便交給外部工具。
func (c *Circuit) QASM() string {
	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n", c.Qubits)
	fmt.Fprintf(&sb, "creg c[%d];\n", c.Clbits)
	for _, g := range c.Gates {
		switch g.Kind {
		case GateRY:
			fmt.Fprintf(&sb, "ry(%.6f) q[%d];\n", g.Theta, g.Qubit)
		case GateMeasure:
			fmt.Fprintf(&sb, "measure q[%d] -> c[%d];\n", g.Qubit, g.Clbit)
		}
	}
	return sb.String()
}

func gateLabel(g Gate) string {
	switch g.Kind {
	case GateRY:
		return fmt.Sprintf("RY(%.3f)", g.Theta)
	case GateMeasure:
		return fmt.Sprintf("M(c%d)", g.Clbit)
	default:
		return g.Kind.String()
	}
}
