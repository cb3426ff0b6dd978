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

package circuit

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Sketch 是沒有實際電路物件時的文字替身。
type Sketch string

func (s Sketch) Draw() string {
	return string(s)
}

// SketchSingle 描述單一 qubit 的 RY 編碼與量測。
func SketchSingle(theta float64) Sketch {
	return Sketch(fmt.Sprintf("RY(%.3f) on qubit 0\nMeasure", theta))
}

// SketchJoint 描述兩個獨立 qubit 的 RY 編碼與聯合量測。
//
//	┌───────────┐
//	│ RY(1.571) │ ─ qubit 0
//	│ RY(0.785) │ ─ qubit 1
//	└───────────┘
//	Measure: probs(q0,q1)
func SketchJoint(theta1, theta2 float64) Sketch {
	rows := []string{
		fmt.Sprintf("RY(%.3f)", theta1),
		fmt.Sprintf("RY(%.3f)", theta2),
	}
	w := 0
	for _, r := range rows {
		w = max(w, runewidth.StringWidth(r))
	}
	var sb strings.Builder
	sb.WriteString("┌" + strings.Repeat("─", w+2) + "┐\n")
	for q, r := range rows {
		pad := strings.Repeat(" ", w-runewidth.StringWidth(r))
		fmt.Fprintf(&sb, "│ %s%s │ ─ qubit %d\n", r, pad, q)
	}
	sb.WriteString("└" + strings.Repeat("─", w+2) + "┘\n")
	sb.WriteString("Measure: probs(q0,q1)")
	return Sketch(sb.String())
}
