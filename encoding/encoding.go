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

// Package encoding 把有界的連續量測值線性映射為旋轉角度。
//
//	angle = (value - center) / halfWidth * π
//
// 映射不做 clamp：超出範圍的量測值會得到 [0, π] 以外的角度，原樣交給引擎。
// 量測值是否合理屬於呼叫端的輸入驗證，不是引擎的責任。
package encoding

import (
	"fmt"
	"math"

	"github.com/zintix-labs/qplant/errs"
)

const (
	// PHCenter / PHHalfWidth：pH=4 → 0，pH=8 → π
	PHCenter    float64 = 4
	PHHalfWidth float64 = 4
	// DefaultNitrogenMax 為氮含量的預設參考最大值
	DefaultNitrogenMax float64 = 100
)

// Encode 回傳 (value-center)/halfWidth*π。
func Encode(value, center, halfWidth float64) float64 {
	return (value - center) / halfWidth * math.Pi
}

// EncodeRatio 是 center=0、halfWidth=maxRef 的特例。
func EncodeRatio(value, maxRef float64) float64 {
	return Encode(value, 0, maxRef)
}

// Channel 描述一個量測通道的線性正規化參數。
type Channel struct {
	Name      string  `yaml:"name"       json:"name"`
	Center    float64 `yaml:"center"     json:"center"`
	HalfWidth float64 `yaml:"half_width" json:"half_width"`
}

// PH 為土壤 pH 通道。
func PH() Channel {
	return Channel{Name: "ph", Center: PHCenter, HalfWidth: PHHalfWidth}
}

// Nitrogen 為氮含量通道，maxRef <= 0 時使用 DefaultNitrogenMax。
func Nitrogen(maxRef float64) Channel {
	if !(maxRef > 0) {
		maxRef = DefaultNitrogenMax
	}
	return Channel{Name: "nitrogen", Center: 0, HalfWidth: maxRef}
}

// Angle 將量測值轉為旋轉角度。
func (c Channel) Angle(value float64) float64 {
	return Encode(value, c.Center, c.HalfWidth)
}

// Value 是 Angle 的反函數，用於把角度換回量測值（例如繪圖時標示刻度）。
func (c Channel) Value(angle float64) float64 {
	return angle/math.Pi*c.HalfWidth + c.Center
}

// Valid 只檢查通道參數本身：halfWidth 必須是非零有限數，center 必須是有限數。
func (c Channel) Valid() error {
	if math.IsNaN(c.Center) || math.IsInf(c.Center, 0) {
		return errs.NewFatal(fmt.Sprintf("channel %q: center must be finite", c.Name))
	}
	if c.HalfWidth == 0 || math.IsNaN(c.HalfWidth) || math.IsInf(c.HalfWidth, 0) {
		return errs.NewFatal(fmt.Sprintf("channel %q: half_width must be a non-zero finite number", c.Name))
	}
	return nil
}

func (c Channel) String() string {
	return fmt.Sprintf("%s[(v-%.3g)/%.3g*pi]", c.Name, c.Center, c.HalfWidth)
}
