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

// Package classical 是對照用的門檻分類器：pH > 6 種大豆，否則種玉米。
package classical

import (
	"math"

	"github.com/zintix-labs/qplant/dataset"
	"github.com/zintix-labs/qplant/engine"
	"gonum.org/v1/gonum/mat"
)

// Threshold pH 門檻
const Threshold float64 = 6.0

// Decide 回傳門檻規則的決策。NaN 不大於門檻，回傳 Maize。
func Decide(ph float64) dataset.Crop {
	if ph > Threshold {
		return dataset.Soybean
	}
	return dataset.Maize
}

// Probs 以 one-hot 分布表示決策，方便與量子分布並列比較。
// NaN 輸入回傳 NaN 分布。
func Probs(ph float64) engine.Single {
	if math.IsNaN(ph) {
		return engine.Single{P0: math.NaN(), P1: math.NaN()}
	}
	if Decide(ph) == dataset.Soybean {
		return engine.Single{P0: 0, P1: 1}
	}
	return engine.Single{P0: 1, P1: 0}
}

// DecideAll 對特徵矩陣（第 0 欄為 pH）逐列決策。
func DecideAll(features mat.Matrix) []dataset.Crop {
	if features == nil {
		return nil
	}
	if d, ok := features.(*mat.Dense); ok && d == nil {
		return nil
	}
	r, _ := features.Dims()
	out := make([]dataset.Crop, r)
	for i := 0; i < r; i++ {
		out[i] = Decide(features.At(i, 0))
	}
	return out
}

// Accuracy 回傳決策與標籤相符的比例；長度不一或為空時回傳 0。
func Accuracy(pred, labels []dataset.Crop) float64 {
	if len(pred) == 0 || len(pred) != len(labels) {
		return 0
	}
	hit := 0
	for i := range pred {
		if pred[i] == labels[i] {
			hit++
		}
	}
	return float64(hit) / float64(len(pred))
}
