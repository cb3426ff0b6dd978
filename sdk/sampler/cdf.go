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

// Package sampler 提供 shot 量測所需的加權抽樣工具。
//
// 本檔案 (cdf.go) 實作以累積分布函數 (CDF) 為基礎的浮點權重抽樣：
//   - 建表時間：O(N)
//   - 抽樣時間：O(log N)，一次 Float64 + 二分搜尋
//
// 量子態的 Born 機率本身就是浮點數（|amp|²），不適合先放大成整數再建 alias table，
// 因此這裡直接對正規化後的浮點累積值做搜尋。
package sampler

import (
	"math"
	"sort"

	"github.com/zintix-labs/qplant/sdk/core"
)

// CDF 為正規化後的累積分布，最後一格恆為 1。
type CDF []float64

// BuildCDF 根據非負權重建立 CDF。
//
// 權重不需事先正規化；負值、NaN、Inf 或全部為零都會 panic（屬於呼叫端程式錯誤）。
// 空輸入回傳空表。
func BuildCDF[T Floaters](weights []T) CDF {
	if len(weights) == 0 {
		return CDF{}
	}
	total := 0.0
	for _, w := range weights {
		f := float64(w)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			panic("cdf: non-finite weight encountered")
		}
		if f < 0 {
			panic("cdf: negative weight encountered")
		}
		total += f
	}
	if total == 0 {
		panic("cdf: all weights are zero")
	}

	cdf := make(CDF, len(weights))
	acc := 0.0
	for i, w := range weights {
		acc += float64(w)
		cdf[i] = acc / total
	}
	// 避免浮點累加誤差使最後一格 < 1，導致 u 落在表外
	cdf[len(cdf)-1] = 1
	return cdf
}

// Pick 以 c.Float64() 抽出一個索引；空表回傳 -1。
//
// 權重為 0 的索引其區間長度為 0，永遠不會被抽中。
func (t CDF) Pick(c *core.Core) int {
	if len(t) == 0 {
		return -1
	}
	u := c.Float64()
	return sort.Search(len(t), func(i int) bool { return u < t[i] })
}

// Counts 連續抽樣 shots 次並回傳各索引的次數；shots <= 0 回傳全零。
func (t CDF) Counts(c *core.Core, shots int) []int {
	counts := make([]int, len(t))
	if len(t) == 0 {
		return counts
	}
	for i := 0; i < shots; i++ {
		counts[t.Pick(c)]++
	}
	return counts
}
