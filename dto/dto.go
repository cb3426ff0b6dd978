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

// Package dto 定義 HTTP 邊界的請求與回應結構。
package dto

import (
	"time"

	"github.com/zintix-labs/qplant"
	"github.com/zintix-labs/qplant/engine"
	"github.com/zintix-labs/qplant/stats"
)

// ModeInfo 為 /v1/mode 的回應
type ModeInfo struct {
	Mode     engine.Mode `json:"mode"`               // 實際使用的路徑
	Setting  engine.Mode `json:"setting"`            // 設定檔要求的路徑
	Backend  string      `json:"backend,omitempty"`  // 模擬後端名稱；解析解為空
	Shots    int         `json:"shots"`              // 每次模擬的取樣數
	Backends []string    `json:"backends,omitempty"` // 已登記的後端
}

func NewModeInfo(l *qplant.Lab) ModeInfo {
	set := l.Setting()
	return ModeInfo{
		Mode:     l.Mode(),
		Setting:  set.Mode,
		Backend:  l.Backend(),
		Shots:    set.Shots,
		Backends: engine.Backends(),
	}
}

// DatasetResult 為 /v1/dataset 的回應：樣本、逐筆建議與古典/量子一致率
type DatasetResult struct {
	Source    string          `json:"source"`
	Mode      engine.Mode     `json:"mode"`
	Samples   int             `json:"samples"`
	Agreement float64         `json:"agreement"` // 古典與量子決策一致的比例
	Accuracy  float64         `json:"accuracy"`  // 量子決策對標籤的正確率
	Advice    []qplant.Advice `json:"advice"`
}

func NewDatasetResult(source string, mode engine.Mode, advice []qplant.Advice) DatasetResult {
	r := DatasetResult{Source: source, Mode: mode, Samples: len(advice), Advice: advice}
	if len(advice) == 0 {
		return r
	}
	agree, hit := 0, 0
	for _, a := range advice {
		if a.Agree {
			agree++
		}
		if a.Quantum == a.Sample.Crop {
			hit++
		}
	}
	r.Agreement = float64(agree) / float64(len(advice))
	r.Accuracy = float64(hit) / float64(len(advice))
	return r
}

// AgreementResult 為 /v1/agreement 的回應
type AgreementResult struct {
	Seed   int64                  `json:"seed"`    // 實際使用的 seed，可用於重現
	UsedMS int64                  `json:"used_ms"` // 用時（毫秒）
	Report *stats.AgreementReport `json:"report"`
}

func NewAgreementResult(seed int64, used time.Duration, rep *stats.AgreementReport) AgreementResult {
	return AgreementResult{Seed: seed, UsedMS: used.Milliseconds(), Report: rep}
}
