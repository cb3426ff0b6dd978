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

package dto

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/zintix-labs/qplant"
	"github.com/zintix-labs/qplant/errs"
)

// maxBody POST body 大小上限（1MiB）
const maxBody = 1 << 20

// MeasureRequest 為 /v1/single 與 /v1/joint 的輸入。
//
// 兩種寫法擇一：
//   - 量測值：ph（與 nitrogen），經通道編碼成角度。
//   - 角度：theta（單一 qubit）或 theta1/theta2（兩個 qubit），直接送入引擎。
//
// 同時提供時以角度優先。
type MeasureRequest struct {
	PH       *float64 `json:"ph,omitempty"`
	Nitrogen *float64 `json:"nitrogen,omitempty"`
	Theta    *float64 `json:"theta,omitempty"`
	Theta1   *float64 `json:"theta1,omitempty"`
	Theta2   *float64 `json:"theta2,omitempty"`
}

// DecodeMeasureRequest 會把 HTTP 請求解碼成 MeasureRequest。
//
// 支援：
//   - GET：從 query string 讀取（ph / nitrogen 或 n / theta / theta1 / theta2）。
//     query 可以傳入 NaN 或 Inf，會在 Validate 時以 ErrInvalidMeasurement 擋下。
//   - POST：從 JSON body 反序列化，開啟 DisallowUnknownFields()。
//
// 這裡只負責解碼與型別轉換；有限性檢查由 Validate 負責。
func DecodeMeasureRequest(r *http.Request) (*MeasureRequest, error) {
	if r == nil {
		return nil, errs.NewWarn("nil request")
	}
	req := new(MeasureRequest)
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		var err error
		if req.PH, err = optFloat(q, "ph"); err != nil {
			return nil, err
		}
		if req.Nitrogen, err = optFloat(q, "nitrogen", "n"); err != nil {
			return nil, err
		}
		if req.Theta, err = optFloat(q, "theta"); err != nil {
			return nil, err
		}
		if req.Theta1, err = optFloat(q, "theta1"); err != nil {
			return nil, err
		}
		if req.Theta2, err = optFloat(q, "theta2"); err != nil {
			return nil, err
		}
		return req, nil
	case http.MethodPost:
		if err := decodeJSON(r.Body, req); err != nil {
			return nil, err
		}
		return req, nil
	default:
		return nil, errs.NewWarn("method not allowed")
	}
}

// SingleInput 回傳單一 qubit 的輸入：byAngle 為 true 時 v 為角度，否則為 pH。
func (m *MeasureRequest) SingleInput() (v float64, byAngle bool, err error) {
	switch {
	case m.Theta != nil:
		return *m.Theta, true, errs.CheckFinite("theta", *m.Theta)
	case m.Theta1 != nil:
		return *m.Theta1, true, errs.CheckFinite("theta1", *m.Theta1)
	case m.PH != nil:
		return *m.PH, false, errs.CheckFinite("ph", *m.PH)
	default:
		return 0, false, errs.NewWarn("theta or ph is required")
	}
}

// JointInput 回傳兩個 qubit 的輸入：byAngle 為 true 時 (a, b) 為角度，否則為 (pH, 氮)。
func (m *MeasureRequest) JointInput() (a, b float64, byAngle bool, err error) {
	switch {
	case m.Theta1 != nil || m.Theta2 != nil:
		if m.Theta1 == nil || m.Theta2 == nil {
			return 0, 0, true, errs.NewWarn("theta1 and theta2 are both required")
		}
		if err := errs.CheckFinite("theta1", *m.Theta1); err != nil {
			return 0, 0, true, err
		}
		return *m.Theta1, *m.Theta2, true, errs.CheckFinite("theta2", *m.Theta2)
	case m.PH != nil || m.Nitrogen != nil:
		if m.PH == nil || m.Nitrogen == nil {
			return 0, 0, false, errs.NewWarn("ph and nitrogen are both required")
		}
		if err := errs.CheckFinite("ph", *m.PH); err != nil {
			return 0, 0, false, err
		}
		return *m.PH, *m.Nitrogen, false, errs.CheckFinite("nitrogen", *m.Nitrogen)
	default:
		return 0, 0, false, errs.NewWarn("theta1/theta2 or ph/nitrogen is required")
	}
}

// AgreementRequest 為 /v1/agreement 的輸入
type AgreementRequest struct {
	Theta1  float64 `json:"theta1"`
	Theta2  float64 `json:"theta2"`
	Runs    int     `json:"runs"`
	Workers int     `json:"workers"`
	Seed    int64   `json:"seed,omitempty"` // <= 0 使用隨機 seed，回應會帶回實際 seed
}

const (
	DefaultRuns    = 64
	DefaultWorkers = 4
	// MaxRuns 單一請求的執行次數上限
	MaxRuns = 1 << 16
)

// DecodeAgreementRequest 解碼收斂檢驗請求，runs/workers 省略時使用預設值。
func DecodeAgreementRequest(r *http.Request) (*AgreementRequest, error) {
	if r == nil {
		return nil, errs.NewWarn("nil request")
	}
	req := &AgreementRequest{Runs: DefaultRuns, Workers: DefaultWorkers}
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		t1, err := optFloat(q, "theta1")
		if err != nil {
			return nil, err
		}
		t2, err := optFloat(q, "theta2")
		if err != nil {
			return nil, err
		}
		if t1 == nil || t2 == nil {
			return nil, errs.NewWarn("theta1 and theta2 are both required")
		}
		req.Theta1, req.Theta2 = *t1, *t2
		if s := q.Get("runs"); s != "" {
			if req.Runs, err = strconv.Atoi(s); err != nil {
				return nil, errs.NewWarn(fmt.Sprintf("invalid runs: %v", err))
			}
		}
		if s := q.Get("workers"); s != "" {
			if req.Workers, err = strconv.Atoi(s); err != nil {
				return nil, errs.NewWarn(fmt.Sprintf("invalid workers: %v", err))
			}
		}
		if s := q.Get("seed"); s != "" {
			if req.Seed, err = strconv.ParseInt(s, 10, 64); err != nil {
				return nil, errs.NewWarn(fmt.Sprintf("invalid seed: %v", err))
			}
		}
	case http.MethodPost:
		if err := decodeJSON(r.Body, req); err != nil {
			return nil, err
		}
	default:
		return nil, errs.NewWarn("method not allowed")
	}
	if req.Runs > MaxRuns {
		return nil, errs.NewWarn(fmt.Sprintf("runs must <= %d", MaxRuns))
	}
	if req.Workers > qplant.MaxWorkers {
		return nil, errs.NewWarn(fmt.Sprintf("workers must <= %d", qplant.MaxWorkers))
	}
	return req, nil
}

// StatRequest 為 /v1/stat 的輸入：外部取得的量測次數，與解析解比較。
//
// Runs 每一筆為一次執行的四個結果次數（鍵為 "00","01","10","11"），總和必須等於 Shots。
type StatRequest struct {
	Backend string           `json:"backend"`
	Theta1  float64          `json:"theta1"`
	Theta2  float64          `json:"theta2"`
	Shots   int              `json:"shots"`
	Runs    []map[string]int `json:"runs"`
}

// DecodeStatRequest 只接受 POST JSON
func DecodeStatRequest(r *http.Request) (*StatRequest, error) {
	if r == nil {
		return nil, errs.NewWarn("nil request")
	}
	if r.Method != http.MethodPost {
		return nil, errs.NewWarn("method not allowed")
	}
	req := new(StatRequest)
	if err := decodeJSON(r.Body, req); err != nil {
		return nil, err
	}
	if len(req.Runs) < 1 {
		return nil, errs.NewWarn("runs must > 0")
	}
	if req.Backend == "" {
		req.Backend = "external"
	}
	return req, nil
}

func decodeJSON(body io.Reader, v any) error {
	if body == nil {
		return errs.NewWarn("empty body")
	}
	dec := json.NewDecoder(io.LimitReader(body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errs.NewWarn("invalid json: " + err.Error())
	}
	return nil
}

// optFloat 依序讀取第一個出現的 key；都沒有時回傳 nil。
func optFloat(q url.Values, keys ...string) (*float64, error) {
	for _, k := range keys {
		s := q.Get(k)
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, errs.NewWarn(fmt.Sprintf("invalid %s: %v", k, err))
		}
		return &v, nil
	}
	return nil, nil
}
