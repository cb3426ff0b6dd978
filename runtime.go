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

package qplant

import (
	"context"
	"io/fs"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zintix-labs/qplant/circuit"
	"github.com/zintix-labs/qplant/dataset"
	"github.com/zintix-labs/qplant/engine"
	"github.com/zintix-labs/qplant/errs"
	"github.com/zintix-labs/qplant/stats"
)

// Runtime 是 Lab 的服務層包裝：每次呼叫前檢查 ctx 與關閉狀態，並把 NaN 結果轉成錯誤。
//
// Lab 本身的計算不會失敗（NaN 代表無效量測）；Runtime 位於邊界，負責把它轉成 errs.ErrInvalidMeasurement。
type Runtime struct {
	lab  *Lab
	fsys fs.FS

	// lifecycle
	done      chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool
	reason    atomic.Value // string
}

// SingleResult 單一 qubit 的服務回應
type SingleResult struct {
	Mode    engine.Mode        `json:"mode"`
	Theta   float64            `json:"theta"`
	Probs   engine.Single      `json:"probs"`
	Crop    dataset.Crop       `json:"crop"`
	Circuit circuit.Renderable `json:"-"`
	Diagram string             `json:"circuit"`
}

// JointResult 兩個 qubit 的服務回應
type JointResult struct {
	Mode    engine.Mode        `json:"mode"`
	Theta1  float64            `json:"theta1"`
	Theta2  float64            `json:"theta2"`
	Probs   engine.Joint       `json:"probs"`
	Circuit circuit.Renderable `json:"-"`
	Diagram string             `json:"circuit"`
}

// NewRuntime 建立 Runtime。fsys 為載入資料集的來源，可為 nil（使用合成資料）。
func (l *Lab) NewRuntime(fsys fs.FS) *Runtime {
	return &Runtime{
		lab:  l,
		fsys: fsys,
		done: make(chan struct{}),
	}
}

func (rt *Runtime) Lab() *Lab {
	return rt.lab
}

// Single 以角度計算單一 qubit 分布
func (rt *Runtime) Single(ctx context.Context, theta float64) (SingleResult, error) {
	if err := rt.check(ctx, "single"); err != nil {
		return SingleResult{}, err
	}
	p, c := rt.lab.SingleQubitProbs(theta)
	if !finite(p.Slice()...) {
		return SingleResult{}, errs.Wrap(errs.ErrInvalidMeasurement, "single qubit")
	}
	return SingleResult{Mode: rt.lab.Mode(), Theta: theta, Probs: p, Crop: Choose(p), Circuit: c, Diagram: c.Draw()}, nil
}

// SingleByPH 以 pH 通道編碼後計算
func (rt *Runtime) SingleByPH(ctx context.Context, ph float64) (SingleResult, error) {
	return rt.Single(ctx, rt.lab.ph.Angle(ph))
}

// Joint 以兩個角度計算聯合分布
func (rt *Runtime) Joint(ctx context.Context, theta1, theta2 float64) (JointResult, error) {
	if err := rt.check(ctx, "joint"); err != nil {
		return JointResult{}, err
	}
	p, c := rt.lab.TwoQubitProbs(theta1, theta2)
	if a := p.Array(); !finite(a[:]...) {
		return JointResult{}, errs.Wrap(errs.ErrInvalidMeasurement, "two qubit")
	}
	return JointResult{Mode: rt.lab.Mode(), Theta1: theta1, Theta2: theta2, Probs: p, Circuit: c, Diagram: c.Draw()}, nil
}

// JointByPHN 以 pH 與氮通道編碼後計算
func (rt *Runtime) JointByPHN(ctx context.Context, ph, nitrogen float64) (JointResult, error) {
	return rt.Joint(ctx, rt.lab.ph.Angle(ph), rt.lab.n.Angle(nitrogen))
}

// Advise 載入資料集並逐筆給出建議
func (rt *Runtime) Advise(ctx context.Context) ([]Advice, error) {
	if err := rt.check(ctx, "advise"); err != nil {
		return nil, err
	}
	ds, err := rt.lab.Dataset(rt.fsys)
	if err != nil {
		return nil, err
	}
	return rt.AdviseDataset(ctx, ds)
}

// AdviseDataset 對已載入的資料集給出建議
func (rt *Runtime) AdviseDataset(ctx context.Context, ds *dataset.Dataset) ([]Advice, error) {
	if err := rt.check(ctx, "advise"); err != nil {
		return nil, err
	}
	if ds == nil {
		return nil, errs.NewWarn("nil dataset")
	}
	out := make([]Advice, 0, len(ds.Samples))
	for _, s := range ds.Samples {
		if err := ctx.Err(); err != nil {
			return nil, errs.NewWarn("advise canceled/timeout: " + err.Error())
		}
		out = append(out, rt.lab.Advise(s))
	}
	return out, nil
}

// Dataset 載入資料集
func (rt *Runtime) Dataset(ctx context.Context) (*dataset.Dataset, error) {
	if err := rt.check(ctx, "dataset"); err != nil {
		return nil, err
	}
	return rt.lab.Dataset(rt.fsys)
}

// Agreement 執行收斂檢驗。seed <= 0 時每次使用新的隨機 seed。
func (rt *Runtime) Agreement(ctx context.Context, theta1, theta2 float64, runs, workers int, seed int64) (*stats.AgreementReport, time.Duration, int64, error) {
	if err := rt.check(ctx, "agreement"); err != nil {
		return nil, 0, 0, err
	}
	// 每次呼叫建立新的 Agreement，不保留
	a, err := rt.lab.NewAgreement(seed)
	if err != nil {
		return nil, 0, 0, err
	}
	rep, used, err := a.RunContext(ctx, theta1, theta2, runs, workers, false)
	return rep, used, a.Seed(), err
}

func (rt *Runtime) check(ctx context.Context, op string) error {
	select {
	case <-ctx.Done():
		return errs.NewWarn(op + " canceled/timeout: " + ctx.Err().Error())
	case <-rt.done:
		rt.closed.Store(true)
		return errs.NewFatal("runtime closed: " + rt.ClosedReason())
	default:
	}
	return nil
}

// Close 關閉 Runtime，可重複呼叫。
func (rt *Runtime) Close() {
	rt.closeWithReason("closed")
}

func (rt *Runtime) closeWithReason(reason string) {
	rt.closeOnce.Do(func() {
		if reason == "" {
			reason = "closed"
		}
		rt.reason.Store(reason)
		rt.closed.Store(true)
		close(rt.done)
	})
}

func (rt *Runtime) Closed() bool {
	return rt.closed.Load()
}

func (rt *Runtime) ClosedReason() string {
	if v := rt.reason.Load(); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func finite(xs ...float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
