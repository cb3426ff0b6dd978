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
	"io"
	"log/slog"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/qplant/circuit"
	"github.com/zintix-labs/qplant/engine"
	"github.com/zintix-labs/qplant/errs"
	"github.com/zintix-labs/qplant/recorder"
	"github.com/zintix-labs/qplant/sdk/core"
	"github.com/zintix-labs/qplant/stats"
	"golang.org/x/sync/errgroup"
)

// MaxWorkers 單次 Run 的 goroutine 上限；固定值使相同 seed 的 worker 切分與機器無關。
const MaxWorkers int = 64

// Agreement 重複執行模擬電路，檢驗估計值是否收斂到解析解。
//
// 每個 worker 由 SeedMaker 取得自己的 Core，相同 seed 與 workers 會得到相同結果。
type Agreement struct {
	sim      *engine.Simulated
	cf       core.PRNGFactory
	initSeed int64
	log      *slog.Logger
}

// NewAgreement 建立收斂檢驗器。seed <= 0 時使用加密隨機 seed。
//
// Lab 已在模擬模式時沿用其後端；解析解模式下仍會探測設定的後端，找不到時回傳 Fatal。
func (l *Lab) NewAgreement(seed int64) (*Agreement, error) {
	var b engine.Backend
	if s, ok := l.eng.(*engine.Simulated); ok {
		b = s.Backend()
	} else {
		probed, ok := engine.Probe(l.set.Backend)
		if !ok {
			return nil, errs.NewWithExtra(errs.Fatal, "simulation backend not available", "backend="+l.set.Backend)
		}
		b = probed
	}
	if seed <= 0 {
		seed = core.RandomSeed()
	}
	sim, err := engine.NewSimulated(b, l.set.Shots, seed, l.log)
	if err != nil {
		return nil, err
	}
	return &Agreement{sim: sim, cf: core.Default(), initSeed: seed, log: l.log}, nil
}

// Seed 回傳初始 seed，用於重現
func (a *Agreement) Seed() int64 {
	return a.initSeed
}

// Run 以 workers 個 goroutine 共執行 runs 次 TwoQubit 模擬，合併後回傳一致性報告與用時。
func (a *Agreement) Run(theta1, theta2 float64, runs, workers int, showpb bool) (*stats.AgreementReport, time.Duration, error) {
	return a.RunContext(context.Background(), theta1, theta2, runs, workers, showpb)
}

// RunContext 與 Run 相同，ctx 取消時中止並回傳錯誤。
//
// workers 會被限制在 min(runs, MaxWorkers)。
func (a *Agreement) RunContext(ctx context.Context, theta1, theta2 float64, runs, workers int, showpb bool) (*stats.AgreementReport, time.Duration, error) {
	if err := errs.CheckFinite("theta1", theta1); err != nil {
		return nil, 0, err
	}
	if err := errs.CheckFinite("theta2", theta2); err != nil {
		return nil, 0, err
	}
	if runs < 1 {
		return nil, 0, errs.NewWarn("runs must > 0")
	}
	if workers < 1 {
		return nil, 0, errs.NewWarn("workers must > 0")
	}
	workers = min(workers, runs, MaxWorkers)

	// 每次 Run 都從初始 seed 重新派生，讓同一個 Agreement 的結果可重現
	seeds := core.NewSeedMaker(a.initSeed)
	rngs := make([]*core.Core, workers)
	recs := make([]*recorder.ShotRecorder, workers)
	for i := range workers {
		rngs[i], _ = seeds.NextCore(a.cf)
		r, err := recorder.NewShotRecorder(a.sim.Backend().Name(), theta1, theta2, a.sim.Shots())
		if err != nil {
			return nil, 0, err
		}
		recs[i] = r
	}

	c := circuit.Encoding(theta1, theta2)
	bar := pb.New(runs)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	bar.Start()
	g, gctx := errgroup.WithContext(ctx)
	for i := range workers {
		n := runs / workers
		if i < runs%workers {
			n++
		}
		g.Go(func() error {
			rng, rec := rngs[i], recs[i]
			for range n {
				if err := gctx.Err(); err != nil {
					return errs.NewWarn("agreement canceled/timeout: " + err.Error())
				}
				counts, err := a.sim.Sample(c, rng)
				if err != nil {
					return err
				}
				if _, err := rec.Record(counts); err != nil {
					return err
				}
				bar.Increment()
			}
			return nil
		})
	}
	err := g.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()
	if err != nil {
		return nil, used, err
	}

	merged, err := recorder.MergeShotRecorder(recs)
	if err != nil {
		return nil, used, err
	}
	report := merged.Done()
	a.log.Info("agreement done",
		slog.Float64("theta1", theta1),
		slog.Float64("theta2", theta2),
		slog.Int("runs", runs),
		slog.Int("workers", workers),
		slog.Bool("converged", report.Summary.Converged),
		slog.Duration("used", used))
	return report, used, nil
}
