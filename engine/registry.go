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

package engine

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/zintix-labs/qplant/errs"
	"github.com/zintix-labs/qplant/sdk/core"
)

// DefaultBackend 為預設探測的後端名稱
const DefaultBackend string = "statevector"

var (
	backendsMu sync.RWMutex
	backends   = map[string]Backend{}
)

// Register 讓模擬後端在 init() 中登記自己（類似 database/sql 的 driver）。
// 名稱為空、b 為 nil 或重複登記都會 panic。
func Register(name string, b Backend) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	if name == "" || b == nil {
		panic("engine: register backend with empty name or nil backend")
	}
	if _, dup := backends[name]; dup {
		panic("engine: register called twice for backend " + name)
	}
	backends[name] = b
}

// Probe 查詢後端是否可用，是唯讀操作。
func Probe(name string) (Backend, bool) {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	b, ok := backends[name]
	return b, ok
}

// Backends 回傳已登記的後端名稱（排序後）。
func Backends() []string {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	names := make([]string, 0, len(backends))
	for n := range backends {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Options 為 Resolve 的輸入。
type Options struct {
	Mode    Mode
	Backend string // 空字串使用 DefaultBackend
	Shots   int    // <= 0 使用 DefaultShots
	Seed    int64  // <= 0 使用加密隨機 seed
	Log     *slog.Logger
}

// Resolve 在啟動時決定一次執行模式並建出 Engine。
//
//   - ModeClosedForm：一律解析解。
//   - ModeAuto      ：探測後端，找不到就退回解析解（不是錯誤）。
//   - ModeSimulated ：明確要求模擬，找不到後端回傳 Fatal。
func Resolve(opts Options) (Engine, error) {
	log := opts.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	name := opts.Backend
	if name == "" {
		name = DefaultBackend
	}

	if opts.Mode == ModeClosedForm {
		log.Info("engine resolved", slog.String("mode", ModeClosedForm.String()), slog.String("reason", "configured"))
		return NewClosedForm(), nil
	}

	b, ok := Probe(name)
	if !ok {
		if opts.Mode == ModeSimulated {
			return nil, errs.NewWithExtra(errs.Fatal, "simulation backend not available", "backend="+name)
		}
		log.Info("engine resolved",
			slog.String("mode", ModeClosedForm.String()),
			slog.String("reason", "backend unavailable"),
			slog.String("backend", name))
		return NewClosedForm(), nil
	}

	seed := opts.Seed
	if seed <= 0 {
		seed = core.RandomSeed()
	}
	sim, err := NewSimulated(b, opts.Shots, seed, log)
	if err != nil {
		return nil, err
	}
	log.Info("engine resolved",
		slog.String("mode", ModeSimulated.String()),
		slog.String("backend", b.Name()),
		slog.Int("shots", sim.Shots()),
		slog.Int64("seed", seed))
	return sim, nil
}
