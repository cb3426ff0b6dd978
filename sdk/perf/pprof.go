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

package perf

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
)

const pprofDir = "build/profiling" // pprof檔案寫入路徑

// Modes 為 RunPProf 支援的模式
var Modes = []string{"", "cpu", "heap", "allocs", "mutex"}

// RunPProf 依 mode 包住 exe 執行 profiling；未知模式直接執行 exe。
//
// Usage like:
//
//	go run ./cmd/run -runs 1000 -worker 8 -p cpu
func RunPProf(exe func(), mode string) {
	switch mode {
	case "cpu":
		PProfCPU(exe)
	case "heap":
		// 盡量讓快照貼近最新狀態
		exe()
		runtime.GC()
		writeProfile("heap")
	case "allocs":
		// 累積配置，需搭配 -alloc_space / -alloc_objects 查看
		exe()
		writeProfile("allocs")
	case "mutex":
		// 多 worker 的收斂檢驗用來觀察鎖競爭
		prev := runtime.SetMutexProfileFraction(1)
		defer runtime.SetMutexProfileFraction(prev)
		exe()
		writeProfile("mutex")
	default:
		exe()
	}
}

// PProfCPU 對送入函數做 CPU profiling，輸出 build/profiling/cpu.pprof。
//
// 可以作性能分析，也可以拿來做構建時給pgo的優化blueprint
func PProfCPU(exe func()) {
	f := create("cpu")
	defer f.Close()
	if err := pprof.StartCPUProfile(f); err != nil {
		panic("failed to start pprof : " + err.Error())
	}
	defer pprof.StopCPUProfile()

	exe()
}

func writeProfile(name string) {
	prof := pprof.Lookup(name)
	if prof == nil {
		return
	}
	f := create(name)
	defer f.Close()
	if err := prof.WriteTo(f, 0); err != nil {
		panic(fmt.Sprintf("failed to write %s profile : %v", name, err))
	}
}

func create(name string) *os.File {
	_ = os.MkdirAll(pprofDir, 0o755)
	f, err := os.Create(filepath.Join(pprofDir, name+".pprof"))
	if err != nil {
		panic(fmt.Sprintf("failed to create %s.pprof : %v", name, err))
	}
	return f
}
