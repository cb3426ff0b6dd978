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

// Package svrcfg 定義 HTTP 服務的組裝參數。
package svrcfg

import (
	"log/slog"
	"time"

	"github.com/zintix-labs/qplant"
	"github.com/zintix-labs/qplant/errs"
	"github.com/zintix-labs/qplant/server/logger"
)

const (
	DefaultAddr    string        = ":5808"
	DefaultTimeout time.Duration = 5 * time.Second
	// MaxTimeout 收斂檢驗可能較久，單一請求最多允許的時間
	MaxTimeout time.Duration = 60 * time.Second
)

type SvrCfg struct {
	Log     *slog.Logger
	Addr    string        // 監聽位址，空字串使用 DefaultAddr
	Timeout time.Duration // 單一請求的計算期限
	Runtime *qplant.Runtime
}

func (sc *SvrCfg) Vaild() error {
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.NewFatal("nil default log handler: async handler is nil")
		}
	} else {
		// 保持安靜、合法
		sc.Log, _ = logger.NewAsync(1024, logger.ModeDev)
	}
	if sc.Addr == "" {
		sc.Addr = DefaultAddr
	}
	if sc.Timeout <= 0 {
		sc.Timeout = DefaultTimeout
	}
	sc.Timeout = min(MaxTimeout, sc.Timeout)
	if sc.Runtime == nil {
		return errs.NewFatal("runtime is required")
	}
	if sc.Runtime.Closed() {
		return errs.NewFatal("runtime already closed: " + sc.Runtime.ClosedReason())
	}
	return nil
}
