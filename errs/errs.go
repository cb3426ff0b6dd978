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

// Package errs 定義 qplant 全域共用的分級錯誤型別。
//
// 分級只有三種：
//   - Fatal：設定錯誤、內部不變量被破壞，呼叫端應中止。
//   - Warn ：請求/參數問題（例如量測值不是有限數），呼叫端可修正後重試。
//   - Log  ：僅需記錄的情況。
//
// 注意：機率引擎本身對 NaN/Inf 角度採「容忍」策略（輸出 NaN 機率，不回 error）；
// 只有在邊界層（HTTP / CLI）才會用 ErrInvalidMeasurement 擋下非有限量測值。
package errs

import (
	"errors"
	"fmt"
	"math"
)

// ErrLevel : Error 分級，使最上層理解問題嚴重程度
type ErrLevel uint8

const (
	None ErrLevel = iota
	Fatal
	Warn
	Log
)

func (lv ErrLevel) String() string {
	switch lv {
	case Fatal:
		return "fatal"
	case Warn:
		return "warn"
	case Log:
		return "log"
	default:
		return ""
	}
}

// ErrInvalidMeasurement 為非有限量測值（NaN / ±Inf）的哨兵錯誤，可用 errors.Is 判斷。
var ErrInvalidMeasurement = &E{Message: "invalid measurement", ErrLv: Warn}

// E 是統一的錯誤型別。
// Message 為主訊息；Extra 為呼叫端可追加的額外上下文；
// Cause 可串接下層錯誤（wrap）；ErrLv 表示嚴重度。
type E struct {
	Message string
	Extra   string
	Cause   error
	ErrLv   ErrLevel
}

// Error 實作 error 介面並回傳格式化後的錯誤訊息。
func (e *E) Error() string {
	base := fmt.Sprintf("errlv=%s %s", e.ErrLv, e.Message)
	if e.Extra != "" {
		base += " | extra: " + e.Extra
	}
	if e.Cause != nil {
		base += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return base
}

// Unwrap 讓 errors.Is / errors.As 能夠向下展開。
func (e *E) Unwrap() error { return e.Cause }

func New(errLv ErrLevel, msg string) *E {
	return &E{Message: msg, ErrLv: errLv}
}

func NewFatal(msg string) *E {
	return &E{Message: msg, ErrLv: Fatal}
}

func NewWarn(msg string) *E {
	return &E{Message: msg, ErrLv: Warn}
}

func NewLog(msg string) *E {
	return &E{Message: msg, ErrLv: Log}
}

func Fatalf(format string, a ...any) *E {
	return NewFatal(fmt.Sprintf(format, a...))
}

func Warnf(format string, a ...any) *E {
	return NewWarn(fmt.Sprintf(format, a...))
}

// NewWithExtra 與 New 相同，但可附加額外上下文字串（不影響主訊息）。
func NewWithExtra(errLv ErrLevel, msg string, extra string) *E {
	e := New(errLv, msg)
	e.Extra = extra
	return e
}

// Wrap 以訊息包裝底層錯誤。
//
// ErrLevel 規則：
//   - 若 cause 鏈上已有 *E，沿用其 ErrLv（保持原本嚴重度）。
//   - 否則（標準庫或三方依賴錯誤）一律視為 Fatal。
func Wrap(cause error, msg string) *E {
	r := New(levelOf(cause), msg)
	r.Cause = cause
	return r
}

// WrapWithExtra 同 Wrap，另附上下文字串。
func WrapWithExtra(cause error, msg string, extra string) *E {
	r := NewWithExtra(levelOf(cause), msg, extra)
	r.Cause = cause
	return r
}

// InvalidMeasurement 回傳一個可被 errors.Is(err, ErrInvalidMeasurement) 命中的 Warn 錯誤。
func InvalidMeasurement(name string, v float64) *E {
	return &E{
		Message: fmt.Sprintf("%s must be a finite number", name),
		Extra:   fmt.Sprintf("%s=%v", name, v),
		Cause:   ErrInvalidMeasurement,
		ErrLv:   Warn,
	}
}

// CheckFinite 在邊界層檢查量測值，非有限數回傳 InvalidMeasurement。
func CheckFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return InvalidMeasurement(name, v)
	}
	return nil
}

func AsErr(err error) (*E, bool) {
	var e *E
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// LevelOf 回傳錯誤鏈上第一個 *E 的等級；非 *E 一律 Fatal，nil 回 None。
func LevelOf(err error) ErrLevel {
	if err == nil {
		return None
	}
	return levelOf(err)
}

func levelOf(cause error) ErrLevel {
	var e *E
	if errors.As(cause, &e) {
		return e.ErrLv
	}
	return Fatal
}
