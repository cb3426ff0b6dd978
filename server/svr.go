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

// Package server 組裝 HTTP 服務：middleware、v1 路由與生命週期管理。
package server

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/zintix-labs/qplant/errs"
	"github.com/zintix-labs/qplant/server/api"
	"github.com/zintix-labs/qplant/server/app"
	"github.com/zintix-labs/qplant/server/netsvr"
	"github.com/zintix-labs/qplant/server/svrcfg"
)

// Build 驗證設定並建立已註冊路由的 chi server，但不啟動。
func Build(sCfg *svrcfg.SvrCfg) (*netsvr.ChiAdapter, error) {
	if err := sCfg.Vaild(); err != nil {
		return nil, err
	}
	// 連線層的寫入期限需涵蓋最長的收斂檢驗
	svr := netsvr.NewChiServer(sCfg.Addr, svrcfg.MaxTimeout+5*time.Second)
	if err := api.RegisterRoutes(svr, sCfg); err != nil {
		return nil, errs.Wrap(err, "register routes")
	}
	return svr, nil
}

// Run 建立並啟動服務，阻塞直到收到終止信號。
func Run(sCfg *svrcfg.SvrCfg) {
	svr, err := Build(sCfg)
	if err != nil {
		// 防止外層傳入的logger不可用
		fmt.Fprintln(os.Stderr, err)
		return
	}
	serve(sCfg, svr)
}

// RunWithSvr 使用外部提供的 NetSvr 啟動服務
func RunWithSvr(sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr) {
	if err := sCfg.Vaild(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	if svr == nil {
		sCfg.Log.Error(errs.NewFatal("svr is required").Error())
		return
	}
	if s, ok := svr.(*netsvr.ChiAdapter); ok && !s.Ready() {
		sCfg.Log.Error(errs.NewFatal("default server is not ready").Error())
		return
	}
	if err := api.RegisterRoutes(svr, sCfg); err != nil {
		sCfg.Log.Error("register routes", slog.Any("err", err))
		return
	}
	serve(sCfg, svr)
}

func serve(sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr) {
	a := app.NewWith(sCfg.Log, svr)
	a.OnShutdown(sCfg.Runtime.Close)
	lab := sCfg.Runtime.Lab()
	sCfg.Log.Info("[qplant] listening on http://localhost"+svr.Address(),
		slog.String("mode", lab.Mode().String()),
		slog.String("backend", lab.Backend()))
	if err := a.Run(); err != nil {
		sCfg.Log.Error("app stopped:", slog.Any("err", err))
	}
}
