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

package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	v1 "github.com/zintix-labs/qplant/server/api/v1"
	"github.com/zintix-labs/qplant/server/netsvr"
	"github.com/zintix-labs/qplant/server/netsvr/middleware"
	"github.com/zintix-labs/qplant/server/svrcfg"
)

// Routes 為對外公開的 v1 路由，也用於首頁列舉
var Routes = []string{
	"GET|POST /v1/single",
	"GET|POST /v1/joint",
	"GET /v1/mode",
	"GET /v1/dataset",
	"GET|POST /v1/agreement",
	"POST /v1/stat",
}

func RegisterRoutes(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) error {
	registerMiddleware(svr, sCfg.Log) // 1. 註冊 middleware
	registerIndex(svr)                // 2. 註冊主頁
	return registerV1API(svr, sCfg)   // 3. 註冊 v1 api
}

func registerMiddleware(svr netsvr.NetSvr, log *slog.Logger) {
	svr.Use(middleware.RequestID)
	svr.Use(middleware.AccessLog(log))
	svr.Use(middleware.Recover)
	svr.Use(middleware.Compression)
}

func registerIndex(svr netsvr.NetSvr) {
	svr.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"service": "qplant", "routes": Routes})
	})
	svr.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func registerV1API(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) error {
	h, err := v1.NewLabHandler(sCfg)
	if err != nil {
		return err
	}
	svr.Group("/v1", func(vOne netsvr.NetRouter) {
		vOne.Get("/single", h.Single)
		vOne.Get("/joint", h.Joint)
		vOne.Get("/mode", h.Mode)
		vOne.Get("/dataset", h.Dataset)
		vOne.Get("/agreement", h.Agreement)

		vOne.Post("/single", h.Single)
		vOne.Post("/joint", h.Joint)
		vOne.Post("/agreement", h.Agreement)
		vOne.Post("/stat", v1.Stat)
	})
	return nil
}
