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

package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/zintix-labs/qplant"
	"github.com/zintix-labs/qplant/configs"
	"github.com/zintix-labs/qplant/demo"
	"github.com/zintix-labs/qplant/engine"
	_ "github.com/zintix-labs/qplant/qsim"
	"github.com/zintix-labs/qplant/server"
	"github.com/zintix-labs/qplant/server/logger"
	"github.com/zintix-labs/qplant/server/svrcfg"
	"github.com/zintix-labs/qplant/setting"
)

// HTTP 入口：模擬後端以 blank import 登記，模式由設定檔或 -mode 決定，啟動後不再變更。
func main() {
	cfg, err := loadConfigFromFlags()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	server.Run(cfg)
}

type config struct {
	Addr    string
	LogMode string
	Config  string
	Mode    string
	Data    string
	Timeout time.Duration
}

func loadConfigFromFlags() (*svrcfg.SvrCfg, error) {
	cfg := new(config)
	flag.StringVar(&cfg.Addr, "addr", svrcfg.DefaultAddr, "listen address")
	flag.StringVar(&cfg.LogMode, "log-mode", "dev", "log mode: dev|prod|silence")
	flag.StringVar(&cfg.Config, "config", "", "lab setting yaml (default: embedded)")
	flag.StringVar(&cfg.Mode, "mode", "", "engine mode: auto|closed|simulated (overrides config)")
	flag.StringVar(&cfg.Data, "data", "", "directory holding the dataset csv (default: embedded demo)")
	flag.DurationVar(&cfg.Timeout, "timeout", svrcfg.DefaultTimeout, "per request compute deadline")

	flag.Parse()

	mode, err := logger.ParseLogMode(cfg.LogMode)
	if err != nil {
		return nil, err
	}
	log, _ := logger.NewAsync(4096, mode)

	ls, err := cfg.setting()
	if err != nil {
		return nil, err
	}
	lab, err := qplant.New(ls, log)
	if err != nil {
		return nil, err
	}
	var fsys fs.FS = demo.Data()
	if cfg.Data != "" {
		fsys = os.DirFS(cfg.Data)
	}
	sCfg := &svrcfg.SvrCfg{
		Log:     log,
		Addr:    cfg.Addr,
		Timeout: cfg.Timeout,
		Runtime: lab.NewRuntime(fsys),
	}
	return sCfg, nil
}

func (cfg *config) setting() (*setting.LabSetting, error) {
	raw := configs.Default()
	if cfg.Config != "" {
		bs, err := os.ReadFile(cfg.Config)
		if err != nil {
			return nil, err
		}
		raw = bs
	}
	ls, err := setting.GetLabSettingByYAML(raw)
	if err != nil {
		return nil, err
	}
	if cfg.Mode != "" {
		if ls.Mode, err = engine.ParseMode(cfg.Mode); err != nil {
			return nil, err
		}
	}
	return ls, nil
}
