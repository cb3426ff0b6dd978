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

// Package demo 提供內建的示範樣本與一鍵組裝的 Lab / server 設定。
package demo

import (
	"embed"
	"io/fs"

	"github.com/zintix-labs/qplant"
	"github.com/zintix-labs/qplant/configs"
	"github.com/zintix-labs/qplant/errs"
	"github.com/zintix-labs/qplant/server/logger"
	"github.com/zintix-labs/qplant/server/svrcfg"
	"github.com/zintix-labs/qplant/setting"
)

// DataFile 為示範樣本檔名，與 configs/default.yaml 的 dataset.path 一致
const DataFile string = "crop.csv"

// FS 內建示範樣本
//
//go:embed crop.csv
var FS embed.FS

// Data 回傳示範樣本 FS
func Data() fs.FS {
	return FS
}

// NewLab 以內建設定建立 Lab。資料集路徑固定為示範樣本。
func NewLab() (*qplant.Lab, error) {
	ls, err := setting.GetLabSettingByYAML(configs.Default())
	if err != nil {
		return nil, err
	}
	ls.Dataset.Path = DataFile
	return qplant.New(ls, logger.NewDefaultLogger(logger.ModeSilence))
}

// NewServerConfig 回傳以示範樣本運行的 server 設定
func NewServerConfig() (*svrcfg.SvrCfg, error) {
	lab, err := NewLab()
	if err != nil {
		return nil, errs.NewFatal("new lab failed:" + err.Error())
	}
	scfg := &svrcfg.SvrCfg{
		Log:     logger.NewDefaultAsyncLogger(logger.ModeDev),
		Runtime: lab.NewRuntime(Data()),
	}
	return scfg, nil
}
