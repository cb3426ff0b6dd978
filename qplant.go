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

// Package qplant 提供 Lab 的「組裝入口（assembler）」與「運行入口（runtime entry）」。
//
// Lab 把下列地基組裝在一起：
//  1. LabSetting：執行模式、量測通道、資料來源等設定（YAML/JSON，預設內建於 configs）。
//  2. Engine：啟動時由 engine.Resolve 決定一次的機率引擎（模擬或解析解）。
//  3. Channel：pH 與氮的角度編碼參數。
//
// 模擬後端以 blank import 登記：
//
//	import _ "github.com/zintix-labs/qplant/qsim"
//
// 沒有匯入時 ModeAuto 會永久退回解析解，呼叫端只能透過 circuit.Renderable 與 Mode() 得知差異。
//
// Lab 建立後不再變更，所有方法皆可被多個 goroutine 同時呼叫。
package qplant

import (
	"io/fs"
	"log/slog"
	"sync"

	"github.com/zintix-labs/qplant/circuit"
	"github.com/zintix-labs/qplant/classical"
	"github.com/zintix-labs/qplant/configs"
	"github.com/zintix-labs/qplant/dataset"
	"github.com/zintix-labs/qplant/encoding"
	"github.com/zintix-labs/qplant/engine"
	"github.com/zintix-labs/qplant/errs"
	"github.com/zintix-labs/qplant/setting"
)

// Lab 是組裝完成、唯讀的執行入口。
type Lab struct {
	set *setting.LabSetting
	eng engine.Engine
	ph  encoding.Channel
	n   encoding.Channel
	log *slog.Logger
}

// New 建立一個 Lab instance，並在此時決定執行模式。
//
//   - ls 為 nil 時使用 setting.Default()。
//   - log 為 nil 時靜默。
func New(ls *setting.LabSetting, log *slog.Logger) (*Lab, error) {
	if ls == nil {
		ls = setting.Default()
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	opts := ls.EngineOptions()
	opts.Log = log
	eng, err := engine.Resolve(opts)
	if err != nil {
		return nil, err
	}
	cp := *ls
	return &Lab{
		set: &cp,
		eng: eng,
		ph:  ls.PHChannel(),
		n:   ls.NitrogenChannel(),
		log: log,
	}, nil
}

// NewByYAML 以 YAML 設定建立 Lab
func NewByYAML(raw []byte, log *slog.Logger) (*Lab, error) {
	ls, err := setting.GetLabSettingByYAML(raw)
	if err != nil {
		return nil, err
	}
	return New(ls, log)
}

var (
	defaultOnce sync.Once
	defaultLab  *Lab
	defaultErr  error
)

// Default 回傳以內建設定建立的行程共用 Lab。
//
// 第一次呼叫時才決定執行模式，之後不再重新探測。
func Default() (*Lab, error) {
	defaultOnce.Do(func() {
		defaultLab, defaultErr = NewByYAML(configs.Default(), slog.Default())
	})
	return defaultLab, defaultErr
}

// SingleQubitProbs 使用 Default() 的引擎；Default 失敗時退回解析解。
func SingleQubitProbs(theta float64) (engine.Single, circuit.Renderable) {
	return defaultEngine().SingleQubit(theta)
}

// TwoQubitProbs 使用 Default() 的引擎；Default 失敗時退回解析解。
func TwoQubitProbs(theta1, theta2 float64) (engine.Joint, circuit.Renderable) {
	return defaultEngine().TwoQubit(theta1, theta2)
}

func defaultEngine() engine.Engine {
	lab, err := Default()
	if err != nil {
		return engine.NewClosedForm()
	}
	return lab.eng
}

func (l *Lab) Engine() engine.Engine {
	return l.eng
}

func (l *Lab) Mode() engine.Mode {
	return l.eng.Mode()
}

// Backend 回傳實際使用的模擬後端名稱；解析解回傳空字串。
func (l *Lab) Backend() string {
	if s, ok := l.eng.(*engine.Simulated); ok {
		return s.Backend().Name()
	}
	return ""
}

// Setting 回傳設定的副本
func (l *Lab) Setting() setting.LabSetting {
	return *l.set
}

func (l *Lab) Logger() *slog.Logger {
	return l.log
}

func (l *Lab) PHChannel() encoding.Channel {
	return l.ph
}

func (l *Lab) NitrogenChannel() encoding.Channel {
	return l.n
}

// SingleQubitProbs 回傳單一 qubit 在 RY(theta) 後的分布 (p0, p1) 與電路描述。
func (l *Lab) SingleQubitProbs(theta float64) (engine.Single, circuit.Renderable) {
	return l.eng.SingleQubit(theta)
}

// TwoQubitProbs 回傳兩個獨立 qubit 的聯合分布（固定四個鍵）與電路描述。
func (l *Lab) TwoQubitProbs(theta1, theta2 float64) (engine.Joint, circuit.Renderable) {
	return l.eng.TwoQubit(theta1, theta2)
}

// PlantChoice 以 pH 編碼成角度後計算分布：P0 對應玉米，P1 對應大豆。
func (l *Lab) PlantChoice(ph float64) (engine.Single, circuit.Renderable) {
	return l.eng.SingleQubit(l.ph.Angle(ph))
}

// PlantChoice2 以 pH（qubit 0）與氮（qubit 1）計算聯合分布。
func (l *Lab) PlantChoice2(ph, nitrogen float64) (engine.Joint, circuit.Renderable) {
	return l.eng.TwoQubit(l.ph.Angle(ph), l.n.Angle(nitrogen))
}

// Advice 單一樣本的古典與量子建議並列
type Advice struct {
	Sample    dataset.Sample `json:"sample"`
	Theta1    float64        `json:"theta1"`
	Theta2    float64        `json:"theta2"`
	Classical dataset.Crop   `json:"classical"`
	Probs     engine.Single  `json:"probs"`
	Joint     engine.Joint   `json:"joint"`
	Quantum   dataset.Crop   `json:"quantum"`
	Agree     bool           `json:"agree"`
}

// Advise 對單一樣本給出古典門檻決策、量子分布與量子決策。
//
// 量子決策取機率較大者，平手（含 NaN）時為玉米。
func (l *Lab) Advise(s dataset.Sample) Advice {
	t1, t2 := l.ph.Angle(s.PH), l.n.Angle(s.Nitrogen)
	single, _ := l.eng.SingleQubit(t1)
	joint, _ := l.eng.TwoQubit(t1, t2)
	a := Advice{
		Sample:    s,
		Theta1:    t1,
		Theta2:    t2,
		Classical: classical.Decide(s.PH),
		Probs:     single,
		Joint:     joint,
		Quantum:   Choose(single),
	}
	a.Agree = a.Classical == a.Quantum
	return a
}

// AdviseAll 對整份資料逐筆 Advise
func (l *Lab) AdviseAll(ds *dataset.Dataset) []Advice {
	if ds == nil {
		return nil
	}
	out := make([]Advice, len(ds.Samples))
	for i, s := range ds.Samples {
		out[i] = l.Advise(s)
	}
	return out
}

// Dataset 依設定從 fsys 載入樣本；fsys 為 nil 或檔案不存在時使用合成資料。
func (l *Lab) Dataset(fsys fs.FS) (*dataset.Dataset, error) {
	ds, err := dataset.Load(fsys, l.set.Dataset.Path, dataset.Options{
		Samples: l.set.Dataset.Samples,
		Seed:    l.set.Dataset.Seed,
	})
	if err != nil {
		return nil, errs.Wrap(err, "load dataset")
	}
	l.log.Debug("dataset loaded", slog.String("source", ds.Source), slog.Int("samples", len(ds.Samples)))
	return ds, nil
}

// Choose 取機率較大的作物：P1 > P0 為大豆，平手或 NaN 為玉米。
func Choose(s engine.Single) dataset.Crop {
	if s.P1 > s.P0 {
		return dataset.Soybean
	}
	return dataset.Maize
}
