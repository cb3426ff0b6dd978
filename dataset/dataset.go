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

// Package dataset 載入土壤樣本（pH、氮、作物標籤）。
//
// 檔案不存在時以固定 seed 產生合成資料，讓 demo 與測試不依賴外部檔案。
package dataset

import (
	"encoding/csv"
	"errors"
	"io"
	"io/fs"
	"strconv"
	"strings"

	"github.com/zintix-labs/qplant/errs"
	"github.com/zintix-labs/qplant/sdk/core"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// DefaultSamples 合成資料的預設筆數
	DefaultSamples int = 40
	// DefaultSeed 合成資料的預設 seed
	DefaultSeed int64 = 42
	// LabelThreshold 合成資料的標籤門檻：pH <= 6 為玉米
	LabelThreshold float64 = 6.0
)

// Crop 作物
type Crop uint8

const (
	Maize Crop = iota
	Soybean
)

func (c Crop) String() string {
	switch c {
	case Maize:
		return "maize"
	case Soybean:
		return "soybean"
	default:
		return "unknown"
	}
}

func (c Crop) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Crop) UnmarshalText(b []byte) error {
	*c = ParseCrop(string(b))
	return nil
}

// ParseCrop 寬鬆解析作物標籤：maize/corn/milho → Maize，soy/soybean/soja → Soybean，
// 其餘一律視為 Maize。
func ParseCrop(label string) Crop {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "maize", "corn", "milho":
		return Maize
	case "soy", "soybean", "soja":
		return Soybean
	default:
		return Maize
	}
}

// Sample 單一土壤樣本
type Sample struct {
	PH       float64 `json:"ph" yaml:"ph"`
	Nitrogen float64 `json:"nitrogen" yaml:"nitrogen"`
	Label    string  `json:"label" yaml:"label"`
	Crop     Crop    `json:"crop" yaml:"crop"`
}

// Dataset 樣本集合
type Dataset struct {
	Source  string   `json:"source"` // 檔案路徑，合成資料為 "synthetic"
	Samples []Sample `json:"samples"`
}

// Options 為 Load 的選項
type Options struct {
	Samples int   // 合成資料筆數，<= 0 使用 DefaultSamples
	Seed    int64 // 合成資料與補齊氮值用的 seed，<= 0 使用 DefaultSeed
}

func (o Options) normalize() Options {
	if o.Samples <= 0 {
		o.Samples = DefaultSamples
	}
	if o.Seed <= 0 {
		o.Seed = DefaultSeed
	}
	return o
}

// 欄位別名（小寫比對）
var (
	phHeaders       = []string{"ph", "soil_ph"}
	labelHeaders    = []string{"label", "crop", "cultura"}
	nitrogenHeaders = []string{"nitrogen", "n"}
)

// Load 從 fsys 讀取 CSV。path 為空或檔案不存在時回傳合成資料。
//
// 必要欄位為 pH 與 label/crop（不分大小寫）；缺少氮欄位時以 U(0,100) 補齊。
func Load(fsys fs.FS, path string, opts Options) (*Dataset, error) {
	opts = opts.normalize()
	if fsys == nil || path == "" {
		return Synthetic(opts.Seed, opts.Samples), nil
	}
	f, err := fsys.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Synthetic(opts.Seed, opts.Samples), nil
		}
		return nil, errs.Wrap(err, "open dataset "+path)
	}
	defer f.Close()

	ds, err := Parse(f, opts.Seed)
	if err != nil {
		return nil, err
	}
	ds.Source = path
	return ds, nil
}

// Parse 解析 CSV 內容
func Parse(r io.Reader, seed int64) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errs.Wrap(err, "read dataset csv")
	}
	if len(rows) == 0 {
		return nil, errs.NewFatal("dataset csv is empty")
	}

	header := rows[0]
	phCol := column(header, phHeaders)
	labelCol := column(header, labelHeaders)
	nCol := column(header, nitrogenHeaders)
	if phCol < 0 || labelCol < 0 {
		return nil, errs.NewWithExtra(errs.Fatal, "required columns not found (pH and label/crop)",
			"header="+strings.Join(header, ","))
	}

	var nitrogen distuv.Uniform
	if nCol < 0 {
		nitrogen = distuv.Uniform{Min: 0, Max: 100, Src: core.NewWithSeed(seed)}
	}

	ds := &Dataset{Samples: make([]Sample, 0, len(rows)-1)}
	for i, row := range rows[1:] {
		line := i + 2
		ph, err := parseField(row, phCol, "pH", line)
		if err != nil {
			return nil, err
		}
		var n float64
		if nCol >= 0 {
			if n, err = parseField(row, nCol, "nitrogen", line); err != nil {
				return nil, err
			}
		} else {
			n = nitrogen.Rand()
		}
		label := ""
		if labelCol < len(row) {
			label = strings.TrimSpace(row[labelCol])
		}
		ds.Samples = append(ds.Samples, Sample{PH: ph, Nitrogen: n, Label: label, Crop: ParseCrop(label)})
	}
	return ds, nil
}

// Synthetic 產生 n 筆合成資料：pH = linspace(4.5, 7.5, n) + N(0, 0.15)，
// pH <= 6 標為 maize，否則 soybean；氮為 U(0, 100)。相同 seed 結果相同。
func Synthetic(seed int64, n int) *Dataset {
	if n <= 0 {
		n = DefaultSamples
	}
	rng := core.NewWithSeed(seed)
	noise := distuv.Normal{Mu: 0, Sigma: 0.15, Src: rng}
	nitrogen := distuv.Uniform{Min: 0, Max: 100, Src: rng}

	ds := &Dataset{Source: "synthetic", Samples: make([]Sample, n)}
	for i, base := range linspace(4.5, 7.5, n) {
		ph := base + noise.Rand()
		label := Soybean
		if ph <= LabelThreshold {
			label = Maize
		}
		ds.Samples[i] = Sample{PH: ph, Label: label.String(), Crop: label}
	}
	for i := range ds.Samples {
		ds.Samples[i].Nitrogen = nitrogen.Rand()
	}
	return ds
}

// Features 回傳 n x 2 特徵矩陣：第 0 欄 pH，第 1 欄氮。
func (d *Dataset) Features() *mat.Dense {
	if len(d.Samples) == 0 {
		return nil
	}
	data := make([]float64, 0, 2*len(d.Samples))
	for _, s := range d.Samples {
		data = append(data, s.PH, s.Nitrogen)
	}
	return mat.NewDense(len(d.Samples), 2, data)
}

// Labels 回傳作物標籤向量
func (d *Dataset) Labels() []Crop {
	out := make([]Crop, len(d.Samples))
	for i, s := range d.Samples {
		out[i] = s.Crop
	}
	return out
}

func column(header []string, names []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for _, n := range names {
			if h == n {
				return i
			}
		}
	}
	return -1
}

func parseField(row []string, col int, name string, line int) (float64, error) {
	if col >= len(row) {
		return 0, errs.Fatalf("dataset line %d: missing %s", line, name)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
	if err != nil {
		return 0, errs.Fatalf("dataset line %d: invalid %s %q", line, name, row[col])
	}
	return v, nil
}

func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = lo
		return out
	}
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + step*float64(i)
	}
	out[n-1] = hi
	return out
}
