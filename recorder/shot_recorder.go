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

package recorder

import (
	"fmt"
	"math"

	"github.com/zintix-labs/qplant/engine"
	"github.com/zintix-labs/qplant/errs"
	"github.com/zintix-labs/qplant/stats"
)

// ShotRecorder 量測紀錄員
//
// ShotRecorder 負責累積多次執行的量測次數，並透過 Done 輸出一致性報告。
// 單一 ShotRecorder 不可並行寫入；每個 worker 持有自己的 recorder，最後 Merge。
type ShotRecorder struct {
	Backend string
	Theta1  float64
	Theta2  float64
	Shots   int
	Basic   *BasicRecord
	Dist    *DistRecord
	expect  engine.Joint
}

// BasicRecord 基本量測紀錄
type BasicRecord struct {
	Counts [4]int // 依 engine.Outcomes 順序
	Runs   int
}

// DistRecord 單次執行最大偏差的落點統計
type DistRecord struct {
	Bucket     *stats.DeviationBuckets
	DevCollect []int
}

func NewShotRecorder(backend string, theta1, theta2 float64, shots int) (*ShotRecorder, error) {
	s := new(ShotRecorder)
	if shots <= 0 {
		return s, errs.NewFatal(fmt.Sprintf("shots must be positive, got %d", shots))
	}
	if err := errs.CheckFinite("theta1", theta1); err != nil {
		return s, err
	}
	if err := errs.CheckFinite("theta2", theta2); err != nil {
		return s, err
	}
	// 通過valid
	s.Backend = backend
	s.Theta1 = theta1
	s.Theta2 = theta2
	s.Shots = shots
	s.Basic = new(BasicRecord)
	s.Dist = newDistRecord()
	s.expect = engine.Product(engine.Marginal(theta1), engine.Marginal(theta2))
	return s, nil
}

func MergeShotRecorder(r []*ShotRecorder) (*ShotRecorder, error) {
	if len(r) == 0 {
		return nil, errs.NewFatal("merge shot record err : empty input")
	}
	r0 := r[0]
	s, err := NewShotRecorder(r0.Backend, r0.Theta1, r0.Theta2, r0.Shots)
	if err != nil {
		return s, err
	}
	for _, v := range r {
		if v.Theta1 != r0.Theta1 || v.Theta2 != r0.Theta2 {
			return s, errs.NewFatal("merge shot record err : different angles")
		}
		if v.Shots != r0.Shots {
			return s, errs.NewFatal("merge shot record err : different shots")
		}
		if v.Backend != r0.Backend {
			return s, errs.NewFatal("merge shot record err : different backend")
		}
		for i := range s.Basic.Counts {
			s.Basic.Counts[i] += v.Basic.Counts[i]
		}
		s.Basic.Runs += v.Basic.Runs

		// 整合Dist
		for i := range len(v.Dist.DevCollect) {
			s.Dist.DevCollect[i] += v.Dist.DevCollect[i]
		}
	}
	return s, nil
}

// Record 以一次執行的次數更新紀錄，回傳該次執行的最大偏差。
//
// 次數總和必須等於 Shots。
func (s *ShotRecorder) Record(c engine.Counts) (float64, error) {
	if c.Total() != s.Shots {
		return 0, errs.Fatalf("record err : counts total %d != shots %d", c.Total(), s.Shots)
	}
	dev := 0.0
	for i, k := range engine.Outcomes {
		n := c[k]
		s.Basic.Counts[i] += n
		if d := math.Abs(float64(n)/float64(s.Shots) - s.expect[k]); d > dev {
			dev = d
		}
	}
	s.Basic.Runs++
	s.Dist.DevCollect[s.Dist.Bucket.Index(dev)]++
	return dev, nil
}

// Expected 回傳解析解的期望分布
func (s *ShotRecorder) Expected() engine.Joint {
	return s.expect
}

// Done 輸出一致性報告
func (s *ShotRecorder) Done() *stats.AgreementReport {
	exp := s.expect.Array()
	dist := make([]int, len(s.Dist.DevCollect))
	copy(dist, s.Dist.DevCollect)
	report, err := stats.NewAgreementReport(
		s.Backend, s.Theta1, s.Theta2, s.Basic.Runs, s.Shots,
		engine.Outcomes[:], exp[:], s.Basic.Counts[:], dist,
	)
	if err != nil {
		// 長度固定為 4，不會發生
		panic(err)
	}
	report.Done()
	return report
}

func newDistRecord() *DistRecord {
	d := new(DistRecord)
	d.Bucket = stats.DevBuckets
	d.DevCollect = make([]int, stats.DevBuckets.Len())
	return d
}
