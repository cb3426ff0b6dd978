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

package recorder_test

import (
	"errors"
	"math"
	"testing"

	"github.com/zintix-labs/qplant/engine"
	"github.com/zintix-labs/qplant/errs"
	"github.com/zintix-labs/qplant/recorder"
)

func TestRecordAndDone(t *testing.T) {
	r, err := recorder.NewShotRecorder("fake", math.Pi/2, math.Pi/2, 8)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	dev, err := r.Record(engine.Counts{"00": 2, "01": 2, "10": 2, "11": 2})
	if err != nil || dev != 0 {
		t.Fatalf("uniform run got dev=%v err=%v", dev, err)
	}
	dev, err = r.Record(engine.Counts{"00": 4, "01": 2, "10": 2, "11": 0})
	if err != nil || dev != 0.25 {
		t.Fatalf("skewed run got dev=%v err=%v", dev, err)
	}
	if _, err := r.Record(engine.Counts{"00": 1}); err == nil {
		t.Fatalf("short counts should fail")
	}

	rep := r.Done()
	if rep.Summary.Runs != 2 || rep.Summary.Total != 16 {
		t.Fatalf("runs=%d total=%d", rep.Summary.Runs, rep.Summary.Total)
	}
	if rep.Outcomes[0].Observed != 6 || rep.Outcomes[3].Observed != 2 {
		t.Fatalf("outcomes %+v", rep.Outcomes)
	}
	if rep.Dist.DevCollect[0] != 1 || rep.Dist.DevCollect[len(rep.Dist.DevCollect)-1] != 1 {
		t.Fatalf("dev buckets %v", rep.Dist.DevCollect)
	}
}

func TestMerge(t *testing.T) {
	a, _ := recorder.NewShotRecorder("fake", 1, 2, 4)
	b, _ := recorder.NewShotRecorder("fake", 1, 2, 4)
	_, _ = a.Record(engine.Counts{"00": 4})
	_, _ = b.Record(engine.Counts{"11": 4})
	_, _ = b.Record(engine.Counts{"01": 1, "10": 3})

	m, err := recorder.MergeShotRecorder([]*recorder.ShotRecorder{a, b})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if m.Basic.Runs != 3 {
		t.Fatalf("runs got %d", m.Basic.Runs)
	}
	if m.Basic.Counts != [4]int{4, 1, 3, 4} {
		t.Fatalf("counts got %v", m.Basic.Counts)
	}

	c, _ := recorder.NewShotRecorder("fake", 1, 2, 8)
	if _, err := recorder.MergeShotRecorder([]*recorder.ShotRecorder{a, c}); err == nil {
		t.Fatalf("different shots should not merge")
	}
	if _, err := recorder.MergeShotRecorder(nil); err == nil {
		t.Fatalf("empty merge should fail")
	}
}

func TestNewShotRecorderRejects(t *testing.T) {
	if _, err := recorder.NewShotRecorder("fake", 1, 1, 0); err == nil {
		t.Fatalf("zero shots should fail")
	}
	_, err := recorder.NewShotRecorder("fake", math.NaN(), 1, 8)
	if !errors.Is(err, errs.ErrInvalidMeasurement) {
		t.Fatalf("NaN angle should be invalid measurement, got %v", err)
	}
}

func TestExpectedMatchesClosedForm(t *testing.T) {
	r, _ := recorder.NewShotRecorder("fake", 0, math.Pi, 8)
	exp := r.Expected()
	if exp["01"] != 1 || exp["00"] != 0 {
		t.Fatalf("expected %v", exp)
	}
}
