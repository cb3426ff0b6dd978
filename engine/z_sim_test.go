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

package engine_test

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zintix-labs/qplant/engine"
	_ "github.com/zintix-labs/qplant/qsim"
)

func simulated(t *testing.T, seed int64) engine.Engine {
	t.Helper()
	e, err := engine.Resolve(engine.Options{Mode: engine.ModeSimulated, Seed: seed})
	require.NoError(t, err)
	require.Equal(t, engine.ModeSimulated, e.Mode())
	return e
}

func TestAutoPicksSimulatedWhenRegistered(t *testing.T) {
	e, err := engine.Resolve(engine.Options{Mode: engine.ModeAuto, Seed: 1})
	require.NoError(t, err)
	assert.Equal(t, engine.ModeSimulated, e.Mode())
}

func TestSimulatedSumsAndKeys(t *testing.T) {
	e := simulated(t, 5)
	s, r := e.SingleQubit(1.2)
	assert.InDelta(t, 1.0, s.Sum(), 1e-9)
	assert.Contains(t, r.Draw(), "RY")

	j, _ := e.TwoQubit(0.3, 2.8)
	require.Len(t, j, 4)
	for _, k := range engine.Outcomes {
		_, ok := j[k]
		assert.True(t, ok)
	}
	assert.InDelta(t, 1.0, j.Sum(), 1e-9)
}

func TestSimulatedPiIsOne(t *testing.T) {
	e := simulated(t, 42)
	s, _ := e.SingleQubit(math.Pi)
	assert.GreaterOrEqual(t, s.P1, 0.95)
	assert.LessOrEqual(t, s.P1, 1.0)
}

func TestSimulatedConvergesOnAverage(t *testing.T) {
	e := simulated(t, 2025)
	const runs = 64
	t1, t2 := math.Pi/2, math.Pi/2
	var acc [4]float64
	for i := 0; i < runs; i++ {
		j, _ := e.TwoQubit(t1, t2)
		a := j.Array()
		for k := range acc {
			acc[k] += a[k]
		}
	}
	want := engine.Product(engine.Marginal(t1), engine.Marginal(t2)).Array()
	for k := range acc {
		// 64*1024 次下單一機率標準差約 0.0017
		assert.InDelta(t, want[k], acc[k]/runs, 0.01)
	}
}

func TestSimulatedConcurrentCalls(t *testing.T) {
	e := simulated(t, 9)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j, _ := e.TwoQubit(1.0, 2.0)
			assert.InDelta(t, 1.0, j.Sum(), 1e-9)
		}()
	}
	wg.Wait()
}
