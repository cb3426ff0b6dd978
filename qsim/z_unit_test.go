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

package qsim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zintix-labs/qplant/circuit"
	"github.com/zintix-labs/qplant/engine"
	"github.com/zintix-labs/qplant/sdk/core"
)

func TestRegisteredOnImport(t *testing.T) {
	b, ok := engine.Probe(engine.DefaultBackend)
	require.True(t, ok)
	assert.Equal(t, "statevector", b.Name())
}

func TestStateVectorRY(t *testing.T) {
	sv := NewStateVector(1)
	sv.ApplyRY(0, math.Pi/3)
	p := sv.Probabilities()
	want := engine.Marginal(math.Pi / 3)
	assert.InDelta(t, want.P0, p[0], 1e-12)
	assert.InDelta(t, want.P1, p[1], 1e-12)
	assert.InDelta(t, 1, sv.Norm(), 1e-12)
}

func TestStateVectorTwoQubitProduct(t *testing.T) {
	t1, t2 := 0.7, 2.1
	sv := NewStateVector(2)
	sv.ApplyRY(0, t1)
	sv.ApplyRY(1, t2)
	p := sv.Probabilities()
	want := engine.Product(engine.Marginal(t1), engine.Marginal(t2))
	// 基底索引 bit0 = qubit 0，標籤字首為 qubit 0
	assert.InDelta(t, want["00"], p[0b00], 1e-12)
	assert.InDelta(t, want["10"], p[0b01], 1e-12)
	assert.InDelta(t, want["01"], p[0b10], 1e-12)
	assert.InDelta(t, want["11"], p[0b11], 1e-12)
}

func TestRunAllLabelsPresent(t *testing.T) {
	rng := core.NewWithSeed(11)
	counts, err := Backend{}.Run(circuit.Encoding(0, 0), 1024, rng)
	require.NoError(t, err)
	require.Len(t, counts, 4)
	assert.Equal(t, 1024, counts["00"])
	for _, k := range []string{"01", "10", "11"} {
		v, ok := counts[k]
		assert.True(t, ok, "label %s must be present", k)
		assert.Zero(t, v)
	}
}

func TestRunLabelOrder(t *testing.T) {
	// qubit 0 轉到 |1⟩，qubit 1 留在 |0⟩ → 標籤 "10"
	counts, err := Backend{}.Run(circuit.Encoding(math.Pi, 0), 256, core.NewWithSeed(2))
	require.NoError(t, err)
	assert.Equal(t, 256, counts["10"])
	assert.Equal(t, 256, counts.Total())
}

func TestRunRejects(t *testing.T) {
	rng := core.NewWithSeed(1)
	_, err := Backend{}.Run(nil, 10, rng)
	assert.Error(t, err)

	_, err = Backend{}.Run(circuit.Encoding(1), 0, rng)
	assert.Error(t, err)

	noMeasure := circuit.NewCircuit(1)
	require.NoError(t, noMeasure.RY(0, 1))
	_, err = Backend{}.Run(noMeasure, 10, rng)
	assert.Error(t, err)

	late := circuit.Encoding(1)
	require.NoError(t, late.RY(0, 1))
	_, err = Backend{}.Run(late, 10, rng)
	assert.Error(t, err)

	_, err = Backend{}.Run(circuit.Encoding(math.NaN()), 10, rng)
	assert.Error(t, err)
}

func TestRunDeterministicForSeed(t *testing.T) {
	c := circuit.Encoding(1.1, 2.2)
	a, err := Backend{}.Run(c, 1024, core.NewWithSeed(99))
	require.NoError(t, err)
	b, err := Backend{}.Run(c, 1024, core.NewWithSeed(99))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
