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

package classical_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zintix-labs/qplant/classical"
	"github.com/zintix-labs/qplant/dataset"
	"gonum.org/v1/gonum/mat"
)

func TestDecide(t *testing.T) {
	assert.Equal(t, dataset.Maize, classical.Decide(5.9))
	assert.Equal(t, dataset.Maize, classical.Decide(6.0))
	assert.Equal(t, dataset.Soybean, classical.Decide(6.01))
	assert.Equal(t, dataset.Maize, classical.Decide(math.NaN()))
}

func TestProbs(t *testing.T) {
	assert.Equal(t, 1.0, classical.Probs(7).P1)
	assert.Equal(t, 1.0, classical.Probs(4).P0)
	p := classical.Probs(math.NaN())
	assert.True(t, math.IsNaN(p.P0) && math.IsNaN(p.P1))
}

func TestDecideAllMatchesSynthetic(t *testing.T) {
	ds := dataset.Synthetic(dataset.DefaultSeed, dataset.DefaultSamples)
	pred := classical.DecideAll(ds.Features())
	assert.Len(t, pred, dataset.DefaultSamples)
	// 合成標籤與門檻規則一致（pH <= 6 為玉米）
	assert.Equal(t, 1.0, classical.Accuracy(pred, ds.Labels()))

	m := mat.NewDense(2, 2, []float64{5, 10, 7, 20})
	assert.Equal(t, []dataset.Crop{dataset.Maize, dataset.Soybean}, classical.DecideAll(m))
	assert.Nil(t, classical.DecideAll(nil))
	assert.Zero(t, classical.Accuracy(nil, nil))
}
