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

package qplant_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zintix-labs/qplant"
	"github.com/zintix-labs/qplant/dataset"
	"github.com/zintix-labs/qplant/engine"
	"github.com/zintix-labs/qplant/errs"
	_ "github.com/zintix-labs/qplant/qsim"
	"github.com/zintix-labs/qplant/setting"
)

func newLab(t *testing.T, mode engine.Mode) *qplant.Lab {
	t.Helper()
	ls := setting.Default()
	ls.Mode = mode
	ls.Seed = 3
	lab, err := qplant.New(ls, nil)
	require.NoError(t, err)
	return lab
}

func TestPlantChoiceClosedForm(t *testing.T) {
	lab := newLab(t, engine.ModeClosedForm)
	assert.Equal(t, engine.ModeClosedForm, lab.Mode())
	assert.Empty(t, lab.Backend())

	p, c := lab.PlantChoice(4)
	assert.Equal(t, engine.Single{P0: 1, P1: 0}, p)
	assert.NotEmpty(t, c.Draw())

	p, _ = lab.PlantChoice(8)
	assert.Equal(t, engine.Single{P0: 0, P1: 1}, p)

	j, _ := lab.PlantChoice2(6, 50)
	for _, k := range engine.Outcomes {
		assert.Equal(t, 0.25, j[k], k)
	}
}

func TestPlantChoiceSimulated(t *testing.T) {
	lab := newLab(t, engine.ModeAuto)
	require.Equal(t, engine.ModeSimulated, lab.Mode())
	assert.Equal(t, "statevector", lab.Backend())

	p, _ := lab.PlantChoice(8)
	assert.InDelta(t, 1.0, p.Sum(), 1e-12)
	assert.GreaterOrEqual(t, p.P1, 0.95)

	j, _ := lab.PlantChoice2(6, 50)
	assert.Len(t, j, 4)
	assert.InDelta(t, 1.0, j.Sum(), 1e-12)
}

func TestNaNPropagates(t *testing.T) {
	for _, mode := range []engine.Mode{engine.ModeClosedForm, engine.ModeSimulated} {
		lab := newLab(t, mode)
		p, _ := lab.SingleQubitProbs(math.NaN())
		assert.True(t, math.IsNaN(p.P0) && math.IsNaN(p.P1), mode.String())
		j, _ := lab.TwoQubitProbs(math.NaN(), 1)
		assert.Len(t, j, 4)
		assert.True(t, math.IsNaN(j["00"]), mode.String())
	}
}

func TestPackageLevelDefault(t *testing.T) {
	lab, err := qplant.Default()
	require.NoError(t, err)
	again, err := qplant.Default()
	require.NoError(t, err)
	assert.Same(t, lab, again)

	p, _ := qplant.SingleQubitProbs(0)
	assert.InDelta(t, 1.0, p.Sum(), 1e-12)
	j, _ := qplant.TwoQubitProbs(0, 0)
	assert.Len(t, j, 4)
}

func TestAdviseTieGoesToMaize(t *testing.T) {
	lab := newLab(t, engine.ModeClosedForm)

	// pH 6 → θ = π/2，P0 = P1 = 0.5
	a := lab.Advise(dataset.Sample{PH: 6, Nitrogen: 50, Crop: dataset.Maize})
	assert.Equal(t, dataset.Maize, a.Quantum)
	assert.Equal(t, dataset.Maize, a.Classical)
	assert.True(t, a.Agree)

	a = lab.Advise(dataset.Sample{PH: 7.5, Nitrogen: 10, Crop: dataset.Soybean})
	assert.Equal(t, dataset.Soybean, a.Quantum)
	assert.Equal(t, dataset.Soybean, a.Classical)

	assert.Equal(t, dataset.Maize, qplant.Choose(engine.Single{P0: math.NaN(), P1: math.NaN()}))
}

func TestDatasetFromFS(t *testing.T) {
	ls := setting.Default()
	ls.Mode = engine.ModeClosedForm
	ls.Dataset.Path = "crop.csv"
	lab, err := qplant.New(ls, nil)
	require.NoError(t, err)
	fsys := fstest.MapFS{
		"crop.csv": {Data: []byte("pH,Nitrogen,Label\n5.0,20,maize\n7.0,80,soybean\n")},
	}
	ds, err := lab.Dataset(fsys)
	require.NoError(t, err)
	assert.Equal(t, "crop.csv", ds.Source)
	advice := lab.AdviseAll(ds)
	require.Len(t, advice, 2)
	for _, a := range advice {
		assert.True(t, a.Agree)
		assert.Equal(t, a.Sample.Crop, a.Quantum)
	}

	syn, err := lab.Dataset(nil)
	require.NoError(t, err)
	assert.Equal(t, "synthetic", syn.Source)
	assert.Nil(t, lab.AdviseAll(nil))
}

func TestAgreementConverges(t *testing.T) {
	lab := newLab(t, engine.ModeClosedForm)
	a, err := lab.NewAgreement(17)
	require.NoError(t, err)
	assert.Equal(t, int64(17), a.Seed())

	rep, _, err := a.Run(math.Pi/2, math.Pi/2, 64, 4, false)
	require.NoError(t, err)
	assert.Equal(t, 64, rep.Summary.Runs)
	assert.Equal(t, 64*engine.DefaultShots, rep.Summary.Total)
	assert.Less(t, rep.Summary.MAE, 0.01)
	assert.True(t, rep.Converged())

	again, _, err := a.Run(math.Pi/2, math.Pi/2, 64, 4, false)
	require.NoError(t, err)
	assert.Equal(t, rep.Summary.MAE, again.Summary.MAE)
	assert.Equal(t, rep.Summary.ChiSq, again.Summary.ChiSq)
}

func TestAgreementRejectsInput(t *testing.T) {
	lab := newLab(t, engine.ModeSimulated)
	a, err := lab.NewAgreement(1)
	require.NoError(t, err)

	_, _, err = a.Run(math.NaN(), 0, 4, 1, false)
	assert.True(t, errors.Is(err, errs.ErrInvalidMeasurement))
	assert.Equal(t, errs.Warn, errs.LevelOf(err))

	_, _, err = a.Run(0, 0, 0, 1, false)
	assert.Equal(t, errs.Warn, errs.LevelOf(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = a.RunContext(ctx, 0, 0, 8, 2, false)
	assert.Error(t, err)
}

func TestAgreementWorkersCapped(t *testing.T) {
	lab := newLab(t, engine.ModeClosedForm)
	rt := lab.NewRuntime(nil)
	ctx := context.Background()

	huge, _, seed, err := rt.Agreement(ctx, 1, 2, 256, 1<<30, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), seed)
	assert.Equal(t, 256, huge.Summary.Runs)

	capped, _, _, err := rt.Agreement(ctx, 1, 2, 256, qplant.MaxWorkers, 7)
	require.NoError(t, err)
	assert.Equal(t, capped.Summary.MAE, huge.Summary.MAE)
	assert.Equal(t, capped.Summary.ChiSq, huge.Summary.ChiSq)
}

func TestAgreementWithoutBackend(t *testing.T) {
	ls := setting.Default()
	ls.Mode = engine.ModeClosedForm
	ls.Backend = "no-such-backend"
	lab, err := qplant.New(ls, nil)
	require.NoError(t, err)

	_, err = lab.NewAgreement(1)
	assert.Equal(t, errs.Fatal, errs.LevelOf(err))
}

func TestRuntime(t *testing.T) {
	lab := newLab(t, engine.ModeClosedForm)
	rt := lab.NewRuntime(nil)
	ctx := context.Background()

	s, err := rt.SingleByPH(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, dataset.Soybean, s.Crop)

	_, err = rt.Single(ctx, math.NaN())
	assert.True(t, errors.Is(err, errs.ErrInvalidMeasurement))

	j, err := rt.JointByPHN(ctx, 6, 50)
	require.NoError(t, err)
	assert.Equal(t, 0.25, j.Probs["11"])

	advice, err := rt.Advise(ctx)
	require.NoError(t, err)
	assert.Len(t, advice, dataset.DefaultSamples)

	ds, err := rt.Dataset(ctx)
	require.NoError(t, err)
	again, err := rt.AdviseDataset(ctx, ds)
	require.NoError(t, err)
	assert.Equal(t, advice, again)
	_, err = rt.AdviseDataset(ctx, nil)
	assert.Equal(t, errs.Warn, errs.LevelOf(err))

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = rt.Joint(canceled, 0, 0)
	assert.Equal(t, errs.Warn, errs.LevelOf(err))

	rt.Close()
	rt.Close()
	_, err = rt.Single(ctx, 0)
	assert.Equal(t, errs.Fatal, errs.LevelOf(err))
	assert.True(t, rt.Closed())
}
