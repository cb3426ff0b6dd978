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

package setting_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zintix-labs/qplant/configs"
	"github.com/zintix-labs/qplant/engine"
	"github.com/zintix-labs/qplant/errs"
	"github.com/zintix-labs/qplant/setting"
)

func TestEmbeddedDefault(t *testing.T) {
	ls, err := setting.GetLabSettingByYAML(configs.Default())
	require.NoError(t, err)
	assert.Equal(t, engine.ModeAuto, ls.Mode)
	assert.Equal(t, engine.DefaultBackend, ls.Backend)
	assert.Equal(t, 1024, ls.Shots)
	assert.Equal(t, "crop.csv", ls.Dataset.Path)
	assert.Equal(t, int64(42), ls.Dataset.Seed)

	// pH=4 → 0, pH=8 → π
	ph := ls.PHChannel()
	assert.Equal(t, 0.0, ph.Angle(4))
	assert.InDelta(t, math.Pi, ph.Angle(8), 1e-15)
	assert.InDelta(t, math.Pi/2, ls.NitrogenChannel().Angle(50), 1e-15)
}

func TestEmptyYAMLUsesDefaults(t *testing.T) {
	ls, err := setting.GetLabSettingByYAML(nil)
	require.NoError(t, err)
	assert.Equal(t, setting.Default(), ls)
}

func TestRoundTrip(t *testing.T) {
	in := setting.Default()
	in.Mode = engine.ModeClosedForm
	in.Seed = 9
	bs, err := in.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(bs), "mode: closed")

	out, err := setting.GetLabSettingByYAML(bs)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestJSON(t *testing.T) {
	ls, err := setting.GetLabSettingByJSON([]byte(`{"mode":"simulated","shots":2048,"channels":{"nitrogen":{"max_ref":200}}}`))
	require.NoError(t, err)
	assert.Equal(t, engine.ModeSimulated, ls.Mode)
	assert.Equal(t, 2048, ls.Shots)
	assert.Equal(t, 200.0, ls.NitrogenChannel().HalfWidth)

	opts := ls.EngineOptions()
	assert.Equal(t, engine.ModeSimulated, opts.Mode)
	assert.Equal(t, 2048, opts.Shots)
}

func TestInvalid(t *testing.T) {
	cases := map[string]string{
		"half width":  "channels:\n  ph:\n    center: 5\n    half_width: 0\n",
		"shots":       "shots: -3\n",
		"nitrogen":    "channels:\n  nitrogen:\n    max_ref: -1\n",
		"mode":        "mode: quantum\n",
		"unknown key": "modes: auto\n",
		"samples":     "dataset:\n  samples: -1\n",
	}
	for name, y := range cases {
		_, err := setting.GetLabSettingByYAML([]byte(y))
		require.Error(t, err, name)
		assert.NotEqual(t, errs.None, errs.LevelOf(err), name)
	}

	_, err := setting.GetLabSettingByJSON([]byte(`{"shots":1,"extra":true}`))
	assert.Error(t, err)
}
