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

package demo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zintix-labs/qplant/classical"
)

func TestDemoDataset(t *testing.T) {
	lab, err := NewLab()
	require.NoError(t, err)

	ds, err := lab.Dataset(Data())
	require.NoError(t, err)
	assert.Equal(t, DataFile, ds.Source)
	assert.Len(t, ds.Samples, 24)

	// 示範樣本的標籤依門檻產生，古典決策應全對
	pred := classical.DecideAll(ds.Features())
	assert.Equal(t, 1.0, classical.Accuracy(pred, ds.Labels()))
	assert.Len(t, lab.AdviseAll(ds), 24)
}

func TestDemoServerConfig(t *testing.T) {
	sCfg, err := NewServerConfig()
	require.NoError(t, err)
	require.NoError(t, sCfg.Vaild())
	assert.False(t, sCfg.Runtime.Closed())
}
