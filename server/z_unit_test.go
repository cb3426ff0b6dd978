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

package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zintix-labs/qplant"
	"github.com/zintix-labs/qplant/engine"
	_ "github.com/zintix-labs/qplant/qsim"
	"github.com/zintix-labs/qplant/server"
	"github.com/zintix-labs/qplant/server/httperr"
	"github.com/zintix-labs/qplant/server/svrcfg"
	"github.com/zintix-labs/qplant/setting"
	"github.com/zintix-labs/qplant/stats"
)

func newTestServer(t *testing.T, mode engine.Mode) (*httptest.Server, *qplant.Runtime) {
	t.Helper()
	ls := setting.Default()
	ls.Mode = mode
	ls.Seed = 11
	log := slog.New(slog.DiscardHandler)
	lab, err := qplant.New(ls, log)
	require.NoError(t, err)
	rt := lab.NewRuntime(nil)
	svr, err := server.Build(&svrcfg.SvrCfg{Log: log, Runtime: rt})
	require.NoError(t, err)
	ts := httptest.NewServer(svr.Handler())
	t.Cleanup(ts.Close)
	return ts, rt
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if v != nil {
		require.NoError(t, json.Unmarshal(b, v), string(b))
	}
	return resp.StatusCode
}

func postJSON(t *testing.T, url string, body any, v any) int {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if v != nil {
		require.NoError(t, json.Unmarshal(b, v), string(b))
	}
	return resp.StatusCode
}

func TestSingleByPH(t *testing.T) {
	ts, _ := newTestServer(t, engine.ModeClosedForm)

	var low qplant.SingleResult
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/v1/single?ph=4", &low))
	assert.Equal(t, engine.ModeClosedForm, low.Mode)
	assert.Equal(t, 1.0, low.Probs.P0)
	assert.Equal(t, 0.0, low.Probs.P1)
	assert.Equal(t, "maize", low.Crop.String())
	assert.Contains(t, low.Diagram, "RY")

	var high qplant.SingleResult
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/v1/single?ph=8", &high))
	assert.Equal(t, 0.0, high.Probs.P0)
	assert.Equal(t, 1.0, high.Probs.P1)
	assert.Equal(t, "soybean", high.Crop.String())
}

func TestJointByAngleAndMeasurement(t *testing.T) {
	ts, _ := newTestServer(t, engine.ModeClosedForm)

	var byMeasure qplant.JointResult
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/v1/joint?ph=6&n=50", &byMeasure))
	for _, k := range engine.Outcomes {
		assert.Equal(t, 0.25, byMeasure.Probs[k], k)
	}

	var byAngle qplant.JointResult
	require.Equal(t, http.StatusOK, postJSON(t, ts.URL+"/v1/joint", map[string]any{"theta1": 3.141592653589793, "theta2": 0}, &byAngle))
	assert.InDelta(t, 1.0, byAngle.Probs["10"], 1e-12)
	assert.Len(t, byAngle.Probs, 4)
}

func TestInvalidMeasurementRejected(t *testing.T) {
	ts, _ := newTestServer(t, engine.ModeClosedForm)

	var body httperr.Body
	require.Equal(t, http.StatusBadRequest, getJSON(t, ts.URL+"/v1/single?theta=NaN", &body))
	assert.True(t, body.Invalid)
	assert.Equal(t, "warn", body.Level)

	require.Equal(t, http.StatusBadRequest, getJSON(t, ts.URL+"/v1/joint?ph=6&n=Inf", &body))
	assert.True(t, body.Invalid)

	// 缺少 nitrogen
	require.Equal(t, http.StatusBadRequest, getJSON(t, ts.URL+"/v1/joint?ph=6", &body))
	assert.False(t, body.Invalid)

	// 未知欄位
	require.Equal(t, http.StatusBadRequest, postJSON(t, ts.URL+"/v1/single", map[string]any{"pH_value": 6}, &body))
}

func TestModeAndDataset(t *testing.T) {
	ts, _ := newTestServer(t, engine.ModeClosedForm)

	var info struct {
		Mode     string   `json:"mode"`
		Backends []string `json:"backends"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/v1/mode", &info))
	assert.Equal(t, "closed", info.Mode)
	assert.Contains(t, info.Backends, "statevector")

	var ds struct {
		Source    string          `json:"source"`
		Samples   int             `json:"samples"`
		Agreement float64         `json:"agreement"`
		Advice    []qplant.Advice `json:"advice"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/v1/dataset", &ds))
	assert.Equal(t, "synthetic", ds.Source)
	assert.Equal(t, 40, ds.Samples)
	assert.Len(t, ds.Advice, 40)
	assert.GreaterOrEqual(t, ds.Agreement, 0.0)
	assert.LessOrEqual(t, ds.Agreement, 1.0)
}

func TestAgreementEndpoint(t *testing.T) {
	ts, _ := newTestServer(t, engine.ModeSimulated)

	req := map[string]any{"theta1": 1.5707963267948966, "theta2": 1.5707963267948966, "runs": 16, "workers": 4, "seed": 5}
	var first, second struct {
		Seed   int64                  `json:"seed"`
		Report *stats.AgreementReport `json:"report"`
	}
	require.Equal(t, http.StatusOK, postJSON(t, ts.URL+"/v1/agreement", req, &first))
	require.Equal(t, http.StatusOK, postJSON(t, ts.URL+"/v1/agreement", req, &second))
	assert.Equal(t, int64(5), first.Seed)
	require.NotNil(t, first.Report)
	assert.Equal(t, 16, first.Report.Summary.Runs)
	assert.Equal(t, 16*engine.DefaultShots, first.Report.Summary.Total)
	assert.Equal(t, first.Report.Summary.MAE, second.Report.Summary.MAE)

	var body httperr.Body
	require.Equal(t, http.StatusBadRequest, getJSON(t, ts.URL+"/v1/agreement?theta1=1&theta2=1&runs=0", &body))
}

func TestStatEndpoint(t *testing.T) {
	ts, _ := newTestServer(t, engine.ModeClosedForm)

	req := map[string]any{
		"theta1": 1.5707963267948966,
		"theta2": 1.5707963267948966,
		"shots":  100,
		"runs": []map[string]int{
			{"00": 25, "01": 24, "10": 26, "11": 25},
			{"00": 26, "01": 25, "10": 25, "11": 24},
		},
	}
	var rep stats.AgreementReport
	require.Equal(t, http.StatusOK, postJSON(t, ts.URL+"/v1/stat", req, &rep))
	assert.Equal(t, "external", rep.Summary.Backend)
	assert.Equal(t, 2, rep.Summary.Runs)
	assert.Equal(t, 200, rep.Summary.Total)
	assert.True(t, rep.Summary.Converged)

	bad := map[string]any{"theta1": 0, "theta2": 0, "shots": 10, "runs": []map[string]int{{"00": 5, "2": 5}}}
	require.Equal(t, http.StatusBadRequest, postJSON(t, ts.URL+"/v1/stat", bad, nil))

	short := map[string]any{"theta1": 0, "theta2": 0, "shots": 10, "runs": []map[string]int{{"00": 5}}}
	require.Equal(t, http.StatusBadRequest, postJSON(t, ts.URL+"/v1/stat", short, nil))
}

func TestClosedRuntime(t *testing.T) {
	ts, rt := newTestServer(t, engine.ModeClosedForm)
	rt.Close()

	var body httperr.Body
	require.Equal(t, http.StatusInternalServerError, getJSON(t, ts.URL+"/v1/single?ph=5", &body))
	assert.Equal(t, "fatal", body.Level)
	assert.True(t, rt.Closed())
	assert.Equal(t, "closed", rt.ClosedReason())
}

func TestCompressionAndIndex(t *testing.T) {
	ts, _ := newTestServer(t, engine.ModeClosedForm)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/", nil)
	require.NoError(t, err)
	req.Header.Set("Accept-Encoding", "gzip")
	resp, err := http.DefaultTransport.RoundTrip(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "gzip", resp.Header.Get("Content-Encoding"))

	resp2, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp2.StatusCode)
	assert.Empty(t, resp2.Header.Get("Content-Encoding"))
}
