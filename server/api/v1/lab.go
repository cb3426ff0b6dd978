package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/zintix-labs/qplant"
	"github.com/zintix-labs/qplant/dto"
	"github.com/zintix-labs/qplant/errs"
	"github.com/zintix-labs/qplant/server/httperr"
	"github.com/zintix-labs/qplant/server/svrcfg"
)

// ============================================================
// ** LabHandler **
// ============================================================

// LabHandler 對外提供機率計算、資料集建議與收斂檢驗
type LabHandler struct {
	rt      *qplant.Runtime
	sCfg    *svrcfg.SvrCfg
	timeout time.Duration
}

func NewLabHandler(sCfg *svrcfg.SvrCfg) (*LabHandler, error) {
	if sCfg == nil || sCfg.Runtime == nil {
		return nil, errs.NewFatal("build lab handler error: runtime is required")
	}
	return &LabHandler{rt: sCfg.Runtime, sCfg: sCfg, timeout: sCfg.Timeout}, nil
}

// Single GET/POST /v1/single
func (h *LabHandler) Single(w http.ResponseWriter, q *http.Request) {
	req, err := dto.DecodeMeasureRequest(q)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	v, byAngle, err := req.SingleInput()
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(q.Context(), h.timeout)
	defer cancel()

	var res qplant.SingleResult
	if byAngle {
		res, err = h.rt.Single(ctx, v)
	} else {
		res, err = h.rt.SingleByPH(ctx, v)
	}
	if err != nil {
		httperr.Log(h.sCfg.Log, "single", err)
		httperr.Errs(w, err)
		return
	}
	writeJSON(w, res)
}

// Joint GET/POST /v1/joint
func (h *LabHandler) Joint(w http.ResponseWriter, q *http.Request) {
	req, err := dto.DecodeMeasureRequest(q)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	a, b, byAngle, err := req.JointInput()
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(q.Context(), h.timeout)
	defer cancel()

	var res qplant.JointResult
	if byAngle {
		res, err = h.rt.Joint(ctx, a, b)
	} else {
		res, err = h.rt.JointByPHN(ctx, a, b)
	}
	if err != nil {
		httperr.Log(h.sCfg.Log, "joint", err)
		httperr.Errs(w, err)
		return
	}
	writeJSON(w, res)
}

// Mode GET /v1/mode
func (h *LabHandler) Mode(w http.ResponseWriter, q *http.Request) {
	writeJSON(w, dto.NewModeInfo(h.rt.Lab()))
}

// writeJSON 先編碼到記憶體，保證不會寫到一半才 error
func writeJSON(w http.ResponseWriter, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		httperr.Errs(w, errs.Wrap(err, "encode response"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(append(b, '\n'))
}
