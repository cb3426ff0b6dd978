package v1

import (
	"context"
	"net/http"

	"github.com/zintix-labs/qplant/dto"
	"github.com/zintix-labs/qplant/server/httperr"
	"github.com/zintix-labs/qplant/server/svrcfg"
)

// Agreement GET/POST /v1/agreement：重複模擬並與解析解比較
//
// 收斂檢驗較耗時，期限使用 svrcfg.MaxTimeout 而非一般請求的期限。
func (h *LabHandler) Agreement(w http.ResponseWriter, q *http.Request) {
	req, err := dto.DecodeAgreementRequest(q)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(q.Context(), max(h.timeout, svrcfg.MaxTimeout))
	defer cancel()

	rep, used, seed, err := h.rt.Agreement(ctx, req.Theta1, req.Theta2, req.Runs, req.Workers, req.Seed)
	if err != nil {
		httperr.Log(h.sCfg.Log, "agreement", err)
		httperr.Errs(w, err)
		return
	}
	writeJSON(w, dto.NewAgreementResult(seed, used, rep))
}
