package v1

import (
	"context"
	"net/http"

	"github.com/zintix-labs/qplant/dto"
	"github.com/zintix-labs/qplant/server/httperr"
)

// Dataset GET /v1/dataset：載入資料集並逐筆比較古典門檻與量子建議
func (h *LabHandler) Dataset(w http.ResponseWriter, q *http.Request) {
	ctx, cancel := context.WithTimeout(q.Context(), h.timeout)
	defer cancel()

	ds, err := h.rt.Dataset(ctx)
	if err != nil {
		httperr.Log(h.sCfg.Log, "dataset", err)
		httperr.Errs(w, err)
		return
	}
	advice, err := h.rt.AdviseDataset(ctx, ds)
	if err != nil {
		httperr.Log(h.sCfg.Log, "dataset advise", err)
		httperr.Errs(w, err)
		return
	}
	writeJSON(w, dto.NewDatasetResult(ds.Source, h.rt.Lab().Mode(), advice))
}
