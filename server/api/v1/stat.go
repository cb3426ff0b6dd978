package v1

import (
	"net/http"

	"github.com/zintix-labs/qplant/dto"
	"github.com/zintix-labs/qplant/engine"
	"github.com/zintix-labs/qplant/errs"
	"github.com/zintix-labs/qplant/recorder"
	"github.com/zintix-labs/qplant/server/httperr"
)

// Stat POST /v1/stat：把外部取得的量測次數（例如實機）與解析解比較，回傳一致性報告
func Stat(w http.ResponseWriter, r *http.Request) {
	req, err := dto.DecodeStatRequest(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	rec, err := recorder.NewShotRecorder(req.Backend, req.Theta1, req.Theta2, req.Shots)
	if err != nil {
		// shots 與角度都是請求參數
		httperr.Errs(w, errs.NewWarn(err.Error()))
		return
	}
	for i, run := range req.Runs {
		counts := make(engine.Counts, len(engine.Outcomes))
		for k, n := range run {
			if !isOutcome(k) {
				httperr.Errs(w, errs.Warnf("run %d: unknown outcome %q", i, k))
				return
			}
			if n < 0 {
				httperr.Errs(w, errs.Warnf("run %d: negative count for %q", i, k))
				return
			}
			counts[k] = n
		}
		if _, err := rec.Record(counts); err != nil {
			httperr.Errs(w, errs.Warnf("run %d: %v", i, err))
			return
		}
	}
	writeJSON(w, rec.Done())
}

func isOutcome(k string) bool {
	for _, o := range engine.Outcomes {
		if o == k {
			return true
		}
	}
	return false
}
