package stats

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/floats"
)

var lang language.Tag = language.English

// 收斂判定時卡方檢定的最低 p-value
const minPValue float64 = 0.001

// 信賴區間
type CI struct {
	Lo float64 `json:"Lo"`
	Hi float64 `json:"Hi"`
}

// Contains 判斷 x 是否落在閉區間內
func (c CI) Contains(x float64) bool {
	return x >= c.Lo && x <= c.Hi
}

// AgreementReport 模擬路徑 vs 解析解 的一致性報告
type AgreementReport struct {
	Summary  *SummaryReport `json:"Summary"`
	Outcomes []OutcomeStat  `json:"Outcomes"`
	Dist     *DistReport    `json:"Dist"`
	isDone   bool
}

type SummaryReport struct {
	Backend   string  `json:"Backend"`
	Theta1    float64 `json:"Theta1"`
	Theta2    float64 `json:"Theta2"`
	Runs      int     `json:"Runs"`
	Shots     int     `json:"Shots"`     // 每次執行的量測次數
	Total     int     `json:"Total"`     // Runs * Shots
	MAE       float64 `json:"MAE"`       // 各結果 |估計-期望| 的平均
	MaxDev    float64 `json:"MaxDev"`    // 各結果 |估計-期望| 的最大值
	ChiSq     float64 `json:"ChiSq"`     // 卡方統計量
	DoF       int     `json:"DoF"`       // 自由度
	PValue    float64 `json:"PValue"`    // 卡方檢定 p-value
	Inside    int     `json:"Inside"`    // 期望值落在 CI 內的結果數
	Converged bool    `json:"Converged"` // 全部落在 CI 內，或 p-value >= 0.001
}

// OutcomeStat 單一量測結果的比較
type OutcomeStat struct {
	Label     string  `json:"Label"`
	Expected  float64 `json:"Expected"`
	Observed  int     `json:"Observed"`
	Hat       float64 `json:"Hat"`
	CI        CI      `json:"CI"`
	Deviation float64 `json:"Deviation"`
}

// DistReport 每次執行的最大偏差落點統計
type DistReport struct {
	DevBucket  []string  `json:"DevBucket"`
	DevCollect []int     `json:"DevCollect"`
	DevDist    []float64 `json:"DevDist"`
}

// ============================================================
// ** 公開方法 **
// ============================================================

// NewAgreementReport 由期望分布與合併後的次數建立報告。
//
// labels、expected、observed 長度必須一致；devCollect 可為 nil。
func NewAgreementReport(backend string, theta1, theta2 float64, runs, shots int,
	labels []string, expected []float64, observed []int, devCollect []int) (*AgreementReport, error) {
	if len(labels) != len(expected) || len(labels) != len(observed) {
		return nil, fmt.Errorf("agreement report: length mismatch labels=%d expected=%d observed=%d",
			len(labels), len(expected), len(observed))
	}
	if devCollect == nil {
		devCollect = make([]int, len(DevBuckets.Labels()))
	}
	r := &AgreementReport{
		Summary: &SummaryReport{
			Backend: backend,
			Theta1:  theta1,
			Theta2:  theta2,
			Runs:    runs,
			Shots:   shots,
		},
		Outcomes: make([]OutcomeStat, len(labels)),
		Dist: &DistReport{
			DevBucket:  DevBuckets.Labels(),
			DevCollect: devCollect,
		},
	}
	for i, l := range labels {
		r.Outcomes[i] = OutcomeStat{Label: l, Expected: expected[i], Observed: observed[i]}
	}
	return r, nil
}

// Done 一次性計算所有統計量，可重複呼叫。
//
// 累積過程只處理 int 次數，統計完成後再呼叫 Done 統一計算。
func (r *AgreementReport) Done() {
	if r.isDone {
		return
	}
	n := 0
	for _, o := range r.Outcomes {
		n += o.Observed
	}
	r.Summary.Total = n

	devs := make([]float64, len(r.Outcomes))
	obs := make([]int, len(r.Outcomes))
	exp := make([]float64, len(r.Outcomes))
	inside := 0
	for i := range r.Outcomes {
		o := &r.Outcomes[i]
		o.Hat, o.CI = ProportionCI(o.Observed, n, 0.95)
		o.Deviation = absf(o.Hat - o.Expected)
		if o.CI.Contains(o.Expected) {
			inside++
		}
		devs[i] = o.Deviation
		obs[i] = o.Observed
		exp[i] = o.Expected
	}
	if len(devs) > 0 {
		r.Summary.MAE = floats.Sum(devs) / float64(len(devs))
		r.Summary.MaxDev = floats.Max(devs)
	}
	r.Summary.ChiSq, r.Summary.DoF, r.Summary.PValue = ChiSquare(obs, exp)
	r.Summary.Inside = inside
	r.Summary.Converged = n > 0 && (inside == len(r.Outcomes) || r.Summary.PValue >= minPValue)

	total := 0
	for _, c := range r.Dist.DevCollect {
		total += c
	}
	r.Dist.DevDist = make([]float64, len(r.Dist.DevCollect))
	if total > 0 {
		for i, c := range r.Dist.DevCollect {
			r.Dist.DevDist[i] = float64(c) / float64(total)
		}
	}
	r.isDone = true
}

// Converged 回傳模擬估計是否與解析解一致
func (r *AgreementReport) Converged() bool {
	r.Done()
	return r.Summary.Converged
}

func (r *AgreementReport) WriteWith(w io.Writer, rep AgreementRender) error {
	r.Done()
	return rep.Write(w, r)
}

// StdOut 印出耗時與表格摘要
func (r *AgreementReport) StdOut(ut time.Duration) {
	r.Done()
	formatDuration(ut, r.Summary.Total)
	fmt.Println(r.Table())
}

// Table 回傳表格形式的摘要
func (r *AgreementReport) Table() string {
	r.Done()
	sk, sm := r.fmtBasic()
	return fmtTable("Simulated vs Closed Form", sk, sm)
}

// ============================================================
// ** 內部方法 **
// ============================================================

func formatDuration(d time.Duration, shots int) {
	p := message.NewPrinter(lang)
	if d < 0 {
		d = -d
	}
	sec := d.Seconds()
	if sec <= 0 {
		sec = 1e-9
	}
	sps := int(float64(shots) / sec)
	if sec < 60.0 {
		p.Printf("used: %.2f seconds\nsps : %d shots/sec\n", sec, sps)
		return
	}
	s := int(d.Seconds()) % 60
	m := int(d.Minutes()) % 60
	h := int(d.Hours())
	if h == 0 {
		p.Printf("used: %dm %ds\nsps : %d shots/sec\n", m, s, sps)
		return
	}
	p.Printf("used: %dh:%dm:%ds\nsps : %d shots/sec\n", h, m, s, sps)
}

func (r *AgreementReport) fmtBasic() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	s := r.Summary
	basic := map[string]string{
		"Backend":     s.Backend,
		"Theta":       p.Sprintf("(%.4f, %.4f)", s.Theta1, s.Theta2),
		"Runs":        p.Sprintf("%d", s.Runs),
		"Shots / Run": p.Sprintf("%d", s.Shots),
		"Total Shots": p.Sprintf("%d", s.Total),
		"MAE":         p.Sprintf("%.5f", s.MAE),
		"Max Dev":     p.Sprintf("%.5f", s.MaxDev),
		"Chi-Square":  p.Sprintf("%.3f (dof %d)", s.ChiSq, s.DoF),
		"p-value":     p.Sprintf("%.4f", s.PValue),
		"Inside CI":   p.Sprintf("%d / %d", s.Inside, len(r.Outcomes)),
		"Converged":   fmt.Sprintf("%t", s.Converged),
	}
	keys := []string{"Backend", "Theta", "Runs", "Shots / Run", "Total Shots"}
	for _, o := range r.Outcomes {
		k := "P(" + o.Label + ")"
		basic[k] = p.Sprintf("%.4f vs %.4f [%.4f,%.4f]", o.Hat, o.Expected, o.CI.Lo, o.CI.Hi)
		keys = append(keys, k)
	}
	keys = append(keys, "MAE", "Max Dev", "Chi-Square", "p-value", "Inside CI", "Converged")
	return keys, basic
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	p := message.NewPrinter(lang)
	maxKeyLen := 0
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", maxKeyLen+1+maxValLen) + "+\n"

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)

	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	var sb strings.Builder
	sb.WriteString(top)
	sb.WriteString(p.Sprintf("|%s%s%s|\n", blank(left), title, blank(right)))
	sb.WriteString(divider)
	for _, k := range keys {
		sb.WriteString(p.Sprintf("| %s%s | %s%s |\n", k, blank(maxKeyLen-2-runewidth.StringWidth(k)), msg[k], blank(maxValLen-2-runewidth.StringWidth(msg[k]))))
	}
	sb.WriteString(divider)
	return sb.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
