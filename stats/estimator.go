package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ============================================================
// ** 區間與檢定 **
// ============================================================

// ProportionCI Clopper–Pearson exact CI for binomial proportion (k successes out of n)
func ProportionCI(k int, n int, confidence float64) (pHat float64, ci CI) {
	if n == 0 {
		return 0, CI{0, 1}
	}
	alpha := 1 - confidence
	pHat = float64(k) / float64(n)

	// Beta PPF 映射，處理邊界
	if k == 0 {
		ci.Lo = 0
	} else {
		b := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
		ci.Lo = b.Quantile(alpha / 2)
	}
	if k == n {
		ci.Hi = 1
	} else {
		b := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
		ci.Hi = b.Quantile(1 - alpha/2)
	}
	return
}

// ChiSquare 卡方適合度檢定。
//
// 期望機率為 0 的格子不計入自由度；若該格有觀測值則分布不可能成立，統計量回傳 math.MaxFloat64、p-value 為 0。
// 有效格數少於 2 時沒有可檢定的自由度，回傳 p-value = 1。
func ChiSquare(observed []int, expected []float64) (stat float64, dof int, pValue float64) {
	n := 0
	for _, o := range observed {
		n += o
	}
	if n == 0 || len(observed) != len(expected) {
		return 0, 0, 1
	}
	cells := 0
	impossible := false
	for i, o := range observed {
		e := expected[i] * float64(n)
		if e <= 0 {
			if o > 0 {
				impossible = true
			}
			continue
		}
		cells++
		d := float64(o) - e
		stat += d * d / e
	}
	dof = cells - 1
	if impossible {
		return math.MaxFloat64, max(dof, 0), 0
	}
	if dof < 1 {
		return stat, 0, 1
	}
	pValue = distuv.ChiSquared{K: float64(dof)}.Survival(stat)
	return stat, dof, pValue
}
