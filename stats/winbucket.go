package stats

// lutScale 偏差換算成千分位整數後查表
const lutScale float64 = 1000

// DeviationBuckets
//
// 用來快速定位單次執行的最大偏差 -> DistReport 位置 O(1)
//
// 請勿修改預設值
//   - 偏差區間（千分位）: [0,5), [5,10), [10,20), [20,50), [50,100), [100,+inf)
type DeviationBuckets struct {
	bounds []int
	labels []string
	lut    []int
}

// DevBuckets 預設偏差分桶
var DevBuckets *DeviationBuckets = newDeviationBuckets(
	[]int{5, 10, 20, 50, 100},
	[]string{"[0,0.005)", "[0.005,0.01)", "[0.01,0.02)", "[0.02,0.05)", "[0.05,0.1)", "[0.1,+inf)"},
)

func newDeviationBuckets(bounds []int, labels []string) *DeviationBuckets {
	last := bounds[len(bounds)-1]
	lut := make([]int, last)
	idx := 0
	for i := 0; i < last; i++ {
		for idx < len(bounds) && i >= bounds[idx] {
			idx++
		}
		lut[i] = idx
	}
	return &DeviationBuckets{bounds: bounds, labels: labels, lut: lut}
}

// Labels 回傳分桶標籤（長度 = 邊界數 + 1）
func (b *DeviationBuckets) Labels() []string {
	out := make([]string, len(b.labels))
	copy(out, b.labels)
	return out
}

// Len 回傳分桶數
func (b *DeviationBuckets) Len() int {
	return len(b.labels)
}

// Index 回傳偏差 dev 所屬的分桶；負值視為 0，NaN 歸入最後一桶。
func (b *DeviationBuckets) Index(dev float64) int {
	if dev != dev {
		return len(b.labels) - 1
	}
	if dev < 0 {
		dev = 0
	}
	milli := dev * lutScale
	if milli >= float64(len(b.lut)) {
		return len(b.labels) - 1
	}
	return b.lut[int(milli)]
}
