package indicator

import "math"

// rollingStat — кольцевой буфер фиксированной ёмкости с бегущими суммами.
// Обновление O(1) на свечу, без пересчёта всего окна.
type rollingStat struct {
	buf   []float64
	size  int
	head  int
	count int
	sum   float64
	sumSq float64
}

func newRollingStat(size int) *rollingStat {
	if size < 1 {
		size = 1
	}
	return &rollingStat{buf: make([]float64, size), size: size}
}

func (r *rollingStat) Push(v float64) {
	if r.count == r.size {
		old := r.buf[r.head]
		r.sum -= old
		r.sumSq -= old * old
	} else {
		r.count++
	}
	r.buf[r.head] = v
	r.sum += v
	r.sumSq += v * v
	r.head = (r.head + 1) % r.size
}

func (r *rollingStat) Ready() bool { return r.count == r.size }

func (r *rollingStat) Mean() float64 {
	if r.count == 0 {
		return 0
	}
	return r.sum / float64(r.count)
}

// StdDev — популяционное среднеквадратичное отклонение окна.
func (r *rollingStat) StdDev() float64 {
	if r.count == 0 {
		return 0
	}
	n := float64(r.count)
	m := r.sum / n
	v := r.sumSq/n - m*m
	if v < 0 {
		// страховка от отрицательного нуля при потере точности
		v = 0
	}
	return math.Sqrt(v)
}

// wilderAvg — сглаживание Уайлдера: alpha = 1/period,
// первые period значений набираются простым средним.
type wilderAvg struct {
	period int
	value  float64
	seen   int
}

func newWilderAvg(period int) *wilderAvg {
	if period < 1 {
		period = 1
	}
	return &wilderAvg{period: period}
}

func (w *wilderAvg) Push(v float64) {
	w.seen++
	if w.seen <= w.period {
		w.value += (v - w.value) / float64(w.seen)
		return
	}
	alpha := 1.0 / float64(w.period)
	w.value = (1-alpha)*w.value + alpha*v
}

func (w *wilderAvg) Ready() bool    { return w.seen >= w.period }
func (w *wilderAvg) Value() float64 { return w.value }
