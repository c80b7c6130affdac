package models

// CrossDirection — направление пересечения fast/slow линий.
type CrossDirection int

const (
	CrossNone CrossDirection = iota
	CrossUp
	CrossDown
)

func (d CrossDirection) String() string {
	switch d {
	case CrossUp:
		return "UP"
	case CrossDown:
		return "DOWN"
	default:
		return "NONE"
	}
}

// CrossoverEvent срабатывает один раз на свече смены порядка линий.
type CrossoverEvent struct {
	Direction CrossDirection
	BarIndex  int
}

// MomentumReading — снимок TDI-индикатора после очередной свечи.
// Пока Warming=true зона/кроссовер не заполняются и сигналов быть не может.
type MomentumReading struct {
	BarIndex   int
	Warming    bool
	Oscillator float64
	FastLine   float64
	SlowLine   float64
	Zone       Zone
	Crossover  *CrossoverEvent
	RiskFactor int
}

// BandRegime — режим волатильности по ширине канала. Только вспомогательный
// признак, никогда не гейтит сигналы.
type BandRegime int

const (
	RegimeNormal BandRegime = iota
	RegimeSqueeze
	RegimeExpansion
)

func (r BandRegime) String() string {
	switch r {
	case RegimeSqueeze:
		return "SQUEEZE"
	case RegimeExpansion:
		return "EXPANSION"
	default:
		return "NORMAL"
	}
}

// BandSide — какая граница канала была затронута.
type BandSide int

const (
	BandUpper BandSide = iota
	BandLower
)

func (s BandSide) String() string {
	if s == BandLower {
		return "LOWER"
	}
	return "UPPER"
}

// RejectionPattern: касание границы и подтверждённый возврат внутрь канала.
// Confirmed=false — паттерн ещё ждёт подтверждения в окне.
type RejectionPattern struct {
	Side          BandSide
	TouchBarIndex int
	Confirmed     bool
	ConfirmBarIdx int
	// Граница канала на свече подтверждения: от неё считается стоп.
	BandAtConfirm float64
}

// BandReading — снимок Bollinger-индикатора после очередной свечи.
type BandReading struct {
	BarIndex  int
	Warming   bool
	Upper     float64
	Middle    float64
	Lower     float64
	Bandwidth float64
	Regime    BandRegime
	// Confirmed — паттерн, подтверждённый именно на этой свече (если был).
	Confirmed *RejectionPattern
}
