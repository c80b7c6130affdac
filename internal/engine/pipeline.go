package engine

import (
	"fmt"

	"tdi_bot/internal/indicator"
	"tdi_bot/internal/models"
)

// Pipeline — полный конвейер одного (symbol, timeframe):
// momentum -> bands -> combiner. Владеет состоянием индикаторов
// эксклюзивно и обрабатывается строго последовательно; свеча проходит
// конвейер как атомарная единица работы.
type Pipeline struct {
	symbol    string
	timeframe string

	momentum *indicator.Momentum
	bands    *indicator.Bands
	combiner *Combiner

	lastMomentum models.MomentumReading
	lastBands    models.BandReading
	failed       error
}

func NewPipeline(symbol, timeframe string, cfg models.StrategySettings) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline %s/%s: %w", symbol, timeframe, err)
	}
	return &Pipeline{
		symbol:    symbol,
		timeframe: timeframe,
		momentum:  indicator.NewMomentum(symbol, cfg),
		bands:     indicator.NewBands(symbol, cfg),
		combiner:  NewCombiner(symbol, timeframe, cfg),
	}, nil
}

// OnBar проводит свечу через оба индикатора и комбинатор.
// Любая ошибка фатальна для инстанса: дальше он только возвращает её же.
func (p *Pipeline) OnBar(bar models.Bar) (*models.Signal, error) {
	if p.failed != nil {
		return nil, p.failed
	}

	mom, err := p.momentum.Update(bar)
	if err != nil {
		p.failed = err
		return nil, err
	}
	band, err := p.bands.Update(bar)
	if err != nil {
		p.failed = err
		return nil, err
	}

	p.lastMomentum = mom
	p.lastBands = band

	return p.combiner.Update(bar, mom, band), nil
}

func (p *Pipeline) Symbol() string    { return p.symbol }
func (p *Pipeline) Timeframe() string { return p.timeframe }

// LastReadings — read-only снимки для диагностики/аннотаций бэктеста.
func (p *Pipeline) LastReadings() (models.MomentumReading, models.BandReading) {
	return p.lastMomentum, p.lastBands
}

func (p *Pipeline) Dump() string {
	return fmt.Sprintf("%s/%s %s %s", p.symbol, p.timeframe, p.momentum.Dump(), p.bands.Dump())
}
