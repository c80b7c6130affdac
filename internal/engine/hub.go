package engine

import (
	"context"
	"sync"

	"tdi_bot/internal/models"
	"tdi_bot/pkg/logger"
)

// Hub раздаёт live-свечи по пайплайнам. Символы независимы и крутятся
// параллельно (по воркеру на пайплайн), внутри пайплайна всё строго
// последовательно. Общий ресурс один — выходной канал сигналов,
// запись в него сериализуется самим каналом.
type Hub struct {
	cfg models.StrategySettings
	out chan<- models.Signal

	mu      sync.Mutex
	workers map[string]chan models.Bar
	wg      sync.WaitGroup

	warmupSeen map[string]bool
}

func NewHub(cfg models.StrategySettings, out chan<- models.Signal) (*Hub, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Hub{
		cfg:        cfg,
		out:        out,
		workers:    make(map[string]chan models.Bar),
		warmupSeen: make(map[string]bool),
	}, nil
}

// OnBar направляет свечу воркеру её пайплайна, создавая его по первой свече.
func (h *Hub) OnBar(ctx context.Context, bar models.Bar) {
	key := pipeKey(bar.Symbol, bar.Timeframe)

	h.mu.Lock()
	ch, ok := h.workers[key]
	if !ok {
		ch = make(chan models.Bar, 64)
		h.workers[key] = ch
		h.wg.Add(1)
		go h.runPipeline(ctx, bar.Symbol, bar.Timeframe, ch)
	}
	h.mu.Unlock()

	select {
	case ch <- bar:
	case <-ctx.Done():
	}
}

// runPipeline — один пайплайн, один воркер. Ошибка последовательности
// хоронит только этот символ.
func (h *Hub) runPipeline(ctx context.Context, symbol, timeframe string, bars <-chan models.Bar) {
	defer h.wg.Done()

	p, err := NewPipeline(symbol, timeframe, h.cfg)
	if err != nil {
		logger.Fatal("pipeline %s/%s: %v", symbol, timeframe, err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case bar, ok := <-bars:
			if !ok {
				return
			}
			sig, err := p.OnBar(bar)
			if err != nil {
				logger.Error("pipeline %s/%s dropped: %v", symbol, timeframe, err)
				h.dropWorker(symbol, timeframe)
				return
			}

			mom, _ := p.LastReadings()
			if !mom.Warming {
				h.markReady(symbol, timeframe)
			}

			if sig == nil {
				continue
			}
			select {
			case h.out <- *sig:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (h *Hub) dropWorker(symbol, timeframe string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.workers, pipeKey(symbol, timeframe))
}

func (h *Hub) markReady(symbol, timeframe string) {
	key := pipeKey(symbol, timeframe)
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.warmupSeen[key] {
		h.warmupSeen[key] = true
		logger.Info("warmup done for %s", key)
	}
}

// Close дожидается воркеров (на shutdown).
func (h *Hub) Close() {
	h.mu.Lock()
	for k, ch := range h.workers {
		close(ch)
		delete(h.workers, k)
	}
	h.mu.Unlock()
	h.wg.Wait()
}
