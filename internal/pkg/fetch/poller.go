package fetch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// DefaultPollInterval matches the refresh cadence of the dashboard cards
const DefaultPollInterval = 30 * time.Second

var ErrPollerRunning = errors.New("poller is already running")

type PollerOptions[T any] struct {
	Name        string
	InitialData *T
	OnSuccess   func(T)
	OnError     func(error)
	Logger      *slog.Logger
}

// ticker is the part of *time.Ticker the poll loop needs
type ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// Poller fetches immediately on Start and then once per interval until Stop.
// It never backs off. A failed poll keeps the last good data.
type Poller[T any] struct {
	machine[T]
	name     string
	fn       Func[T]
	interval time.Duration
	logger   *slog.Logger

	newTicker func(time.Duration) ticker

	runMu   sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

func NewPoller[T any](fn Func[T], interval time.Duration, opts PollerOptions[T]) *Poller[T] {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	p := &Poller[T]{
		name:     opts.Name,
		fn:       fn,
		interval: interval,
		logger:   logger.With("poller", opts.Name),
		newTicker: func(d time.Duration) ticker {
			return timeTicker{t: time.NewTicker(d)}
		},
	}
	p.init(opts.InitialData, Callbacks[T]{OnSuccess: opts.OnSuccess, OnError: opts.OnError})
	return p
}

func (p *Poller[T]) Name() string {
	return p.name
}

func (p *Poller[T]) Interval() time.Duration {
	return p.interval
}

// Start launches the poll loop. The loop ends on Stop or when ctx is done.
func (p *Poller[T]) Start(ctx context.Context) error {
	p.runMu.Lock()
	defer p.runMu.Unlock()

	if p.started {
		return ErrPollerRunning
	}

	loopCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.started = true

	t := p.newTicker(p.interval)
	go p.run(loopCtx, t, p.done)

	p.logger.Info("Poller started", "interval", p.interval)
	return nil
}

// Stop tears down the ticker and waits for the loop to exit. Calling Stop on
// a poller that is not running is a no-op.
func (p *Poller[T]) Stop() {
	p.runMu.Lock()
	defer p.runMu.Unlock()

	if !p.started {
		return
	}
	p.cancel()
	<-p.done
	p.started = false
	p.logger.Info("Poller stopped")
}

// Running reports whether the poll loop is active
func (p *Poller[T]) Running() bool {
	p.runMu.Lock()
	defer p.runMu.Unlock()
	return p.started
}

// Refetch polls out of band, outside the ticker schedule
func (p *Poller[T]) Refetch(ctx context.Context) State[T] {
	p.poll(ctx, false)
	return p.State()
}

func (p *Poller[T]) run(ctx context.Context, t ticker, done chan struct{}) {
	defer close(done)
	defer t.Stop()

	// Run immediately on start
	p.poll(ctx, true)

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C():
			p.poll(ctx, false)
		}
	}
}

func (p *Poller[T]) poll(ctx context.Context, first bool) {
	gen := p.begin(first, false)
	v, err := p.fn(ctx)

	// a stopped poller records no error, the cancellation is ours
	if ctx.Err() != nil {
		p.abandon(gen)
		return
	}

	if err != nil {
		p.logger.Warn("Poll failed", "error", err)
	}
	p.settle(gen, v, err, keepDataOnError)
}
