package source

import (
	"context"
	"errors"
	"io/fs"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/etnz/holdings"
)

// Status is the observable state of the data source.
type Status int

const (
	// Loading means no data and no error yet.
	Loading Status = iota
	// Failed means the source has never produced data and the last fetch failed.
	Failed
	// Ready means holdings are available, possibly stale.
	Ready
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Failed:
		return "failed"
	case Ready:
		return "ready"
	}
	return "unknown"
}

// State is what the source knows at a given time.
type State struct {
	Status    Status
	Holdings  []holdings.Holding
	Err       error     // error of the last fetch, nil after a success
	UpdatedAt time.Time // when Holdings were retrieved
	Stale     bool      // Holdings come from the cache or precede a failed fetch
}

// Fetcher retrieves a holdings list.
type Fetcher interface {
	Fetch(ctx context.Context) ([]holdings.Holding, error)
}

// FocusThrottle is the minimum delay between two focus revalidations.
const FocusThrottle = 5 * time.Second

// Poller keeps the latest holdings of a Fetcher: once on start, then on a
// fixed interval, on demand and on focus.
//
// Every successful fetch replaces the holdings wholesale. A failed fetch keeps
// the previous holdings, marked stale.
type Poller struct {
	fetcher    Fetcher
	interval   time.Duration
	retries    int
	retryDelay time.Duration
	cache      *Cache
	focus      *rate.Limiter // nil: focus revalidation disabled
	log        zerolog.Logger
	now        func() time.Time

	fetching sync.Mutex // held during a fetch

	mu    sync.RWMutex
	state State
	subs  map[chan State]struct{}

	cron   *cron.Cron
	cancel context.CancelFunc
	wg     sync.WaitGroup // the initial fetch
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithInterval sets the polling period. Zero or less disables polling. The
// schedule has a one second resolution.
func WithInterval(d time.Duration) PollerOption { return func(p *Poller) { p.interval = d } }

// WithRetries sets how many attempts a fetch makes, and the delay before the
// first retry. The delay doubles after each attempt.
func WithRetries(attempts int, delay time.Duration) PollerOption {
	return func(p *Poller) {
		p.retries = max(attempts, 1)
		p.retryDelay = delay
	}
}

// WithCache keeps the last good snapshot in c.
func WithCache(c *Cache) PollerOption { return func(p *Poller) { p.cache = c } }

// WithFocusRevalidation enables Revalidate, throttled to one fetch every
// FocusThrottle.
func WithFocusRevalidation(enabled bool) PollerOption {
	return func(p *Poller) {
		if enabled {
			p.focus = rate.NewLimiter(rate.Every(FocusThrottle), 1)
		} else {
			p.focus = nil
		}
	}
}

// WithPollerLogger sets the poller logger.
func WithPollerLogger(log zerolog.Logger) PollerOption { return func(p *Poller) { p.log = log } }

// NewPoller returns a poller of f. It does nothing until started.
func NewPoller(f Fetcher, opts ...PollerOption) *Poller {
	p := &Poller{
		fetcher:    f,
		retries:    1,
		retryDelay: time.Second,
		log:        zerolog.Nop(),
		now:        time.Now,
		subs:       make(map[chan State]struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.With().Str("component", "poller").Logger()
	return p
}

// Start restores the cached snapshot, fetches in the background and then
// schedules a fetch every interval. Stop ends it.
func (p *Poller) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	p.Restore()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.Refresh(ctx)
	}()

	if p.interval <= 0 {
		p.log.Info().Msg("periodic refresh disabled")
		return
	}
	p.cron = cron.New()
	p.cron.Schedule(cron.Every(p.interval), cron.FuncJob(func() { p.Refresh(ctx) }))
	p.cron.Start()
	p.log.Info().Dur("interval", p.interval).Msg("poller started")
}

// Stop cancels the fetch in progress, stops polling and waits for every
// fetch started by Start to return.
func (p *Poller) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	if p.cron != nil {
		<-p.cron.Stop().Done()
	}
	p.wg.Wait()
}

// Restore publishes the cached snapshot, if any, as stale data. Start calls
// it, one-shot users call it before Refresh.
func (p *Poller) Restore() {
	if p.cache == nil {
		return
	}
	s, err := p.cache.Load()
	if errors.Is(err, fs.ErrNotExist) {
		return
	}
	if err != nil {
		p.log.Warn().Err(err).Str("file", p.cache.Path()).Msg("ignoring unreadable cache")
		return
	}
	p.publish(State{Status: Ready, Holdings: s.Holdings, UpdatedAt: s.UpdatedAt, Stale: true})
	p.log.Debug().Int("holdings", len(s.Holdings)).Time("updated", s.UpdatedAt).Msg("cache restored")
}

// Refresh fetches now and returns the new state. When a fetch is already in
// progress it returns the current state instead of fetching twice.
func (p *Poller) Refresh(ctx context.Context) State {
	if !p.fetching.TryLock() {
		return p.State()
	}
	defer p.fetching.Unlock()
	return p.refresh(ctx)
}

// refresh fetches with p.fetching held.
func (p *Poller) refresh(ctx context.Context) State {
	var list []holdings.Holding
	err := Retry(ctx, p.retries, p.retryDelay, func() (err error) {
		list, err = p.fetcher.Fetch(ctx)
		return err
	})

	p.mu.RLock()
	s := p.state
	p.mu.RUnlock()

	if err != nil && ctx.Err() != nil {
		// stopped, not a backend failure.
		return p.State()
	}
	if err != nil {
		p.log.Warn().Err(err).Msg("refresh failed")
		s.Err = err
		if s.Status == Ready {
			s.Stale = true
		} else {
			s.Status = Failed
		}
		return p.publish(s)
	}

	s = State{Status: Ready, Holdings: list, UpdatedAt: p.now()}
	p.log.Debug().Int("holdings", len(list)).Msg("refreshed")
	if p.cache != nil {
		if err := p.cache.Save(Snapshot{Holdings: list, UpdatedAt: s.UpdatedAt}); err != nil {
			p.log.Warn().Err(err).Str("file", p.cache.Path()).Msg("cache write failed (ignored)")
		}
	}
	return p.publish(s)
}

// Revalidate refreshes because the dashboard regained focus. It does nothing
// when focus revalidation is disabled, when a fetch is already in progress, or
// when the previous revalidation is too recent. Only an actual fetch uses up
// the throttle.
func (p *Poller) Revalidate(ctx context.Context) bool {
	if p.focus == nil || !p.fetching.TryLock() {
		return false
	}
	defer p.fetching.Unlock()
	if !p.focus.Allow() {
		return false
	}
	p.refresh(ctx)
	return true
}

// FocusRevalidation reports whether Revalidate may fetch at all.
func (p *Poller) FocusRevalidation() bool { return p.focus != nil }

// State returns the current state.
func (p *Poller) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Subscribe returns a channel receiving every new state, and the function to
// unsubscribe. A slow reader only misses intermediate states: the channel
// always ends up holding the latest one.
func (p *Poller) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)
	p.mu.Lock()
	p.subs[ch] = struct{}{}
	p.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subs, ch)
			p.mu.Unlock()
			close(ch)
		})
	}
}

func (p *Poller) publish(s State) State {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = s
	for ch := range p.subs {
		select {
		case ch <- s:
		default:
			// replace the unread state.
			select {
			case <-ch:
			default:
			}
			ch <- s
		}
	}
	return s
}
