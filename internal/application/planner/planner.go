package planner

import (
	"context"
	"log/slog"
	"sync"
	"time"

	storeAttendance "canteen/internal/adapters/storage/attendance"
	"canteen/internal/application/orchestrators"
	"canteen/internal/domain/attendance"
	"canteen/internal/domain/dates"
	"canteen/internal/domain/dish"
	"canteen/internal/domain/menu"
	"canteen/internal/domain/policy"
)

// SavedNoticeDuration is how long the transient "saved" signal stays up
// after a successful save.
const SavedNoticeDuration = 3 * time.Second

// DayState is the display state of one weekday cell.
type DayState int

const (
	DayOpen DayState = iota
	DayOpenSelected
	DayLocked
	DayLockedSelected
)

// Config parameterizes a planner for its screen. The booking screen uses
// selection with a zero lock-ahead; the chef screen disables selection and
// locks one day ahead.
type Config struct {
	LockAheadDays  int
	EditWindowDays int
	AllowSelection bool
}

// BookingConfig is the visitor booking screen configuration.
func BookingConfig() Config {
	return Config{
		LockAheadDays:  policy.BookingLockAheadDays,
		EditWindowDays: policy.EditWindowDays,
		AllowSelection: true,
	}
}

// ChefConfig is the chef menu screen configuration.
func ChefConfig() Config {
	return Config{
		LockAheadDays:  policy.ChefLockAheadDays,
		EditWindowDays: policy.EditWindowDays,
		AllowSelection: false,
	}
}

// WeekAPI is the backend surface the planner drives.
type WeekAPI interface {
	FetchWeek(ctx context.Context, anchor dates.DateKey) ([]dish.DishOnDate, error)
	AddAttendance(ctx context.Context, days []dates.DateKey) error
	RemoveAttendance(ctx context.Context, days []dates.DateKey) error
}

// Planner holds the mutable state of one week screen: the displayed window,
// the fetched catalog, and the pending versus persisted attendance sets.
// Safe for concurrent use.
type Planner struct {
	mu sync.Mutex

	config Config
	api    WeekAPI
	store  storeAttendance.Store
	clock  func() time.Time

	anchor    dates.DateKey
	window    dates.Window
	catalog   menu.WeekIndex
	pending   attendance.Set
	persisted attendance.Set

	// fetchSeq guards against a stale fetch landing after the user has
	// navigated on: only the response matching the current sequence is kept.
	fetchSeq   uint64
	savedUntil time.Time
}

// New creates a planner anchored at today. clock may be nil; time.Now is
// used then.
func New(config Config, api WeekAPI, store storeAttendance.Store, clock func() time.Time) *Planner {
	if clock == nil {
		clock = time.Now
	}
	anchor := dates.FromTime(clock())
	return &Planner{
		config:    config,
		api:       api,
		store:     store,
		clock:     clock,
		anchor:    anchor,
		window:    dates.WeekWindow(anchor),
		catalog:   menu.Index(nil),
		pending:   attendance.NewSet(),
		persisted: attendance.NewSet(),
	}
}

// Load fetches the current window's catalog and the locally persisted
// attendance, resetting pending to persisted.
// POST: pending == persisted
func (p *Planner) Load(ctx context.Context) error {
	p.mu.Lock()
	anchor := p.anchor
	seq := p.nextFetch()
	p.mu.Unlock()

	records, err := p.api.FetchWeek(ctx, anchor)
	if err != nil {
		return err
	}
	days, err := p.store.Load(ctx)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if seq != p.fetchSeq {
		slog.Debug("stale_fetch_discarded", "anchor", anchor)
		return nil
	}
	p.catalog = menu.Index(records)
	p.persisted = attendance.NewSet()
	for _, day := range days {
		p.persisted.Add(day)
	}
	p.pending = p.persisted.Clone()
	return nil
}

func (p *Planner) nextFetch() uint64 {
	p.fetchSeq++
	return p.fetchSeq
}

// Window returns the currently displayed week window.
func (p *Planner) Window() dates.Window {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.window
}

// Day returns the fetched dishes for one weekday name, grouped by category.
func (p *Planner) Day(name string) map[dish.Category][]dish.DishOnDate {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.catalog.Day(name)
}

// Toggle flips the pending selection of one day. It reports whether anything
// changed: locked days, weekends, days outside the window, and screens
// without selection all refuse silently.
func (p *Planner) Toggle(date dates.DateKey) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.config.AllowSelection {
		return false
	}
	if !p.window.Contains(date) {
		return false
	}
	if policy.Locked(date, p.today(), p.config.LockAheadDays) {
		return false
	}
	p.pending.Toggle(date)
	return true
}

// CellState returns the display state of one day cell.
func (p *Planner) CellState(date dates.DateKey) DayState {
	p.mu.Lock()
	defer p.mu.Unlock()
	locked := policy.Locked(date, p.today(), p.config.LockAheadDays)
	selected := p.pending.Has(date)
	switch {
	case locked && selected:
		return DayLockedSelected
	case locked:
		return DayLocked
	case selected:
		return DayOpenSelected
	default:
		return DayOpen
	}
}

// Dirty reports whether pending differs from persisted.
func (p *Planner) Dirty() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.pending.Equal(p.persisted)
}

// HasActiveDays reports whether any day of the displayed window is still
// open for change. The save affordance is useless on a fully locked week.
func (p *Planner) HasActiveDays() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	today := p.today()
	for _, day := range p.window.Days() {
		if !policy.Locked(day, today, p.config.LockAheadDays) {
			return true
		}
	}
	return false
}

// Save submits the pending/persisted difference and commits pending as the
// new persisted set. A successful non-empty save raises the transient saved
// notice.
// POST: on success pending == persisted
func (p *Planner) Save(ctx context.Context) (orchestrators.SaveAttendanceResult, error) {
	p.mu.Lock()
	input := orchestrators.SaveAttendanceInput{
		Pending:   p.pending.Clone(),
		Persisted: p.persisted.Clone(),
	}
	p.mu.Unlock()

	result, err := orchestrators.ExecuteSaveAttendance(ctx, input,
		orchestrators.SaveAttendanceDeps{API: p.api, Store: p.store})
	if err != nil {
		return result, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if result.Saved {
		p.persisted = input.Pending
		p.savedUntil = p.clock().Add(SavedNoticeDuration)
	}
	return result, nil
}

// SavedNoticeVisible reports whether the transient saved signal is still up.
func (p *Planner) SavedNoticeVisible() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clock().Before(p.savedUntil)
}

// NextWeek moves the window one week forward and reloads. Unsaved pending
// changes are discarded.
func (p *Planner) NextWeek(ctx context.Context) error {
	return p.navigate(ctx, dates.WeekLength+2)
}

// PreviousWeek moves the window one week back and reloads. Unsaved pending
// changes are discarded.
func (p *Planner) PreviousWeek(ctx context.Context) error {
	return p.navigate(ctx, -(dates.WeekLength + 2))
}

func (p *Planner) navigate(ctx context.Context, offsetDays int) error {
	p.mu.Lock()
	p.anchor = p.window.Start.AddDays(offsetDays)
	p.window = dates.WeekWindow(p.anchor)
	p.pending = p.persisted.Clone()
	anchor := p.anchor
	p.mu.Unlock()

	slog.Debug("week_navigated", "anchor", anchor)
	return p.Load(ctx)
}

func (p *Planner) today() dates.DateKey {
	return dates.FromTime(p.clock())
}
