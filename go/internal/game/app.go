package game

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/sidereal/go/internal/events"
	"github.com/mcdev12/sidereal/go/internal/models"
	"github.com/mcdev12/sidereal/go/internal/power"
	"github.com/mcdev12/sidereal/go/internal/rules"
	"github.com/mcdev12/sidereal/go/internal/trade"
	"github.com/rs/zerolog/log"
)

// PreferencesRepository defines what the app needs from preference storage
type PreferencesRepository interface {
	LoadPreferences(ctx context.Context) (models.Preferences, error)
	SavePreferences(ctx context.Context, prefs models.Preferences) error
}

// App owns the game session: the current step, the configuration it was
// started with, and the runtime of the trade phase being played. All methods
// are safe for concurrent use.
type App struct {
	clock      clockwork.Clock
	prefs      PreferencesRepository
	visibility *power.Visibility
	wakeLock   *power.WakeLock
	sink       events.Sink
	tradeOpts  []trade.Option

	mu       sync.Mutex
	session  *session
	defaults models.Preferences
}

type session struct {
	id        uuid.UUID
	selection models.FactionSelection
	limit     models.TradeTimeLimit
	step      models.GameStep
	runtime   *trade.Runtime
}

// NewApp creates an App at the main menu. prefs may be nil, in which case
// nothing is persisted.
func NewApp(clock clockwork.Clock, prefs PreferencesRepository, visibility *power.Visibility, wakeLock *power.WakeLock, sink events.Sink, tradeOpts ...trade.Option) *App {
	if sink == nil {
		sink = events.Discard
	}
	return &App{
		clock:      clock,
		prefs:      prefs,
		visibility: visibility,
		wakeLock:   wakeLock,
		sink:       sink,
		tradeOpts:  tradeOpts,
		defaults:   models.DefaultPreferences(),
	}
}

// ReloadPreferences refreshes the main menu defaults from storage. A game in
// progress keeps the configuration it started with.
func (a *App) ReloadPreferences(ctx context.Context) (models.Preferences, error) {
	if a.prefs == nil {
		return a.Preferences(), nil
	}
	prefs, err := a.prefs.LoadPreferences(ctx)
	if err != nil {
		return models.Preferences{}, fmt.Errorf("failed to load preferences: %w", err)
	}

	a.mu.Lock()
	a.defaults = prefs
	a.mu.Unlock()

	log.Debug().
		Int("factions", prefs.Factions.PlayerCount()).
		Str("trade_time_limit", prefs.TradeTimeLimit.String()).
		Msg("preferences reloaded")
	return prefs, nil
}

// Preferences returns the main menu defaults.
func (a *App) Preferences() models.Preferences {
	a.mu.Lock()
	defer a.mu.Unlock()
	return clonePreferences(a.defaults)
}

// NewGame validates the setup, remembers it as the new defaults and starts
// round 1 at the trade phase. A game already in progress is discarded.
func (a *App) NewGame(ctx context.Context, req NewGameRequest) (*State, error) {
	selection := req.Factions.Clone()
	if err := selection.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	prefs := models.Preferences{Factions: selection.Clone(), TradeTimeLimit: req.TradeTimeLimit}
	if a.prefs != nil {
		if err := a.prefs.SavePreferences(ctx, prefs); err != nil {
			// the game can still be played without remembering the setup
			log.Warn().Err(err).Msg("failed to save preferences")
		}
	}

	a.mu.Lock()
	a.defaults = prefs
	a.closeSessionLocked()
	a.session = &session{
		id:        uuid.New(),
		selection: selection,
		limit:     req.TradeTimeLimit,
	}
	event := a.enterLocked(models.FirstStep())
	state := a.stateLocked()
	a.mu.Unlock()

	log.Info().
		Str("session_id", state.SessionID).
		Int("players", selection.PlayerCount()).
		Str("trade_time_limit", req.TradeTimeLimit.String()).
		Msg("game started")

	a.publish(event)
	return state, nil
}

// Advance moves the game to the step after the current one.
func (a *App) Advance(ctx context.Context) (*State, error) {
	a.mu.Lock()
	if a.session == nil {
		a.mu.Unlock()
		return nil, ErrNoGame
	}
	next, err := Next(a.session.step, a.session.selection)
	if err != nil {
		a.mu.Unlock()
		return nil, fmt.Errorf("failed to advance from %s: %w", a.session.step, err)
	}
	event := a.enterLocked(next)
	state := a.stateLocked()
	a.mu.Unlock()

	a.publish(event)
	return state, nil
}

// Navigate jumps straight to the step named by a descriptor.
func (a *App) Navigate(ctx context.Context, descriptor string) (*State, error) {
	step, err := DecodeStep(descriptor)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	if a.session == nil {
		a.mu.Unlock()
		return nil, ErrNoGame
	}
	var event *events.Event
	if step != a.session.step {
		event = a.enterLocked(step)
	}
	state := a.stateLocked()
	a.mu.Unlock()

	a.publish(event)
	return state, nil
}

// ToMainMenu ends the game in progress, if any.
func (a *App) ToMainMenu() *State {
	a.mu.Lock()
	hadGame := a.session != nil
	a.closeSessionLocked()
	state := a.stateLocked()
	a.mu.Unlock()

	if hadGame {
		log.Info().Msg("returned to main menu")
		a.publish(a.stepEvent(nil))
	}
	return state
}

// StartTimer starts or resumes the trade timer.
func (a *App) StartTimer() (*State, error) {
	return a.timerCommand((*trade.Runtime).Start)
}

// PauseTimer pauses the trade timer.
func (a *App) PauseTimer() (*State, error) {
	return a.timerCommand((*trade.Runtime).Pause)
}

// ResetTimer returns the trade timer to its full duration.
func (a *App) ResetTimer() (*State, error) {
	return a.timerCommand((*trade.Runtime).Reset)
}

func (a *App) timerCommand(fn func(*trade.Runtime)) (*State, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.session == nil {
		return nil, ErrNoGame
	}
	if a.session.runtime == nil || !a.session.runtime.Limited() {
		return nil, ErrNoTimer
	}
	fn(a.session.runtime)
	return a.stateLocked(), nil
}

// State returns a snapshot of the session.
func (a *App) State() *State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stateLocked()
}

// Close ends the session without publishing anything.
func (a *App) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closeSessionLocked()
}

// enterLocked makes step current. Leaving a trade phase tears its runtime
// down; entering one opens a fresh runtime with the timer ready.
func (a *App) enterLocked(step models.GameStep) *events.Event {
	s := a.session
	if s.runtime != nil {
		s.runtime.Close()
		s.runtime = nil
	}
	s.step = step
	if step.IsTrade() {
		s.runtime = trade.NewRuntime(a.clock, s.limit, a.visibility, a.wakeLock, a.sink, a.tradeOpts...)
	}

	log.Debug().
		Str("session_id", s.id.String()).
		Str("step", step.String()).
		Msg("step changed")

	event := a.stepEvent(&step)
	if event != nil {
		event.SessionID = s.id.String()
	}
	return event
}

func (a *App) closeSessionLocked() {
	if a.session == nil {
		return
	}
	if a.session.runtime != nil {
		a.session.runtime.Close()
	}
	a.session = nil
}

func (a *App) stateLocked() *State {
	state := &State{Preferences: clonePreferences(a.defaults)}
	s := a.session
	if s == nil {
		return state
	}

	step := s.step
	expired := s.runtime != nil && s.runtime.Expired()

	state.SessionID = s.id.String()
	state.InGame = true
	state.Step = &step
	state.Descriptor = EncodeStep(step)
	state.Title = Title(step)
	state.ActionLabel = ActionLabel(step, s.selection, s.limit, expired)
	state.Notes = rules.PhaseNotes(step, s.selection)
	state.Factions = s.selection.Clone()
	state.TimeLimit = s.limit.String()

	if !step.Scoring {
		state.RoundLabel = RoundLabel(step.Round)
		if bonus, err := rules.BonusesFor(s.selection, step.Round); err == nil {
			state.Bonus = &bonus
		}
	}
	if s.runtime != nil {
		status := s.runtime.Status()
		state.Trade = &status
	}
	return state
}

func (a *App) stepEvent(step *models.GameStep) *events.Event {
	payload := events.StepChangedPayload{Step: step, ChangedAt: a.clock.Now()}
	if step != nil {
		payload.Descriptor = EncodeStep(*step)
		payload.Title = Title(*step)
	}
	event, err := events.New(events.TypeStepChanged, payload.ChangedAt, payload)
	if err != nil {
		log.Error().Err(err).Msg("failed to build step event")
		return nil
	}
	return event
}

func (a *App) publish(event *events.Event) {
	if event != nil {
		a.sink.Publish(event)
	}
}

func clonePreferences(p models.Preferences) models.Preferences {
	return models.Preferences{Factions: p.Factions.Clone(), TradeTimeLimit: p.TradeTimeLimit}
}
