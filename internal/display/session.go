// Package display implements the receiver's screen state machine: the
// message dispatcher, the screen registry, the round-results reorder
// animation and the tutorial timeline scheduler.
package display

import (
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kiliankoe/quizcast/internal/event"
)

// Sink receives a full snapshot after every state mutation. A nil sink is
// valid and simply discards updates.
type Sink interface {
	PublishState(Snapshot)
}

// Layout supplies the measured on-screen distance between two adjacent
// leaderboard slots. The displays report it; the session only consumes it.
type Layout interface {
	EntrySpacing() int
}

const fallbackEntrySpacing = 96

// Session owns the display state for one connected game. All mutation goes
// through the mutex: message handling from the socket layer and every fired
// timer take it, so the effects of one message or one scheduled step always
// complete before the next is processed.
type Session struct {
	ID string

	mu         sync.Mutex
	clock      clock.Clock
	log        zerolog.Logger
	sink       Sink
	layout     Layout
	exportFile string

	screens Screens
	current ScreenName

	tutorial tutorialRun
	reorder  reorderRun
}

type Options struct {
	Clock      clock.Clock
	Logger     zerolog.Logger
	Sink       Sink
	Layout     Layout
	ExportFile string
}

func NewSession(opts Options) *Session {
	c := opts.Clock
	if c == nil {
		c = clock.New()
	}
	s := &Session{
		ID:         uuid.NewString(),
		clock:      c,
		log:        opts.Logger,
		sink:       opts.Sink,
		layout:     opts.Layout,
		exportFile: opts.ExportFile,
	}
	s.screens.Connecting = ConnectingScreen{Message: "Waiting for the game to connect..."}
	s.current = ScreenConnecting
	return s
}

// errNoChange is returned by a handler that deliberately ignores a valid
// message. Handle skips the snapshot publish: displays observe no update.
var errNoChange = errors.New("no state change")

var handlers = map[event.Type]func(*Session, event.Envelope) error{
	event.TypeLobby:            (*Session).handleLobby,
	event.TypeTutorial:         (*Session).handleTutorial,
	event.TypeSkipTutorial:     (*Session).handleSkipTutorial,
	event.TypeLoading:          (*Session).handleLoading,
	event.TypeLoadingRound:     (*Session).handleLoadingRound,
	event.TypeRoundCountdown:   (*Session).handleRoundCountdown,
	event.TypeAnswering:        (*Session).handleAnswering,
	event.TypeVotingTransition: (*Session).handleVotingTransition,
	event.TypeMatchupVoting:    (*Session).handleMatchupVoting,
	event.TypeMatchupResults:   (*Session).handleMatchupResults,
	event.TypeRoundResults:     (*Session).handleRoundResults,
	event.TypeGameResults:      (*Session).handleGameResults,
	event.TypeEnd:              (*Session).handleEnd,
}

// Handle processes one raw message from the sender. Malformed messages and
// unrecognized types are logged and dropped; the current screen is left
// untouched. Handle never panics on bad input.
func (s *Session) Handle(raw []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	env, err := event.Decode(raw)
	if err != nil {
		s.log.Warn().Err(err).Msg("dropping malformed message")
		return
	}
	h, ok := handlers[env.Type]
	if !ok {
		s.log.Warn().Err(event.ErrUnknownType).Str("type", string(env.Type)).Msg("dropping message")
		return
	}
	if err := h(s, env); err != nil {
		if !errors.Is(err, errNoChange) {
			s.log.Warn().Err(err).Str("type", string(env.Type)).Msg("dropping message")
		}
		return
	}
	s.publishLocked()
}

// activateLocked switches the single current screen. Leaving the tutorial
// screen cancels any pending tutorial timers, independently of how the
// transition was triggered.
func (s *Session) activateLocked(name ScreenName) {
	if s.current == ScreenTutorial && name != ScreenTutorial {
		s.cancelTutorialLocked()
	}
	if s.current != name {
		s.log.Debug().Str("from", string(s.current)).Str("to", string(name)).Msg("screen transition")
	}
	s.current = name
}

// SenderLost is called by the transport when the last sender detaches.
func (s *Session) SenderLost() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.screens.End = EndScreen{Message: "Thanks for playing!"}
	s.activateLocked(ScreenEnd)
	s.publishLocked()
}

func (s *Session) CurrentScreen() ScreenName {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{SessionID: s.ID, Current: s.current, Screens: s.screens}
}

func (s *Session) publishLocked() {
	if s.sink == nil {
		return
	}
	s.sink.PublishState(s.snapshotLocked())
}

func (s *Session) entrySpacingLocked(entries int) int {
	if entries < 2 {
		return fallbackEntrySpacing
	}
	if s.layout != nil {
		if v := s.layout.EntrySpacing(); v > 0 {
			return v
		}
	}
	return fallbackEntrySpacing
}

// handle wraps one scheduled continuation. Once stopped it never runs, even
// if the underlying timer already fired and its callback is waiting on the
// session mutex.
type handle struct {
	timer   *clock.Timer
	stopped bool
}

func (h *handle) stop() {
	h.stopped = true
	if h.timer != nil {
		h.timer.Stop()
	}
}

// after schedules fn to run once after d. fn executes under the session
// mutex and the snapshot is published when it returns.
func (s *Session) after(d time.Duration, fn func()) *handle {
	h := &handle{}
	h.timer = s.clock.AfterFunc(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if h.stopped {
			return
		}
		h.stopped = true
		fn()
		s.publishLocked()
	})
	return h
}
