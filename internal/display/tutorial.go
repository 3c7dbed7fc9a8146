package display

import (
	"fmt"
	"time"

	"github.com/kiliankoe/quizcast/internal/event"
)

const (
	tutorialFade = 300 * time.Millisecond
	typeDelay    = 55 * time.Millisecond

	defaultTutorialRounds = 5
	defaultAnswerSeconds  = 60

	// Cumulative offsets of the early step transitions. Steps 5-7 depend
	// on the typewriter duration and are computed per run.
	tutStep2At = 4500 * time.Millisecond
	tutStep3At = 9500 * time.Millisecond
	tutStep4At = 14500 * time.Millisecond
)

// tutorialRun tracks one invocation of the tutorial timeline. At most one
// run's timers are ever pending: starting a new run tears the old one down
// before scheduling anything.
type tutorialRun struct {
	running bool
	timers  []*handle
}

func (s *Session) handleTutorial(env event.Envelope) error {
	var p event.TutorialPayload
	if err := env.Bind(&p); err != nil {
		return err
	}
	// A rebroadcast while the tutorial is running and on screen is a
	// duplicate, not a restart request.
	if s.tutorial.running && s.current == ScreenTutorial {
		s.log.Debug().Msg("tutorial already running, ignoring duplicate start")
		return errNoChange
	}
	s.startTutorialLocked(p)
	return nil
}

// handleSkipTutorial unconditionally cancels a running tutorial and jumps
// straight to the loading screen.
func (s *Session) handleSkipTutorial(env event.Envelope) error {
	s.cancelTutorialLocked()
	s.screens.Loading = LoadingScreen{Status: "Loading Round 1..."}
	s.activateLocked(ScreenLoading)
	return nil
}

func (s *Session) startTutorialLocked(p event.TutorialPayload) {
	s.cancelTutorialLocked()

	rounds := p.TotalRounds
	if rounds <= 0 {
		rounds = defaultTutorialRounds
	}
	secs := p.AnswerTimeSeconds
	if secs <= 0 {
		secs = defaultAnswerSeconds
	}
	s.screens.Tutorial = TutorialScreen{
		RoundsLabel:     fmt.Sprintf("%d rounds", rounds),
		AnswerTimeLabel: fmt.Sprintf("%d seconds to answer", secs),
		ActiveStep:      1,
	}
	s.tutorial.running = true
	s.activateLocked(ScreenTutorial)
	s.scheduleTimelineLocked(p.BonusEnabled)
	s.log.Info().Int("rounds", rounds).Int("answerTime", secs).Bool("bonus", p.BonusEnabled).Msg("tutorial started")
}

// cancelTutorialLocked stops every pending timer of the current run. Safe
// to call when nothing is pending.
func (s *Session) cancelTutorialLocked() {
	for _, h := range s.tutorial.timers {
		h.stop()
	}
	s.tutorial.timers = nil
	s.tutorial.running = false
}

// TutorialRunning reports whether a tutorial timeline is in progress.
func (s *Session) TutorialRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tutorial.running
}

// TutorialTimersPending counts the scheduled tutorial sub-steps that have
// neither fired nor been canceled.
func (s *Session) TutorialTimersPending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, h := range s.tutorial.timers {
		if !h.stopped {
			n++
		}
	}
	return n
}

func (s *Session) tutorialAfter(d time.Duration, fn func()) {
	s.tutorial.timers = append(s.tutorial.timers, s.after(d, fn))
}

// stepTransitionLocked schedules the 300ms crossfade into a step: fade the
// current step out, then swap every step's visibility at once.
func (s *Session) stepTransitionLocked(to int, at time.Duration) {
	s.tutorialAfter(at, func() {
		s.screens.Tutorial.FadingOut = true
	})
	s.tutorialAfter(at+tutorialFade, func() {
		s.screens.Tutorial.FadingOut = false
		s.screens.Tutorial.ActiveStep = to
	})
}

// typeTutorialText reveals text one character at a time via apply. The
// terminal character fires then, so chained reveals never overlap.
func (s *Session) typeTutorialText(text string, apply func(string), then func()) {
	runes := []rune(text)
	if len(runes) == 0 {
		if then != nil {
			then()
		}
		return
	}
	var step func(i int)
	step = func(i int) {
		apply(string(runes[:i]))
		if i < len(runes) {
			s.tutorialAfter(typeDelay, func() { step(i + 1) })
			return
		}
		if then != nil {
			then()
		}
	}
	s.tutorialAfter(typeDelay, func() { step(1) })
}

func (s *Session) scheduleTimelineLocked(bonus bool) {
	roundsLabel := s.screens.Tutorial.RoundsLabel
	timeLabel := s.screens.Tutorial.AnswerTimeLabel

	// Step 1 is the transition at offset zero: it is revealed synchronously
	// when the run starts, with no preceding fade. Steps 2 through 7 follow
	// as scheduled crossfades.
	s.stepTransitionLocked(2, tutStep2At)
	s.stepTransitionLocked(3, tutStep3At)
	s.stepTransitionLocked(4, tutStep4At)

	// Step 4: typewriter reveal of the rounds label, chained into the
	// answer-time label.
	typingStart := tutStep4At + tutorialFade + 200*time.Millisecond
	typingDur := time.Duration(len([]rune(roundsLabel))+len([]rune(timeLabel))) * typeDelay
	s.tutorialAfter(typingStart, func() {
		s.typeTutorialText(roundsLabel, func(v string) {
			s.screens.Tutorial.TypedRounds = v
		}, func() {
			s.typeTutorialText(timeLabel, func(v string) {
				s.screens.Tutorial.TypedTime = v
			}, nil)
		})
	})

	step5At := typingStart + typingDur + 2500*time.Millisecond
	step6At := step5At + 5000*time.Millisecond
	s.stepTransitionLocked(5, step5At)
	s.stepTransitionLocked(6, step6At)

	// Step 6: points callout fades in, holds, fades out; the bonus callout
	// follows only when the payload teaches the matchup bonus; then the
	// "remember" emphasis appears and starts pulsing.
	pointsIn := step6At + tutorialFade + 400*time.Millisecond
	pointsOut := pointsIn + 2600*time.Millisecond
	s.tutorialAfter(pointsIn, func() { s.screens.Tutorial.PointsVisible = true })
	s.tutorialAfter(pointsOut, func() { s.screens.Tutorial.PointsVisible = false })

	rememberAt := pointsOut + tutorialFade
	if bonus {
		bonusIn := pointsOut + tutorialFade
		bonusOut := bonusIn + 2600*time.Millisecond
		s.tutorialAfter(bonusIn, func() { s.screens.Tutorial.BonusVisible = true })
		s.tutorialAfter(bonusOut, func() { s.screens.Tutorial.BonusVisible = false })
		rememberAt = bonusOut + tutorialFade
	}
	s.tutorialAfter(rememberAt, func() {
		s.screens.Tutorial.RememberVisible = true
		s.screens.Tutorial.RememberPulsing = true
	})

	step7At := rememberAt + 3500*time.Millisecond
	s.stepTransitionLocked(7, step7At)

	// Completion: mark the run idle and hand off to the loading screen as
	// the holding state until the first round arrives.
	doneAt := step7At + 4000*time.Millisecond
	s.tutorialAfter(doneAt, func() {
		s.tutorial.running = false
		s.tutorial.timers = nil
		s.screens.Loading = LoadingScreen{Status: "Loading Round 1..."}
		s.activateLocked(ScreenLoading)
		s.log.Info().Msg("tutorial finished")
	})
}
