package display

import (
	"fmt"

	"github.com/kiliankoe/quizcast/internal/event"
)

// The handlers below are plain content updates: populate one screen from
// the payload, activate it, done. None of them keeps state across calls.

func (s *Session) handleLobby(env event.Envelope) error {
	var p event.LobbyPayload
	if err := env.Bind(&p); err != nil {
		return err
	}
	cards := make([]PlayerCard, 0, len(p.Players))
	for _, pl := range p.Players {
		cards = append(cards, PlayerCard{Name: pl.Name, IconID: pl.IconID, IsHost: pl.IsHost})
	}
	s.screens.Lobby = LobbyScreen{
		GameName:    p.GameName,
		HostName:    p.HostName,
		Players:     cards,
		SlotsLabel:  fmt.Sprintf("%d / %d players", len(p.Players), p.MaxPlayers),
		RoundsLabel: fmt.Sprintf("%d rounds", p.TotalRounds),
	}
	s.activateLocked(ScreenLobby)
	return nil
}

func (s *Session) handleLoading(env event.Envelope) error {
	s.screens.Loading = LoadingScreen{Status: "Loading..."}
	s.activateLocked(ScreenLoading)
	return nil
}

// handleLoadingRound suppresses routine loading rebroadcasts while the
// tutorial is running and on screen; the tutorial hands off to the loading
// screen itself when it finishes.
func (s *Session) handleLoadingRound(env event.Envelope) error {
	var p event.LoadingRoundPayload
	if err := env.Bind(&p); err != nil {
		return err
	}
	if s.tutorial.running && s.current == ScreenTutorial {
		s.log.Debug().Int("round", p.RoundNumber).Msg("suppressing loading_round during tutorial")
		return errNoChange
	}
	s.screens.Loading = LoadingScreen{Status: fmt.Sprintf("Loading Round %d...", p.RoundNumber)}
	s.activateLocked(ScreenLoading)
	return nil
}

func (s *Session) handleRoundCountdown(env event.Envelope) error {
	var p event.RoundCountdownPayload
	if err := env.Bind(&p); err != nil {
		return err
	}
	s.screens.Countdown = CountdownScreen{
		RoundLabel: fmt.Sprintf("Round %d of %d", p.RoundNumber, p.TotalRounds),
		Seconds:    p.SecondsRemaining,
	}
	s.activateLocked(ScreenCountdown)
	return nil
}

func (s *Session) handleAnswering(env event.Envelope) error {
	var p event.AnsweringPayload
	if err := env.Bind(&p); err != nil {
		return err
	}
	s.screens.Answering = AnsweringScreen{
		RoundLabel:    fmt.Sprintf("Round %d", p.RoundNumber),
		Seconds:       p.SecondsRemaining,
		Urgency:       urgencyFor(p.SecondsRemaining),
		ReceivedLabel: fmt.Sprintf("%d of %d answers in", p.AnswersReceived, p.TotalPlayers),
	}
	s.activateLocked(ScreenAnswering)
	return nil
}

func (s *Session) handleVotingTransition(env event.Envelope) error {
	s.screens.VotingTransition = VotingTransitionScreen{Message: "Time to vote!"}
	s.activateLocked(ScreenVotingTransition)
	return nil
}

func (s *Session) handleMatchupVoting(env event.Envelope) error {
	var p event.MatchupVotingPayload
	if err := env.Bind(&p); err != nil {
		return err
	}
	s.screens.MatchupVoting = MatchupVotingScreen{
		Prompt:       p.PromptText,
		Answer1:      p.Answer1,
		Answer2:      p.Answer2,
		Seconds:      p.SecondsRemaining,
		Urgency:      urgencyFor(p.SecondsRemaining),
		VotesLabel:   fmt.Sprintf("%d / %d votes", p.VotesReceived, p.EligibleVoters),
		MatchupLabel: fmt.Sprintf("Matchup %d of %d", p.MatchupNumber, p.TotalMatchups),
	}
	s.activateLocked(ScreenMatchupVoting)
	return nil
}

// handleMatchupResults marks every side whose count equals the maximum of
// (votes1, votes2, abstain) as a winner. Ties produce multiple winners, and
// the abstain bucket can win on its own or alongside the players.
func (s *Session) handleMatchupResults(env event.Envelope) error {
	var p event.MatchupResultsPayload
	if err := env.Bind(&p); err != nil {
		return err
	}
	abstain := len(p.AbstainVoters)
	max := p.Player1Votes
	if p.Player2Votes > max {
		max = p.Player2Votes
	}
	if abstain > max {
		max = abstain
	}
	s.screens.MatchupResults = MatchupResultsScreen{
		Prompt: p.PromptText,
		Side1: MatchupSide{
			Name:   p.Player1Name,
			Answer: p.Answer1,
			Votes:  p.Player1Votes,
			Voters: p.Player1Voters,
			Bonus:  p.Player1GetsBonus,
			Winner: p.Player1Votes == max,
		},
		Side2: MatchupSide{
			Name:   p.Player2Name,
			Answer: p.Answer2,
			Votes:  p.Player2Votes,
			Voters: p.Player2Voters,
			Bonus:  p.Player2GetsBonus,
			Winner: p.Player2Votes == max,
		},
		Abstain: AbstainGroup{
			Voters: p.AbstainVoters,
			Winner: abstain == max,
		},
	}
	s.activateLocked(ScreenMatchupResults)
	return nil
}

// handleGameResults badges the lowest rank value as winner and the highest
// as last place, straight from the incoming list. Both badges land on the
// same card only when a single player is present.
func (s *Session) handleGameResults(env event.Envelope) error {
	var p event.GameResultsPayload
	if err := env.Bind(&p); err != nil {
		return err
	}
	best, worst := 0, 0
	for i, pl := range p.Players {
		if i == 0 || pl.Rank < best {
			best = pl.Rank
		}
		if i == 0 || pl.Rank > worst {
			worst = pl.Rank
		}
	}
	cards := make([]ResultCard, 0, len(p.Players))
	for _, pl := range p.Players {
		cards = append(cards, ResultCard{
			Name:       pl.Name,
			IconID:     pl.IconID,
			TotalScore: pl.TotalScore,
			Rank:       pl.Rank,
			Winner:     pl.Rank == best,
			LastPlace:  pl.Rank == worst,
		})
	}
	s.screens.GameResults = GameResultsScreen{Entries: cards}
	if s.exportFile != "" {
		if err := exportResults(s.exportFile, cards); err != nil {
			s.log.Error().Err(err).Str("file", s.exportFile).Msg("failed to export results")
		} else {
			s.log.Info().Str("file", s.exportFile).Msg("exported final standings")
		}
	}
	s.activateLocked(ScreenGameResults)
	return nil
}

func (s *Session) handleEnd(env event.Envelope) error {
	s.screens.End = EndScreen{Message: "Thanks for playing!"}
	s.activateLocked(ScreenEnd)
	return nil
}
