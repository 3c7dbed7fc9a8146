// Package event defines the wire model for messages pushed by the game
// host. Every message is a single JSON object with a "type" discriminator;
// the remaining fields depend on the type.
package event

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrUnknownType = errors.New("unknown event type")

type Type string

const (
	TypeLobby            Type = "lobby"
	TypeTutorial         Type = "tutorial"
	TypeSkipTutorial     Type = "skip_tutorial"
	TypeLoading          Type = "loading"
	TypeLoadingRound     Type = "loading_round"
	TypeRoundCountdown   Type = "round_countdown"
	TypeAnswering        Type = "answering"
	TypeVotingTransition Type = "voting_transition"
	TypeMatchupVoting    Type = "matchup_voting"
	TypeMatchupResults   Type = "matchup_results"
	TypeRoundResults     Type = "round_results"
	TypeGameResults      Type = "game_results"
	TypeEnd              Type = "end"
)

// Envelope is the partially decoded message: the discriminator plus the raw
// object, which Bind decodes into the type's payload struct.
type Envelope struct {
	Type Type
	raw  json.RawMessage
}

func Decode(raw []byte) (Envelope, error) {
	var head struct {
		Type Type `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return Envelope{}, fmt.Errorf("decode event: %w", err)
	}
	if head.Type == "" {
		return Envelope{}, fmt.Errorf("decode event: missing type field")
	}
	return Envelope{Type: head.Type, raw: append(json.RawMessage(nil), raw...)}, nil
}

func (e Envelope) Bind(v any) error {
	if err := json.Unmarshal(e.raw, v); err != nil {
		return fmt.Errorf("bind %s payload: %w", e.Type, err)
	}
	return nil
}

type Player struct {
	Name       string `json:"name"`
	IconID     string `json:"iconId"`
	IsHost     bool   `json:"isHost"`
	Rank       int    `json:"rank"`
	RoundScore int    `json:"roundScore"`
	TotalScore int    `json:"totalScore"`
	PeerID     string `json:"peerId,omitempty"`
}

// Key is the stable identity used to correlate a player across the two
// leaderboard sort orders within one round_results message.
func (p Player) Key() string {
	if p.PeerID != "" {
		return p.PeerID
	}
	return p.Name
}

type LobbyPayload struct {
	GameName    string   `json:"gameName"`
	HostName    string   `json:"hostName"`
	Players     []Player `json:"players"`
	MaxPlayers  int      `json:"maxPlayers"`
	TotalRounds int      `json:"totalRounds"`
}

// TutorialPayload fields are all optional; the scheduler substitutes
// defaults for missing values.
type TutorialPayload struct {
	TotalRounds       int  `json:"totalRounds"`
	AnswerTimeSeconds int  `json:"answerTimeSeconds"`
	BonusEnabled      bool `json:"bonusEnabled"`
}

type LoadingRoundPayload struct {
	RoundNumber int `json:"roundNumber"`
}

type RoundCountdownPayload struct {
	RoundNumber      int `json:"roundNumber"`
	SecondsRemaining int `json:"secondsRemaining"`
	TotalRounds      int `json:"totalRounds"`
}

type AnsweringPayload struct {
	RoundNumber      int `json:"roundNumber"`
	SecondsRemaining int `json:"secondsRemaining"`
	AnswersReceived  int `json:"answersReceived"`
	TotalPlayers     int `json:"totalPlayers"`
}

type MatchupVotingPayload struct {
	PromptText       string `json:"promptText"`
	Answer1          string `json:"answer1"`
	Answer2          string `json:"answer2"`
	SecondsRemaining int    `json:"secondsRemaining"`
	VotesReceived    int    `json:"votesReceived"`
	EligibleVoters   int    `json:"eligibleVoters"`
	MatchupNumber    int    `json:"matchupNumber"`
	TotalMatchups    int    `json:"totalMatchups"`
}

type MatchupResultsPayload struct {
	PromptText       string   `json:"promptText"`
	Player1Name      string   `json:"player1Name"`
	Answer1          string   `json:"answer1"`
	Player1Votes     int      `json:"player1Votes"`
	Player1Voters    []string `json:"player1Voters"`
	Player1GetsBonus bool     `json:"player1GetsBonus"`
	Player2Name      string   `json:"player2Name"`
	Answer2          string   `json:"answer2"`
	Player2Votes     int      `json:"player2Votes"`
	Player2Voters    []string `json:"player2Voters"`
	Player2GetsBonus bool     `json:"player2GetsBonus"`
	AbstainVoters    []string `json:"abstainVoters"`
}

type RoundResultsPayload struct {
	RoundNumber int      `json:"roundNumber"`
	Players     []Player `json:"players"`
}

type GameResultsPayload struct {
	Players []Player `json:"players"`
}
