package display

type ScreenName string

const (
	ScreenConnecting       ScreenName = "connecting"
	ScreenLobby            ScreenName = "lobby"
	ScreenTutorial         ScreenName = "tutorial"
	ScreenLoading          ScreenName = "loading"
	ScreenCountdown        ScreenName = "countdown"
	ScreenAnswering        ScreenName = "answering"
	ScreenVotingTransition ScreenName = "voting_transition"
	ScreenMatchupVoting    ScreenName = "matchup_voting"
	ScreenMatchupResults   ScreenName = "matchup_results"
	ScreenRoundResults     ScreenName = "round_results"
	ScreenGameResults      ScreenName = "game_results"
	ScreenEnd              ScreenName = "end"
)

// TimerUrgency drives the visual treatment of a countdown label. It is
// recomputed from the remaining seconds on every update.
type TimerUrgency string

const (
	UrgencyNeutral  TimerUrgency = "neutral"
	UrgencyWarning  TimerUrgency = "warning"
	UrgencyCritical TimerUrgency = "critical"
)

func urgencyFor(seconds int) TimerUrgency {
	switch {
	case seconds <= 5:
		return UrgencyCritical
	case seconds <= 10:
		return UrgencyWarning
	default:
		return UrgencyNeutral
	}
}

// Screens holds the content of every surface. Exactly one surface is shown
// at a time (Snapshot.Current); the rest keep their last-rendered content.
type Screens struct {
	Connecting       ConnectingScreen       `json:"connecting"`
	Lobby            LobbyScreen            `json:"lobby"`
	Tutorial         TutorialScreen         `json:"tutorial"`
	Loading          LoadingScreen          `json:"loading"`
	Countdown        CountdownScreen        `json:"countdown"`
	Answering        AnsweringScreen        `json:"answering"`
	VotingTransition VotingTransitionScreen `json:"votingTransition"`
	MatchupVoting    MatchupVotingScreen    `json:"matchupVoting"`
	MatchupResults   MatchupResultsScreen   `json:"matchupResults"`
	RoundResults     RoundResultsScreen     `json:"roundResults"`
	GameResults      GameResultsScreen      `json:"gameResults"`
	End              EndScreen              `json:"end"`
}

// Snapshot is the full display state pushed to attached displays after
// every mutation.
type Snapshot struct {
	SessionID string     `json:"sessionId"`
	Current   ScreenName `json:"current"`
	Screens   Screens    `json:"screens"`
}

type ConnectingScreen struct {
	Message string `json:"message"`
}

type PlayerCard struct {
	Name   string `json:"name"`
	IconID string `json:"iconId"`
	IsHost bool   `json:"isHost"`
}

type LobbyScreen struct {
	GameName    string       `json:"gameName"`
	HostName    string       `json:"hostName"`
	Players     []PlayerCard `json:"players"`
	SlotsLabel  string       `json:"slotsLabel"`
	RoundsLabel string       `json:"roundsLabel"`
}

type LoadingScreen struct {
	Status string `json:"status"`
}

type CountdownScreen struct {
	RoundLabel string `json:"roundLabel"`
	Seconds    int    `json:"seconds"`
}

type AnsweringScreen struct {
	RoundLabel    string       `json:"roundLabel"`
	Seconds       int          `json:"seconds"`
	Urgency       TimerUrgency `json:"urgency"`
	ReceivedLabel string       `json:"receivedLabel"`
}

type VotingTransitionScreen struct {
	Message string `json:"message"`
}

type MatchupVotingScreen struct {
	Prompt       string       `json:"prompt"`
	Answer1      string       `json:"answer1"`
	Answer2      string       `json:"answer2"`
	Seconds      int          `json:"seconds"`
	Urgency      TimerUrgency `json:"urgency"`
	VotesLabel   string       `json:"votesLabel"`
	MatchupLabel string       `json:"matchupLabel"`
}

type MatchupSide struct {
	Name   string   `json:"name"`
	Answer string   `json:"answer"`
	Votes  int      `json:"votes"`
	Voters []string `json:"voters"`
	Bonus  bool     `json:"bonus"`
	Winner bool     `json:"winner"`
}

type AbstainGroup struct {
	Voters []string `json:"voters"`
	Winner bool     `json:"winner"`
}

type MatchupResultsScreen struct {
	Prompt  string       `json:"prompt"`
	Side1   MatchupSide  `json:"side1"`
	Side2   MatchupSide  `json:"side2"`
	Abstain AbstainGroup `json:"abstain"`
}

// ReorderPhase tracks the round-results animation state machine.
type ReorderPhase string

const (
	ReorderIdle    ReorderPhase = "idle"
	ShowingByRound ReorderPhase = "by_round"
	Reordering     ReorderPhase = "reordering"
	ShowingByTotal ReorderPhase = "by_total"
)

// LeaderboardEntry is the per-player projection the reorder animation works
// on. InitialIndex/InitialRank come from the round-score order,
// FinalIndex/FinalRank from the total-score order.
type LeaderboardEntry struct {
	Key          string `json:"key"`
	Name         string `json:"name"`
	IconID       string `json:"iconId"`
	RoundScore   int    `json:"roundScore"`
	TotalScore   int    `json:"totalScore"`
	InitialIndex int    `json:"initialIndex"`
	FinalIndex   int    `json:"finalIndex"`
	InitialRank  int    `json:"initialRank"`
	FinalRank    int    `json:"finalRank"`
	Rank         int    `json:"rank"`    // rank badge currently shown
	OffsetY      int    `json:"offsetY"` // transform displacement in px
	ShowTotal    bool   `json:"showTotal"`
}

type RoundResultsScreen struct {
	RoundLabel string             `json:"roundLabel"`
	Phase      ReorderPhase       `json:"phase"`
	Entries    []LeaderboardEntry `json:"entries"`
}

type ResultCard struct {
	Name       string `json:"name"`
	IconID     string `json:"iconId"`
	TotalScore int    `json:"totalScore"`
	Rank       int    `json:"rank"`
	Winner     bool   `json:"winner"`
	LastPlace  bool   `json:"lastPlace"`
}

type GameResultsScreen struct {
	Entries []ResultCard `json:"entries"`
}

type TutorialScreen struct {
	RoundsLabel     string `json:"roundsLabel"`
	AnswerTimeLabel string `json:"answerTimeLabel"`
	ActiveStep      int    `json:"activeStep"`
	FadingOut       bool   `json:"fadingOut"`
	TypedRounds     string `json:"typedRounds"`
	TypedTime       string `json:"typedTime"`
	PointsVisible   bool   `json:"pointsVisible"`
	BonusVisible    bool   `json:"bonusVisible"`
	RememberVisible bool   `json:"rememberVisible"`
	RememberPulsing bool   `json:"rememberPulsing"`
}

type EndScreen struct {
	Message string `json:"message"`
}
