package display

import (
	"fmt"
	"sort"
	"time"

	"github.com/kiliankoe/quizcast/internal/event"
)

// Round-results timing: the round-score order is held for the dwell, the
// entries then glide to the total-score order over the motion duration, and
// the physical reorder happens at settle (motion plus a small margin so the
// eased transform has visibly finished).
const (
	reorderDwell  = 3000 * time.Millisecond
	reorderMotion = 800 * time.Millisecond
	reorderSettle = reorderMotion + 50*time.Millisecond
)

type reorderRun struct {
	dwell  *handle
	settle *handle
}

func (r *reorderRun) cancel() {
	if r.dwell != nil {
		r.dwell.stop()
		r.dwell = nil
	}
	if r.settle != nil {
		r.settle.stop()
		r.settle = nil
	}
}

// handleRoundResults starts the two-phase leaderboard animation. A new
// round_results always supersedes a pending one: both timers are canceled
// before the sequence restarts with the fresh payload.
func (s *Session) handleRoundResults(env event.Envelope) error {
	var p event.RoundResultsPayload
	if err := env.Bind(&p); err != nil {
		return err
	}
	s.reorder.cancel()

	s.screens.RoundResults = RoundResultsScreen{
		RoundLabel: fmt.Sprintf("Round %d Results", p.RoundNumber),
		Phase:      ShowingByRound,
		Entries:    buildLeaderboard(p.Players),
	}
	s.activateLocked(ScreenRoundResults)

	s.reorder.dwell = s.after(reorderDwell, s.beginReorder)
	return nil
}

// buildLeaderboard computes both orderings up front. Entries come back in
// round order, each stamped with its slot and rank in both orders.
func buildLeaderboard(players []event.Player) []LeaderboardEntry {
	byRound := append([]event.Player(nil), players...)
	sort.SliceStable(byRound, func(i, j int) bool {
		return byRound[i].RoundScore > byRound[j].RoundScore
	})
	roundRanks := competitionRanks(len(byRound), func(i int) int { return byRound[i].RoundScore })

	byTotal := append([]event.Player(nil), players...)
	sort.SliceStable(byTotal, func(i, j int) bool {
		a, b := byTotal[i], byTotal[j]
		if a.TotalScore != b.TotalScore {
			return a.TotalScore > b.TotalScore
		}
		if a.RoundScore != b.RoundScore {
			return a.RoundScore > b.RoundScore
		}
		return a.Name < b.Name
	})
	totalRanks := competitionRanks(len(byTotal), func(i int) int { return byTotal[i].TotalScore })

	finalIndex := make(map[string]int, len(byTotal))
	finalRank := make(map[string]int, len(byTotal))
	for i, pl := range byTotal {
		finalIndex[pl.Key()] = i
		finalRank[pl.Key()] = totalRanks[i]
	}

	entries := make([]LeaderboardEntry, 0, len(byRound))
	for i, pl := range byRound {
		entries = append(entries, LeaderboardEntry{
			Key:          pl.Key(),
			Name:         pl.Name,
			IconID:       pl.IconID,
			RoundScore:   pl.RoundScore,
			TotalScore:   pl.TotalScore,
			InitialIndex: i,
			FinalIndex:   finalIndex[pl.Key()],
			InitialRank:  roundRanks[i],
			FinalRank:    finalRank[pl.Key()],
			Rank:         roundRanks[i],
		})
	}
	return entries
}

// competitionRanks assigns sports-style ranks over an already descending
// sequence: ties share a rank, and every distinct value's rank is its
// 1-based position, e.g. scores 5,5,3 rank 1,1,3.
func competitionRanks(n int, score func(i int) int) []int {
	ranks := make([]int, n)
	for i := range ranks {
		if i > 0 && score(i) == score(i-1) {
			ranks[i] = ranks[i-1]
		} else {
			ranks[i] = i + 1
		}
	}
	return ranks
}

// beginReorder starts every entry's motion at once: a vertical displacement
// of (finalIndex - initialIndex) slots, the score label crossfading from
// round score to total score, and the rank badge flipping to the final rank.
func (s *Session) beginReorder() {
	rr := &s.screens.RoundResults
	spacing := s.entrySpacingLocked(len(rr.Entries))
	for i := range rr.Entries {
		e := &rr.Entries[i]
		e.OffsetY = (e.FinalIndex - e.InitialIndex) * spacing
		e.ShowTotal = true
		e.Rank = e.FinalRank
	}
	rr.Phase = Reordering
	s.reorder.settle = s.after(reorderSettle, s.settleReorder)
}

// settleReorder discards the transforms and physically reorders the entries
// into final-index order, so anything that relayouts afterwards sees true
// document order rather than the transform illusion.
func (s *Session) settleReorder() {
	rr := &s.screens.RoundResults
	ordered := make([]LeaderboardEntry, len(rr.Entries))
	for _, e := range rr.Entries {
		e.OffsetY = 0
		ordered[e.FinalIndex] = e
	}
	rr.Entries = ordered
	rr.Phase = ShowingByTotal
	s.reorder.settle = nil
	s.reorder.dwell = nil
}
