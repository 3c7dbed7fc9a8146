package display

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExportResultsWritesStandings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "results.txt")
	cards := []ResultCard{
		{Name: "Ana", TotalScore: 30, Rank: 1, Winner: true},
		{Name: "Ben", TotalScore: 10, Rank: 2},
	}
	require.NoError(t, exportResults(path, cards))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(b)
	require.Contains(t, out, "Quizcast Final Standings")
	require.Contains(t, out, "1. Ana: 30 points (winner)")
	require.Contains(t, out, "2. Ben: 10 points")
}

func TestExportResultsAppendsAcrossGames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.txt")
	require.NoError(t, exportResults(path, []ResultCard{{Name: "Ana", TotalScore: 5, Rank: 1, Winner: true}}))
	require.NoError(t, exportResults(path, []ResultCard{{Name: "Ben", TotalScore: 9, Rank: 1, Winner: true}}))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 2, strings.Count(string(b), "Quizcast Final Standings"))
}

func TestGameResultsTriggersExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.txt")
	s, _, _ := newTestSession(100)
	s.exportFile = path

	s.Handle([]byte(`{"type":"game_results","players":[{"name":"Ana","totalScore":30,"rank":1}]}`))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(b), "1. Ana: 30 points (winner)")
}
