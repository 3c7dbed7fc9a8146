package display

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// exportResults appends the final standings to a text file so game nights
// leave a record behind. The file accumulates across games.
func exportResults(filename string, cards []ResultCard) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	fileExists := false
	if _, err := os.Stat(filename); err == nil {
		fileExists = true
	}

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var sb strings.Builder
	if fileExists {
		sb.WriteString("\n\n")
	}
	sb.WriteString(fmt.Sprintf("Quizcast Final Standings - %s\n", time.Now().Format("2006-01-02 15:04:05")))
	sb.WriteString(strings.Repeat("=", 50) + "\n")
	for _, c := range cards {
		marker := ""
		if c.Winner {
			marker = " (winner)"
		}
		sb.WriteString(fmt.Sprintf("%d. %s: %d points%s\n", c.Rank, c.Name, c.TotalScore, marker))
	}

	if _, err := file.WriteString(sb.String()); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	return nil
}
