package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// AccidentHeader is the column layout of the raw accident fixture.
var AccidentHeader = []string{
	"Date", "Driver Age", "Weather", "Road Type", "Vehicles",
	"Simple Injuries", "Medium Injuries", "Severe Injuries", "Death",
}

// AccidentCSV returns a deterministic raw accident table with n distinct
// rows followed by dups exact copies of the first rows. Roughly a third of
// the rows have an injury or death; every seventh age is out of range and
// every eleventh date is unparseable. Rows are distinct for n <= 60.
func AccidentCSV(n, dups int) string {
	weathers := []string{"Clear", "Rain", "Fog", "Snow"}
	roads := []string{"Highway", "Urban", "Rural"}

	rows := make([]string, 0, n+dups)
	for i := 0; i < n; i++ {
		date := fmt.Sprintf("2023-%02d-%02d %02d:%02d:00", i%12+1, i%28+1, i%24, i%60)
		if i%11 == 10 {
			date = "not-a-date"
		}
		age := fmt.Sprintf("%d", 18+(i*7)%60)
		if i%7 == 6 {
			age = "130"
		}
		simple, medium, severe, death := 0, 0, 0, 0
		switch i % 6 {
		case 1:
			simple = 1
		case 4:
			death = 1
		}
		rows = append(rows, strings.Join([]string{
			date,
			age,
			weathers[i%len(weathers)],
			roads[i%len(roads)],
			fmt.Sprintf("%d", 1+i%3),
			fmt.Sprintf("%d", simple),
			fmt.Sprintf("%d", medium),
			fmt.Sprintf("%d", severe),
			fmt.Sprintf("%d", death),
		}, ","))
	}
	for i := 0; i < dups && i < n; i++ {
		rows = append(rows, rows[i])
	}
	return strings.Join(AccidentHeader, ",") + "\n" + strings.Join(rows, "\n") + "\n"
}

// WriteFile writes content to name inside dir and returns the full path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
