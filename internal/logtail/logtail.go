package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Read returns the last maxLines lines of the file at path. A maxLines of
// zero or less returns every line. A missing file is not an error.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Level is a coarse severity inferred from the message text.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

// Entry is one parsed line of the activity log.
type Entry struct {
	Time      string // "2006/01/02 15:04:05" as written by the log package
	Component string // "session", "library", ... or empty
	Message   string
	Level     Level
}

// Parse splits a line written by the standard logger with its default
// flags. Lines that do not carry a timestamp come back as a bare message.
func Parse(line string) Entry {
	entry := Entry{Message: line}

	fields := strings.SplitN(line, " ", 3)
	if len(fields) == 3 && looksLikeDate(fields[0]) && looksLikeClock(fields[1]) {
		entry.Time = fields[0] + " " + fields[1]
		entry.Message = fields[2]
	}

	if comp, rest, ok := strings.Cut(entry.Message, ": "); ok && isComponent(comp) {
		entry.Component = comp
		entry.Message = rest
	}

	entry.Level = classify(entry.Message)
	return entry
}

// ParseAll parses every line.
func ParseAll(lines []string) []Entry {
	out := make([]Entry, 0, len(lines))
	for _, line := range lines {
		out = append(out, Parse(line))
	}
	return out
}

func classify(msg string) Level {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "failed"), strings.Contains(lower, "error"):
		return LevelError
	case strings.Contains(lower, "preview mode"), strings.Contains(lower, "retry"),
		strings.Contains(lower, "unauthenticated"):
		return LevelWarn
	default:
		return LevelInfo
	}
}

func isComponent(s string) bool {
	if s == "" || len(s) > 16 {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && r != '-' {
			return false
		}
	}
	return true
}

func looksLikeDate(s string) bool {
	return len(s) == 10 && s[4] == '/' && s[7] == '/' && digitsOnly(s[:4]+s[5:7]+s[8:])
}

func looksLikeClock(s string) bool {
	return len(s) >= 8 && s[2] == ':' && s[5] == ':' && digitsOnly(s[:2]+s[3:5]+s[6:8])
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
