package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file yields no lines.
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

// Entry is one parsed log line.
type Entry struct {
	Raw     string
	Time    time.Time
	Level   string
	Message string
	Error   string
	Fields  map[string]string
}

// FieldSummary renders the extra fields as sorted key=value pairs.
func (e Entry) FieldSummary() string {
	if len(e.Fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+e.Fields[k])
	}
	return strings.Join(parts, " ")
}

// Parse reads a key=value line as written by the logrus text formatter.
// Lines that do not carry a level come back with only Raw and Message set.
func Parse(line string) Entry {
	entry := Entry{Raw: line}
	pairs := splitPairs(line)
	for _, kv := range pairs {
		switch kv[0] {
		case "time":
			entry.Time = parseTimestamp(kv[1])
		case "level":
			entry.Level = strings.ToLower(kv[1])
		case "msg":
			entry.Message = kv[1]
		case "error":
			entry.Error = kv[1]
		default:
			if entry.Fields == nil {
				entry.Fields = make(map[string]string)
			}
			entry.Fields[kv[0]] = kv[1]
		}
	}
	if entry.Level == "" {
		entry.Message = line
		entry.Fields = nil
	}
	return entry
}

// ParseLines parses every line.
func ParseLines(lines []string) []Entry {
	out := make([]Entry, len(lines))
	for i, line := range lines {
		out[i] = Parse(line)
	}
	return out
}

var levelRank = map[string]int{
	"trace":   0,
	"debug":   1,
	"info":    2,
	"warning": 3,
	"warn":    3,
	"error":   4,
	"fatal":   5,
	"panic":   6,
}

// AtLeast keeps entries whose level is at or above minLevel. Unparsed lines
// are kept so continuation output is not lost.
func AtLeast(entries []Entry, minLevel string) []Entry {
	threshold, ok := levelRank[strings.ToLower(strings.TrimSpace(minLevel))]
	if !ok {
		return entries
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		rank, known := levelRank[e.Level]
		if !known || rank >= threshold {
			out = append(out, e)
		}
	}
	return out
}

func parseTimestamp(value string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339Nano, time.RFC3339} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

// splitPairs tokenises key=value and key="quoted value" pairs.
func splitPairs(line string) [][2]string {
	var pairs [][2]string
	i := 0
	for i < len(line) {
		for i < len(line) && line[i] == ' ' {
			i++
		}
		start := i
		for i < len(line) && line[i] != '=' && line[i] != ' ' {
			i++
		}
		if i >= len(line) || line[i] != '=' {
			continue
		}
		key := line[start:i]
		i++ // skip '='
		var value string
		if i < len(line) && line[i] == '"' {
			i++
			var b strings.Builder
			for i < len(line) && line[i] != '"' {
				if line[i] == '\\' && i+1 < len(line) {
					i++
				}
				b.WriteByte(line[i])
				i++
			}
			i++ // closing quote
			value = b.String()
		} else {
			vstart := i
			for i < len(line) && line[i] != ' ' {
				i++
			}
			value = line[vstart:i]
		}
		if key != "" {
			pairs = append(pairs, [2]string{key, value})
		}
	}
	return pairs
}
