package game

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	DefaultWordChoices = 3
	maxSampleAttempts  = 10
)

// sampleWordChoices asks the generator for distinct words, resampling on
// duplicates. Small word sources can return fewer than count words.
func sampleWordChoices(gen RandomWordsGenerator, count int) []string {
	choices := make([]string, 0, count)
	seen := make(map[string]struct{}, count)

	for attempt := 0; attempt < maxSampleAttempts && len(choices) < count; attempt++ {
		for _, w := range gen.Generate(count - len(choices)) {
			w = strings.TrimSpace(w)
			key := NormalizeGuess(w)
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			choices = append(choices, w)
			if len(choices) == count {
				break
			}
		}
	}
	return choices
}

var digits = regexp.MustCompile(`\d`)

// ParseDurationLabel pulls every digit out of a label such as "80 seconds"
// and reads them as a number of seconds.
func ParseDurationLabel(label string) (int, error) {
	found := digits.FindAllString(label, -1)
	if len(found) == 0 {
		return 0, ErrMalformedDuration
	}
	seconds, err := strconv.Atoi(strings.Join(found, ""))
	if err != nil || seconds <= 0 {
		return 0, ErrMalformedDuration
	}
	return seconds, nil
}
