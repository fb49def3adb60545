package game

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const (
	PointsPerPlayer = 10
	DrawerBonus     = 10

	closeGuessMinLength = 4
)

// NormalizeGuess trims and case-folds text so guesses compare exactly
// against the stored word.
func NormalizeGuess(s string) string {
	s = strings.TrimSpace(s)
	s = cases.Fold().String(s)
	return norm.NFC.String(s)
}

// AwardPool is what the next correct guesser earns. It never goes negative,
// which can otherwise happen once players leave mid-round.
func AwardPool(playerCount, alreadyCorrect int) int {
	pool := PointsPerPlayer*(playerCount-1) - PointsPerPlayer*alreadyCorrect
	if pool < 0 {
		return 0
	}
	return pool
}

func isCloseGuess(guess, word string) bool {
	if utf8.RuneCountInString(word) < closeGuessMinLength {
		return false
	}
	return levenshtein.ComputeDistance(guess, word) == 1
}

type guessOutcome struct {
	correct       bool // the guesser has the word, now or earlier this round
	scored        bool // this guess was the first correct one from the guesser
	awarded       int
	close         bool
	roundComplete bool
}

// evaluateGuess scores a guess against the room's current word and updates
// the guesser and drawer in place.
func evaluateGuess(r *Room, guesser *Player, text string) guessOutcome {
	outcome := guessOutcome{correct: guesser.GuessedCorrectly}

	if r.currentWord != "" && !guesser.IsCurrentPlayer && !guesser.GuessedCorrectly {
		normalized := NormalizeGuess(text)
		switch {
		case normalized == r.currentWord:
			outcome.awarded = AwardPool(len(r.players), r.correctGuessers())
			outcome.correct = true
			outcome.scored = true
			guesser.GuessedCorrectly = true
			guesser.Score += outcome.awarded
			if drawer := r.currentPlayer(); drawer != nil {
				drawer.Score += DrawerBonus
			}
		case isCloseGuess(normalized, r.currentWord):
			outcome.close = true
		}
	}

	outcome.roundComplete = roundComplete(r)
	return outcome
}

// roundComplete reports whether everyone except the drawer has the word.
func roundComplete(r *Room) bool {
	return len(r.players) > 1 && r.correctGuessers() >= len(r.players)-1
}
