package relocate

import (
	"fmt"
	"strings"
)

// Mode selects what Relocate does with a file.
type Mode int

const (
	// Simulate computes and logs the relocation without touching the filesystem.
	Simulate Mode = iota
	Copy
	Move
)

// ParseMode accepts "dryrun", "copy" or "move" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dryrun", "":
		return Simulate, nil
	case "copy":
		return Copy, nil
	case "move":
		return Move, nil
	default:
		return Simulate, fmt.Errorf("mode: unsupported value %q (want move, copy or dryrun)", s)
	}
}

func (m Mode) String() string {
	switch m {
	case Copy:
		return "copy"
	case Move:
		return "move"
	default:
		return "dryrun"
	}
}

// Outcome classifies what happened to one candidate file.
type Outcome string

const (
	OutcomeMoved         Outcome = "moved"
	OutcomeCopied        Outcome = "copied"
	OutcomeSimulated     Outcome = "simulated"
	OutcomeAlreadyPlaced Outcome = "already_placed"
	OutcomeSkippedExists Outcome = "skipped_exists"
	OutcomeSkippedNoDate Outcome = "skipped_no_date"
	OutcomeFailed        Outcome = "failed"
)

// Outcomes lists every Outcome in reporting order.
func Outcomes() []Outcome {
	return []Outcome{
		OutcomeMoved,
		OutcomeCopied,
		OutcomeSimulated,
		OutcomeAlreadyPlaced,
		OutcomeSkippedExists,
		OutcomeSkippedNoDate,
		OutcomeFailed,
	}
}

// Relocated reports whether the outcome put a file at its destination.
func (o Outcome) Relocated() bool {
	return o == OutcomeMoved || o == OutcomeCopied
}
