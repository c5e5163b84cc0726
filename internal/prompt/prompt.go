// Package prompt provides the operator-facing implementations of
// refine.Prompter: an interactive one backed by pterm for real terminal
// sessions, and a scripted one for tests and non-interactive automation
// that answers from a fixed, ordered list of canned decisions.
//
// Grounded on the pack's xataio-pgroll pterm_create.go, which uses exactly
// this DefaultInteractiveConfirm/DefaultInteractiveSelect pairing to ask an
// operator to confirm or choose among a small set of options before a
// migration proceeds.
package prompt

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/exograph/exoschema/internal/refine"
)

// Interactive asks the operator directly via the terminal using pterm's
// interactive widgets.
type Interactive struct{}

var _ refine.Prompter = Interactive{}

// ConfirmDestructive shows rationale and asks for a yes/no confirmation,
// defaulting to "no" so a distracted operator never accidentally approves
// a destructive statement by hitting enter.
func (Interactive) ConfirmDestructive(rationale string) bool {
	ok, _ := pterm.DefaultInteractiveConfirm.
		WithDefaultText(fmt.Sprintf("This statement is destructive: %s. Proceed?", rationale)).
		WithDefaultValue(false).
		Show()
	return ok
}

// PickRename presents each candidate's old->new name as a select option,
// plus a trailing "none of the above" entry so the operator can decline
// every candidate and keep the original drop+create pair.
func (Interactive) PickRename(candidates []refine.Candidate) (refine.Candidate, bool) {
	const declineOption = "none of the above — keep as drop and create"

	options := make([]string, 0, len(candidates)+1)
	labelToIndex := map[string]int{}
	for i, c := range candidates {
		label := renameLabel(c)
		options = append(options, label)
		labelToIndex[label] = i
	}
	options = append(options, declineOption)

	choice, err := pterm.DefaultInteractiveSelect.
		WithDefaultText("Is this a rename?").
		WithOptions(options).
		WithDefaultOption(declineOption).
		Show()
	if err != nil || choice == declineOption {
		return refine.Candidate{}, false
	}

	idx, ok := labelToIndex[choice]
	if !ok {
		return refine.Candidate{}, false
	}
	return candidates[idx], true
}

func renameLabel(c refine.Candidate) string {
	switch c.Kind {
	case refine.CandidateColumn:
		return fmt.Sprintf("rename column %s.%s -> %s.%s", c.Table.String(), c.OldName, c.Table.String(), c.NewName)
	default:
		return fmt.Sprintf("rename %s -> %s", c.OldName, c.NewName)
	}
}

// Scripted answers refine.Prompter calls from a fixed, ordered list of
// decisions, for tests and for non-interactive runs (e.g. CI) that must
// never block on a terminal. Each Answer is consumed in order; once the
// list is exhausted, every remaining call is treated as a decline, so a
// scripted run never hangs waiting for more answers than it was given.
type Scripted struct {
	Answers []Answer
	calls   int
}

var _ refine.Prompter = (*Scripted)(nil)

// Answer is one scripted response: either a destructive confirmation
// (Confirm) or a rename pick by candidate index (PickIndex, -1 to
// decline).
type Answer struct {
	Confirm   bool
	PickIndex int
}

func (s *Scripted) next() (Answer, bool) {
	if s.calls >= len(s.Answers) {
		s.calls++
		return Answer{}, false
	}
	a := s.Answers[s.calls]
	s.calls++
	return a, true
}

// ConfirmDestructive returns the next scripted Confirm answer, defaulting
// to false (decline) once the script is exhausted.
func (s *Scripted) ConfirmDestructive(rationale string) bool {
	a, ok := s.next()
	if !ok {
		return false
	}
	return a.Confirm
}

// PickRename returns the candidate at the next scripted PickIndex, or
// declines (ok=false) if the index is out of range, negative, or the
// script is exhausted.
func (s *Scripted) PickRename(candidates []refine.Candidate) (refine.Candidate, bool) {
	a, ok := s.next()
	if !ok || a.PickIndex < 0 || a.PickIndex >= len(candidates) {
		return refine.Candidate{}, false
	}
	return candidates[a.PickIndex], true
}

// AlwaysDecline is a Prompter that declines every rename candidate and
// rejects every destructive confirmation — the conservative default for
// fully unattended runs (spec.md §6 non-interactive mode), where only
// --allow-destructive, not a prompt, can authorize a destructive apply.
type AlwaysDecline struct{}

var _ refine.Prompter = AlwaysDecline{}

func (AlwaysDecline) ConfirmDestructive(rationale string) bool { return false }

func (AlwaysDecline) PickRename(candidates []refine.Candidate) (refine.Candidate, bool) {
	return refine.Candidate{}, false
}
