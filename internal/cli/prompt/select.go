// Package prompt provides interactive CLI prompts for user input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/thoreinstein/envseed/internal/errors"
	"github.com/thoreinstein/envseed/internal/logging"
	"github.com/thoreinstein/envseed/internal/plan"
)

// Sentinel errors for task selection.
var (
	ErrNoTasks            = errors.New("no tasks to select from")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// FinderFunc picks entries interactively and returns their indexes.
type FinderFunc func(entries []plan.Entry) ([]int, error)

// Selector handles interactive task selection prompts.
type Selector struct {
	reader io.Reader
	writer io.Writer
	finder FinderFunc
}

// NewSelector creates a Selector using stdin and stdout. When both are
// terminals selection uses a fuzzy finder, otherwise a numbered prompt.
func NewSelector() *Selector {
	s := &Selector{
		reader: os.Stdin,
		writer: os.Stdout,
	}
	if logging.IsTTY(os.Stdin) && logging.IsTTY(os.Stdout) {
		s.finder = fuzzyFind
	}
	return s
}

// NewSelectorWithIO creates a Selector with custom reader and writer for
// testing. finder may be nil to force the numbered prompt.
func NewSelectorWithIO(r io.Reader, w io.Writer, finder FinderFunc) *Selector {
	return &Selector{
		reader: r,
		writer: w,
		finder: finder,
	}
}

// SelectTasks prompts the user to choose some of entries.
//
// Returns:
//   - ErrNoTasks if the list is empty
//   - The chosen entries in their original order
//   - All entries if the numbered prompt gets an empty answer
//   - ErrInvalidSelection if a number is malformed or out of range
//   - ErrSelectionCancelled if the finder is aborted or input is EOF
func (s *Selector) SelectTasks(entries []plan.Entry) ([]plan.Entry, error) {
	if len(entries) == 0 {
		return nil, ErrNoTasks
	}

	var idxs []int
	var err error
	if s.finder != nil {
		idxs, err = s.finder(entries)
	} else {
		idxs, err = s.prompt(entries)
	}
	if err != nil {
		return nil, err
	}
	if len(idxs) == 0 {
		return nil, ErrSelectionCancelled
	}

	slices.Sort(idxs)
	idxs = slices.Compact(idxs)

	chosen := make([]plan.Entry, 0, len(idxs))
	for _, i := range idxs {
		if i < 0 || i >= len(entries) {
			return nil, errors.Wrapf(ErrInvalidSelection, "%d is out of range", i+1)
		}
		chosen = append(chosen, entries[i])
	}
	return chosen, nil
}

func (s *Selector) prompt(entries []plan.Entry) ([]int, error) {
	fmt.Fprintln(s.writer, "Tasks in the plan:")
	for i, e := range entries {
		fmt.Fprintf(s.writer, "  [%d] %s\n", i+1, e)
	}
	fmt.Fprintf(s.writer, "Select (e.g. 1,3-4) [all]: ")

	input, err := bufio.NewReader(s.reader).ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || input == "") {
		if errors.Is(err, io.EOF) {
			return nil, ErrSelectionCancelled
		}
		return nil, errors.Wrap(err, "reading selection")
	}

	input = strings.TrimSpace(input)
	if input == "" {
		all := make([]int, len(entries))
		for i := range all {
			all[i] = i
		}
		return all, nil
	}

	return parseSelection(input, len(entries))
}

// parseSelection parses a 1-indexed list such as "1,3-4" into 0-indexed
// positions.
func parseSelection(input string, n int) ([]int, error) {
	var idxs []int
	for part := range strings.SplitSeq(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		lo, hi, isRange := strings.Cut(part, "-")
		from, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidSelection, "%q is not a number", part)
		}
		to := from
		if isRange {
			if to, err = strconv.Atoi(strings.TrimSpace(hi)); err != nil {
				return nil, errors.Wrapf(ErrInvalidSelection, "%q is not a range", part)
			}
		}

		if from < 1 || to > n || from > to {
			return nil, errors.Wrapf(ErrInvalidSelection, "%s is out of range [1-%d]", part, n)
		}
		for i := from; i <= to; i++ {
			idxs = append(idxs, i-1)
		}
	}
	return idxs, nil
}

func fuzzyFind(entries []plan.Entry) ([]int, error) {
	idxs, err := fuzzyfinder.FindMulti(
		entries,
		func(i int) string {
			return entries[i].String()
		},
		fuzzyfinder.WithHeader("Tab to mark tasks, Enter to run them"),
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			return fmt.Sprintf("Batch: %s\nTask:  %s", entries[i].Batch, entries[i].Task)
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil, ErrSelectionCancelled
		}
		return nil, errors.Wrap(err, "interactive selection failed")
	}
	return idxs, nil
}
