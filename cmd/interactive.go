package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/dstockto/brewctl/brewery"
	"github.com/dstockto/brewctl/models"
	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"
)

// bellSkipper drops the terminal bell promptui rings on every keystroke.
type bellSkipper struct{}

func (bellSkipper) Write(b []byte) (int, error) {
	const charBell = 7
	if len(b) == 1 && b[0] == charBell {
		return 0, nil
	}
	return readline.Stdout.Write(b)
}

func (bellSkipper) Close() error {
	return readline.Stdout.Close()
}

// NoBellStdout is the Stdout every prompt uses.
var NoBellStdout io.WriteCloser = bellSkipper{}

// isInteractiveAllowed returns true when the user did not disable interaction
// via flag and when the process is attached to a TTY suitable for prompting.
func isInteractiveAllowed(nonInteractive bool) bool {
	if nonInteractive {
		return false
	}
	// Require stdin, stdout, and stderr to be terminals and TERM to be sane
	if !isatty.IsTerminal(os.Stdin.Fd()) || !isatty.IsTerminal(os.Stdout.Fd()) || !isatty.IsTerminal(os.Stderr.Fd()) {
		return false
	}
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	if term == "" || term == "dumb" {
		return false
	}
	return true
}

// confirmer asks y/N on the terminal. With yes set every prompt is accepted; without a
// terminal every prompt fails, so destructive commands need --yes in scripts.
func confirmer(yes bool) brewery.Confirmer {
	if yes {
		return brewery.AlwaysConfirm
	}
	return brewery.ConfirmFunc(func(label string) (bool, error) {
		if !isInteractiveAllowed(false) {
			return false, errors.New("confirmation needed but no terminal is attached; pass --yes")
		}
		prompt := promptui.Prompt{
			Label:     label,
			IsConfirm: true,
			Stdout:    NoBellStdout,
		}
		_, err := prompt.Run()
		if errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrInterrupt) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return true, nil
	})
}

// selectRecipe shows a searchable list of recipes and returns the chosen one. canceled is
// true when the user pressed Esc or Ctrl+C.
func selectRecipe(recipes []models.Recipe, label string) (models.Recipe, bool, error) {
	if len(recipes) == 0 {
		return models.Recipe{}, false, errors.New("no recipes to choose from")
	}
	if len(recipes) == 1 {
		return recipes[0], false, nil
	}

	items := make([]string, len(recipes))
	for i, r := range recipes {
		items[i] = r.String()
	}

	prompt := promptui.Select{
		Label:             label,
		Items:             items,
		Size:              12,
		Stdout:            NoBellStdout,
		StartInSearchMode: true,
		Searcher: func(input string, index int) bool {
			needle := models.NormalizeName(input)
			if needle == "" {
				return true
			}
			r := recipes[index]
			joined := models.NormalizeName(strings.Join([]string{strconv.Itoa(r.ID), r.Name, r.Style}, " "))
			return strings.Contains(joined, needle)
		},
	}
	idx, _, err := prompt.Run()
	if errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrInterrupt) {
		return models.Recipe{}, true, nil
	}
	if err != nil {
		return models.Recipe{}, false, err
	}
	return recipes[idx], false, nil
}

// selectOption shows the ingredient options of one category, with those partially matching
// term first. canceled is true when the user skipped the row.
func selectOption(opts []brewery.Option, cat models.Category, term string, forceSimple bool) (brewery.Option, bool, error) {
	if len(opts) == 0 {
		return brewery.Option{}, true, fmt.Errorf("no %s ingredients to choose from", cat)
	}

	// Build ordered candidates: partial matches first, then the rest
	needle := models.NormalizeName(term)
	candidates := make([]brewery.Option, 0, len(opts))
	var rest []brewery.Option
	for _, o := range opts {
		if needle != "" && strings.Contains(models.NormalizeName(o.Name), needle) {
			candidates = append(candidates, o)
		} else {
			rest = append(rest, o)
		}
	}
	candidates = append(candidates, rest...)

	if forceSimple {
		return selectOptionSimple(os.Stdin, os.Stdout, candidates, cat, term)
	}

	items := make([]string, len(candidates))
	for i, o := range candidates {
		items[i] = fmt.Sprintf("#%d %s", o.ID, o.Name)
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . }}",
		Selected: "✔ {{ . | green }}",
	}

	prompt := promptui.Select{
		Label:             fmt.Sprintf("Which %s is '%s'? (type to filter; Esc to skip)", cat, term),
		Items:             items,
		Templates:         templates,
		Size:              12,
		StartInSearchMode: true,
		Stdin:             os.Stdin,
		Stdout:            NoBellStdout,
		Searcher: func(input string, index int) bool {
			n := models.NormalizeName(input)
			return n == "" || strings.Contains(models.NormalizeName(items[index]), n)
		},
	}

	idx, _, perr := prompt.Run()
	if perr != nil {
		if errors.Is(perr, promptui.ErrInterrupt) || errors.Is(perr, promptui.ErrAbort) {
			return brewery.Option{}, true, nil
		}
		// Fall back to simple selector on unexpected prompt errors
		return selectOptionSimple(os.Stdin, os.Stdout, candidates, cat, term)
	}

	return candidates[idx], false, nil
}

// selectOptionSimple provides a numbered list over basic stdin without cursor
// control. User types a number or an ingredient id, or presses Enter to skip.
func selectOptionSimple(in io.Reader, out io.Writer, candidates []brewery.Option, cat models.Category, term string) (brewery.Option, bool, error) {
	reader := bufio.NewReader(in)
	_, _ = fmt.Fprintf(out, "Which %s is '%s'?\n", cat, term)
	for i, o := range candidates {
		_, _ = fmt.Fprintf(out, "%2d) #%d %s\n", i+1, o.ID, o.Name)
	}
	_, _ = fmt.Fprint(out, "Enter number to select, #id for an ingredient id, or press Enter to skip: ")
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return brewery.Option{}, true, nil
	}
	if strings.HasPrefix(line, "#") {
		for _, o := range candidates {
			if line == fmt.Sprintf("#%d", o.ID) {
				return o, false, nil
			}
		}
	} else if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(candidates) {
		return candidates[n-1], false, nil
	}
	return brewery.Option{}, true, fmt.Errorf("invalid selection: %q", line)
}
