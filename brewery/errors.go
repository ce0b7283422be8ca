package brewery

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dstockto/brewctl/models"
)

// ErrConfirmationAbort is returned when the user declines a confirmation. Callers treat it as
// a normal outcome, see IsAbort.
var ErrConfirmationAbort = errors.New("aborted")

func IsAbort(err error) bool {
	return errors.Is(err, ErrConfirmationAbort)
}

// ValidationError is local input that was refused before anything was sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// InfeasibleError means the local snapshot does not cover the requested batches.
type InfeasibleError struct {
	Recipe     string
	Batches    int
	Shortfalls []Shortfall
}

func (e *InfeasibleError) Error() string {
	parts := make([]string, 0, len(e.Shortfalls))
	for _, s := range e.Shortfalls {
		parts = append(parts, fmt.Sprintf("%s (need %s, have %s)", s.Name, models.FormatQuantity(s.Required), models.FormatQuantity(s.Available)))
	}
	return fmt.Sprintf("cannot produce %d batch(es) of %s: short of %s", e.Batches, e.Recipe, strings.Join(parts, ", "))
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

type ConfirmFunc func(prompt string) (bool, error)

func (f ConfirmFunc) Confirm(prompt string) (bool, error) { return f(prompt) }

// AlwaysConfirm answers yes without asking, for --yes flags.
var AlwaysConfirm = ConfirmFunc(func(string) (bool, error) { return true, nil })

func confirm(c Confirmer, prompt string) error {
	if c == nil {
		return nil
	}
	ok, err := c.Confirm(prompt)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConfirmationAbort
	}
	return nil
}
