package utils

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/itchan-dev/wall/shared/errors"
)

// NameMinLen is the shortest accepted submission name, counted in runes after trimming.
const NameMinLen = 2

const NameTooShortMessage = "Name is mandatory and must be at least 2 characters."

type SubmissionValidator struct {
	NameMaxLen    int
	MessageMaxLen int
}

func (v *SubmissionValidator) Name(name string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	if n < NameMinLen {
		return errors.Validation(NameTooShortMessage)
	}
	if v.NameMaxLen > 0 && n > v.NameMaxLen {
		return errors.Validation(fmt.Sprintf("Name is too long (max %d characters)", v.NameMaxLen))
	}
	return nil
}

func (v *SubmissionValidator) Message(message string) error {
	if v.MessageMaxLen > 0 && utf8.RuneCountInString(message) > v.MessageMaxLen {
		return errors.Validation(fmt.Sprintf("Message is too long (max %d characters)", v.MessageMaxLen))
	}
	return nil
}
