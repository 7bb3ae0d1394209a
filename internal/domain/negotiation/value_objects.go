package negotiation

import (
	"errors"
	"strings"
)

const MaxContentLength = 500

var (
	ErrEmptyContent   = errors.New("message content cannot be empty")
	ErrContentTooLong = errors.New("message content exceeds maximum length")
)

type Content struct {
	text string
}

func NewContent(s string) (Content, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return Content{}, ErrEmptyContent
	}
	if len(t) > MaxContentLength {
		return Content{}, ErrContentTooLong
	}
	return Content{text: t}, nil
}

func (c Content) String() string { return c.text }
