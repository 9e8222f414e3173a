package events

import (
	"strings"

	"github.com/pkg/errors"
)

// SentimentKind is the classification attached to an inbound message
type SentimentKind uint8

const (
	SentimentUnknown SentimentKind = iota
	SentimentPositive
	SentimentNegative
)

func (k SentimentKind) String() string {
	switch k {
	case SentimentPositive:
		return "positive"
	case SentimentNegative:
		return "negative"
	default:
		return "unknown"
	}
}

// ErrMalformedSentiment marks events missing a kind or a sender
var ErrMalformedSentiment = errors.New("malformed sentiment event")

// ParseSentimentKind maps the ingestion wire value to a kind
func ParseSentimentKind(s string) (SentimentKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive":
		return SentimentPositive, nil
	case "negative":
		return SentimentNegative, nil
	}
	return SentimentUnknown, errors.Wrapf(ErrMalformedSentiment, "unknown kind %q", s)
}

// Sentiment is one classified message pushed by the ingestion service
type Sentiment struct {
	Kind     SentimentKind
	SenderID string
}

// Validate rejects events without a known kind or without a sender
func (s Sentiment) Validate() error {
	if s.Kind != SentimentPositive && s.Kind != SentimentNegative {
		return errors.Wrap(ErrMalformedSentiment, "missing kind")
	}
	if strings.TrimSpace(s.SenderID) == "" {
		return errors.Wrap(ErrMalformedSentiment, "missing sender id")
	}
	return nil
}
