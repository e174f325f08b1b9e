package labparse

import (
	"errors"
	"fmt"
	"log/slog"
)

// Registry tries vendor parsers in a fixed priority order and returns
// the rows from the first parser that both recognizes the text and
// extracts at least one result. Partial matches are never merged.
type Registry struct {
	logger  *slog.Logger
	parsers []Parser
}

// NewRegistry builds a registry over the given parsers. With none
// given it installs the known vendors, LabCorp before Quest.
func NewRegistry(logger *slog.Logger, parsers ...Parser) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	if len(parsers) == 0 {
		parsers = []Parser{LabCorpParser{}, QuestParser{}}
	}
	return &Registry{logger: logger, parsers: parsers}
}

// Parse returns the first vendor match. ok is false when no parser
// recognized the text or every recognizing parser extracted zero rows;
// the caller then falls back to generic cleaning. A parser that errors
// or panics is treated as a non-match and the next parser is tried.
func (r *Registry) Parse(text string) (results []TestResult, vendor string, ok bool) {
	for _, p := range r.parsers {
		rows, err := r.tryOne(p, text)
		if err != nil {
			if !errors.Is(err, ErrNoMatch) {
				r.logger.Warn("lab parser failed", "parser", p.Name(), "error", err)
			}
			continue
		}
		if len(rows) == 0 {
			r.logger.Debug("lab parser recognized text but extracted no rows", "parser", p.Name())
			continue
		}
		r.logger.Info("lab parser matched", "parser", p.Name(), "test_count", len(rows))
		return rows, p.Name(), true
	}
	return nil, "", false
}

func (r *Registry) tryOne(p Parser, text string) (rows []TestResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("parser %s panicked: %v", p.Name(), rec)
		}
	}()
	return p.TryParse(text)
}
