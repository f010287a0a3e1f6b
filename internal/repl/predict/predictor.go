// Package predict provides the inline suggestion ("ghost text") engine for the
// ghostsh REPL.
package predict

import (
	"strings"

	"go.uber.org/zap"
)

// Predictor defines the interface for making line predictions.
type Predictor interface {
	// Predict returns the full predicted line for input, or "" when there is
	// no prediction. A non-empty result always starts with input and is
	// strictly longer than it.
	Predict(input string) string
}

// HistorySource is the read access HistoryPredictor needs from the history
// store: a newest-to-oldest walk that stops when fn returns false.
type HistorySource interface {
	Newest(fn func(entry string) bool)
}

// HistoryPredictor predicts the newest history entry extending the input.
type HistoryPredictor struct {
	history HistorySource
	logger  *zap.Logger
}

// NewHistoryPredictor creates a predictor backed by history.
func NewHistoryPredictor(history HistorySource, logger *zap.Logger) *HistoryPredictor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryPredictor{
		history: history,
		logger:  logger,
	}
}

// Predict implements Predictor.
func (p *HistoryPredictor) Predict(input string) string {
	return p.FindBestMatch(input)
}

// FindBestMatch scans history newest first and returns the first entry that
// starts with input and is longer than it.
func (p *HistoryPredictor) FindBestMatch(input string) string {
	if input == "" || p.history == nil {
		return ""
	}

	var match string
	p.history.Newest(func(entry string) bool {
		if len(entry) > len(input) && strings.HasPrefix(entry, input) {
			match = entry
			return false
		}
		return true
	})

	if match != "" {
		p.logger.Debug("history prediction", zap.String("input", input), zap.String("prediction", match))
	}
	return match
}

// Remainder returns the part of prediction after input, the text shown as
// ghost text. It is empty when prediction does not extend input.
func Remainder(input, prediction string) string {
	if len(prediction) <= len(input) || !strings.HasPrefix(prediction, input) {
		return ""
	}
	return prediction[len(input):]
}
