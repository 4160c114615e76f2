package main

import (
	"fmt"

	tiktoken "github.com/pkoukk/tiktoken-go"
	"go.uber.org/zap"
)

// Tokenizer counts tokens in file content for the optional tokens column.
type Tokenizer interface {
	CountTokens(text string) int
}

const defaultTiktokenModel = "gpt-4o"

type tiktokenCounter struct {
	ttk *tiktoken.Tiktoken
}

func (w *tiktokenCounter) CountTokens(text string) int {
	if w.ttk == nil {
		return 0
	}
	return len(w.ttk.EncodeOrdinary(text))
}

// newTokenizer loads the tiktoken encoding for model, falling back to the default model.
func newTokenizer(model string, logger *zap.Logger) (Tokenizer, error) {
	if model == "" {
		model = defaultTiktokenModel
	}

	tke, err := tiktoken.EncodingForModel(model)
	if err != nil {
		logger.Warn("tiktoken model not found, using default",
			zap.String("model", model),
			zap.String("default", defaultTiktokenModel),
			zap.Error(err))
		tke, err = tiktoken.EncodingForModel(defaultTiktokenModel)
		if err != nil {
			return nil, fmt.Errorf("failed to get tiktoken encoding for default model '%s': %w", defaultTiktokenModel, err)
		}
	}
	return &tiktokenCounter{ttk: tke}, nil
}
