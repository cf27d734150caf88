package openai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	domai "github.com/mindtype/insights/internal/domain/ai"
)

func TestGenerateWithoutAPIKey(t *testing.T) {
	c := NewClient("", "gpt-4o-mini", "")
	_, err := c.Generate(context.Background(), "instr", domai.ModeJSON, 0.7)
	assert.ErrorIs(t, err, domai.ErrConfigurationMissing)

	c = NewClient("   ", "gpt-4o-mini", "")
	_, err = c.Generate(context.Background(), "instr", domai.ModeText, 0.7)
	assert.ErrorIs(t, err, domai.ErrConfigurationMissing)
}
