package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	domai "github.com/mindtype/insights/internal/domain/ai"
	"github.com/mindtype/insights/internal/domain/qna"
	"github.com/mindtype/insights/internal/domain/reports"
)

// Gateway issues instructions to the completion service and enforces the
// response contract for each requested shape. Failures are typed; nothing is
// retried here.
type Gateway struct {
	Client domai.Client
}

func NewGateway(client domai.Client) *Gateway {
	return &Gateway{Client: client}
}

// Models sometimes wrap JSON in code fences despite being told not to.
var fenceRe = regexp.MustCompile("(?s)^```(?:[a-zA-Z]*)?\\s*\\n?(.*?)\\n?\\s*```$")

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return s
}

// decode parses raw model output into v, repairing near-JSON before giving up.
func decode(raw string, v any) error {
	text := stripFences(raw)
	if text == "" {
		return domai.ErrEmptyResponse
	}
	if err := json.Unmarshal([]byte(text), v); err == nil {
		return nil
	}
	repaired, err := jsonrepair.JSONRepair(text)
	if err != nil {
		return fmt.Errorf("%w: not a JSON object", domai.ErrMalformedResponse)
	}
	if err := json.Unmarshal([]byte(repaired), v); err != nil {
		return fmt.Errorf("%w: %v", domai.ErrMalformedResponse, err)
	}
	return nil
}

// rawStep keeps the terminal flag as a pointer so a missing flag is
// distinguishable from false.
type rawStep struct {
	Question string   `json:"question"`
	Choices  []string `json:"choices"`
	IsFinal  *bool    `json:"isFinal"`
}

// NextStep requests a qna-step shaped response.
func (g *Gateway) NextStep(ctx context.Context, instruction string, temperature float32) (*qna.Step, error) {
	raw, err := g.Client.Generate(ctx, instruction, domai.ModeJSON, temperature)
	if err != nil {
		return nil, err
	}
	var rs rawStep
	if err := decode(raw, &rs); err != nil {
		return nil, err
	}
	if rs.IsFinal == nil {
		return nil, fmt.Errorf("%w: qna step is missing the terminal flag", domai.ErrMalformedResponse)
	}
	if !*rs.IsFinal && (strings.TrimSpace(rs.Question) == "" || len(rs.Choices) == 0) {
		return nil, fmt.Errorf("%w: non-terminal step needs a question and choices", domai.ErrMalformedResponse)
	}
	return &qna.Step{Question: rs.Question, Choices: rs.Choices, IsFinal: *rs.IsFinal}, nil
}

// FullReport requests a full-report shaped response. The model-reported
// language tag is always overridden with the requested code; drift is not
// silently accepted and never retried.
func (g *Gateway) FullReport(ctx context.Context, instruction, language string, temperature float32) (*reports.Report, error) {
	raw, err := g.Client.Generate(ctx, instruction, domai.ModeJSON, temperature)
	if err != nil {
		return nil, err
	}
	var r reports.Report
	if err := decode(raw, &r); err != nil {
		return nil, err
	}
	t, err := reports.ParseType(string(r.MBTIType))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domai.ErrMalformedResponse, err)
	}
	r.MBTIType = t
	r.Language = language
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domai.ErrMalformedResponse, err)
	}
	return &r, nil
}

// FreeText requests a free-text (Markdown allowed) response.
func (g *Gateway) FreeText(ctx context.Context, instruction string, temperature float32) (string, error) {
	raw, err := g.Client.Generate(ctx, instruction, domai.ModeText, temperature)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", domai.ErrEmptyResponse
	}
	return text, nil
}
