package nodes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/autoemporium/showroom-assistant/internal/agent/model"
	logx "github.com/autoemporium/showroom-assistant/pkg/logger"
)

var (
	ErrOracleUnavailable = errors.New("oracle is not configured")
	ErrEmptyReply        = errors.New("oracle returned an empty reply")
)

// Generator is the part of an Eino chat model the nodes depend on.
// *gemini.ChatModel satisfies it; tests substitute fakes.
type Generator interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error)
}

// Oracle wraps a Generator with a per-call deadline and usage accounting.
type Oracle struct {
	gen       Generator
	modelName string
	timeout   time.Duration
}

func NewOracle(gen Generator, modelName string, timeout time.Duration) *Oracle {
	return &Oracle{gen: gen, modelName: modelName, timeout: timeout}
}

// Ask sends msgs and returns the trimmed reply text. Transport errors,
// deadlines, empty replies and generator panics all come back as errors.
func (o *Oracle) Ask(ctx context.Context, node string, msgs []*schema.Message) (content string, err error) {
	if o == nil || o.gen == nil {
		return "", ErrOracleUnavailable
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s oracle panic: %v", node, r)
		}
		if err != nil {
			noteOracleFailure(ctx)
		}
	}()

	callCtx := ctx
	if o.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	out, err := o.gen.Generate(callCtx, msgs)
	if err != nil {
		return "", fmt.Errorf("%s oracle: %w", node, err)
	}
	if out == nil {
		return "", fmt.Errorf("%s oracle: %w", node, ErrEmptyReply)
	}

	o.recordUsage(ctx, node, out)

	content = strings.TrimSpace(out.Content)
	if content == "" {
		return "", fmt.Errorf("%s oracle: %w", node, ErrEmptyReply)
	}
	return content, nil
}

// recordUsage prices the call and adds it to the turn total.
func (o *Oracle) recordUsage(ctx context.Context, node string, out *schema.Message) {
	if out.ResponseMeta == nil || out.ResponseMeta.Usage == nil {
		return
	}
	usage := out.ResponseMeta.Usage
	inC, outC, totalC := model.ComputeCost(usage, model.ResolvePricing(o.modelName))

	var threadID string
	_ = compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
		s.TotalCostUSD += totalC
		threadID = s.ThreadID
		return nil
	})

	logx.Debug().
		Str("thread_id", threadID).
		Str("node", node).
		Str("model", o.modelName).
		Int("prompt_tokens", usage.PromptTokens).
		Int("completion_tokens", usage.CompletionTokens).
		Int("total_tokens", usage.TotalTokens).
		Float64("input_cost_usd", inC).
		Float64("output_cost_usd", outC).
		Float64("total_cost_usd", totalC).
		Msg("LLM usage")
}

// noteOracleFailure counts a recovered failure on the turn state. Outside a
// graph run there is no state and the call is a no-op.
func noteOracleFailure(ctx context.Context) {
	_ = compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
		s.OracleFailures++
		return nil
	})
}
