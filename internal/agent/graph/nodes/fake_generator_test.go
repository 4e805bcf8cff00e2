package nodes

import (
	"context"
	"errors"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// fakeGenerator answers every call with the same scripted outcome.
type fakeGenerator struct {
	reply  string
	err    error
	panics bool
	block  bool
	usage  *schema.TokenUsage

	calls    int
	lastMsgs []*schema.Message
}

func (f *fakeGenerator) Generate(ctx context.Context, in []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	f.calls++
	f.lastMsgs = in
	if f.panics {
		panic("boom")
	}
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	out := schema.AssistantMessage(f.reply, nil)
	if f.usage != nil {
		out.ResponseMeta = &schema.ResponseMeta{Usage: f.usage}
	}
	return out, nil
}

var errTransport = errors.New("transport closed")

func oracleWith(g *fakeGenerator) *Oracle {
	return NewOracle(g, "gemini-2.5-flash", time.Second)
}

func fixedNow() time.Time {
	return time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC) // Monday
}
