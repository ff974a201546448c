package chat

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeClassifier 返回固定的意图标签
type fakeClassifier struct {
	intent string
}

func (c fakeClassifier) Classify(context.Context, string) string {
	return c.intent
}

func newTestChatbot(t *testing.T, intent string, completer Completer) *Chatbot {
	t.Helper()
	f := newDispatcherFixture(t)
	return NewChatbot(
		fakeClassifier{intent: intent},
		NewExtractor(completer, zap.NewNop()),
		f.dispatcher,
		nil,
		zap.NewNop(),
	)
}

func TestChatbot_StaticIntentEndToEnd(t *testing.T) {
	bot := newTestChatbot(t, "return_policy", &fakeCompleter{})

	reply, err := bot.ProcessQuery(context.Background(), "what is your return policy", "")
	require.NoError(t, err)

	payload := map[string]interface{}{}
	require.NoError(t, json.Unmarshal([]byte(reply), &payload))
	assert.Contains(t, payload, "policy")
}

func TestChatbot_UnknownSkipsExtraction(t *testing.T) {
	completer := &fakeCompleter{response: `{"query": "x"}`}
	bot := newTestChatbot(t, "unknown", completer)

	reply, err := bot.ProcessQuery(context.Background(), "gibberish", "")
	require.NoError(t, err)

	// unknown直接致歉，不调用参数抽取
	assert.Equal(t, 0, completer.calls)
	payload := map[string]interface{}{}
	require.NoError(t, json.Unmarshal([]byte(reply), &payload))
	assert.Contains(t, payload, "message")
}

func TestChatbot_ExtractionFeedsDispatch(t *testing.T) {
	f := newDispatcherFixture(t)
	ctx := context.Background()
	require.NoError(t, f.variants.Create(ctx, map[string]interface{}{
		"id": "v1", "name": "Oak Desk", "price": 499,
	}))

	bot := NewChatbot(
		fakeClassifier{intent: "price_inquiry"},
		NewExtractor(&fakeCompleter{response: `{"product_name": "Oak Desk"}`}, zap.NewNop()),
		f.dispatcher,
		nil,
		zap.NewNop(),
	)

	reply, err := bot.ProcessQuery(ctx, "how much is the oak desk", "u1")
	require.NoError(t, err)

	payload := map[string]interface{}{}
	require.NoError(t, json.Unmarshal([]byte(reply), &payload))
	assert.Equal(t, "499", payload["price"])
}

func TestJSONResponder(t *testing.T) {
	reply, err := JSONResponder{}.Respond(context.Background(), IntentGreeting,
		map[string]interface{}{"message": "hi"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"message": "hi"}`, reply)
}
