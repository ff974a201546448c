package chat

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/dearhome/assistant-go/internal/apperrors"
)

// Classifier 把用户问句归类到意图标签
type Classifier interface {
	Classify(ctx context.Context, query string) string
}

// Responder 把意图执行结果渲染成最终回复文本
type Responder interface {
	Respond(ctx context.Context, intent Intent, result interface{}) (string, error)
}

// JSONResponder 默认渲染器，直接输出负载的 JSON
type JSONResponder struct{}

func (JSONResponder) Respond(_ context.Context, _ Intent, result interface{}) (string, error) {
	encoded, err := json.Marshal(result)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeValidationFailed, "序列化应答失败", err)
	}
	return string(encoded), nil
}

// Chatbot 串联分类、参数抽取和意图分发的会话入口
type Chatbot struct {
	classifier Classifier
	extractor  *Extractor
	dispatcher *Dispatcher
	responder  Responder
	logger     *zap.Logger
}

func NewChatbot(classifier Classifier, extractor *Extractor, dispatcher *Dispatcher, responder Responder, logger *zap.Logger) *Chatbot {
	if responder == nil {
		responder = JSONResponder{}
	}
	return &Chatbot{
		classifier: classifier,
		extractor:  extractor,
		dispatcher: dispatcher,
		responder:  responder,
		logger:     logger.Named("chatbot"),
	}
}

// ProcessQuery 处理一轮用户输入。userID 用于订单等需要身份的意图
func (c *Chatbot) ProcessQuery(ctx context.Context, query, userID string) (string, error) {
	intent := Intent(c.classifier.Classify(ctx, query))
	c.logger.Info("收到用户问句",
		zap.String("intent", string(intent)),
		zap.String("user_id", userID))

	var params map[string]string
	if intent != IntentUnknown {
		params = c.extractor.Extract(ctx, query, intent)
	}

	result := c.dispatcher.Dispatch(ctx, intent, params, userID)
	return c.responder.Respond(ctx, intent, result)
}
