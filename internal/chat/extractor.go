package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Extractor 从用户问句中抽取意图所需的参数。
// 抽取失败或模型输出不可解析时退化为全空参数，不向上抛错。
type Extractor struct {
	completer Completer
	logger    *zap.Logger
}

func NewExtractor(completer Completer, logger *zap.Logger) *Extractor {
	return &Extractor{
		completer: completer,
		logger:    logger.Named("param-extractor"),
	}
}

// Extract 返回意图的每个必填参数到字符串值的映射，缺失的参数值为空串
func (e *Extractor) Extract(ctx context.Context, query string, intent Intent) map[string]string {
	required := RequiredParams(intent)
	if len(required) == 0 {
		return map[string]string{}
	}

	blank := blankParams(required)
	if e.completer == nil || !e.completer.Ready() {
		e.logger.Warn("补全客户端不可用，参数抽取退化为空参数", zap.String("intent", string(intent)))
		return blank
	}

	raw, err := e.completer.Complete(ctx, buildPrompt(query, intent, required))
	if err != nil {
		e.logger.Error("参数抽取调用失败", zap.String("intent", string(intent)), zap.Error(err))
		return blank
	}

	params, err := decodeParams(raw, required)
	if err != nil {
		e.logger.Warn("模型输出不是合法 JSON，参数抽取退化为空参数",
			zap.String("intent", string(intent)),
			zap.Error(err))
		return blank
	}

	e.logger.Debug("参数抽取完成",
		zap.String("intent", string(intent)),
		zap.Any("params", params))
	return params
}

func buildPrompt(query string, intent Intent, required []string) string {
	var b strings.Builder
	b.WriteString("You are a parameter extractor for a furniture store assistant.\n")
	fmt.Fprintf(&b, "The user's intent is %q.\n", string(intent))
	fmt.Fprintf(&b, "Extract the following parameters from the user query: %s.\n", strings.Join(required, ", "))
	b.WriteString("Respond with a single JSON object whose keys are exactly those parameter names.\n")
	b.WriteString("Use an empty string for any parameter not present in the query. Do not add other keys or any text outside the JSON object.\n")
	fmt.Fprintf(&b, "User query: %s", query)
	return b.String()
}

// decodeParams 在模型输出中截取第一个 '{' 到最后一个 '}' 之间的内容并解析。
// 模型常在 JSON 前后附带说明文字或代码块标记，截取后再解码可以兼容这类输出。
func decodeParams(raw string, required []string) (map[string]string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("输出中没有 JSON 对象")
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &decoded); err != nil {
		return nil, fmt.Errorf("解析 JSON 失败: %w", err)
	}

	params := blankParams(required)
	for _, key := range required {
		value, ok := decoded[key]
		if !ok || value == nil {
			continue
		}
		switch v := value.(type) {
		case string:
			params[key] = strings.TrimSpace(v)
		case float64, bool:
			params[key] = fmt.Sprintf("%v", v)
		default:
			// 嵌套结构按 JSON 字符串保留
			if encoded, err := json.Marshal(v); err == nil {
				params[key] = string(encoded)
			}
		}
	}
	return params, nil
}

func blankParams(required []string) map[string]string {
	params := make(map[string]string, len(required))
	for _, key := range required {
		params[key] = ""
	}
	return params
}
