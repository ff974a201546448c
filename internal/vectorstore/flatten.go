package vectorstore

import (
	"encoding/json"
	"fmt"
)

// FlattenMetadata 将嵌套map压平为点号连接的键，保证值为标量。
// 列表序列化为JSON字符串，其他非标量类型转为字符串表示。
func FlattenMetadata(metadata map[string]interface{}) map[string]interface{} {
	return flatten(metadata, "")
}

func flatten(metadata map[string]interface{}, parentKey string) map[string]interface{} {
	items := make(map[string]interface{}, len(metadata))

	for k, v := range metadata {
		key := k
		if parentKey != "" {
			key = parentKey + "." + k
		}

		switch value := v.(type) {
		case map[string]interface{}:
			for nk, nv := range flatten(value, key) {
				items[nk] = nv
			}
		case []interface{}:
			encoded, err := json.Marshal(value)
			if err != nil {
				items[key] = fmt.Sprintf("%v", value)
				continue
			}
			items[key] = string(encoded)
		case string, bool, int, int32, int64, float32, float64, nil:
			items[key] = value
		default:
			items[key] = fmt.Sprintf("%v", value)
		}
	}

	return items
}
