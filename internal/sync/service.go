package sync

import (
	"fmt"
	"strings"
)

// 每个实体类型对应一个逻辑集合
const (
	CollectionProducts   = "products"
	CollectionVariants   = "variants"
	CollectionPromotions = "promotions"
	CollectionOrders     = "orders"
)

// field 把载荷里的业务字段转为字符串，缺失返回空串
func field(data map[string]interface{}, key string) string {
	value, ok := data[key]
	if !ok || value == nil {
		return ""
	}
	return fmt.Sprintf("%v", value)
}

// joinFields 空格连接非空字段，作为嵌入文本
func joinFields(values ...string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}
