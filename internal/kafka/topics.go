package kafka

// 变更事件主题按 <实体>.<操作> 命名，确认主题在其后追加 .ack
const (
	OpCreated       = "created"
	OpUpdated       = "updated"
	OpDeleted       = "deleted"
	OpStatusChanged = "status_changed"
)

// ChangeTopic 变更事件主题名
func ChangeTopic(entity, op string) string {
	return entity + "." + op
}

// AckTopic 确认事件主题名
func AckTopic(entity, op string) string {
	return ChangeTopic(entity, op) + ".ack"
}
