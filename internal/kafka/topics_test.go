package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChangeTopic(t *testing.T) {
	assert.Equal(t, "variant.created", ChangeTopic("variant", OpCreated))
	assert.Equal(t, "order.status_changed", ChangeTopic("order", OpStatusChanged))
}

func TestAckTopic(t *testing.T) {
	assert.Equal(t, "variant.created.ack", AckTopic("variant", OpCreated))
	assert.Equal(t, "promotion.deleted.ack", AckTopic("promotion", OpDeleted))
}
