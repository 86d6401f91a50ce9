package market

const (
	TopicOrderSettled = "market.order.settled"
)

// Partition key = order_id so events for one order keep their order.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
