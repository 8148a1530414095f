package canteen

const (
	TopicOrderPlaced = "canteen.order.placed"
	TopicOrderStatus = "canteen.order.status"
)

// Partition key = order number, so all events for one order stay in order.
func PartitionKey(orderNumber string) []byte { return []byte(orderNumber) }
