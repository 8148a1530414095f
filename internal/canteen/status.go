package canteen

type Status string

// Known statuses. The workflow only ever creates orders as confirmed (they
// have already passed balance validation); admin updates may set any string,
// no transition rules are enforced.
const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
)
