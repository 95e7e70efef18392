package order

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusRefunded  Status = "refunded"
	StatusInDispute Status = "in_dispute"
)

type EscrowStatus string

const (
	EscrowHeld     EscrowStatus = "held"
	EscrowReleased EscrowStatus = "released"
	EscrowRefunded EscrowStatus = "refunded"
)

// Dispute resolution tokens. Matching is exact and case-sensitive.
const (
	ResolutionComplete = "Complete"
	ResolutionRefund   = "Refund"
)

type action string

const (
	actionUpdate          action = "update"
	actionComplete        action = "complete"
	actionDispute         action = "dispute"
	actionResolveComplete action = "resolve_complete"
	actionResolveRefund   action = "resolve_refund"
)

// orderTransitions maps current status and requested action to the next
// status. Absent entries are rejected; completed and refunded are terminal.
// Resolution is permitted straight from pending without passing through
// in_dispute, and a direct refund without resolution is not.
var orderTransitions = map[Status]map[action]Status{
	StatusPending: {
		actionUpdate:          StatusPending,
		actionComplete:        StatusCompleted,
		actionDispute:         StatusInDispute,
		actionResolveComplete: StatusCompleted,
		actionResolveRefund:   StatusRefunded,
	},
	StatusInDispute: {
		actionResolveComplete: StatusCompleted,
		actionResolveRefund:   StatusRefunded,
	},
}

func nextStatus(from Status, act action) (Status, bool) {
	next, ok := orderTransitions[from][act]
	return next, ok
}

type escrowAction string

const (
	escrowRelease escrowAction = "release"
	escrowRefund  escrowAction = "refund"
)

// Escrow moves forward only: held is the sole non-terminal state.
var escrowTransitions = map[EscrowStatus]map[escrowAction]EscrowStatus{
	EscrowHeld: {
		escrowRelease: EscrowReleased,
		escrowRefund:  EscrowRefunded,
	},
}

func nextEscrowStatus(from EscrowStatus, act escrowAction) (EscrowStatus, bool) {
	next, ok := escrowTransitions[from][act]
	return next, ok
}
