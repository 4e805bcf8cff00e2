package model

// TurnInput is the graph input for one customer message.
type TurnInput struct {
	ThreadID string `json:"thread_id"`
	UserID   string `json:"user_id"`
	Message  string `json:"message"`
}

// TurnOutput is what the caller gets back once state is committed.
type TurnOutput struct {
	ThreadID     string  `json:"thread_id"`
	ResponseText string  `json:"response_text"`
	Journey      Journey `json:"journey"`
}

// Missing lists unknown slots in fixed priority order.
type Missing struct {
	Required []Slot `json:"required"`
	Optional []Slot `json:"optional"`
}

// Readiness is the outcome of evaluating a preference set.
type Readiness struct {
	NeedClarification bool    `json:"need_clarification"`
	Missing           Missing `json:"missing"`
}

// TurnState stores per-invocation state for the Eino Graph.
// Concurrency model:
//   - Registered as Graph Local State via compose.WithGenLocalState.
//   - All reads/writes happen inside Eino state handlers or compose.ProcessState,
//     which serialize access, so no extra locking is needed.
//   - The ConversationState itself flows along the graph edges; TurnState only
//     carries identifiers and bookkeeping for the current turn.
type TurnState struct {
	ThreadID string
	UserID   string

	Readiness Readiness
	// StageBefore is the funnel stage loaded from the checkpoint.
	StageBefore Stage

	ExtractionFailed bool
	OracleFailures   int

	// Accumulated LLM cost (USD) across oracle calls of this turn
	TotalCostUSD float64
}
