package nodes

// Graph node keys. They double as the "node" log field.
const (
	NodeLoadCheckpoint     = "load_checkpoint"
	NodeRecallMemory       = "recall_memory"
	NodeExtractSlots       = "extract_slots"
	NodeEvaluateReadiness  = "evaluate_readiness"
	NodeSynthesizeResponse = "synthesize_response"
	NodeSuggestTestDrive   = "suggest_test_drive"
	NodeSuggestFinancing   = "suggest_financing"
	NodeAdvanceStage       = "advance_stage"
	NodeRecordMemory       = "record_memory"
	NodeCommit             = "commit"
)
