package observers

import (
	einocb "github.com/cloudwego/eino/callbacks"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"
)

// NewAllCallbacks returns every observer handler to attach to a graph run
// via compose.WithCallbacks.
func NewAllCallbacks() []einocb.Handler {
	return []einocb.Handler{
		newNodeHandler(),
		NewComponentCallbacks(),
	}
}

// NewComponentCallbacks aggregates the typed component handlers (prompt,
// chat model, tool) into one callbacks.Handler.
func NewComponentCallbacks() einocb.Handler {
	return callbackHelper.NewHandlerHelper().
		Tool(newToolHandler()).
		ChatModel(newModelHandler()).
		Prompt(newPromptHandler()).
		Handler()
}
