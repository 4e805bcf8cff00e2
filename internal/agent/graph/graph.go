package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"

	"github.com/autoemporium/showroom-assistant/internal/agent/catalog"
	"github.com/autoemporium/showroom-assistant/internal/agent/graph/nodes"
	"github.com/autoemporium/showroom-assistant/internal/agent/graph/tools"
	"github.com/autoemporium/showroom-assistant/internal/agent/model"
	logx "github.com/autoemporium/showroom-assistant/pkg/logger"
)

// maxRunSteps bounds a turn: nine nodes on the longest path plus slack.
const maxRunSteps = 20

// Config holds everything needed to compose the showroom graph end-to-end.
// This is a convenience layer over GraphConfig that also constructs the
// Gemini chat models.
type Config struct {
	APIKey     string
	BaseURL    string
	Extraction model.ExtractionModelConfig
	Response   model.ResponseModelConfig
	Prompt     model.PromptConfig
	Oracle     model.OracleConfig
	Memory     model.MemoryConfig

	Checkpoints model.CheckpointStore
	// MemoryStore may be nil to run without long-term memory.
	MemoryStore model.MemoryStore
	// MemoryWriter receives best-effort writes, typically the background job
	// publisher. Nil writes synchronously to MemoryStore.
	MemoryWriter nodes.MemoryWriter
	Catalog      *catalog.Catalog
	// Models are built from APIKey when nil.
	Models *nodes.ChatModels
}

// GraphConfig holds all configuration needed to build the graph
type GraphConfig struct {
	ExtractionOracle *nodes.Oracle
	ResponseOracle   *nodes.Oracle
	Prompt           model.PromptConfig

	Checkpoints  model.CheckpointStore
	MemoryStore  model.MemoryStore
	MemoryWriter nodes.MemoryWriter
	RecallLimit  int

	Vehicles tool.InvokableTool
	Terms    model.FinancingTerms
	Now      func() time.Time
}

// GraphBuilder handles the construction of the turn graph
type GraphBuilder struct {
	config      *GraphConfig
	graph       *compose.Graph[model.TurnInput, model.TurnOutput]
	extractor   *nodes.Extractor
	synthesizer *nodes.Synthesizer
}

// BuildShowroomGraph creates the chat models, builds the graph and returns a Runner.
func BuildShowroomGraph(ctx context.Context, cfg Config) (*Runner, error) {
	if cfg.Checkpoints == nil {
		return nil, fmt.Errorf("checkpoint store is nil")
	}

	cms := cfg.Models
	if cms == nil {
		var err error
		cms, err = nodes.NewChatModels(ctx, nodes.ChatModelConfig{
			APIKey:           cfg.APIKey,
			BaseURL:          cfg.BaseURL,
			ExtractionConfig: &cfg.Extraction,
			ResponseConfig:   &cfg.Response,
		})
		if err != nil {
			return nil, err
		}
	}

	var vehicles tool.InvokableTool
	if cfg.Catalog != nil {
		vehicles = tools.NewSearchVehiclesTool(cfg.Catalog)
	}

	runner, err := NewRunner(ctx, &GraphConfig{
		ExtractionOracle: nodes.NewOracle(cms.Extraction, cms.ExtractionModelName, cfg.Oracle.Timeout),
		ResponseOracle:   nodes.NewOracle(cms.Response, cms.ResponseModelName, cfg.Oracle.Timeout),
		Prompt:           cfg.Prompt,
		Checkpoints:      cfg.Checkpoints,
		MemoryStore:      cfg.MemoryStore,
		MemoryWriter:     cfg.MemoryWriter,
		RecallLimit:      cfg.Memory.RecallLimit,
		Vehicles:         vehicles,
	})
	if err != nil {
		return nil, err
	}

	logx.Debug().Msg("Showroom graph built successfully")
	return runner, nil
}

// BuildGraph constructs and returns the compiled turn graph
func BuildGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[model.TurnInput, model.TurnOutput], error) {
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.Checkpoints == nil {
		return nil, fmt.Errorf("checkpoint store is nil")
	}
	if config.ExtractionOracle == nil || config.ResponseOracle == nil {
		return nil, fmt.Errorf("oracles are not properly initialized")
	}

	builder := &GraphBuilder{
		config: config,
		graph: compose.NewGraph[model.TurnInput, model.TurnOutput](
			compose.WithGenLocalState(func(ctx context.Context) *model.TurnState {
				return &model.TurnState{}
			}),
		),
		extractor: nodes.NewExtractor(config.ExtractionOracle, config.Prompt),
		synthesizer: nodes.NewSynthesizer(nodes.SynthesizerConfig{
			Oracle:   config.ResponseOracle,
			Prompt:   config.Prompt,
			Vehicles: config.Vehicles,
			Terms:    config.Terms,
			Now:      config.Now,
		}),
	}

	if err := builder.addNodes(); err != nil {
		return nil, err
	}
	if err := builder.addEdges(); err != nil {
		return nil, err
	}
	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	return builder.compile(ctx)
}

// addNodes adds all processing nodes to the graph
func (b *GraphBuilder) addNodes() error {
	var searcher nodes.MemorySearcher
	writer := b.config.MemoryWriter
	if b.config.MemoryStore != nil {
		searcher = b.config.MemoryStore
		if writer == nil {
			writer = b.config.MemoryStore
		}
	}

	steps := []struct {
		key  string
		node *compose.Lambda
		opts []compose.GraphAddNodeOpt
	}{
		{
			key:  nodes.NodeLoadCheckpoint,
			node: nodes.NewLoadCheckpointNode(b.config.Checkpoints),
			opts: []compose.GraphAddNodeOpt{
				compose.WithStatePreHandler(nodes.NewLoadCheckpointPreHandler()),
				compose.WithStatePostHandler(nodes.NewLoadCheckpointPostHandler()),
			},
		},
		{key: nodes.NodeRecallMemory, node: nodes.NewRecallMemoryNode(searcher, b.config.RecallLimit)},
		{key: nodes.NodeExtractSlots, node: nodes.NewExtractSlotsNode(b.extractor)},
		{key: nodes.NodeEvaluateReadiness, node: nodes.NewEvaluateReadinessNode()},
		{key: nodes.NodeSynthesizeResponse, node: nodes.NewSynthesizeResponseNode(b.synthesizer)},
		{key: nodes.NodeSuggestTestDrive, node: nodes.NewSuggestTestDriveNode(b.synthesizer)},
		{key: nodes.NodeSuggestFinancing, node: nodes.NewSuggestFinancingNode(b.synthesizer)},
		{key: nodes.NodeAdvanceStage, node: nodes.NewAdvanceStageNode()},
		{key: nodes.NodeRecordMemory, node: nodes.NewRecordMemoryNode(writer)},
		{
			key:  nodes.NodeCommit,
			node: nodes.NewCommitNode(b.config.Checkpoints, b.config.Now),
			opts: []compose.GraphAddNodeOpt{
				compose.WithStatePostHandler(nodes.NewCommitPostHandler()),
			},
		},
	}

	for _, s := range steps {
		opts := append([]compose.GraphAddNodeOpt{compose.WithNodeName(s.key)}, s.opts...)
		if err := b.graph.AddLambdaNode(s.key, s.node, opts...); err != nil {
			logx.Error().Err(err).Str("node", s.key).Msg("Error adding node")
			return fmt.Errorf("error adding node %s: %w", s.key, err)
		}
	}
	return nil
}

// addEdges creates the main flow connections between nodes
func (b *GraphBuilder) addEdges() error {
	edges := [][2]string{
		{compose.START, nodes.NodeLoadCheckpoint},
		{nodes.NodeLoadCheckpoint, nodes.NodeRecallMemory},
		{nodes.NodeRecallMemory, nodes.NodeExtractSlots},
		{nodes.NodeExtractSlots, nodes.NodeEvaluateReadiness},
		{nodes.NodeEvaluateReadiness, nodes.NodeSynthesizeResponse},
		{nodes.NodeSuggestTestDrive, nodes.NodeRecordMemory},
		{nodes.NodeSuggestFinancing, nodes.NodeRecordMemory},
		{nodes.NodeAdvanceStage, nodes.NodeRecordMemory},
		{nodes.NodeRecordMemory, nodes.NodeCommit},
		{nodes.NodeCommit, compose.END},
	}

	for _, edge := range edges {
		if err := b.graph.AddEdge(edge[0], edge[1]); err != nil {
			logx.Error().Err(err).Str("from", edge[0]).Str("to", edge[1]).Msg("Error adding edge")
			return fmt.Errorf("error adding edge %s -> %s: %w", edge[0], edge[1], err)
		}
	}
	return nil
}

// addBranches creates the post-response routing branch
func (b *GraphBuilder) addBranches() error {
	routeBranch := compose.NewGraphBranch(
		nodes.NewRouteCondition(),
		map[string]bool{
			nodes.NodeRecordMemory:     true,
			nodes.NodeSuggestFinancing: true,
			nodes.NodeSuggestTestDrive: true,
			nodes.NodeAdvanceStage:     true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeSynthesizeResponse, routeBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding route branch")
		return fmt.Errorf("error adding route branch: %w", err)
	}
	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.TurnInput, model.TurnOutput], error) {
	runnable, err := b.graph.Compile(ctx,
		compose.WithGraphName("showroom_turn"),
		compose.WithMaxRunSteps(maxRunSteps),
	)
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}
