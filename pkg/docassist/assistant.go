package docassist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/docassist/pkg/docassist/graph"
	"github.com/randalmurphal/docassist/pkg/docassist/llm"
	"github.com/randalmurphal/docassist/pkg/docassist/node"
	"github.com/randalmurphal/docassist/pkg/docassist/observability"
	"github.com/randalmurphal/docassist/pkg/docassist/registry"
	"github.com/randalmurphal/docassist/pkg/docassist/state"
	"github.com/randalmurphal/docassist/pkg/docassist/store"
	"github.com/randalmurphal/docassist/pkg/docassist/tools"
)

// threadNamespace seeds the deterministic session-to-thread mapping.
// The same session id always maps to the same thread id, across
// processes and restarts.
var threadNamespace = uuid.MustParse("9f2c1a7e-5b38-4d6a-8c04-e1d9b2f0a6c3")

// Assistant owns the compiled workflow graph, the state store, and
// the per-thread write locks. It is safe for concurrent use; turns on
// the same thread are serialized, turns on different threads proceed
// in parallel.
type Assistant struct {
	graph    *graph.CompiledGraph
	store    store.Store
	reducers *state.Registry
	locks    *registry.Registry[string, *sync.Mutex]

	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
	tracing bool
	audit   AuditSink

	maxIterations int
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithLogger sets the structured logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assistant) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder. Default: no-op.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(a *Assistant) {
		if m != nil {
			a.metrics = m
		}
	}
}

// WithTracing enables span creation around turns and nodes.
func WithTracing(s observability.SpanManager) Option {
	return func(a *Assistant) {
		if s != nil {
			a.spans = s
			a.tracing = true
		}
	}
}

// WithAuditSink sets the audit sink. Default: SlogAuditSink on the
// assistant's logger.
func WithAuditSink(sink AuditSink) Option {
	return func(a *Assistant) {
		if sink != nil {
			a.audit = sink
		}
	}
}

// WithMaxIterations caps node executions per turn. Default: 100.
func WithMaxIterations(n int) Option {
	return func(a *Assistant) {
		if n > 0 {
			a.maxIterations = n
		}
	}
}

// New builds the assistant: five nodes wired into the fixed workflow
// graph, compiled up front so wiring mistakes surface at startup
// rather than mid-conversation.
func New(client llm.Client, docs tools.DocumentStore, st store.Store, opts ...Option) (*Assistant, error) {
	if client == nil {
		return nil, errors.New("docassist: llm client is required")
	}
	if st == nil {
		return nil, errors.New("docassist: state store is required")
	}

	a := &Assistant{
		store:         st,
		reducers:      state.NewRegistry(),
		locks:         registry.New[string, *sync.Mutex](),
		logger:        slog.Default(),
		metrics:       observability.NoopMetrics{},
		spans:         observability.NoopSpanManager{},
		maxIterations: 100,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.audit == nil {
		a.audit = SlogAuditSink{Logger: a.logger}
	}

	toolbox := node.NewToolbox(docs)
	classifier := &node.Classifier{Client: client}
	qa := &node.QA{Client: client, Tools: toolbox}
	summarizer := &node.Summarizer{Client: client, Tools: toolbox}
	calculation := &node.Calculation{Client: client}
	memory := &node.Memory{Client: client}

	g := graph.New().
		AddNode(node.ClassifyIntent, classifier.Execute).
		AddNode(node.QAAgent, qa.Execute).
		AddNode(node.SummarizationAgent, summarizer.Execute).
		AddNode(node.CalculationAgent, calculation.Execute).
		AddNode(node.UpdateMemory, memory.Execute).
		AddConditionalEdge(node.ClassifyIntent, node.Route).
		AddEdge(node.QAAgent, node.UpdateMemory).
		AddEdge(node.SummarizationAgent, node.UpdateMemory).
		AddEdge(node.CalculationAgent, node.UpdateMemory).
		AddEdge(node.UpdateMemory, graph.END).
		SetEntry(node.ClassifyIntent)

	compiled, err := g.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile workflow graph: %w", err)
	}
	a.graph = compiled

	return a, nil
}

// Result is what one committed turn produced. ActionsTaken and
// ToolsUsed are scoped to this turn; the full session history lives
// in the persisted state.
type Result struct {
	ThreadID     string
	Response     string
	Intent       state.Intent
	Confidence   float64
	Sources      []string
	ToolsUsed    []string
	ActionsTaken []string
}

// StartSession mints a fresh session identifier for a user. Pass the
// returned id to ProcessMessage; the user id is persisted with the
// session's state on the first committed turn.
func (a *Assistant) StartSession(userID string) string {
	id := uuid.New().String()
	if userID == "" {
		return id
	}
	return userID + "-" + id
}

// ThreadID returns the deterministic thread identifier for a session.
func (a *Assistant) ThreadID(sessionID string) string {
	return uuid.NewSHA1(threadNamespace, []byte(sessionID)).String()
}

// ProcessMessage runs one conversation turn for a session.
//
// The turn loads the thread's last committed state (or starts fresh
// for a new thread), appends the user message, runs the graph, and
// commits the merged state exactly once. If the graph fails or the
// commit fails, nothing is persisted and the error is returned; the
// previous checkpoint stays intact.
//
// Concurrent calls for the same session block on a per-thread lock.
func (a *Assistant) ProcessMessage(ctx context.Context, sessionID, userID, input string) (*Result, error) {
	if input == "" {
		return nil, errors.New("docassist: input cannot be empty")
	}

	threadID := a.ThreadID(sessionID)

	mu := a.locks.GetOrCreate(threadID, func() *sync.Mutex { return &sync.Mutex{} })
	mu.Lock()
	defer mu.Unlock()

	observability.LogTurnStart(a.logger, threadID, sessionID)

	s, err := a.loadOrCreate(ctx, threadID, sessionID, userID)
	if err != nil {
		return nil, err
	}

	preActions := len(s.ActionsTaken)
	preTools := len(s.ToolsUsed)

	merged := a.reducers.Apply(s, state.Update{
		UserInput: state.Ptr(input),
		Messages:  []state.Message{{Role: state.RoleUser, Content: input}},
	})

	gctx := graph.NewContext(ctx,
		graph.WithLogger(a.logger),
		graph.WithThreadID(threadID),
	)

	runOpts := []graph.RunOption{
		graph.WithReducers(a.reducers),
		graph.WithFallbackNode(node.QAAgent),
		graph.WithMetrics(a.metrics),
		graph.WithMaxIterations(a.maxIterations),
	}
	if a.tracing {
		runOpts = append(runOpts, graph.WithTracing(a.spans))
	}

	turnStart := time.Now()
	final, err := a.graph.Run(gctx, merged, runOpts...)
	a.metrics.RecordTurn(ctx, string(final.Intent), err == nil, time.Since(turnStart))
	if err != nil {
		return nil, fmt.Errorf("turn aborted, state not committed: %w", err)
	}

	if err := a.store.Save(ctx, threadID, &final); err != nil {
		observability.LogStateError(a.logger, threadID, "save", err)
		return nil, fmt.Errorf("commit state: %w", err)
	}
	if data, merr := json.Marshal(final); merr == nil {
		observability.LogStateSaved(a.logger, threadID, len(data))
		a.metrics.RecordStateSave(ctx, threadID, int64(len(data)))
	}

	turnActions := append([]string(nil), final.ActionsTaken[preActions:]...)
	turnTools := append([]string(nil), final.ToolsUsed[preTools:]...)

	a.audit.Emit(ctx, AuditRecord{
		ThreadID:     threadID,
		RunID:        gctx.RunID(),
		SessionID:    sessionID,
		UserID:       userID,
		Intent:       string(final.Intent),
		Confidence:   final.Confidence,
		ActionsTaken: turnActions,
		ToolsUsed:    turnTools,
	})

	return &Result{
		ThreadID:     threadID,
		Response:     final.CurrentResponse,
		Intent:       final.Intent,
		Confidence:   final.Confidence,
		Sources:      append([]string(nil), final.Sources...),
		ToolsUsed:    turnTools,
		ActionsTaken: turnActions,
	}, nil
}

// loadOrCreate restores the thread's committed state, starting a
// fresh session for an unseen thread.
func (a *Assistant) loadOrCreate(ctx context.Context, threadID, sessionID, userID string) (state.State, error) {
	s, err := a.store.Load(ctx, threadID)
	if errors.Is(err, store.ErrNotFound) {
		return state.New(sessionID, userID), nil
	}
	if err != nil {
		observability.LogStateError(a.logger, threadID, "load", err)
		return state.State{}, fmt.Errorf("load state: %w", err)
	}
	return *s, nil
}

// History returns the committed message history for a session, or an
// empty slice for an unseen session.
func (a *Assistant) History(ctx context.Context, sessionID string) ([]state.Message, error) {
	s, err := a.store.Load(ctx, a.ThreadID(sessionID))
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.Messages, nil
}

// Reset deletes a session's committed state.
func (a *Assistant) Reset(ctx context.Context, sessionID string) error {
	return a.store.Delete(ctx, a.ThreadID(sessionID))
}
