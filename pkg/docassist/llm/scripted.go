package llm

import (
	"context"
	"errors"
	"sync"
)

// ErrScriptExhausted indicates a ScriptedClient ran out of queued responses.
var ErrScriptExhausted = errors.New("scripted client: no responses left")

// ScriptedClient is a deterministic Client for tests and local dry
// runs. Responses come either from a Script function keyed on the
// request, or from a FIFO queue of enqueued responses.
type ScriptedClient struct {
	mu sync.Mutex

	// Script, when set, produces the response for each request.
	// It takes precedence over the queue.
	Script func(req CompletionRequest) (*CompletionResponse, error)

	queue    []*CompletionResponse
	requests []CompletionRequest
}

// NewScriptedClient creates an empty scripted client.
func NewScriptedClient() *ScriptedClient {
	return &ScriptedClient{}
}

// Enqueue appends canned responses served in FIFO order.
func (s *ScriptedClient) Enqueue(resps ...*CompletionResponse) *ScriptedClient {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, resps...)
	return s
}

// EnqueueContent is shorthand for enqueueing plain text responses.
func (s *ScriptedClient) EnqueueContent(contents ...string) *ScriptedClient {
	for _, c := range contents {
		s.Enqueue(&CompletionResponse{Content: c, FinishReason: "stop"})
	}
	return s
}

// Requests returns a copy of every request seen, in order.
func (s *ScriptedClient) Requests() []CompletionRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]CompletionRequest(nil), s.requests...)
}

// Complete implements Client.
func (s *ScriptedClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewError("complete", err, false)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)

	if s.Script != nil {
		return s.Script(req)
	}

	if len(s.queue) == 0 {
		return nil, NewError("complete", ErrScriptExhausted, false)
	}
	resp := s.queue[0]
	s.queue = s.queue[1:]
	return resp, nil
}
