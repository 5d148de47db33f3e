// Package docassist is a stateful document assistant built on a
// workflow graph. Each user message runs one turn of a fixed graph:
// an intent classifier routes to one of three specialized agents
// (question answering, summarization, calculation), and a memory node
// consolidates conversation context before the turn commits.
//
// Session state is persisted per conversation thread. A turn commits
// its state exactly once, after the graph completes; a failed turn
// leaves the previous checkpoint untouched, so a thread can always be
// resumed from its last good state.
//
// The Assistant type is the main entry point:
//
//	st, _ := store.NewSQLiteStore("./sessions.db")
//	docs := tools.NewMemoryDocumentStore()
//	a, _ := docassist.New(llmClient, docs, st)
//	res, err := a.ProcessMessage(ctx, "session-1", "user-1", "What is the total on invoice INV-001?")
package docassist
