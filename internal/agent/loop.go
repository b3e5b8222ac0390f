package agent

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/Doumiri-Ali/AI-AGENTS-Costumer-Support-demo/internal/tools"
)

// FallbackReply is returned when the retry budget is exhausted without
// a usable model reply. It is returned to the caller but never
// persisted as assistant content.
const FallbackReply = "Can you clarify your request please!"

// maxAttempts bounds model invocations per Respond call, guaranteeing
// termination for any sequence of model responses.
const maxAttempts = 3

// retryInstruction replaces the model input on a soft failure. It is
// never persisted.
const retryInstruction = "Answer the user's last request again, briefly and directly."

// Archiver records committed conversation turns for later inspection.
type Archiver interface {
	Record(ctx context.Context, threadID string, userID int, msgs []Message)
}

// Loop is the orchestration state machine. It alternates between
// model invocations and tool dispatch until the model produces a
// direct reply or the attempt budget runs out.
type Loop struct {
	stepper    *Stepper
	dispatcher *Dispatcher
	threads    *ThreadStore
	archive    Archiver
	logger     *slog.Logger
	now        func() time.Time
}

// NewLoop wires the orchestration loop. archive may be nil.
func NewLoop(stepper *Stepper, dispatcher *Dispatcher, threads *ThreadStore, archive Archiver, logger *slog.Logger) *Loop {
	return &Loop{
		stepper:    stepper,
		dispatcher: dispatcher,
		threads:    threads,
		archive:    archive,
		logger:     logger,
		now:        time.Now,
	}
}

// softError reports whether a final reply text signals an error or
// uncertainty the model itself admitted to.
func softError(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "error") || strings.Contains(lower, "wait")
}

// Respond processes one user prompt on a thread and returns the
// assistant's reply. It never fails: the worst case is the fixed
// fallback string. Committed history is sanitized after each completed
// exchange.
func (l *Loop) Respond(ctx context.Context, threadID, prompt string) string {
	user, err := l.threads.Get(threadID)
	if err != nil {
		l.logger.Error("respond on unknown thread", "threadID", threadID)
		return FallbackReply
	}
	ctx = tools.WithUserID(ctx, user.ID)
	system := SystemPrompt(user, l.now())

	userMsg := UserMessage(prompt)
	if err := l.threads.Append(threadID, userMsg); err != nil {
		l.logger.Error("append user message", "threadID", threadID, "error", err)
		return FallbackReply
	}
	l.record(ctx, threadID, user.ID, userMsg)

	retrying := false
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		history, err := l.threads.Snapshot(threadID)
		if err != nil {
			l.logger.Error("snapshot thread", "threadID", threadID, "error", err)
			return FallbackReply
		}
		if retrying {
			history = append(history, UserMessage(retryInstruction))
		}

		reply, err := l.stepper.Step(ctx, system, history)
		if err != nil {
			l.logger.Warn("model invocation failed",
				"threadID", threadID,
				"attempt", attempt,
				"error", err,
			)
			retrying = true
			continue
		}

		if len(reply.ToolCalls) == 0 {
			if softError(reply.Content) {
				l.logger.Warn("soft model error, retrying",
					"threadID", threadID,
					"attempt", attempt,
				)
				retrying = true
				continue
			}
			l.commit(ctx, threadID, user.ID, reply)
			return reply.Content
		}

		if attempt == maxAttempts {
			// Out of attempts; the round stays uncommitted so the
			// pairing invariant holds across the fallback.
			break
		}

		results := l.dispatcher.Dispatch(ctx, reply.ToolCalls)
		msgs := append([]Message{reply}, results...)
		if err := l.threads.Append(threadID, msgs...); err != nil {
			l.logger.Error("append tool round", "threadID", threadID, "error", err)
			return FallbackReply
		}
		l.record(ctx, threadID, user.ID, msgs...)
		retrying = false
	}

	l.logger.Warn("attempt budget exhausted", "threadID", threadID)
	return FallbackReply
}

// commit appends a substantive assistant reply and sanitizes the
// completed exchange in stored history.
func (l *Loop) commit(ctx context.Context, threadID string, userID int, reply Message) {
	if err := l.threads.Append(threadID, reply); err != nil {
		l.logger.Error("append assistant reply", "threadID", threadID, "error", err)
		return
	}
	l.record(ctx, threadID, userID, reply)

	history, err := l.threads.Snapshot(threadID)
	if err != nil {
		return
	}
	if err := l.threads.Replace(threadID, Sanitize(history)); err != nil {
		l.logger.Error("sanitize thread", "threadID", threadID, "error", err)
	}
}

func (l *Loop) record(ctx context.Context, threadID string, userID int, msgs ...Message) {
	if l.archive == nil {
		return
	}
	l.archive.Record(ctx, threadID, userID, msgs)
}
