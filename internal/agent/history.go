package agent

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Doumiri-Ali/AI-AGENTS-Costumer-Support-demo/internal/rental"
)

// Thread is one conversation's ordered message history plus the user
// context injected into the system prompt. The user context is fixed
// for the thread's lifetime; a re-login starts a new thread.
type Thread struct {
	ID        string
	User      rental.User
	Messages  []Message
	CreatedAt time.Time
}

// ThreadStore holds active conversation threads keyed by thread ID.
// Safe for concurrent use.
type ThreadStore struct {
	mu      sync.Mutex
	threads map[string]*Thread
}

// NewThreadStore creates an empty thread store.
func NewThreadStore() *ThreadStore {
	return &ThreadStore{threads: make(map[string]*Thread)}
}

// Create starts a new thread for the given user and returns its ID.
func (s *ThreadStore) Create(user rental.User) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.threads[id] = &Thread{
		ID:        id,
		User:      user,
		CreatedAt: time.Now(),
	}
	return id
}

// Get returns the thread's user context, or an error for an unknown ID.
func (s *ThreadStore) Get(threadID string) (rental.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.threads[threadID]
	if !ok {
		return rental.User{}, fmt.Errorf("unknown thread: %s", threadID)
	}
	return t.User, nil
}

// Append adds messages to the end of the thread's history.
func (s *ThreadStore) Append(threadID string, msgs ...Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.threads[threadID]
	if !ok {
		return fmt.Errorf("unknown thread: %s", threadID)
	}
	t.Messages = append(t.Messages, msgs...)
	return nil
}

// Snapshot returns a copy of the thread's message history.
func (s *ThreadStore) Snapshot(threadID string) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.threads[threadID]
	if !ok {
		return nil, fmt.Errorf("unknown thread: %s", threadID)
	}
	out := make([]Message, len(t.Messages))
	copy(out, t.Messages)
	return out, nil
}

// Replace swaps the thread's whole history, used by the sanitizer.
func (s *ThreadStore) Replace(threadID string, msgs []Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.threads[threadID]
	if !ok {
		return fmt.Errorf("unknown thread: %s", threadID)
	}
	t.Messages = msgs
	return nil
}

// Delete evicts a thread, typically on logout.
func (s *ThreadStore) Delete(threadID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.threads, threadID)
}
