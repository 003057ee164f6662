package assistant

// #region imports
import (
	"sync"
)

// #endregion imports

// #region types

// Message is one turn of a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ConversationStore holds chat histories. Created at process start and
// injected into the assistant; cleared only on restart.
type ConversationStore interface {
	Append(conversationID string, msg Message)
	Get(conversationID string) ([]Message, bool)
}

// #endregion types

// #region memory-store

// MemoryConversations is the in-process ConversationStore.
type MemoryConversations struct {
	mu    sync.Mutex
	convs map[string][]Message
}

// NewMemoryConversations returns an empty conversation store.
func NewMemoryConversations() *MemoryConversations {
	return &MemoryConversations{convs: make(map[string][]Message)}
}

// Append records a message at the end of a conversation.
func (s *MemoryConversations) Append(conversationID string, msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.convs[conversationID] = append(s.convs[conversationID], msg)
}

// Get returns a copy of a conversation's history.
func (s *MemoryConversations) Get(conversationID string) ([]Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs, ok := s.convs[conversationID]
	if !ok {
		return nil, false
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out, true
}

// #endregion memory-store
