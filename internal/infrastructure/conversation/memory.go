// Package conversation keeps bounded in-memory session history for
// context-aware routing. Sessions expire by inactivity and the store holds at
// most a fixed number of them.
package conversation

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/agentgate/internal/domain"
	"github.com/doeshing/agentgate/internal/ports"
)

// contextContentLimit caps each message's contribution to the routing context.
const contextContentLimit = 500

type session struct {
	messages     []domain.ChatMessage
	lastActivity time.Time
}

// MemoryStore is a mutex-guarded map of sessions.
type MemoryStore struct {
	mu          sync.Mutex
	sessions    map[string]*session
	ttl         time.Duration
	maxMessages int
	maxSessions int
	now         func() time.Time
}

func NewMemoryStore(settings domain.ConversationSettings) *MemoryStore {
	ttl := time.Duration(settings.TTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = time.Hour
	}
	maxMessages := settings.MaxMessages
	if maxMessages <= 0 {
		maxMessages = 100
	}
	maxSessions := settings.MaxSessions
	if maxSessions <= 0 {
		maxSessions = 1000
	}
	return &MemoryStore{
		sessions:    map[string]*session{},
		ttl:         ttl,
		maxMessages: maxMessages,
		maxSessions: maxSessions,
		now:         time.Now,
	}
}

// GetOrCreate returns the session id to use for a request. Unknown or empty
// ids get a fresh session.
func (s *MemoryStore) GetOrCreate(sessionID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleanupLocked()

	if sessionID != "" {
		if _, ok := s.sessions[sessionID]; ok {
			return sessionID
		}
	}
	id := sessionID
	if id == "" {
		id = uuid.NewString()
	}
	s.sessions[id] = &session{lastActivity: s.now()}
	return id
}

func (s *MemoryStore) Append(sessionID, role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &session{}
		s.sessions[sessionID] = sess
	}
	sess.messages = append(sess.messages, domain.ChatMessage{
		Role:      role,
		Content:   content,
		Timestamp: s.now(),
	})
	if len(sess.messages) > s.maxMessages {
		sess.messages = sess.messages[len(sess.messages)-s.maxMessages:]
	}
	sess.lastActivity = s.now()
}

// Context renders recent history as "User:"/"Assistant:" lines for prompt use.
// Long messages are truncated.
func (s *MemoryStore) Context(sessionID string, maxMessages int) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return ""
	}
	recent := tail(sess.messages, maxMessages)
	lines := make([]string, 0, len(recent))
	for _, msg := range recent {
		prefix := "Assistant"
		if msg.Role == domain.RoleUser {
			prefix = "User"
		}
		content := msg.Content
		if len(content) > contextContentLimit {
			content = content[:contextContentLimit] + "..."
		}
		lines = append(lines, fmt.Sprintf("%s: %s", prefix, content))
	}
	return strings.Join(lines, "\n")
}

func (s *MemoryStore) History(sessionID string, maxMessages int) []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	recent := tail(sess.messages, maxMessages)
	out := make([]domain.ChatMessage, len(recent))
	copy(out, recent)
	return out
}

func (s *MemoryStore) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// cleanupLocked drops expired sessions, then evicts the least recently active
// ones over the session cap. Callers hold the mutex.
func (s *MemoryStore) cleanupLocked() {
	now := s.now()
	for id, sess := range s.sessions {
		if now.Sub(sess.lastActivity) > s.ttl {
			delete(s.sessions, id)
		}
	}
	for len(s.sessions) > s.maxSessions {
		oldestID := ""
		var oldest time.Time
		for id, sess := range s.sessions {
			if oldestID == "" || sess.lastActivity.Before(oldest) {
				oldestID = id
				oldest = sess.lastActivity
			}
		}
		delete(s.sessions, oldestID)
	}
}

func tail(messages []domain.ChatMessage, n int) []domain.ChatMessage {
	if n <= 0 || len(messages) <= n {
		return messages
	}
	return messages[len(messages)-n:]
}

var _ ports.ConversationStore = (*MemoryStore)(nil)
