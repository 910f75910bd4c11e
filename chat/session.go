// Package chat reconciles locally-synthesized conversation turns with the
// authoritative server-side transcript. A session starts purely local, turns
// pending while a message is in flight, and becomes synced once the server
// has assigned (or confirmed) the conversation id.
package chat

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dayplan/dayplan-client/client"
	"github.com/dayplan/dayplan-client/store"
	dsync "github.com/dayplan/dayplan-client/sync"
)

// State of a conversation session.
type State int

const (
	// Local sessions have no server id; every message is speculative.
	Local State = iota
	// Pending sessions have a message in flight.
	Pending
	// Synced sessions show the server transcript plus any unconfirmed turn.
	Synced
)

func (s State) String() string {
	switch s {
	case Local:
		return "local"
	case Pending:
		return "pending"
	case Synced:
		return "synced"
	}
	return "unknown"
}

// Session drives one conversation with the assistant.
type Session struct {
	mu     sync.Mutex
	remote *client.Client
	store  *store.Store

	id    string
	state State
	local []client.Message // speculative turns not yet confirmed by the server

	historyLimit int
	now          func() time.Time
}

// NewSession starts a Local session with no server id.
func NewSession(rc *client.Client, st *store.Store) *Session {
	return &Session{remote: rc, store: st, now: time.Now}
}

// ResumeSession attaches to an existing server conversation; the session
// starts Synced and serves the server transcript.
func ResumeSession(rc *client.Client, st *store.Store, id string) *Session {
	s := NewSession(rc, st)
	if id != "" {
		s.id = id
		s.state = Synced
	}
	return s
}

// WithHistoryLimit bounds how many transcript messages are fetched per sync.
func (s *Session) WithHistoryLimit(n int) *Session {
	s.historyLimit = n
	return s
}

// State returns the session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ConversationID returns the server-assigned id, empty while Local.
func (s *Session) ConversationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Send speculatively appends the user turn, posts the message, and on success
// adopts the conversation id, appends the assistant turn, and moves to
// Synced. On failure the speculative turn is removed and the prior state
// restored before the error is surfaced. A Send while another is in flight
// fails fast with a busy error — turns are never interleaved.
//
// Any tool results on the reply mean the assistant may have mutated tasks, so
// every cached task signature is invalidated.
func (s *Session) Send(ctx context.Context, text string) (*client.ChatResponse, error) {
	if text == "" {
		return nil, &client.ValidationError{Field: "message", Reason: "is required"}
	}

	s.mu.Lock()
	if s.state == Pending {
		key := s.sessionKeyLocked()
		s.mu.Unlock()
		return nil, &dsync.BusyError{Key: key}
	}
	prevState := s.state
	userMsg := client.Message{
		ID:        "local-" + uuid.NewString(),
		Role:      client.RoleUser,
		Content:   text,
		CreatedAt: s.now().UTC(),
	}
	s.local = append(s.local, userMsg)
	s.state = Pending
	convID := s.id
	s.mu.Unlock()

	resp, err := s.remote.SendMessage(ctx, client.ChatRequest{Message: text, ConversationID: convID})
	if err != nil {
		s.mu.Lock()
		s.dropLocalLocked(userMsg.ID)
		s.state = prevState
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	if s.id == "" && resp.ConversationID != "" {
		s.id = resp.ConversationID
	}
	assistantMsg := client.Message{
		ID:        "local-" + uuid.NewString(),
		Role:      client.RoleAssistant,
		Content:   resp.Response,
		CreatedAt: s.now().UTC(),
	}
	if len(resp.ToolResults) > 0 {
		assistantMsg.ToolCalls = map[string]any{"results": resp.ToolResults}
	}
	s.local = append(s.local, assistantMsg)
	s.state = Synced
	id := s.id
	s.mu.Unlock()

	s.store.Invalidate(store.ConversationKey(id))
	s.store.Invalidate(store.ConversationsKey)
	if len(resp.ToolResults) > 0 {
		log.Debug().Str("conversation_id", id).Int("tool_results", len(resp.ToolResults)).Msg("assistant ran task tools, flushing task cache")
		s.store.InvalidatePrefix(store.TasksPrefix)
	}
	return resp, nil
}

// Messages returns the history shown to the user: for Local sessions the
// speculative turns; otherwise the server transcript (served via the store,
// refetched when stale) appended with turns the server has not confirmed yet.
// Confirmed duplicates are dropped, never shown twice.
func (s *Session) Messages(ctx context.Context) ([]client.Message, error) {
	s.mu.Lock()
	id := s.id
	s.mu.Unlock()

	if id == "" {
		s.mu.Lock()
		defer s.mu.Unlock()
		return append([]client.Message(nil), s.local...), nil
	}

	conv, err := s.transcript(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.local = unconfirmed(conv.Messages, s.local)
	out := make([]client.Message, 0, len(conv.Messages)+len(s.local))
	out = append(out, conv.Messages...)
	out = append(out, s.local...)
	s.mu.Unlock()
	return out, nil
}

// Reset discards the conversation id and all cached messages unconditionally
// and returns to Local. The next Send starts a new server conversation.
func (s *Session) Reset() {
	s.mu.Lock()
	id := s.id
	s.id = ""
	s.state = Local
	s.local = nil
	s.mu.Unlock()

	if id != "" {
		s.store.Discard(store.ConversationKey(id))
	}
	s.store.Invalidate(store.ConversationsKey)
}

// transcript serves the conversation through the store, fetching when the
// entry is missing or stale.
func (s *Session) transcript(ctx context.Context, id string) (*client.Conversation, error) {
	key := store.ConversationKey(id)
	if payload, state, ok := s.store.Get(key); ok && state == store.Fresh {
		if conv, ok := payload.(*client.Conversation); ok {
			return conv, nil
		}
	}
	conv, err := s.remote.GetConversation(ctx, id, s.historyLimit)
	if err != nil {
		return nil, err
	}
	s.store.Put(key, conv)
	return conv, nil
}

func (s *Session) sessionKeyLocked() store.Key {
	if s.id == "" {
		return store.ConversationKey("local")
	}
	return store.ConversationKey(s.id)
}

func (s *Session) dropLocalLocked(msgID string) {
	kept := s.local[:0]
	for _, m := range s.local {
		if m.ID != msgID {
			kept = append(kept, m)
		}
	}
	s.local = kept
}

// unconfirmed filters out local turns the server transcript already carries.
// Local ids are synthetic, so confirmation is matched by role and content —
// counted per occurrence, so a repeated identical turn is only absorbed as
// many times as the server has confirmed it.
func unconfirmed(server, local []client.Message) []client.Message {
	confirmed := make(map[string]int, len(server))
	for _, sm := range server {
		confirmed[turnKey(sm)]++
	}
	var out []client.Message
	for _, lm := range local {
		if k := turnKey(lm); confirmed[k] > 0 {
			confirmed[k]--
			continue
		}
		out = append(out, lm)
	}
	return out
}

func turnKey(m client.Message) string {
	return string(m.Role) + "\x00" + m.Content
}
