package store

import (
	"net/url"
	"strings"

	"github.com/dayplan/dayplan-client/client"
)

// Cache key namespaces. Task keys share TasksPrefix so one mutation can flush
// every cached query signature at once.
const (
	TasksPrefix        = "tasks"
	ConversationsKey   = Key("conversations")
	conversationPrefix = "conversation/"
)

// TasksKey normalizes a filter/sort state into the query signature that keys
// its cached result set. Logically identical states must produce identical
// keys: an empty search equals no search, "all" equals no filter, and tag
// matching is case-insensitive so the tag folds to lower case.
func TasksKey(f client.Filters, s client.Sort) Key {
	q := url.Values{}
	if f.Search != "" {
		q.Set("q", f.Search)
	}
	if f.Status != "" && f.Status != client.StatusAll {
		q.Set("status", string(f.Status))
	}
	if f.Priority != "" && f.Priority != "all" {
		q.Set("priority", string(f.Priority))
	}
	if f.Tag != "" {
		q.Set("tag", strings.ToLower(f.Tag))
	}
	if s.Field != "" {
		q.Set("sort", string(s.Field))
	}
	dir := s.Direction
	if dir == "" {
		dir = client.SortAsc
	}
	if s.Field != "" {
		q.Set("dir", string(dir))
	}
	if enc := q.Encode(); enc != "" {
		return Key(TasksPrefix + "?" + enc)
	}
	return Key(TasksPrefix)
}

// ConversationKey keys the cached transcript for one conversation id.
func ConversationKey(id string) Key {
	return Key(conversationPrefix + id)
}
