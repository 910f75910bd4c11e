package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Chat operations. The assistant's tool execution is server-side; the client
// only sees the structured results on the reply.

// SendMessage posts a chat message. Leave req.ConversationID empty for the
// first message of a new conversation; the reply carries the assigned id.
func (c *Client) SendMessage(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Message == "" {
		return nil, &ValidationError{Field: "message", Reason: "is required"}
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	u := fmt.Sprintf("%s/api/chat", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	c.setHeaders(httpReq)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError("send message", resp)
	}

	var out ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetConversation fetches the authoritative transcript for a conversation.
// limit > 0 bounds the number of returned messages.
func (c *Client) GetConversation(ctx context.Context, id string, limit int) (*Conversation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, &ValidationError{Field: "conversation_id", Reason: "is required"}
	}
	u := fmt.Sprintf("%s/api/chat/conversations/%s", c.baseURL, id)
	if limit > 0 {
		u = fmt.Sprintf("%s?limit=%d", u, limit)
	}
	var conv Conversation
	if err := c.getJSON(ctx, "get conversation", u, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

// ListConversations fetches ordered conversation summaries. limit > 0 bounds
// the result.
func (c *Client) ListConversations(ctx context.Context, limit int) (*ConversationList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u := fmt.Sprintf("%s/api/chat/conversations", c.baseURL)
	if limit > 0 {
		u = fmt.Sprintf("%s?limit=%d", u, limit)
	}
	var list ConversationList
	if err := c.getJSON(ctx, "list conversations", u, &list); err != nil {
		return nil, err
	}
	return &list, nil
}
