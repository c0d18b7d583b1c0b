package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"chatgpt-export/internal/conversation"
)

// Client talks to the ChatGPT backend API.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{},
	}
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// FetchConversation retrieves one raw conversation graph by id.
func (c *Client) FetchConversation(ctx context.Context, id string) (*conversation.Raw, error) {
	var raw conversation.Raw
	if err := c.get(ctx, "/conversation/"+url.PathEscape(id), &raw); err != nil {
		return nil, fmt.Errorf("fetch conversation %s: %w", id, err)
	}
	if raw.ID == "" {
		raw.ID = id
	}
	return &raw, nil
}

// ConversationItem is one entry of the conversation listing.
type ConversationItem struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	CreateTime string `json:"create_time"`
	UpdateTime string `json:"update_time"`
}

// ConversationPage is one page of the conversation listing.
type ConversationPage struct {
	Items  []ConversationItem `json:"items"`
	Total  int                `json:"total"`
	Offset int                `json:"offset"`
	Limit  int                `json:"limit"`
}

// FetchConversations lists conversations, newest first.
func (c *Client) FetchConversations(ctx context.Context, offset, limit int) (*ConversationPage, error) {
	var page ConversationPage
	path := fmt.Sprintf("/conversations?offset=%d&limit=%d", offset, limit)
	if err := c.get(ctx, path, &page); err != nil {
		return nil, fmt.Errorf("fetch conversations: %w", err)
	}
	return &page, nil
}

// FetchAllConversations pages through the listing until Total is
// reached and returns every item.
func (c *Client) FetchAllConversations(ctx context.Context) ([]ConversationItem, error) {
	const pageSize = 50
	var items []ConversationItem
	offset := 0
	for {
		page, err := c.FetchConversations(ctx, offset, pageSize)
		if err != nil {
			return nil, err
		}
		items = append(items, page.Items...)
		offset += len(page.Items)
		if len(page.Items) == 0 || offset >= page.Total {
			return items, nil
		}
	}
}

// FetchAvatar returns the account picture URL. A missing picture is
// not an error; rendering falls back to a placeholder.
func (c *Client) FetchAvatar(ctx context.Context) (string, error) {
	var me struct {
		Picture string `json:"picture"`
	}
	if err := c.get(ctx, "/me", &me); err != nil {
		return "", fmt.Errorf("fetch avatar: %w", err)
	}
	return me.Picture, nil
}
