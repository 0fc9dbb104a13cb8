// Package twilio is the outbound half of the messaging provider adapter.
// The quiz core never calls it; transports hand it rendered payloads.
package twilio

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"

	"quizbot/internal/format"
)

const baseURL = "https://api.twilio.com/2010-04-01"

type Client struct {
	http       *resty.Client
	accountSID string
	from       string
	contentSID string
}

func New(accountSID, authToken, from, contentSID string) *Client {
	return &Client{
		http:       resty.New().SetBaseURL(baseURL).SetBasicAuth(accountSID, authToken),
		accountSID: accountSID,
		from:       from,
		contentSID: contentSID,
	}
}

// SendText delivers a freeform message.
func (c *Client) SendText(ctx context.Context, to, body string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"From": c.from,
			"To":   to,
			"Body": body,
		}).
		Post(fmt.Sprintf("/Accounts/%s/Messages.json", c.accountSID))
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("send message: %s: %s", resp.Status(), resp.String())
	}
	return nil
}

// SendButtons delivers a structured button message through the configured
// content template. Template variable 1 is the body; 2..4 are button labels.
func (c *Client) SendButtons(ctx context.Context, to string, payload format.Payload) error {
	vars := map[string]string{"1": payload.Body}
	for i, label := range payload.Buttons {
		vars[fmt.Sprintf("%d", i+2)] = label
	}
	encoded, err := json.Marshal(vars)
	if err != nil {
		return fmt.Errorf("encode content variables: %w", err)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"From":             c.from,
			"To":               to,
			"ContentSid":       c.contentSID,
			"ContentVariables": string(encoded),
		}).
		Post(fmt.Sprintf("/Accounts/%s/Messages.json", c.accountSID))
	if err != nil {
		return fmt.Errorf("send button message: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("send button message: %s: %s", resp.Status(), resp.String())
	}
	return nil
}
