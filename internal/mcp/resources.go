package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

const recentSessionLimit = 14

func (h *handlers) recentSessions(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	sessions, err := h.ds.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	if len(sessions) > recentSessionLimit {
		sessions = sessions[:recentSessionLimit]
	}
	return resourceJSON(req.Params.URI, sessions)
}

func (h *handlers) profile(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	user, err := h.ds.GetProfile(ctx)
	if err != nil {
		return nil, err
	}
	return resourceJSON(req.Params.URI, user)
}

func resourceJSON(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
