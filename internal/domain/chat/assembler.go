package chat

import "github.com/eurekastudio/creative-backend/internal/shared/types"

// Assemble builds the outgoing reply. An empty imageURL serializes as an
// explicit null so clients can distinguish "no image" without a presence
// check.
func Assemble(content, imageURL string) *types.ChatResponse {
	resp := &types.ChatResponse{
		Content: content,
		Success: true,
	}
	if imageURL != "" {
		resp.ImageURL = &imageURL
	}
	return resp
}
