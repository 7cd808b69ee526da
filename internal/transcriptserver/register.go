// Package transcriptserver exposes the transcript engine over MCP and a
// small REST surface for the web front end.
package transcriptserver

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterTools registers the transcript tools on the given MCP server:
// get_transcript, resolve_video.
func RegisterTools(server *mcp.Server) {
	registerGetTranscript(server)
	registerResolveVideo(server)
}
