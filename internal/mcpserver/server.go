// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the resolved site content for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/vitrine/internal/apperr"
	"github.com/starford/vitrine/internal/content"
	"github.com/starford/vitrine/internal/gradient"
	"github.com/starford/vitrine/internal/siteservice"
)

// ContractURI identifies the content contract resource.
const ContractURI = "vitrine://content-contract"

// Server wraps the MCP server with the content tools.
type Server struct {
	mcp *server.MCPServer
	svc *siteservice.Service
}

// New creates a new MCP server with all tools registered.
func New(svc *siteservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Vitrine",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_sections",
		mcp.WithDescription("Resolve every section of the site with defaults applied. "+
			"Keys: "+fmt.Sprint(content.Keys)+"."),
	), s.listSections)

	s.mcp.AddTool(mcp.NewTool("get_section",
		mcp.WithDescription("Resolve a single section by key."),
		mcp.WithString("key", mcp.Required(), mcp.Description("Section key (e.g. about_section)")),
	), s.getSection)

	s.mcp.AddTool(mcp.NewTool("list_expertise",
		mcp.WithDescription("List the active expertise cards in display order."),
	), s.listExpertise)

	s.mcp.AddTool(mcp.NewTool("split_gradient_text",
		mcp.WithDescription("Split a title into plain and emphasized segments. "+
			"Text between parentheses is emphasized. Read the contract via the "+
			ContractURI+" resource for the full markup rules."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text with (emphasis) markup")),
	), s.splitGradientText)

	s.mcp.AddResource(
		mcp.NewResource(ContractURI, "Content Contract",
			mcp.WithResourceDescription("Section keys, defaults, gradient markup and icon names editors can use."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readContractResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listSections(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.View().Map())
}

func (s *Server) getSection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sec, err := s.svc.Section(key)
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("unknown section: %s", key)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(sec)
}

func (s *Server) listExpertise(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cards := s.svc.Expertise()
	if len(cards) == 0 {
		return mcp.NewToolResultText("no active expertise cards"), nil
	}
	return jsonResult(cards)
}

func (s *Server) splitGradientText(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(gradient.Parse(text))
}

func (s *Server) readContractResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      ContractURI,
			MIMEType: "text/markdown",
			Text:     ContentContract(),
		},
	}, nil
}
