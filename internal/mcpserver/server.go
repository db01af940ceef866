// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes stenomix tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/stenomix/internal/compiler"
	"github.com/starford/stenomix/internal/models"
	"github.com/starford/stenomix/internal/source"
)

const formatURI = "stenomix://format"

// Server wraps the MCP server with stenomix tools.
type Server struct {
	mcp *server.MCPServer
	svc *compiler.Service
}

// New creates a new MCP server with all stenomix tools registered.
func New(svc *compiler.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"stenomix",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("compile_entries",
		mcp.WithDescription("Compile an advanced steno dictionary document into a simple dictionary. "+
			"Returns the dictionary and any diagnostics. Read the format first via "+
			"the get_format_contract tool or the "+formatURI+" resource."),
		mcp.WithString("document", mcp.Required(), mcp.Description("Source document: a JSON object or YAML mapping of translations to stroke definitions")),
		mcp.WithString("format", mcp.Description("Document format: json (default) or yaml")),
	), s.compileEntries)

	s.mcp.AddTool(mcp.NewTool("expand_definition",
		mcp.WithDescription("Expand one stroke definition into the stroke sequences it produces."),
		mcp.WithString("definition", mcp.Required(), mcp.Description("Stroke definition, e.g. KAT/Ing")),
		mcp.WithString("document", mcp.Description("Optional JSON document whose mixins the definition may reference")),
	), s.expandDefinition)

	s.mcp.AddTool(mcp.NewTool("lookup_strokes",
		mcp.WithDescription("Find the translations of a stroke sequence in the compiled dictionaries."),
		mcp.WithString("strokes", mcp.Required(), mcp.Description("Stroke sequence, strokes separated by /")),
	), s.lookupStrokes)

	s.mcp.AddTool(mcp.NewTool("search_translations",
		mcp.WithDescription("Full-text search through compiled translations."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchTranslations)

	s.mcp.AddTool(mcp.NewTool("list_dictionaries",
		mcp.WithDescription("List the compiled source documents with entry and diagnostic counts."),
	), s.listDictionaries)

	s.mcp.AddTool(mcp.NewTool("get_format_contract",
		mcp.WithDescription("Returns the advanced dictionary format. "+
			"Call this before writing entries to ensure correct structure."),
	), s.getFormatContract)

	s.mcp.AddResource(
		mcp.NewResource(formatURI, "Dictionary Format",
			mcp.WithResourceDescription("Advanced steno dictionary source format."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}

func decodeDocument(doc, format string) ([]models.Entry, error) {
	f := source.FormatJSON
	if strings.EqualFold(format, "yaml") || strings.EqualFold(format, "yml") {
		f = source.FormatYAML
	}
	return source.Decode(f, []byte(doc))
}

func (s *Server) compileEntries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, err := req.RequireString("document")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	format := ""
	if f, err := req.RequireString("format"); err == nil {
		format = f
	}
	entries, err := decodeDocument(doc, format)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.Compile(ctx, entries)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res), nil
}

func (s *Server) expandDefinition(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	def, err := req.RequireString("definition")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var entries []models.Entry
	if doc, err := req.RequireString("document"); err == nil && doc != "" {
		if entries, err = decodeDocument(doc, "json"); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	strokes, err := compiler.ExpandDefinition(entries, def, s.svc.Options())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(strings.Join(strokes, "\n")), nil
}

func (s *Server) lookupStrokes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	strokes, err := req.RequireString("strokes")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	entries, err := s.svc.Lookup(ctx, strokes)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("no translation for %s", s.svc.NormalizeStrokes(strokes))), nil
	}
	return jsonResult(entries), nil
}

func (s *Server) searchTranslations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(results), nil
}

func (s *Server) listDictionaries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rows, err := s.svc.ListSources(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = fmt.Sprintf("%s\t%d entries\t%d diagnostics", r.Path, r.Entries, r.Diagnostics)
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) getFormatContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(FormatContract), nil
}

func (s *Server) readFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      formatURI,
			MIMEType: "text/markdown",
			Text:     FormatContract,
		},
	}, nil
}
