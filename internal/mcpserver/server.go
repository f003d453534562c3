// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Hieroscope tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/samber/lo"

	"github.com/starford/hieroscope/internal/apperr"
	"github.com/starford/hieroscope/internal/models"
	"github.com/starford/hieroscope/internal/widgetservice"
)

const catalogFormatURI = "hieroscope://catalog-format"

// Server wraps the MCP server with Hieroscope tools.
type Server struct {
	mcp *server.MCPServer
	svc *widgetservice.Service
}

// New creates a new MCP server with all Hieroscope tools registered.
func New(svc *widgetservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Hieroscope",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("resolve_season",
		mcp.WithDescription("Return the small season (sekki) in effect on a date."),
		mcp.WithString("date", mcp.Description("Reference date YYYY-MM-DD (default: today)")),
		mcp.WithString("detail", mcp.Description("Detail level: minimal, medium or full (default: full)")),
	), s.resolveSeason)

	s.mcp.AddTool(mcp.NewTool("render_widget",
		mcp.WithDescription("Render the widget text for the stored display option."),
		mcp.WithString("size", mcp.Description("Widget size: small, medium or large (default: small)")),
		mcp.WithString("date", mcp.Description("Reference date YYYY-MM-DD (default: today)")),
	), s.renderWidget)

	s.mcp.AddTool(mcp.NewTool("get_display_option",
		mcp.WithDescription("Return the display option the widget currently shows."),
	), s.getDisplayOption)

	s.mcp.AddTool(mcp.NewTool("set_display_option",
		mcp.WithDescription("Choose what the widget shows and reload it."),
		mcp.WithString("option", mcp.Required(), mcp.Description(
			"One of: "+strings.Join(optionLabels(), ", "))),
	), s.setDisplayOption)

	s.mcp.AddTool(mcp.NewTool("list_seasons",
		mcp.WithDescription("List every season in the catalog with its start date."),
	), s.listSeasons)

	s.mcp.AddResource(
		mcp.NewResource(catalogFormatURI, "Catalog Format",
			mcp.WithResourceDescription("Shape and rules of the season catalog document."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readCatalogFormatResource,
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

func optionLabels() []string {
	return lo.Map(models.DisplayOptions, func(o models.DisplayOption, _ int) string { return string(o) })
}

// optionalString reads an optional string argument.
func optionalString(req mcp.CallToolRequest, name string) string {
	v, err := req.RequireString(name)
	if err != nil {
		return ""
	}
	return v
}

func (s *Server) referenceDate(req mcp.CallToolRequest) (time.Time, error) {
	now := s.svc.Now()
	raw := optionalString(req, "date")
	if raw == "" {
		return now, nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", raw)
	}
	return t, nil
}

func (s *Server) resolveSeason(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	at, err := s.referenceDate(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	detail := models.DetailFull
	if raw := optionalString(req, "detail"); raw != "" {
		d, ok := models.ParseDetailLevel(raw)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("invalid detail %q", raw)), nil
		}
		detail = d
	}
	res := s.svc.Season(ctx, at, detail)
	if res.IsEmpty() {
		return mcp.NewToolResultText("no season available"), nil
	}
	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode season: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) renderWidget(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	at, err := s.referenceDate(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	size := models.SizeSmall
	if raw := optionalString(req, "size"); raw != "" {
		sz, ok := models.ParseWidgetSize(raw)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("invalid size %q", raw)), nil
		}
		size = sz
	}
	return mcp.NewToolResultText(s.svc.Render(ctx, size, at)), nil
}

func (s *Server) getDisplayOption(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(string(s.svc.DisplayOption(ctx))), nil
}

func (s *Server) setDisplayOption(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("option")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.SetDisplayOption(ctx, models.DisplayOption(raw)); err != nil {
		if errors.Is(err, apperr.ErrInvalidOption) {
			return mcp.NewToolResultError(fmt.Sprintf("unknown option %q (want one of: %s)",
				raw, strings.Join(optionLabels(), ", "))), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("display option set: %s", raw)), nil
}

func (s *Server) listSeasons(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := s.svc.Catalog(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText("catalog is empty"), nil
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = fmt.Sprintf("%s  %s %s  %s", e.StartDate, e.Symbol, e.ID, e.Notes)
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) readCatalogFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      catalogFormatURI,
			MIMEType: "text/markdown",
			Text:     CatalogFormatContract,
		},
	}, nil
}
