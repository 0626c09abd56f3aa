// Package server provides the MCP server implementation for stripjson.
package server

import (
	"context"
	"fmt"
	stdlog "log"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/seanhalberthal/stripjson/internal/log"
	"github.com/seanhalberthal/stripjson/internal/stripper"
	"github.com/seanhalberthal/stripjson/internal/types"
	"github.com/seanhalberthal/stripjson/jsonc"
)

// strip holds the stripper instance for tool handlers.
var strip *stripper.Stripper

// Run starts the MCP server with the given stripper.
func Run(s *stripper.Stripper) {
	strip = s

	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "stripjson-mcp",
			Version: types.Version,
		},
		nil,
	)

	registerTools(server)

	_ = level.Info(logger()).Log("msg", "starting MCP server", "version", types.Version, "transport", "stdio")
	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		stdlog.Fatal(err)
	}
}

func logger() kitlog.Logger {
	return kitlog.With(log.Logger, "component", "server")
}

func registerTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "stripjson_status",
		Description: "Get version, default stripping options, and supported JSONC file kinds",
	}, handleStatus)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "stripjson_strip",
		Description: "Strip comments and trailing commas from JSON text so a standard JSON parser accepts it",
	}, handleStrip)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "stripjson_strip_file",
		Description: "Strip a single JSONC file, check the result is valid JSON, and optionally rewrite it",
	}, handleStripFile)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "stripjson_scan",
		Description: "Find and strip JSONC files (tsconfig, VS Code settings, devcontainer, ...) in a project directory",
	}, handleScan)
}

// Tool input/output types

type statusInput struct{}

type statusOutput struct {
	types.StatusResponse
}

type stripInput struct {
	Text           any   `json:"text" jsonschema:"description=JSON text that may contain comments and trailing commas"`
	Whitespace     *bool `json:"whitespace,omitempty" jsonschema:"description=Replace stripped characters with whitespace so positions are kept (default true)"`
	TrailingCommas *bool `json:"trailing_commas,omitempty" jsonschema:"description=Remove trailing commas before a closing bracket or brace (default true)"`
}

type stripOutput struct {
	types.StripResponse
}

type stripFileInput struct {
	Path  string `json:"path" jsonschema:"description=Path to the JSONC file"`
	Write bool   `json:"write,omitempty" jsonschema:"description=Rewrite the file in place when the result is valid JSON"`
}

type stripFileOutput struct {
	types.FileResult
}

type scanInput struct {
	Path      string `json:"path" jsonschema:"description=Path to the project directory to scan"`
	Recursive bool   `json:"recursive,omitempty" jsonschema:"description=Scan subdirectories for JSONC files"`
	Write     bool   `json:"write,omitempty" jsonschema:"description=Rewrite changed files in place"`
}

type scanOutput struct {
	types.ScanResult
}

// Tool handlers

func handleStatus(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[statusInput]) (*mcp.CallToolResultFor[statusOutput], error) {
	cfg := strip.Config()
	status := statusOutput{
		StatusResponse: types.StatusResponse{
			Version:    types.Version,
			ConfigFile: cfg.Path,
			Options: types.Options{
				Whitespace:     cfg.Whitespace,
				TrailingCommas: cfg.TrailingCommas,
			},
			SupportedFiles: types.SupportedFiles,
		},
	}

	return &mcp.CallToolResultFor[statusOutput]{StructuredContent: status}, nil
}

func handleStrip(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[stripInput]) (*mcp.CallToolResultFor[stripOutput], error) {
	input := params.Arguments

	text, ok := input.Text.(string)
	if !ok {
		_, err := jsonc.StripValue(input.Text)
		return &mcp.CallToolResultFor[stripOutput]{IsError: true}, err
	}

	opts := strip.Options()
	if input.Whitespace != nil {
		opts.Whitespace = *input.Whitespace
	}
	if input.TrailingCommas != nil {
		opts.TrailingCommas = *input.TrailingCommas
	}

	resp := strip.StripText(text, opts)
	return &mcp.CallToolResultFor[stripOutput]{StructuredContent: stripOutput{StripResponse: resp}}, nil
}

func handleStripFile(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[stripFileInput]) (*mcp.CallToolResultFor[stripFileOutput], error) {
	input := params.Arguments
	if input.Path == "" {
		return &mcp.CallToolResultFor[stripFileOutput]{IsError: true}, fmt.Errorf("path is required")
	}

	result, err := strip.StripFile(input.Path, input.Write)
	if err != nil {
		_ = level.Warn(logger()).Log("msg", "strip_file failed", "path", input.Path, "err", err)
		return &mcp.CallToolResultFor[stripFileOutput]{IsError: true}, err
	}

	return &mcp.CallToolResultFor[stripFileOutput]{StructuredContent: stripFileOutput{FileResult: *result}}, nil
}

func handleScan(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[scanInput]) (*mcp.CallToolResultFor[scanOutput], error) {
	input := params.Arguments
	if input.Path == "" {
		return &mcp.CallToolResultFor[scanOutput]{IsError: true}, fmt.Errorf("path is required")
	}

	result, err := strip.Scan(ctx, stripper.ScanOptions{
		Path:      input.Path,
		Recursive: input.Recursive,
		Write:     input.Write,
	})
	if err != nil {
		_ = level.Warn(logger()).Log("msg", "scan failed", "path", input.Path, "err", err)
		return &mcp.CallToolResultFor[scanOutput]{IsError: true}, err
	}

	return &mcp.CallToolResultFor[scanOutput]{StructuredContent: scanOutput{ScanResult: *result}}, nil
}
