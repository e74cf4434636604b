package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"idfctl/internal/combination"
	"idfctl/internal/matrix"
)

// tools assembles the engine's MCP tool set.
func (s *Server) tools() []server.ServerTool {
	return []server.ServerTool{
		{
			Tool: mcp.NewTool("app_list",
				mcp.WithDescription("List all configured apps in declaration order"),
			),
			Handler: s.handleAppList,
		},
		{
			Tool: mcp.NewTool("app_info",
				mcp.WithDescription("Get the resolved definition of one app, including its effective IDF versions and build types"),
				mcp.WithString("app",
					mcp.Required(),
					mcp.Description("App name, e.g. gpio_test"),
				),
			),
			Handler: s.handleAppInfo,
		},
		{
			Tool: mcp.NewTool("validate_combination",
				mcp.WithDescription("Check whether an (app, build type, IDF version) combination is a legal build; when idf_version is omitted the default version is selected"),
				mcp.WithString("app",
					mcp.Required(),
					mcp.Description("App name"),
				),
				mcp.WithString("build_type",
					mcp.Required(),
					mcp.Description("Build type, e.g. Debug or Release"),
				),
				mcp.WithString("idf_version",
					mcp.Description("IDF version, e.g. release/v5.5 (optional)"),
				),
			),
			Handler: s.handleValidateCombination,
		},
		{
			Tool: mcp.NewTool("select_default_version",
				mcp.WithDescription("Pick the default IDF version for an app and build type"),
				mcp.WithString("app",
					mcp.Required(),
					mcp.Description("App name"),
				),
				mcp.WithString("build_type",
					mcp.Required(),
					mcp.Description("Build type"),
				),
			),
			Handler: s.handleSelectDefaultVersion,
		},
		{
			Tool: mcp.NewTool("generate_matrix",
				mcp.WithDescription("Generate the build matrix of legal combinations"),
				mcp.WithBoolean("ci_only",
					mcp.Description("Only include CI-enabled apps and apply CI exclusions (default true)"),
				),
				mcp.WithString("app",
					mcp.Description("Restrict to one app (optional)"),
				),
			),
			Handler: s.handleGenerateMatrix,
		},
		{
			Tool: mcp.NewTool("resolve_key",
				mcp.WithDescription("Resolve a dotted configuration key through the override priority chain"),
				mcp.WithString("key",
					mcp.Required(),
					mcp.Description("Dotted key, e.g. metadata.default_build_type"),
				),
				mcp.WithString("default",
					mcp.Description("Fallback value when no source provides the key"),
				),
			),
			Handler: s.handleResolveKey,
		},
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleAppList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.model.AppOrder)
}

func (s *Server) handleAppInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	appName, err := req.RequireString("app")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	app, ok := s.model.Apps[appName]
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown app %q", appName)), nil
	}

	versions := s.validator.EffectiveVersions(app)
	buildTypes := make(map[string][]string, len(versions))
	for _, version := range versions {
		buildTypes[version] = s.validator.EffectiveBuildTypes(app, version)
	}
	return jsonResult(map[string]any{
		"name":                  app.Name,
		"description":           app.Description,
		"source_file":           app.SourceFile,
		"category":              app.Category,
		"ci_enabled":            app.CIEnabled,
		"featured":              app.Featured,
		"dependencies":          app.Dependencies,
		"tags":                  app.Tags,
		"effective_versions":    versions,
		"effective_build_types": buildTypes,
	})
}

func (s *Server) handleValidateCombination(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	appName, err := req.RequireString("app")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	buildType, err := req.RequireString("build_type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	idfVersion := req.GetString("idf_version", "")

	if idfVersion == "" {
		if !s.validator.KnownApp(appName) || !s.validator.KnownBuildType(buildType) {
			// Let Explain produce the specific outcome below.
			idfVersion = "-"
		} else {
			idfVersion, err = s.validator.SelectDefaultVersion(appName, buildType)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
		}
	}

	result := s.validator.Explain(appName, buildType, idfVersion)
	payload := map[string]any{
		"valid":       result.Outcome == combination.Valid,
		"outcome":     result.Outcome.String(),
		"reason":      result.Reason(),
		"app":         appName,
		"build_type":  buildType,
		"idf_version": idfVersion,
	}
	if result.Outcome != combination.Valid {
		payload["legal_combinations"] = matrix.Generate(s.model, matrix.Options{App: appName})
	}
	return jsonResult(payload)
}

func (s *Server) handleSelectDefaultVersion(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	appName, err := req.RequireString("app")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	buildType, err := req.RequireString("build_type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !s.validator.KnownApp(appName) {
		return mcp.NewToolResultError(fmt.Sprintf("unknown app %q", appName)), nil
	}
	if !s.validator.KnownBuildType(buildType) {
		return mcp.NewToolResultError(fmt.Sprintf("unknown build type %q", buildType)), nil
	}
	version, err := s.validator.SelectDefaultVersion(appName, buildType)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]string{"idf_version": version})
}

func (s *Server) handleGenerateMatrix(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ciOnly := req.GetBool("ci_only", true)
	opts := matrix.Options{
		CIOnly:        ciOnly,
		ApplyExcludes: ciOnly,
		App:           req.GetString("app", ""),
	}
	return jsonResult(matrix.GitHubMatrix{Include: matrix.Generate(s.model, opts)})
}

func (s *Server) handleResolveKey(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	value, err := s.resolver.Resolve(key, req.GetString("default", ""), false)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]string{"key": key, "value": value})
}
