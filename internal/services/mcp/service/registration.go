package service

import (
	"fmt"

	"github.com/louisbranch/agenda/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type mcpRegistrationTarget interface {
	AddTool(*mcp.Tool, any) error
	AddResourceTemplate(*mcp.ResourceTemplate, mcp.ResourceHandler)
	AddResource(*mcp.Resource, mcp.ResourceHandler)
}

type mcpServerRegistrationAdapter struct {
	server *mcp.Server
}

func (r mcpServerRegistrationAdapter) AddTool(tool *mcp.Tool, handler any) error {
	return addMCPTool(r.server, tool, handler)
}

func (r mcpServerRegistrationAdapter) AddResourceTemplate(resourceTemplate *mcp.ResourceTemplate, handler mcp.ResourceHandler) {
	r.server.AddResourceTemplate(resourceTemplate, handler)
}

func (r mcpServerRegistrationAdapter) AddResource(resource *mcp.Resource, handler mcp.ResourceHandler) {
	r.server.AddResource(resource, handler)
}

type mcpToolRegistrar struct {
	matches func(any) bool
	add     func(*mcp.Server, *mcp.Tool, any)
}

func newMCPToolRegistrar[I any, O any]() mcpToolRegistrar {
	return mcpToolRegistrar{
		matches: func(handler any) bool {
			_, ok := handler.(mcp.ToolHandlerFor[I, O])
			return ok
		},
		add: func(server *mcp.Server, tool *mcp.Tool, handler any) {
			mcp.AddTool(server, tool, handler.(mcp.ToolHandlerFor[I, O]))
		},
	}
}

var mcpToolRegistrars = []mcpToolRegistrar{
	newMCPToolRegistrar[domain.PersonaListInput, domain.PersonaListResult](),
	newMCPToolRegistrar[domain.PersonaGetInput, domain.PersonaGetResult](),
	newMCPToolRegistrar[domain.PersonaCreateInput, domain.PersonaResult](),
	newMCPToolRegistrar[domain.PersonaUpdateInput, domain.PersonaResult](),
	newMCPToolRegistrar[domain.PersonaDeleteInput, domain.PersonaDeleteResult](),
}

func addMCPTool(server *mcp.Server, tool *mcp.Tool, handler any) error {
	for _, registrar := range mcpToolRegistrars {
		if registrar.matches(handler) {
			registrar.add(server, tool, handler)
			return nil
		}
	}
	toolName := "<nil>"
	if tool != nil {
		toolName = tool.Name
	}
	return fmt.Errorf("mcp registration adapter does not support handler type %T for tool %q", handler, toolName)
}

func registerTool(registrar mcpRegistrationTarget, tool *mcp.Tool, handler any) error {
	if tool == nil {
		return fmt.Errorf("tool is nil")
	}
	return registrar.AddTool(tool, handler)
}

func registerPersonaTools(registrar mcpRegistrationTarget, svc domain.PersonaService, notify domain.ResourceUpdateNotifier) error {
	registrations := []struct {
		tool    *mcp.Tool
		handler any
	}{
		{tool: domain.PersonaListTool(), handler: domain.PersonaListHandler(svc)},
		{tool: domain.PersonaGetTool(), handler: domain.PersonaGetHandler(svc)},
		{tool: domain.PersonaCreateTool(), handler: domain.PersonaCreateHandler(svc, notify)},
		{tool: domain.PersonaUpdateTool(), handler: domain.PersonaUpdateHandler(svc, notify)},
		{tool: domain.PersonaDeleteTool(), handler: domain.PersonaDeleteHandler(svc, notify)},
	}
	for _, registration := range registrations {
		if err := registerTool(registrar, registration.tool, registration.handler); err != nil {
			return fmt.Errorf("register tool %q: %w", registration.tool.Name, err)
		}
	}
	return nil
}

// registerPersonaResources registers readable persona MCP resources.
func registerPersonaResources(registrar mcpRegistrationTarget, svc domain.PersonaService) {
	registrar.AddResource(domain.PersonaListResource(), domain.PersonaListResourceHandler(svc))
	registrar.AddResourceTemplate(domain.PersonaResourceTemplate(), domain.PersonaResourceHandler(svc))
}
