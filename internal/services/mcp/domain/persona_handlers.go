package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var errServiceNotConfigured = errors.New("persona service is not configured")

// PersonaListHandler lists personas, applying the optional filter.
func PersonaListHandler(svc PersonaService) mcp.ToolHandlerFor[PersonaListInput, PersonaListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input PersonaListInput) (*mcp.CallToolResult, PersonaListResult, error) {
		if svc == nil {
			return nil, PersonaListResult{}, errServiceNotConfigured
		}
		runCtx, cancel := context.WithTimeout(ctx, storageCallTimeout)
		defer cancel()

		expression := strings.TrimSpace(input.Filter)
		var err error
		var result PersonaListResult
		if expression == "" {
			items, listErr := svc.List(runCtx)
			result.Personas, err = entriesFromStorage(items), listErr
		} else {
			items, searchErr := svc.Search(runCtx, expression)
			result.Personas, err = entriesFromStorage(items), searchErr
		}
		if err != nil {
			return nil, PersonaListResult{}, fmt.Errorf("persona list failed: %w", err)
		}
		return nil, result, nil
	}
}

// PersonaGetHandler reads one persona. Absence is reported with found=false.
func PersonaGetHandler(svc PersonaService) mcp.ToolHandlerFor[PersonaGetInput, PersonaGetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input PersonaGetInput) (*mcp.CallToolResult, PersonaGetResult, error) {
		if svc == nil {
			return nil, PersonaGetResult{}, errServiceNotConfigured
		}
		id, err := ParsePersonaResourceName(input.Persona)
		if err != nil {
			return nil, PersonaGetResult{}, err
		}
		runCtx, cancel := context.WithTimeout(ctx, storageCallTimeout)
		defer cancel()

		item, found, err := svc.Get(runCtx, id)
		if err != nil {
			return nil, PersonaGetResult{}, fmt.Errorf("persona get failed: %w", err)
		}
		if !found {
			return nil, PersonaGetResult{}, nil
		}
		entry := entryFromStorage(item)
		return nil, PersonaGetResult{Found: true, Persona: &entry}, nil
	}
}

// PersonaCreateHandler validates and stores a new persona.
func PersonaCreateHandler(svc PersonaService, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[PersonaCreateInput, PersonaResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input PersonaCreateInput) (*mcp.CallToolResult, PersonaResult, error) {
		if svc == nil {
			return nil, PersonaResult{}, errServiceNotConfigured
		}
		runCtx, cancel := context.WithTimeout(ctx, storageCallTimeout)
		defer cancel()

		item, err := svc.Create(runCtx, input.Name, input.Email)
		if err != nil {
			return nil, PersonaResult{}, fmt.Errorf("persona create failed: %w", err)
		}
		result := PersonaResult{Persona: entryFromStorage(item)}
		NotifyResourceUpdates(ctx, notify, PersonaListResource().URI)
		return nil, result, nil
	}
}

// PersonaUpdateHandler validates and replaces the fields of a persona. An
// absent persona succeeds without effect.
func PersonaUpdateHandler(svc PersonaService, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[PersonaUpdateInput, PersonaResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input PersonaUpdateInput) (*mcp.CallToolResult, PersonaResult, error) {
		if svc == nil {
			return nil, PersonaResult{}, errServiceNotConfigured
		}
		id, err := ParsePersonaResourceName(input.Persona)
		if err != nil {
			return nil, PersonaResult{}, err
		}
		runCtx, cancel := context.WithTimeout(ctx, storageCallTimeout)
		defer cancel()

		item, err := svc.Update(runCtx, id, input.Name, input.Email)
		if err != nil {
			return nil, PersonaResult{}, fmt.Errorf("persona update failed: %w", err)
		}
		result := PersonaResult{Persona: entryFromStorage(item)}
		NotifyResourceUpdates(ctx, notify, PersonaListResource().URI, personaResourceURI(id))
		return nil, result, nil
	}
}

// PersonaDeleteHandler removes a persona. An absent persona succeeds.
func PersonaDeleteHandler(svc PersonaService, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[PersonaDeleteInput, PersonaDeleteResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input PersonaDeleteInput) (*mcp.CallToolResult, PersonaDeleteResult, error) {
		if svc == nil {
			return nil, PersonaDeleteResult{}, errServiceNotConfigured
		}
		id, err := ParsePersonaResourceName(input.Persona)
		if err != nil {
			return nil, PersonaDeleteResult{}, err
		}
		runCtx, cancel := context.WithTimeout(ctx, storageCallTimeout)
		defer cancel()

		if err := svc.Delete(runCtx, id); err != nil {
			return nil, PersonaDeleteResult{}, fmt.Errorf("persona delete failed: %w", err)
		}
		NotifyResourceUpdates(ctx, notify, PersonaListResource().URI, personaResourceURI(id))
		return nil, PersonaDeleteResult{Deleted: PersonaResourceName(id)}, nil
	}
}

// NotifyResourceUpdates sends one notification per non-empty uri.
func NotifyResourceUpdates(ctx context.Context, notify ResourceUpdateNotifier, uris ...string) {
	if notify == nil {
		return
	}
	for _, uri := range uris {
		if strings.TrimSpace(uri) == "" {
			continue
		}
		notify(ctx, uri)
	}
}
