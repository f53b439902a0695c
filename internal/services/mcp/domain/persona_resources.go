package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	personaURIScheme  = "agenda://"
	personaListURI    = personaURIScheme + "personas"
	personaURIPrefix  = personaListURI + "/"
	personaURITmplVar = "{persona}"
)

// PersonaListPayload is the JSON body of the persona list resource.
type PersonaListPayload struct {
	Personas []PersonaEntry `json:"personas"`
}

// PersonaListResource defines the readable listing of every persona.
func PersonaListResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "persona_list",
		Title:       "Personas",
		Description: "Readable listing of every persona in id order",
		MIMEType:    "application/json",
		URI:         personaListURI,
	}
}

// PersonaResourceTemplate defines the readable single persona resource.
func PersonaResourceTemplate() *mcp.ResourceTemplate {
	return &mcp.ResourceTemplate{
		Name:        "persona",
		Title:       "Persona",
		Description: "Readable persona record. URI format: agenda://personas/{persona}",
		MIMEType:    "application/json",
		URITemplate: personaURIPrefix + personaURITmplVar,
	}
}

func personaResourceURI(id int64) string {
	return personaURIScheme + PersonaResourceName(id)
}

// PersonaListResourceHandler serves the persona list resource.
func PersonaListResourceHandler(svc PersonaService) mcp.ResourceHandler {
	return func(ctx context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if svc == nil {
			return nil, errServiceNotConfigured
		}
		runCtx, cancel := context.WithTimeout(ctx, storageCallTimeout)
		defer cancel()

		items, err := svc.List(runCtx)
		if err != nil {
			return nil, fmt.Errorf("persona list failed: %w", err)
		}
		return jsonResource(personaListURI, PersonaListPayload{Personas: entriesFromStorage(items)})
	}
}

// PersonaResourceHandler serves one persona by URI.
func PersonaResourceHandler(svc PersonaService) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if svc == nil {
			return nil, errServiceNotConfigured
		}
		if req == nil || req.Params == nil || req.Params.URI == "" {
			return nil, fmt.Errorf("persona URI is required; use URI format agenda://personas/{persona}")
		}
		uri := req.Params.URI
		name, ok := strings.CutPrefix(uri, personaURIScheme)
		if !ok {
			return nil, fmt.Errorf("persona URI %q must start with %s", uri, personaURIScheme)
		}
		id, err := ParsePersonaResourceName(name)
		if err != nil {
			return nil, err
		}

		runCtx, cancel := context.WithTimeout(ctx, storageCallTimeout)
		defer cancel()

		item, found, err := svc.Get(runCtx, id)
		if err != nil {
			return nil, fmt.Errorf("persona get failed: %w", err)
		}
		if !found {
			return nil, mcp.ResourceNotFoundError(uri)
		}
		return jsonResource(uri, entryFromStorage(item))
	}
}

func jsonResource(uri string, payload any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			},
		},
	}, nil
}
