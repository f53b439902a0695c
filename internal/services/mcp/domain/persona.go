package domain

import (
	"context"
	"fmt"
	"strconv"

	corepersonas "github.com/louisbranch/agenda/internal/services/agenda/personas"
	"github.com/louisbranch/agenda/internal/services/agenda/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.einride.tech/aip/resourcename"
)

// PersonaPattern is the resource name pattern for a single persona.
const PersonaPattern = "personas/{persona}"

// PersonaService is the persona lifecycle consumed by MCP handlers.
type PersonaService interface {
	List(ctx context.Context) ([]storage.Persona, error)
	Search(ctx context.Context, expression string) ([]storage.Persona, error)
	Get(ctx context.Context, id int64) (storage.Persona, bool, error)
	Create(ctx context.Context, name, email string) (storage.Persona, error)
	Update(ctx context.Context, id int64, name, email string) (storage.Persona, error)
	Delete(ctx context.Context, id int64) error
}

var _ PersonaService = (*corepersonas.Service)(nil)

// ResourceUpdateNotifier announces that the resource at uri changed.
type ResourceUpdateNotifier func(ctx context.Context, uri string)

// PersonaEntry is the MCP view of a stored persona.
type PersonaEntry struct {
	ResourceName string `json:"resource_name" jsonschema:"persona resource name (personas/{persona})"`
	ID           int64  `json:"id" jsonschema:"persona identifier"`
	Name         string `json:"name" jsonschema:"persona name"`
	Email        string `json:"email" jsonschema:"persona email"`
}

// PersonaListInput represents the MCP tool input for listing personas.
type PersonaListInput struct {
	Filter string `json:"filter,omitempty" jsonschema:"optional AIP-160 filter over id, name and email, e.g. name = \"Ana*\""`
}

// PersonaListResult represents the MCP tool output for listing personas.
type PersonaListResult struct {
	Personas []PersonaEntry `json:"personas" jsonschema:"personas in id order"`
}

// PersonaGetInput represents the MCP tool input for reading one persona.
type PersonaGetInput struct {
	Persona string `json:"persona" jsonschema:"persona resource name (personas/{persona})"`
}

// PersonaGetResult represents the MCP tool output for reading one persona.
type PersonaGetResult struct {
	Found   bool          `json:"found" jsonschema:"whether the persona exists"`
	Persona *PersonaEntry `json:"persona,omitempty" jsonschema:"persona when found"`
}

// PersonaCreateInput represents the MCP tool input for creating a persona.
type PersonaCreateInput struct {
	Name  string `json:"name" jsonschema:"persona name (required, trimmed)"`
	Email string `json:"email" jsonschema:"persona email in local@domain.tld form (required, trimmed)"`
}

// PersonaUpdateInput represents the MCP tool input for editing a persona.
type PersonaUpdateInput struct {
	Persona string `json:"persona" jsonschema:"persona resource name (personas/{persona})"`
	Name    string `json:"name" jsonschema:"new persona name (required, trimmed)"`
	Email   string `json:"email" jsonschema:"new persona email (required, trimmed)"`
}

// PersonaResult represents the MCP tool output for create and update.
type PersonaResult struct {
	Persona PersonaEntry `json:"persona" jsonschema:"persona as stored"`
}

// PersonaDeleteInput represents the MCP tool input for deleting a persona.
type PersonaDeleteInput struct {
	Persona string `json:"persona" jsonschema:"persona resource name (personas/{persona})"`
}

// PersonaDeleteResult represents the MCP tool output for deleting a persona.
type PersonaDeleteResult struct {
	Deleted string `json:"deleted" jsonschema:"resource name that was removed; absent personas delete successfully"`
}

// PersonaListTool defines the MCP tool schema for listing personas.
func PersonaListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "persona_list",
		Description: "Lists personas in id order, optionally narrowed by an AIP-160 filter over id, name and email",
	}
}

// PersonaGetTool defines the MCP tool schema for reading one persona.
func PersonaGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "persona_get",
		Description: "Reads one persona by resource name",
	}
}

// PersonaCreateTool defines the MCP tool schema for creating a persona.
func PersonaCreateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "persona_create",
		Description: "Creates a persona with a name and an email",
	}
}

// PersonaUpdateTool defines the MCP tool schema for editing a persona.
func PersonaUpdateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "persona_update",
		Description: "Replaces the name and email of a persona",
	}
}

// PersonaDeleteTool defines the MCP tool schema for deleting a persona.
func PersonaDeleteTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "persona_delete",
		Description: "Deletes a persona permanently",
	}
}

// PersonaResourceName formats the resource name for id.
func PersonaResourceName(id int64) string {
	return resourcename.Sprint(PersonaPattern, strconv.FormatInt(id, 10))
}

// ParsePersonaResourceName extracts the persona id from a resource name.
func ParsePersonaResourceName(name string) (int64, error) {
	if !resourcename.Match(PersonaPattern, name) {
		return 0, fmt.Errorf("resource name %q does not match %s", name, PersonaPattern)
	}
	var raw string
	if err := resourcename.Sscan(name, PersonaPattern, &raw); err != nil {
		return 0, fmt.Errorf("parse persona resource name %q: %w", name, err)
	}
	return corepersonas.ParseID(raw)
}

func entryFromStorage(p storage.Persona) PersonaEntry {
	return PersonaEntry{
		ResourceName: PersonaResourceName(p.ID),
		ID:           p.ID,
		Name:         p.Name,
		Email:        p.Email,
	}
}

func entriesFromStorage(items []storage.Persona) []PersonaEntry {
	entries := make([]PersonaEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, entryFromStorage(item))
	}
	return entries
}
