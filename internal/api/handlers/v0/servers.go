// Package v0 registers the public catalog endpoints.
package v0

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mcpcatalog/registry/internal/categorize"
	"github.com/mcpcatalog/registry/internal/service"
	"github.com/mcpcatalog/registry/pkg/model"
)

// Response is a generic response wrapper for huma handlers.
type Response[T any] struct {
	Body T
}

// ListServersInput represents the input for listing servers
type ListServersInput struct {
	Search   string `query:"search" doc:"Case-insensitive substring match over name, description, author and tags" required:"false" example:"postgres"`
	Category string `query:"category" doc:"Exact-match category filter" required:"false" example:"Database"`
	Sort     string `query:"sort" doc:"Sort mode" enum:"popular,recent,alphabetical,rating" default:"popular"`
	Limit    int    `query:"limit" doc:"Maximum number of records returned" default:"0" minimum:"0" maximum:"500"`
}

// ServerDetailInput represents the input for getting one server
type ServerDetailInput struct {
	Slug string `path:"slug" doc:"Record slug" example:"google-drive"`
}

// ServerListResponse is the catalog list payload.
type ServerListResponse struct {
	Servers      []model.CatalogRecord `json:"servers"`
	Count        int                   `json:"count"`
	UsedFallback bool                  `json:"usedFallback"`
}

// CategoryListResponse lists the fixed category label set.
type CategoryListResponse struct {
	Categories []string `json:"categories"`
}

// RegisterServersEndpoints registers all catalog endpoints.
func RegisterServersEndpoints(api huma.API, catalog *service.CatalogService) {
	huma.Register(api, huma.Operation{
		OperationID: "list-servers",
		Method:      http.MethodGet,
		Path:        "/v0/servers",
		Summary:     "List MCP servers",
		Description: "Get the catalog with query-time search, category filtering and sorting. Featured servers are always pinned first.",
		Tags:        []string{"servers"},
	}, func(ctx context.Context, input *ListServersInput) (*Response[ServerListResponse], error) {
		records, usedFallback := catalog.Load(ctx)

		records = service.Apply(records, service.Query{
			Search:   input.Search,
			Category: input.Category,
			Sort:     service.SortMode(input.Sort),
		})

		if input.Limit > 0 && len(records) > input.Limit {
			records = records[:input.Limit]
		}

		return &Response[ServerListResponse]{
			Body: ServerListResponse{
				Servers:      records,
				Count:        len(records),
				UsedFallback: usedFallback,
			},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-server",
		Method:      http.MethodGet,
		Path:        "/v0/servers/{slug}",
		Summary:     "Get MCP server details",
		Tags:        []string{"servers"},
	}, func(ctx context.Context, input *ServerDetailInput) (*Response[model.CatalogRecord], error) {
		rec, err := catalog.Get(ctx, input.Slug)
		if err != nil {
			return nil, huma.Error404NotFound("Server not found")
		}
		return &Response[model.CatalogRecord]{Body: *rec}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-categories",
		Method:      http.MethodGet,
		Path:        "/v0/categories",
		Summary:     "List category labels",
		Tags:        []string{"servers"},
	}, func(_ context.Context, _ *struct{}) (*Response[CategoryListResponse], error) {
		return &Response[CategoryListResponse]{
			Body: CategoryListResponse{Categories: categorize.Labels()},
		}, nil
	})
}

// HealthBody is the health check payload.
type HealthBody struct {
	Status string `json:"status" example:"ok"`
}

// RegisterHealthEndpoint registers the health check endpoint.
func RegisterHealthEndpoint(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-health",
		Method:      http.MethodGet,
		Path:        "/v0/health",
		Summary:     "Health check",
		Tags:        []string{"health"},
	}, func(_ context.Context, _ *struct{}) (*Response[HealthBody], error) {
		return &Response[HealthBody]{Body: HealthBody{Status: "ok"}}, nil
	})
}
