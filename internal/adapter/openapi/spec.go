// Package openapi describes the HTTP API as an OpenAPI 3 document.
package openapi

import (
	"encoding/json"

	"github.com/getkin/kin-openapi/openapi3"

	domain "user-search-service/internal/domain/user"
)

// Paths served by the search endpoint, keyed to their operation IDs.
var searchPaths = []struct {
	path string
	id   string
}{
	{"/api/users", "searchUsers"},
	{"/index.php", "searchUsersLegacy"},
}

// Document builds the OpenAPI description of the service.
func Document(version string) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "User Search Service",
			Version:     version,
			Description: "Paginated, name-filtered listing of a static user directory.",
		},
		Paths: &openapi3.Paths{},
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{
				"User":         &openapi3.SchemaRef{Value: userSchema()},
				"Pagination":   &openapi3.SchemaRef{Value: paginationSchema()},
				"SearchResult": &openapi3.SchemaRef{Value: searchResultSchema()},
				"Error":        &openapi3.SchemaRef{Value: errorSchema()},
			},
		},
	}

	for _, p := range searchPaths {
		doc.Paths.Set(p.path, &openapi3.PathItem{
			Get:     searchOperation(p.id),
			Options: preflightOperation(),
		})
	}

	doc.Paths.Set("/health", &openapi3.PathItem{
		Get: &openapi3.Operation{
			OperationID: "health",
			Summary:     "Report whether the user dataset can be loaded",
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(200, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("Healthy")}),
				openapi3.WithStatus(503, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("Dataset unavailable")}),
			),
		},
	})

	return doc
}

// JSON renders Document as JSON.
func JSON(version string) ([]byte, error) {
	return json.Marshal(Document(version))
}

func searchOperation(id string) *openapi3.Operation {
	search := openapi3.NewQueryParameter("search").
		WithDescription("Case-insensitive substring of the user name. Surrounding whitespace is ignored.").
		WithSchema(openapi3.NewStringSchema().WithMaxLength(domain.MaxSearchLength))
	page := openapi3.NewQueryParameter("page").
		WithDescription("1-based page number. Values below 1 are treated as 1.").
		WithSchema(openapi3.NewInt64Schema().WithMax(domain.MaxPage))

	op := &openapi3.Operation{
		OperationID: id,
		Summary:     "Search users by name",
		Parameters: openapi3.Parameters{
			{Value: search},
			{Value: page},
		},
		Responses: &openapi3.Responses{},
	}

	op.Responses.Set("200", &openapi3.ResponseRef{
		Value: openapi3.NewResponse().
			WithDescription("One page of matching users").
			WithContent(openapi3.NewContentWithJSONSchemaRef(componentRef("SearchResult", searchResultSchema()))),
	})
	for code, desc := range map[string]string{
		"400": "Invalid search or page",
		"429": "Rate limit exceeded",
		"500": "Dataset unavailable or internal error",
	} {
		op.Responses.Set(code, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription(desc).
				WithContent(openapi3.NewContentWithJSONSchemaRef(componentRef("Error", errorSchema()))),
		})
	}

	return op
}

func preflightOperation() *openapi3.Operation {
	return &openapi3.Operation{
		Summary: "CORS preflight",
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(200, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("Empty response with CORS headers")}),
		),
	}
}

// componentRef references a schema under #/components/schemas. The value is
// kept alongside the ref so the document validates without a loader pass.
func componentRef(name string, schema *openapi3.Schema) *openapi3.SchemaRef {
	return openapi3.NewSchemaRef("#/components/schemas/"+name, schema)
}

func userSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewInt64Schema()).
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("email", openapi3.NewStringSchema()).
		WithRequired([]string{"id", "name", "email"})
}

func paginationSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("total", openapi3.NewInt64Schema()).
		WithProperty("page", openapi3.NewInt64Schema()).
		WithProperty("per_page", openapi3.NewInt64Schema()).
		WithProperty("total_pages", openapi3.NewInt64Schema()).
		WithProperty("has_next", openapi3.NewBoolSchema()).
		WithProperty("has_prev", openapi3.NewBoolSchema()).
		WithRequired([]string{"total", "page", "per_page", "total_pages", "has_next", "has_prev"})
}

func searchResultSchema() *openapi3.Schema {
	users := openapi3.NewArraySchema()
	users.Items = componentRef("User", userSchema())

	return openapi3.NewObjectSchema().
		WithProperty("success", openapi3.NewBoolSchema()).
		WithProperty("data", users).
		WithPropertyRef("pagination", componentRef("Pagination", paginationSchema())).
		WithProperty("search", openapi3.NewStringSchema()).
		WithProperty("timestamp", openapi3.NewDateTimeSchema()).
		WithProperty("total", openapi3.NewInt64Schema()).
		WithProperty("per_page", openapi3.NewInt64Schema()).
		WithRequired([]string{"success", "data", "pagination", "search", "timestamp", "total", "per_page"})
}

func errorSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("success", openapi3.NewBoolSchema()).
		WithProperty("error", openapi3.NewStringSchema()).
		WithProperty("timestamp", openapi3.NewDateTimeSchema()).
		WithRequired([]string{"success", "error"})
}
