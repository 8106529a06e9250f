package controllers

import (
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/zaikahq/zaika/app/services"
	"github.com/zaikahq/zaika/pkg/ctx"
	gqlschema "github.com/zaikahq/zaika/pkg/graphql"
	"github.com/zaikahq/zaika/pkg/logger"
)

// GraphQLController serves the read-only catalog query endpoint.
type GraphQLController struct {
	schema graphql.Schema
}

// NewGraphQLController builds the catalog schema resolved through the
// catalog service.
func NewGraphQLController(catalog *services.CatalogService) (*GraphQLController, error) {
	categoryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Category",
		Fields: graphql.Fields{
			"id":   &graphql.Field{Type: graphql.Int},
			"name": &graphql.Field{Type: graphql.String},
		},
	})

	productType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Product",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.Int},
			"name":        &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"price":       &graphql.Field{Type: graphql.Float},
			"quantity":    &graphql.Field{Type: graphql.Int},
			"imagePath":   &graphql.Field{Type: graphql.String},
			"category":    &graphql.Field{Type: categoryType},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"search": &graphql.ArgumentConfig{Type: graphql.String},
					"page":   &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					term, _ := p.Args["search"].(string)
					page, _ := p.Args["page"].(int)
					limit, _ := p.Args["limit"].(int)

					items, _, err := catalog.ListProducts(p.Context, term, page, limit)
					if err != nil {
						return nil, err
					}

					out := make([]map[string]interface{}, 0, len(items))
					for _, pr := range items {
						out = append(out, map[string]interface{}{
							"id":          pr.ID,
							"name":        pr.Name,
							"description": pr.Description,
							"price":       pr.Price,
							"quantity":    pr.Quantity,
							"imagePath":   pr.ImagePath,
							"category": map[string]interface{}{
								"id":   pr.Category.ID,
								"name": pr.Category.Name,
							},
						})
					}
					return out, nil
				},
			},
			"categories": &graphql.Field{
				Type: graphql.NewList(categoryType),
				Args: graphql.FieldConfigArgument{
					"search": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					term, _ := p.Args["search"].(string)

					cats, err := catalog.ListCategories(p.Context, term)
					if err != nil {
						return nil, err
					}

					out := make([]map[string]interface{}, 0, len(cats))
					for _, cat := range cats {
						out = append(out, map[string]interface{}{"id": cat.ID, "name": cat.Name})
					}
					return out, nil
				},
			},
		},
	})

	schema, err := gqlschema.NewSchema(query)
	if err != nil {
		return nil, err
	}
	return &GraphQLController{schema: schema}, nil
}

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// Handle serves GET (?query=) and POST /api/graphql.
func (ct *GraphQLController) Handle(c *ctx.Context) {
	var req graphqlRequest

	if c.Method() == http.MethodGet {
		req.Query = c.Query("query")
	} else if !c.BindJSON(&req) {
		return
	}

	if req.Query == "" {
		c.ValidationError(map[string]string{"query": "query is required"})
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         ct.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		Context:        c.Context(),
	})
	if result.HasErrors() {
		logger.WithCtx(c.Context()).Warn("graphql: query errors", "errors", result.Errors)
	}

	c.JSON(http.StatusOK, result)
}
