package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"

	gql "usergraph/internal/adapter/graphql"
	"usergraph/internal/core/loader"
	"usergraph/internal/core/port"
)

type graphqlRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

// GraphQLHandler executes queries against the schema. Each request gets its
// own loader set so id lookups batch within the request and never leak
// across requests.
type GraphQLHandler struct {
	schema   graphql.Schema
	fetch    port.UserBatchFetcher
	wait     time.Duration
	maxBatch int
}

func NewGraphQLHandler(schema graphql.Schema, fetch port.UserBatchFetcher, wait time.Duration, maxBatch int) *GraphQLHandler {
	return &GraphQLHandler{
		schema:   schema,
		fetch:    fetch,
		wait:     wait,
		maxBatch: maxBatch,
	}
}

func (h *GraphQLHandler) Handle(c *gin.Context) {
	var req graphqlRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"errors": []gin.H{{"message": "invalid request body"}},
		})
		return
	}

	loaders := loader.New(h.fetch,
		loader.WithWait(h.wait),
		loader.WithMaxBatch(h.maxBatch),
	)

	ctx := gql.WithLoaders(c.Request.Context(), loaders)

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})

	c.JSON(http.StatusOK, result)
}
