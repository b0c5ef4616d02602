package graphql_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gql "github.com/shashiranjanraj/foodhub/pkg/graphql"
)

func schema(t *testing.T) graphql.Schema {
	t.Helper()
	s, err := gql.NewSchema(graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"echo": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{"text": &graphql.ArgumentConfig{Type: graphql.String}},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Args["text"], nil
				},
			},
		},
	}))
	require.NoError(t, err)
	return s
}

func TestHandlerExecutesQueryWithVariables(t *testing.T) {
	body := `{"query":"query($t:String){ echo(text:$t) }","variables":{"t":"hi"}}`
	req := httptest.NewRequest(http.MethodPost, "/admin/graphql", strings.NewReader(body))
	rec := httptest.NewRecorder()
	gql.Handler(schema(t)).ServeHTTP(rec, req)

	assert.Equal(t, 200, rec.Code)
	var out struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "hi", out.Data["echo"])
}

func TestHandlerReportsQueryErrors(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"query":"{ nope }"}`))
	rec := httptest.NewRecorder()
	gql.Handler(schema(t)).ServeHTTP(rec, req)

	var out struct {
		Errors []map[string]any `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.NotEmpty(t, out.Errors)
}

func TestHandlerRejectsMissingQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	gql.Handler(schema(t)).ServeHTTP(rec, req)
	assert.Equal(t, 400, rec.Code)
}
