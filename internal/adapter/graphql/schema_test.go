package graphql_test

import (
	"context"
	"sync"
	"testing"
	"time"

	. "usergraph/pkg/test"

	"usergraph/internal/adapter/cache"
	"usergraph/internal/adapter/database/sqlite"
	"usergraph/internal/adapter/database/sqlite/repository"
	gql "usergraph/internal/adapter/graphql"
	"usergraph/internal/core/domain"
	"usergraph/internal/core/loader"
	"usergraph/internal/core/port"
	"usergraph/internal/core/service"

	"github.com/graphql-go/graphql"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

// countingFetcher delegates to the real repository while recording how many
// batched fetches the loader issued.
type countingFetcher struct {
	inner port.UserBatchFetcher

	mu    sync.Mutex
	calls [][]int64
}

func (f *countingFetcher) GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.User, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]int64{}, ids...))
	f.mu.Unlock()

	return f.inner.GetByIDs(ctx, ids)
}

func (f *countingFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *countingFetcher) allKeys() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	var keys []int64
	for _, call := range f.calls {
		keys = append(keys, call...)
	}
	return keys
}

type SchemaTestSuite struct {
	suite.Suite
	db      *sqlite.DB
	svc     port.UserService
	fetcher *countingFetcher
	schema  graphql.Schema
}

func (s *SchemaTestSuite) SetupTest() {
	s.db = InitTestDB()

	repo := repository.NewUserRepository(s.db)
	s.fetcher = &countingFetcher{inner: repo}

	s.svc = service.NewUserService(
		repo,
		sqlite.NewTxManager(s.db),
		cache.NewMemoryCache(time.Minute),
		nil,
	)

	schema, err := gql.NewSchema(s.svc)
	assert.NoError(s.T(), err)
	s.schema = schema
}

func (s *SchemaTestSuite) TearDownTest() {
	s.db.Close()
}

func TestSchemaTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(SchemaTestSuite))
}

// exec runs a query with a fresh loader set, the way the HTTP handler does
// per request.
func (s *SchemaTestSuite) exec(query string, variables map[string]any) map[string]any {
	loaders := loader.New(s.fetcher, loader.WithWait(2*time.Millisecond))
	ctx := gql.WithLoaders(context.Background(), loaders)

	result := graphql.Do(graphql.Params{
		Schema:         s.schema,
		RequestString:  query,
		VariableValues: variables,
		Context:        ctx,
	})

	assert.Empty(s.T(), result.Errors)

	data, _ := result.Data.(map[string]any)
	return data
}

func (s *SchemaTestSuite) createUser(name, email string) int64 {
	user, err := s.svc.CreateUser(context.Background(), port.CreateUserInput{Name: name, Email: email})
	assert.NoError(s.T(), err)
	return user.ID
}

const createUserMutation = `
	mutation ($input: CreateUserInput!) {
		createUser(input: $input) {
			__typename
			... on User { id name email isActive }
			... on ValidationError { field message }
			... on DatabaseError { message }
		}
	}
`

func (s *SchemaTestSuite) TestSchema_CreateUser_Success() {
	data := s.exec(createUserMutation, map[string]any{
		"input": map[string]any{"name": "Ann", "email": "ann@example.com"},
	})

	result := data["createUser"].(map[string]any)

	assert.Equal(s.T(), "User", result["__typename"])
	assert.Equal(s.T(), "Ann", result["name"])
	assert.Equal(s.T(), "ann@example.com", result["email"])
	assert.Equal(s.T(), true, result["isActive"])
	Expect(result["id"]).To(BeNumerically(">", 0))
}

func (s *SchemaTestSuite) TestSchema_CreateUser_InvalidEmail() {
	data := s.exec(createUserMutation, map[string]any{
		"input": map[string]any{"name": "Ann", "email": "not-an-email"},
	})

	result := data["createUser"].(map[string]any)

	assert.Equal(s.T(), "ValidationError", result["__typename"])
	assert.Equal(s.T(), "email", result["field"])
	assert.NotEmpty(s.T(), result["message"])
}

func (s *SchemaTestSuite) TestSchema_CreateUser_DuplicateEmail() {
	s.createUser("Ann", "dup@example.com")

	data := s.exec(createUserMutation, map[string]any{
		"input": map[string]any{"name": "Bob", "email": "dup@example.com"},
	})

	result := data["createUser"].(map[string]any)

	assert.Equal(s.T(), "ValidationError", result["__typename"])
	assert.Equal(s.T(), "email", result["field"])
}

func (s *SchemaTestSuite) TestSchema_UserQuery_Found() {
	id := s.createUser("Ann", "ann@example.com")

	data := s.exec(`
		query ($id: Int!) {
			user(id: $id) {
				__typename
				... on User { id name email }
				... on UserNotFoundError { message }
			}
		}
	`, map[string]any{"id": id})

	result := data["user"].(map[string]any)

	assert.Equal(s.T(), "User", result["__typename"])
	assert.Equal(s.T(), "Ann", result["name"])
}

func (s *SchemaTestSuite) TestSchema_UserQuery_NotFound() {
	data := s.exec(`
		{
			user(id: 9999) {
				__typename
				... on UserNotFoundError { message }
			}
		}
	`, nil)

	result := data["user"].(map[string]any)

	assert.Equal(s.T(), "UserNotFoundError", result["__typename"])
	assert.Contains(s.T(), result["message"], "9999")
}

func (s *SchemaTestSuite) TestSchema_UserQuery_RepeatedIDFetchedOnce() {
	annID := s.createUser("Ann", "ann@example.com")
	bobID := s.createUser("Bob", "bob@example.com")

	data := s.exec(`
		query ($ann: Int!, $bob: Int!) {
			a: user(id: $ann) { ... on User { name } }
			b: user(id: $bob) { ... on User { name } }
			c: user(id: $ann) { ... on User { name } }
		}
	`, map[string]any{"ann": annID, "bob": bobID})

	assert.Equal(s.T(), "Ann", data["a"].(map[string]any)["name"])
	assert.Equal(s.T(), "Bob", data["b"].(map[string]any)["name"])
	assert.Equal(s.T(), "Ann", data["c"].(map[string]any)["name"])

	// Three selections, two distinct ids: the repeated id is memoized, so
	// at most one fetch per distinct id reaches the repository.
	assert.LessOrEqual(s.T(), s.fetcher.callCount(), 2)
	Expect(s.fetcher.allKeys()).To(ConsistOf(annID, bobID))
}

const usersQuery = `
	{
		users {
			__typename
			... on UserCollection { users { name email } }
			... on DatabaseError { message }
		}
	}
`

func (s *SchemaTestSuite) TestSchema_UsersQuery_ReturnsCollection() {
	s.createUser("Ann", "ann@example.com")
	s.createUser("Bob", "bob@example.com")

	data := s.exec(usersQuery, nil)

	result := data["users"].(map[string]any)

	assert.Equal(s.T(), "UserCollection", result["__typename"])
	Expect(result["users"].([]any)).To(HaveLen(2))
}

func (s *SchemaTestSuite) TestSchema_UsersQuery_ListsLiveUsers() {
	s.createUser("Ann", "ann@example.com")
	bobID := s.createUser("Bob", "bob@example.com")

	_, err := s.svc.DeleteUser(context.Background(), bobID)
	assert.NoError(s.T(), err)

	data := s.exec(usersQuery, nil)

	result := data["users"].(map[string]any)
	assert.Equal(s.T(), "UserCollection", result["__typename"])

	users := result["users"].([]any)

	Expect(users).To(HaveLen(1))
	assert.Equal(s.T(), "Ann", users[0].(map[string]any)["name"])
}

func (s *SchemaTestSuite) TestSchema_UpdateUser_NameOnly() {
	id := s.createUser("Before", "keep@example.com")

	data := s.exec(`
		mutation ($id: Int!) {
			updateUser(id: $id, input: {name: "After"}) {
				__typename
				... on User { name email }
			}
		}
	`, map[string]any{"id": id})

	result := data["updateUser"].(map[string]any)

	assert.Equal(s.T(), "User", result["__typename"])
	assert.Equal(s.T(), "After", result["name"])
	assert.Equal(s.T(), "keep@example.com", result["email"])
}

func (s *SchemaTestSuite) TestSchema_UpdateUser_NotFound() {
	data := s.exec(`
		mutation {
			updateUser(id: 9999, input: {name: "Nobody"}) {
				__typename
				... on UserNotFoundError { message }
			}
		}
	`, nil)

	result := data["updateUser"].(map[string]any)

	assert.Equal(s.T(), "UserNotFoundError", result["__typename"])
}

func (s *SchemaTestSuite) TestSchema_DeleteUser_IdempotentSuccess() {
	id := s.createUser("Gone", "gone@example.com")

	query := `
		mutation ($id: Int!) {
			deleteUser(id: $id) {
				__typename
				... on DeleteUserSuccess { message }
				... on UserNotFoundError { message }
			}
		}
	`

	first := s.exec(query, map[string]any{"id": id})
	assert.Equal(s.T(), "DeleteUserSuccess", first["deleteUser"].(map[string]any)["__typename"])

	// Repeat delete of an existing (already soft-deleted) row still succeeds.
	second := s.exec(query, map[string]any{"id": id})
	assert.Equal(s.T(), "DeleteUserSuccess", second["deleteUser"].(map[string]any)["__typename"])

	missing := s.exec(query, map[string]any{"id": int64(9999)})
	assert.Equal(s.T(), "UserNotFoundError", missing["deleteUser"].(map[string]any)["__typename"])
}
