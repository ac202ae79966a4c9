package graphql

import (
	"errors"
	"fmt"

	"github.com/graphql-go/graphql"
	"github.com/rs/zerolog/log"

	"usergraph/internal/core/domain"
	"usergraph/internal/core/port"
)

// NewSchema builds the executable schema around the service. The service is
// process-wide; loaders arrive per request through the context.
func NewSchema(svc port.UserService) (graphql.Schema, error) {
	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"users": &graphql.Field{
				Type: graphql.NewNonNull(usersResultType),
				Args: graphql.FieldConfigArgument{
					"skip":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 100},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					skip, _ := p.Args["skip"].(int)
					limit, _ := p.Args["limit"].(int)

					users, err := svc.ListUsers(p.Context, skip, limit)

					if err != nil {
						log.Error().Err(err).Msg("users_query_failed")
						return OperationFailure{Message: "database error"}, nil
					}

					items := make([]*domain.User, len(users))
					for i := range users {
						items[i] = &users[i]
					}

					return UserCollection{Users: items}, nil
				},
			},
			"user": &graphql.Field{
				Type: graphql.NewNonNull(userResultType),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := int64(p.Args["id"].(int))
					ctx := p.Context

					// The loader memoizes per request: repeated ids in one
					// query hit the store once, and concurrent loads within
					// the flush window share a single batched fetch.
					if loaders := LoadersFrom(ctx); loaders != nil {
						user, err := loaders.User.Load(ctx, id)

						if err != nil {
							log.Error().Err(err).Int64("id", id).Msg("user_query_failed")
							return OperationFailure{Message: "database error"}, nil
						}

						if user == nil {
							return UserNotFound{Message: fmt.Sprintf("User with id %d not found", id)}, nil
						}

						return user, nil
					}

					user, err := svc.GetUser(ctx, id)

					if err != nil {
						log.Error().Err(err).Int64("id", id).Msg("user_query_failed")
						return OperationFailure{Message: "database error"}, nil
					}

					if user == nil {
						return UserNotFound{Message: fmt.Sprintf("User with id %d not found", id)}, nil
					}

					return user, nil
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createUser": &graphql.Field{
				Type: graphql.NewNonNull(createUserResultType),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(createUserInputType)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					raw := p.Args["input"].(map[string]interface{})

					input := port.CreateUserInput{}
					if v, ok := raw["name"].(string); ok {
						input.Name = v
					}
					if v, ok := raw["email"].(string); ok {
						input.Email = v
					}
					if v, ok := raw["password"].(string); ok {
						input.Password = v
					}

					if err := Validator.Struct(input); err != nil {
						field, message := firstValidationError(err)
						return InvalidInput{Field: &field, Message: message}, nil
					}

					user, err := svc.CreateUser(p.Context, input)

					if err != nil {
						return mapServiceError(err), nil
					}

					return user, nil
				},
			},
			"updateUser": &graphql.Field{
				Type: graphql.NewNonNull(updateUserResultType),
				Args: graphql.FieldConfigArgument{
					"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(updateUserInputType)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := int64(p.Args["id"].(int))
					raw := p.Args["input"].(map[string]interface{})

					patch := domain.UserPatch{}
					if v, ok := raw["name"].(string); ok {
						patch.Name = &v
					}
					if v, ok := raw["email"].(string); ok {
						patch.Email = &v
					}

					if err := Validator.Struct(patch); err != nil {
						field, message := firstValidationError(err)
						return InvalidInput{Field: &field, Message: message}, nil
					}

					user, err := svc.UpdateUser(p.Context, id, patch)

					if err != nil {
						return mapServiceError(err), nil
					}

					if user == nil {
						return UserNotFound{Message: fmt.Sprintf("User with id %d not found", id)}, nil
					}

					return user, nil
				},
			},
			"deleteUser": &graphql.Field{
				Type: graphql.NewNonNull(deleteUserResultType),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := int64(p.Args["id"].(int))

					deleted, err := svc.DeleteUser(p.Context, id)

					if err != nil {
						return mapServiceError(err), nil
					}

					if !deleted {
						return UserNotFound{Message: fmt.Sprintf("User with id %d not found", id)}, nil
					}

					return DeleteSuccess{Message: fmt.Sprintf("User with id %d deleted", id)}, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

// mapServiceError translates domain error kinds into union members. Nothing
// else may leak: an unclassified error still becomes a generic failure.
func mapServiceError(err error) interface{} {
	var ve *domain.ValidationError

	if errors.As(err, &ve) {
		var field *string
		if ve.Field != "" {
			field = &ve.Field
		}
		return InvalidInput{Field: field, Message: ve.Message}
	}

	var de *domain.DatabaseError

	if errors.As(err, &de) {
		return OperationFailure{Message: "database error"}
	}

	log.Error().Err(err).Msg("unclassified_mutation_error")

	return OperationFailure{Message: "internal error"}
}
