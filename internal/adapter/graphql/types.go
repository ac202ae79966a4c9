package graphql

import (
	"time"

	"github.com/graphql-go/graphql"

	"usergraph/internal/core/domain"
)

// Result wrappers carried by the union types. Resolvers return these
// instead of raising, so clients switch on __typename rather than parsing
// a top-level errors array.

type UserNotFound struct {
	Message string `json:"message"`
}

type InvalidInput struct {
	Field   *string `json:"field"`
	Message string  `json:"message"`
}

type OperationFailure struct {
	Message string `json:"message"`
}

type DeleteSuccess struct {
	Message string `json:"message"`
}

type UserCollection struct {
	Users []*domain.User `json:"users"`
}

var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "User",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Int),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(*domain.User).ID, nil
			},
		},
		"name": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(*domain.User).Name, nil
			},
		},
		"email": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(*domain.User).Email, nil
			},
		},
		"isActive": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Boolean),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(*domain.User).IsActive, nil
			},
		},
		"createdAt": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(*domain.User).CreatedAt.Format(time.RFC3339), nil
			},
		},
		"updatedAt": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(*domain.User).UpdatedAt.Format(time.RFC3339), nil
			},
		},
	},
})

var userNotFoundType = graphql.NewObject(graphql.ObjectConfig{
	Name: "UserNotFoundError",
	Fields: graphql.Fields{
		"message": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(UserNotFound).Message, nil
			},
		},
	},
})

var validationErrorType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ValidationError",
	Fields: graphql.Fields{
		"field": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(InvalidInput).Field, nil
			},
		},
		"message": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(InvalidInput).Message, nil
			},
		},
	},
})

var databaseErrorType = graphql.NewObject(graphql.ObjectConfig{
	Name: "DatabaseError",
	Fields: graphql.Fields{
		"message": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(OperationFailure).Message, nil
			},
		},
	},
})

var deleteSuccessType = graphql.NewObject(graphql.ObjectConfig{
	Name: "DeleteUserSuccess",
	Fields: graphql.Fields{
		"message": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(DeleteSuccess).Message, nil
			},
		},
	},
})

var userCollectionType = graphql.NewObject(graphql.ObjectConfig{
	Name: "UserCollection",
	Fields: graphql.Fields{
		"users": &graphql.Field{
			Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(userType))),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(UserCollection).Users, nil
			},
		},
	},
})

func resolveResultType(p graphql.ResolveTypeParams) *graphql.Object {
	switch p.Value.(type) {
	case *domain.User:
		return userType
	case UserNotFound:
		return userNotFoundType
	case InvalidInput:
		return validationErrorType
	case OperationFailure:
		return databaseErrorType
	case DeleteSuccess:
		return deleteSuccessType
	case UserCollection:
		return userCollectionType
	}

	return nil
}

var usersResultType = graphql.NewUnion(graphql.UnionConfig{
	Name:        "UsersResult",
	Types:       []*graphql.Object{userCollectionType, databaseErrorType},
	ResolveType: resolveResultType,
})

var userResultType = graphql.NewUnion(graphql.UnionConfig{
	Name:        "UserResult",
	Types:       []*graphql.Object{userType, userNotFoundType, databaseErrorType},
	ResolveType: resolveResultType,
})

var createUserResultType = graphql.NewUnion(graphql.UnionConfig{
	Name:        "CreateUserResult",
	Types:       []*graphql.Object{userType, validationErrorType, databaseErrorType},
	ResolveType: resolveResultType,
})

var updateUserResultType = graphql.NewUnion(graphql.UnionConfig{
	Name:        "UpdateUserResult",
	Types:       []*graphql.Object{userType, userNotFoundType, validationErrorType, databaseErrorType},
	ResolveType: resolveResultType,
})

var deleteUserResultType = graphql.NewUnion(graphql.UnionConfig{
	Name:        "DeleteUserResult",
	Types:       []*graphql.Object{deleteSuccessType, userNotFoundType, databaseErrorType},
	ResolveType: resolveResultType,
})

var createUserInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "CreateUserInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"name":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"email":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"password": &graphql.InputObjectFieldConfig{Type: graphql.String},
	},
})

var updateUserInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "UpdateUserInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"name":  &graphql.InputObjectFieldConfig{Type: graphql.String},
		"email": &graphql.InputObjectFieldConfig{Type: graphql.String},
	},
})
