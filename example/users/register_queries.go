package users

import (
	"github.com/graphql-go/graphql"

	"go.appointy.com/graysql/gerrors"
	"go.appointy.com/graysql/schemabuilder"
)

// RegisterQuery adds the root query fields.
func RegisterQuery(sb *schemabuilder.Schema, s *Server) error {
	queries := map[string]schemabuilder.QueryFunc{
		"me": func(*schemabuilder.Schema) *schemabuilder.Field {
			return &schemabuilder.Field{
				Type:        "User",
				Description: "Returns the current authenticated user (if any).",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					s.mu.RLock()
					defer s.mu.RUnlock()

					if len(s.users) == 0 {
						return nil, nil
					}
					return s.users[0], nil
				},
			}
		},
		"user": func(*schemabuilder.Schema) *schemabuilder.Field {
			return &schemabuilder.Field{
				Type:        "User",
				Description: "Fetch user by ID.",
				Args: schemabuilder.Args{
					"id": {Type: "ID!"},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)

					s.mu.RLock()
					defer s.mu.RUnlock()

					if u := s.user(id); u != nil {
						return u, nil
					}
					return nil, gerrors.New(gerrors.Reference, "user %s not found", id)
				},
			}
		},
		"node": func(*schemabuilder.Schema) *schemabuilder.Field {
			return &schemabuilder.Field{
				Type:        "Node",
				Description: "Fetch a user or a group by ID.",
				Args: schemabuilder.Args{
					"id": {Type: "ID!"},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					return s.node(id), nil
				},
			}
		},
		"allUsers": func(*schemabuilder.Schema) *schemabuilder.Field {
			return &schemabuilder.Field{
				Type:        "[User!]!",
				Description: "Returns all users in the system.",
				Args: schemabuilder.Args{
					"activeOnly": {Type: "Boolean", DefaultValue: false},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					activeOnly, _ := p.Args["activeOnly"].(bool)

					s.mu.RLock()
					defer s.mu.RUnlock()

					users := make([]*User, 0, len(s.users))
					for _, u := range s.users {
						if !activeOnly || u.IsActive {
							users = append(users, u)
						}
					}
					return users, nil
				},
			}
		},
		"groups": func(*schemabuilder.Schema) *schemabuilder.Field {
			return &schemabuilder.Field{
				Type:        "[Group!]!",
				Description: "Returns all groups.",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					s.mu.RLock()
					defer s.mu.RUnlock()
					return append([]*Group(nil), s.groups...), nil
				},
			}
		},
	}

	for _, name := range []string{"me", "user", "node", "allUsers", "groups"} {
		if _, err := sb.AddQuery(name, queries[name]); err != nil {
			return err
		}
	}
	return nil
}
