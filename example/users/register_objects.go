package users

import (
	"github.com/graphql-go/graphql"

	"go.appointy.com/graysql/gerrors"
	"go.appointy.com/graysql/schemabuilder"
)

// NodeInterface is implemented by everything that can be fetched by ID.
func NodeInterface(*schemabuilder.Schema) *schemabuilder.InterfaceConfig {
	return &schemabuilder.InterfaceConfig{
		Name:        "Node",
		Description: "An object with an ID.",
		Fields: schemabuilder.Fields{
			"id": {Type: "ID!"},
		},
	}
}

// RegisterObjects registers the Node interface and the User and Group types.
func RegisterObjects(sb *schemabuilder.Schema, s *Server) error {
	if _, err := sb.RegisterInterface(NodeInterface); err != nil {
		return err
	}

	userFields, err := schemabuilder.FieldsOf(User{})
	if err != nil {
		return err
	}
	userFields["email"].Type = "Email!"
	userFields["groups"] = &schemabuilder.Field{
		Type:        "[Group!]!",
		Description: "Groups the user is a member of.",
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			u, err := userSource(p.Source)
			if err != nil {
				return nil, err
			}

			s.mu.RLock()
			defer s.mu.RUnlock()

			groups := []*Group{}
			for _, g := range s.groups {
				for _, id := range g.Members {
					if id == u.ID {
						groups = append(groups, g)
						break
					}
				}
			}
			return groups, nil
		},
	}

	groupFields, err := schemabuilder.FieldsOf(Group{})
	if err != nil {
		return err
	}
	groupFields["members"] = &schemabuilder.Field{
		Type:        "[User!]!",
		Description: "Members of the group.",
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			g, err := groupSource(p.Source)
			if err != nil {
				return nil, err
			}

			s.mu.RLock()
			defer s.mu.RUnlock()

			members := make([]*User, 0, len(g.Members))
			for _, id := range g.Members {
				if u := s.user(id); u != nil {
					members = append(members, u)
				}
			}
			return members, nil
		},
	}

	node := func() []string { return []string{"Node"} }

	if _, err := sb.RegisterType(func(*schemabuilder.Schema) *schemabuilder.TypeConfig {
		return &schemabuilder.TypeConfig{
			Name:        "User",
			Description: "A user of the system.",
			Fields:      userFields,
			Interfaces:  node,
		}
	}); err != nil {
		return err
	}

	_, err = sb.RegisterType(func(*schemabuilder.Schema) *schemabuilder.TypeConfig {
		return &schemabuilder.TypeConfig{
			Name:        "Group",
			Description: "A named set of users.",
			Fields:      groupFields,
			Interfaces:  node,
		}
	})
	return err
}

func userSource(source interface{}) (*User, error) {
	switch u := source.(type) {
	case *User:
		if u != nil {
			return u, nil
		}
	case User:
		return &u, nil
	}
	return nil, gerrors.New(gerrors.Type, "expected a User source, got %T", source)
}

func groupSource(source interface{}) (*Group, error) {
	switch g := source.(type) {
	case *Group:
		if g != nil {
			return g, nil
		}
	case Group:
		return &g, nil
	}
	return nil, gerrors.New(gerrors.Type, "expected a Group source, got %T", source)
}
