package users

import (
	"time"

	"github.com/google/uuid"
	"github.com/graphql-go/graphql"

	"go.appointy.com/graysql/gerrors"
	"go.appointy.com/graysql/schemabuilder"
)

// RegisterCreateUserMutation adds createUser.
func RegisterCreateUserMutation(sb *schemabuilder.Schema, s *Server) error {
	_, err := sb.AddMutation("createUser", func(*schemabuilder.Schema) *schemabuilder.Field {
		return &schemabuilder.Field{
			Type:        "User!",
			Description: "Creates a new user.",
			Args: schemabuilder.Args{
				"name":      {Type: "String!"},
				"email":     {Type: "Email!"},
				"birthDate": {Type: "DateTime"},
				"role":      {Type: "String", DefaultValue: RoleMember},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				u := &User{
					ID:       uuid.New().String(),
					IsActive: true,
				}
				u.Name, _ = p.Args["name"].(string)
				u.Email, _ = p.Args["email"].(string)
				u.Role, _ = p.Args["role"].(string)
				u.BirthDate, _ = p.Args["birthDate"].(time.Time)

				switch u.Role {
				case RoleAdmin, RoleMember, RoleGuest:
				default:
					return nil, gerrors.New(gerrors.Type, "unknown role %s", u.Role)
				}

				s.mu.Lock()
				defer s.mu.Unlock()

				for _, other := range s.users {
					if other.Email == u.Email {
						return nil, gerrors.New(gerrors.Conflict, "user with email %s already exists", u.Email)
					}
				}
				s.users = append(s.users, u)
				return u, nil
			},
		}
	})
	return err
}

// RegisterAddMemberMutation adds addMember.
func RegisterAddMemberMutation(sb *schemabuilder.Schema, s *Server) error {
	_, err := sb.AddMutation("addMember", func(*schemabuilder.Schema) *schemabuilder.Field {
		return &schemabuilder.Field{
			Type:        "Group!",
			Description: "Adds a user to a group.",
			Args: schemabuilder.Args{
				"groupId": {Type: "ID!"},
				"userId":  {Type: "ID!"},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				groupID, _ := p.Args["groupId"].(string)
				userID, _ := p.Args["userId"].(string)

				s.mu.Lock()
				defer s.mu.Unlock()

				g := s.group(groupID)
				if g == nil {
					return nil, gerrors.New(gerrors.Reference, "group %s not found", groupID)
				}
				if s.user(userID) == nil {
					return nil, gerrors.New(gerrors.Reference, "user %s not found", userID)
				}
				for _, id := range g.Members {
					if id == userID {
						return g, nil
					}
				}
				g.Members = append(g.Members, userID)
				return g, nil
			},
		}
	})
	return err
}

// RegisterMutation adds every mutation.
func RegisterMutation(sb *schemabuilder.Schema, s *Server) error {
	if err := RegisterCreateUserMutation(sb, s); err != nil {
		return err
	}
	return RegisterAddMemberMutation(sb, s)
}
