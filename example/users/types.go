package users

import (
	"sync"
	"time"
)

// User is a member of groups. Email is exposed with the Email scalar.
type User struct {
	ID        string    `graphql:"id,id"`
	Name      string    `graphql:"name"`
	Email     string    `graphql:"email"`
	Age       int32     `graphql:"age,deprecated=Use birthDate"`
	BirthDate time.Time `graphql:"birthDate"`
	Role      string    `graphql:"role,description=One of ADMIN MEMBER GUEST"`
	IsActive  bool      `graphql:"isActive"`
}

// GraphQLTypeName names the object type of users returned through Node.
func (u *User) GraphQLTypeName() string { return "User" }

// Group is a named set of users.
type Group struct {
	ID      string   `graphql:"id,id"`
	Name    string   `graphql:"name"`
	Members []string `graphql:"-"`
}

func (g *Group) GraphQLTypeName() string { return "Group" }

// Roles of a user.
const (
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
	RoleGuest  = "GUEST"
)

// Server is an in memory store for users and groups, used by the resolvers.
type Server struct {
	mu     sync.RWMutex
	users  []*User
	groups []*Group
}

// NewServer creates a Server with seed data.
func NewServer() *Server {
	return &Server{
		users: []*User{
			{
				ID:        "u1",
				Name:      "John Doe",
				Email:     "jdoe@example.com",
				Age:       30,
				BirthDate: time.Date(1994, time.March, 2, 0, 0, 0, 0, time.UTC),
				Role:      RoleAdmin,
				IsActive:  true,
			},
		},
		groups: []*Group{
			{ID: "g1", Name: "admins", Members: []string{"u1"}},
		},
	}
}

func (s *Server) user(id string) *User {
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (s *Server) group(id string) *Group {
	for _, g := range s.groups {
		if g.ID == id {
			return g
		}
	}
	return nil
}

// node returns the user or group with id.
func (s *Server) node(id string) interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if u := s.user(id); u != nil {
		return u
	}
	if g := s.group(id); g != nil {
		return g
	}
	return nil
}
