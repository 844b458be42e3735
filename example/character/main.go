package main

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/golang/protobuf/ptypes"
	"github.com/golang/protobuf/ptypes/timestamp"
	"github.com/google/uuid"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"

	"go.appointy.com/graysql"
	"go.appointy.com/graysql/gerrors"
	"go.appointy.com/graysql/schemabuilder"
)

func init() {
	// Every schema of this process gets a default port.
	if _, err := schemabuilder.Use(schemabuilder.Extension{
		schemabuilder.OnInit: func(o schemabuilder.Options) {
			if _, ok := o["addr"]; !ok {
				o["addr"] = ":9000"
			}
		},
	}); err != nil {
		panic(err)
	}
}

// Map is a string map serialized as a JSON object.
var Map = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "Map",
	Description: "A string map, serialized as a JSON object.",
	Serialize: func(value interface{}) interface{} {
		m, ok := value.(map[string]string)
		if !ok || m == nil {
			return nil
		}
		return m
	},
	ParseValue: func(value interface{}) interface{} {
		switch v := value.(type) {
		case map[string]interface{}:
			m := make(map[string]string, len(v))
			for k, val := range v {
				s, ok := val.(string)
				if !ok {
					return nil
				}
				m[k] = s
			}
			return m
		case string:
			m := make(map[string]string)
			if err := json.Unmarshal([]byte(v), &m); err != nil {
				return nil
			}
			return m
		}
		return nil
	},
	ParseLiteral: func(valueAST ast.Value) interface{} {
		v, ok := valueAST.(*ast.StringValue)
		if !ok {
			return nil
		}
		m := make(map[string]string)
		if err := json.Unmarshal([]byte(v.Value), &m); err != nil {
			return nil
		}
		return m
	},
})

type Server struct {
	mu         sync.RWMutex
	Characters []*Character
}

type Character struct {
	Id          string               `graphql:"id,id"`
	Name        string               `graphql:"name"`
	Type        string               `graphql:"type,description=WIZARD MUGGLE GOBLIN or HOUSE_ELF"`
	DateOfBirth time.Time            `graphql:"dateOfBirth"`
	CreatedAt   *timestamp.Timestamp `graphql:"createdAt"`
	Metadata    map[string]string    `graphql:"-"`
}

var characterTypes = map[string]bool{"WIZARD": true, "MUGGLE": true, "GOBLIN": true, "HOUSE_ELF": true}

func RegisterPayload(schema *schemabuilder.Schema) error {
	if _, err := schema.RegisterScalar(Map); err != nil {
		return err
	}

	fields, err := schemabuilder.FieldsOf(Character{})
	if err != nil {
		return err
	}
	fields["metadata"] = &schemabuilder.Field{
		Type:        "Map",
		Description: "Additional metadata for the character.",
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			switch c := p.Source.(type) {
			case *Character:
				return c.Metadata, nil
			case Character:
				return c.Metadata, nil
			}
			return nil, gerrors.New(gerrors.Type, "expected a Character source, got %T", p.Source)
		},
	}

	_, err = schema.RegisterType(func(*schemabuilder.Schema) *schemabuilder.TypeConfig {
		return &schemabuilder.TypeConfig{
			Name:        "Character",
			Description: "A character in the system.",
			Fields:      fields,
		}
	})
	return err
}

func (s *Server) RegisterOperations(schema *schemabuilder.Schema) error {
	if _, err := schema.AddQuery("character", func(*schemabuilder.Schema) *schemabuilder.Field {
		return &schemabuilder.Field{
			Type:        "Character",
			Description: "Fetch a character by ID.",
			Args:        schemabuilder.Args{"id": {Type: "ID!"}},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				id, _ := p.Args["id"].(string)

				s.mu.RLock()
				defer s.mu.RUnlock()
				for _, ch := range s.Characters {
					if ch.Id == id {
						return ch, nil
					}
				}
				return nil, nil
			},
		}
	}); err != nil {
		return err
	}

	if _, err := schema.AddQuery("characters", func(*schemabuilder.Schema) *schemabuilder.Field {
		return &schemabuilder.Field{
			Type:        "[Character!]!",
			Description: "List all characters.",
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				s.mu.RLock()
				defer s.mu.RUnlock()
				return append([]*Character(nil), s.Characters...), nil
			},
		}
	}); err != nil {
		return err
	}

	_, err := schema.AddMutation("createCharacter", func(*schemabuilder.Schema) *schemabuilder.Field {
		return &schemabuilder.Field{
			Type:        "Character!",
			Description: "Create a new character.",
			Args: schemabuilder.Args{
				"name":        {Type: "String!"},
				"type":        {Type: "String!"},
				"dateOfBirth": {Type: "DateTime"},
				"metadata":    {Type: "Map"},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				ch := &Character{
					Id:        uuid.Must(uuid.NewUUID()).String(),
					CreatedAt: ptypes.TimestampNow(),
				}
				ch.Name, _ = p.Args["name"].(string)
				ch.Type, _ = p.Args["type"].(string)
				ch.DateOfBirth, _ = p.Args["dateOfBirth"].(time.Time)
				ch.Metadata, _ = p.Args["metadata"].(map[string]string)
				if !characterTypes[ch.Type] {
					return nil, gerrors.New(gerrors.Type, "unknown character type %s", ch.Type)
				}

				s.mu.Lock()
				s.Characters = append(s.Characters, ch)
				s.mu.Unlock()
				return ch, nil
			},
		}
	})
	return err
}

func main() {
	sb, err := schemabuilder.NewSchema(nil)
	if err != nil {
		log.Fatalln(err)
	}
	if err := RegisterPayload(sb); err != nil {
		log.Fatalln(err)
	}

	s := &Server{
		Characters: []*Character{{
			Id:          "015f13a5-cf9b-49d7-b457-6113bcf8fd56",
			Name:        "Harry Potter",
			Type:        "WIZARD",
			DateOfBirth: time.Date(1980, time.July, 31, 0, 0, 0, 0, time.UTC),
			CreatedAt:   ptypes.TimestampNow(),
		}},
	}
	if err := s.RegisterOperations(sb); err != nil {
		log.Fatalln(err)
	}

	schema, err := sb.GenerateSchema()
	if err != nil {
		log.Fatalln(err)
	}

	addr := sb.Options()["addr"].(string)
	http.Handle("/graphql", graysql.HTTPHandler(schema))
	log.Println("Running on", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		panic(err)
	}
}
