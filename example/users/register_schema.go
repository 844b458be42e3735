package users

import "go.appointy.com/graysql/schemabuilder"

// Extension names the service in the schema options and adds the nodeTypes
// method, which lists the types implementing Node.
var Extension = schemabuilder.Extension{
	schemabuilder.OnInit: func(o schemabuilder.Options) {
		if _, ok := o["service"]; !ok {
			o["service"] = "users"
		}
	},
	"nodeTypes": func(sb *schemabuilder.Schema) []string {
		var names []string
		for _, name := range sb.Types() {
			t, _ := sb.Type(name)
			if t.Interfaces == nil {
				continue
			}
			for _, iface := range t.Interfaces() {
				if iface == "Node" {
					names = append(names, name)
					break
				}
			}
		}
		return names
	},
}

// RegisterSchema registers scalars, then objects, then the root fields.
func RegisterSchema(sb *schemabuilder.Schema, s *Server) error {
	if err := RegisterScalars(sb); err != nil {
		return err
	}
	if err := RegisterObjects(sb, s); err != nil {
		return err
	}
	if err := RegisterQuery(sb, s); err != nil {
		return err
	}
	return RegisterMutation(sb, s)
}
