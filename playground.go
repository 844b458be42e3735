package graysql

import (
	"fmt"
	"html"
	"html/template"
	"net/http"
)

// playgroundHTML is a simple HTML page that loads GraphiQL from CDN
// to provide an interactive GraphQL playground.
const playgroundHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8" />
    <title>%s</title>
    <style>
        body {
            height: 100%%;
            margin: 0;
            overflow: hidden;
        }
        #graphiql {
            height: 100vh;
        }
    </style>
    <link rel="stylesheet" href="https://unpkg.com/graphiql@1.4.0/graphiql.min.css" />
    <script src="https://unpkg.com/react@16.14.0/umd/react.production.min.js"></script>
    <script src="https://unpkg.com/react-dom@16.14.0/umd/react-dom.production.min.js"></script>
    <script src="https://unpkg.com/graphiql@1.4.0/graphiql.min.js"></script>
</head>
<body>
    <div id="graphiql">Loading...</div>
    <script>
      var config = {
        endpoint: "%s",
      };

      function graphQLFetcher(graphQLParams) {
        return fetch(config.endpoint, {
          method: 'post',
          headers: {
            Accept: 'application/json',
            'Content-Type': 'application/json',
          },
          body: JSON.stringify(graphQLParams),
          credentials: 'omit',
        }).then(function (response) {
          return response.json().catch(function () {
            return response.text();
          });
        });
      }

      ReactDOM.render(
        React.createElement(GraphiQL, { fetcher: graphQLFetcher }),
        document.getElementById('graphiql'),
      );
    </script>
</body>
</html>`

// PlaygroundHandler returns an HTTP handler that serves an interactive
// GraphiQL playground posting to graphqlEndpoint, typically the path
// HTTPHandler is mounted on:
//   http.Handle("/graphql", graysql.HTTPHandler(schema, graysql.WithPlayground(false)))
//   http.Handle("/", graysql.PlaygroundHandler("GraysQL", "/graphql"))
func PlaygroundHandler(title, graphqlEndpoint string) http.Handler {
	return playground(title, graphqlEndpoint)
}

// playground serves the page. An empty endpoint means the request path.
func playground(title, endpoint string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if r.Method == http.MethodHead {
			return
		}

		ep := endpoint
		if ep == "" {
			ep = r.URL.Path
		}
		_, _ = fmt.Fprintf(w, playgroundHTML, html.EscapeString(title), template.JSEscapeString(ep))
	})
}
