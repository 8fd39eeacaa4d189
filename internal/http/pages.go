package httpx

import (
	"html/template"
	"net/http"

	"github.com/solenne/boutique/internal/gate"
)

// pageTemplate is the shared shell for the server-rendered pages. The real
// storefront is a client bundle; these pages exist so the gated prefixes
// resolve to something when the bundle is served elsewhere.
var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Solenne · {{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
{{if .Email}}<p>Signed in as {{.Email}}</p>{{end}}
{{range .Links}}<p><a href="{{.Href}}">{{.Label}}</a></p>{{end}}
</body>
</html>
`))

type pageLink struct {
	Href  string
	Label string
}

type pageData struct {
	Title string
	Email string
	Links []pageLink
}

func renderPage(w http.ResponseWriter, r *http.Request, data pageData) {
	if visitor, ok := gate.VisitorFromContext(r.Context()); ok {
		data.Email = visitor.Identity.Email
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		// Headers are already out; nothing sensible left to write.
		return
	}
}

func registerPageRoutes(mux *http.ServeMux) {
	mux.Handle("GET /{$}", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		renderPage(w, r, pageData{Title: "Maison Solenne", Links: []pageLink{
			{Href: "/dashboard", Label: "Your dashboard"},
			{Href: "/auth/login", Label: "Sign in"},
		}})
	}))
	mux.Handle("GET /auth/login", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		renderPage(w, r, pageData{Title: "Sign in", Links: []pageLink{
			{Href: "/auth/login/start", Label: "Continue with Solenne ID"},
		}})
	}))
	mux.Handle("GET /auth/signup", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		renderPage(w, r, pageData{Title: "Join Solenne", Links: []pageLink{
			{Href: "/auth/login/start", Label: "Create your Solenne ID"},
		}})
	}))
	mux.Handle("GET /dashboard", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		renderPage(w, r, pageData{Title: "Dashboard", Links: []pageLink{
			{Href: "/api/orders", Label: "Your orders"},
		}})
	}))
	mux.Handle("GET /admin", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		renderPage(w, r, pageData{Title: "Curation console", Links: []pageLink{
			{Href: "/api/catalog", Label: "Catalog"},
		}})
	}))
}
