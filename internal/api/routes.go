package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Link templates. {id} is the id of the linked item; nested templates also
// carry their parent's id.
const (
	routeAuthors           = "/api/authors"
	routeAuthor            = "/api/authors/{id}"
	routeAuthorBooksOf     = "/api/authors/{id}/books"
	routeAuthorBooks       = "/api/authors/{authorId}/books"
	routeAuthorBook        = "/api/authors/{authorId}/books/{id}"
	routeAuthorCollections = "/api/authorcollections"
)

// Path parameter names used by the router.
const (
	paramAuthorID = "authorId"
	paramBookID   = "bookId"
	paramIDs      = "ids"
)

// RegisterRoutes mounts the library API on r.
func RegisterRoutes(r chi.Router, authors *AuthorHandler, books *BookHandler, collections *AuthorCollectionHandler) {
	r.Route(routeAuthors, func(r chi.Router) {
		r.Get("/", authors.ListAuthors)
		r.Post("/", authors.CreateAuthor)

		r.Route("/{"+paramAuthorID+"}", func(r chi.Router) {
			r.Get("/", authors.GetAuthor)
			r.Post("/", authors.BlockAuthorCreation)
			r.Delete("/", authors.DeleteAuthor)

			r.Route("/books", func(r chi.Router) {
				r.Get("/", books.ListBooks)
				r.Post("/", books.CreateBook)
				r.Get("/{"+paramBookID+"}", books.GetBook)
				r.Put("/{"+paramBookID+"}", books.UpsertBook)
				r.Delete("/{"+paramBookID+"}", books.DeleteBook)
			})
		})
	})

	r.Route(routeAuthorCollections, func(r chi.Router) {
		r.Post("/", collections.CreateAuthorCollection)
		r.Get("/{"+paramIDs+"}", collections.GetAuthorCollection)
	})
}

// HealthHandler reports liveness.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
