package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// pathParam returns a mux route variable, or "" if unset.
func pathParam(r *http.Request, name string) string {
	return mux.Vars(r)[name]
}
