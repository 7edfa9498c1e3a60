package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Router wires all routes. Scan lookups and owner contact info are public;
// lifecycle mutations require a valid access token, and batch management is
// admin only.
func (s *HTTPServer) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
	}).Methods("GET")

	r.HandleFunc("/auth/signup", s.SignupHandler).Methods("POST")
	r.HandleFunc("/auth/login", s.LoginHandler).Methods("POST")
	r.HandleFunc("/auth/admin/login", s.AdminLoginHandler).Methods("POST")
	r.HandleFunc("/auth/refresh", s.RefreshHandler).Methods("POST")

	// Public scan path: a finder resolves the sticker and the owner contact
	// info without an account.
	r.HandleFunc("/qr/qr-codes/unique/{uniqueId}", s.GetQRByUniqueIDHandler).Methods("GET")
	r.HandleFunc("/qr/users/{userId}", s.GetOwnerHandler).Methods("GET")

	r.HandleFunc("/qr/qr-codes/claim", s.withAuth(s.ClaimHandler)).Methods("POST")
	r.HandleFunc("/qr/qr-codes/unlink", s.withAuth(s.UnlinkHandler)).Methods("POST")
	r.HandleFunc("/qr/qr-codes/delete", s.withAuth(s.DeleteHandler)).Methods("POST")
	r.HandleFunc("/qr/users/{userId}/qr-codes", s.withAuth(s.GetLinkedCodesHandler)).Methods("GET")
	r.HandleFunc("/qr/users/{userId}", s.withAuth(s.UpdateProfileHandler)).Methods("PATCH")

	r.HandleFunc("/qr/qr-codes", s.withAdmin(s.ListQRCodesHandler)).Methods("GET")
	r.HandleFunc("/qr/qr-codes/{id:[0-9]+}", s.GetQRByIDHandler).Methods("GET")
	r.HandleFunc("/qr/qr-codes/{id:[0-9]+}/print", s.withAdmin(s.PrintQRHandler)).Methods("GET")
	r.HandleFunc("/qr/batches", s.withAdmin(s.ListBatchesHandler)).Methods("GET")
	r.HandleFunc("/qr/batches/generate", s.withAdmin(s.GenerateBatchHandler)).Methods("POST")
	r.HandleFunc("/qr/batches/{id:[0-9]+}", s.withAdmin(s.GetBatchHandler)).Methods("GET")
	r.HandleFunc("/qr/batches/{id:[0-9]+}/qr-codes", s.withAdmin(s.ListBatchCodesHandler)).Methods("GET")
	r.HandleFunc("/qr/batches/{id:[0-9]+}/print", s.withAdmin(s.PrintBatchHandler)).Methods("POST")

	return r
}
