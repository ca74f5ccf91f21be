package main

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/norun9/mobileshop/authstore"
	"github.com/norun9/mobileshop/cartstore"
	"github.com/norun9/mobileshop/catalog"
	"github.com/norun9/mobileshop/loginstore"
	"github.com/norun9/mobileshop/notify"
)

// Alert text shown when checkout could not complete.
const checkoutFailedAlert = "Não foi possível finalizar a compra."

// frontendServer binds the HTTP API to the stores. All state lives in the
// injected containers; the server itself is stateless.
type frontendServer struct {
	catalog  *catalog.Catalog
	cart     *cartstore.Store
	auth     *authstore.Store
	logins   loginstore.ILoginStore
	notifier notify.Notifier
}

// routes wires the API surface. The otelmux middleware is a no-op unless a
// TracerProvider was registered at startup.
func (fe *frontendServer) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("mobileshop"))
	r.HandleFunc("/api/products", fe.listProductsHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/cart", fe.getCartHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/cart", fe.addToCartHandler).Methods(http.MethodPost)
	r.HandleFunc("/api/cart/checkout", fe.checkoutHandler).Methods(http.MethodPost)
	r.HandleFunc("/api/cart/{productID}", fe.updateCartItemHandler).Methods(http.MethodPatch)
	r.HandleFunc("/api/cart/{productID}", fe.removeFromCartHandler).Methods(http.MethodDelete)
	r.HandleFunc("/api/auth/session", fe.sessionHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/auth/login", fe.loginHandler).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/logout", fe.logoutHandler).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/clear-error", fe.clearErrorHandler).Methods(http.MethodPost)
	r.HandleFunc("/healthz", fe.healthHandler).Methods(http.MethodGet)
	return r
}

type cartResponse struct {
	Items      []cartstore.Item `json:"items"`
	TotalItems int              `json:"totalItems"`
	TotalPrice float64          `json:"totalPrice"`
}

type addToCartRequest struct {
	ProductID string `json:"productId"`
	// Quantity defaults to 1 when omitted.
	Quantity *int `json:"quantity"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (fe *frontendServer) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"products": fe.catalog.List(),
	})
}

func (fe *frontendServer) getCartHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, cartResponse{
		Items:      fe.cart.Items(),
		TotalItems: fe.cart.TotalItems(),
		TotalPrice: fe.cart.TotalPrice(),
	})
}

func (fe *frontendServer) addToCartHandler(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, errors.Wrap(err, "decode request"), http.StatusBadRequest)
		return
	}
	if req.ProductID == "" {
		renderError(w, r, errors.New("productId is required"), http.StatusBadRequest)
		return
	}

	product, ok := fe.catalog.Get(req.ProductID)
	if !ok {
		renderError(w, r, errors.Errorf("product %q not found", req.ProductID), http.StatusNotFound)
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	fe.cart.AddItem(product, quantity)

	logger(r).WithFields(logrus.Fields{
		"product_id": product.ID,
		"quantity":   quantity,
	}).Info("added to cart")
	fe.getCartHandler(w, r)
}

func (fe *frontendServer) updateCartItemHandler(w http.ResponseWriter, r *http.Request) {
	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, errors.Wrap(err, "decode request"), http.StatusBadRequest)
		return
	}

	fe.cart.UpdateQuantity(mux.Vars(r)["productID"], req.Quantity)
	fe.getCartHandler(w, r)
}

func (fe *frontendServer) removeFromCartHandler(w http.ResponseWriter, r *http.Request) {
	fe.cart.RemoveItem(mux.Vars(r)["productID"])
	fe.getCartHandler(w, r)
}

// checkoutHandler fires the checkout notification and then empties the cart.
// If the notification cannot be delivered the cart is left untouched and a
// generic alert is returned instead.
func (fe *frontendServer) checkoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := fe.notifier.Display(r.Context(), notify.Checkout()); err != nil {
		logger(r).WithError(err).Error("checkout notification failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"alert": checkoutFailedAlert,
		})
		return
	}

	fe.cart.Clear()
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (fe *frontendServer) sessionHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, fe.auth.Snapshot())
}

func (fe *frontendServer) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, errors.Wrap(err, "decode request"), http.StatusBadRequest)
		return
	}
	// Required-field validation stays at this layer; the store accepts
	// whatever it is given.
	if req.Email == "" || req.Password == "" {
		renderError(w, r, errors.New("email and password are required"), http.StatusBadRequest)
		return
	}

	state := fe.auth.Login(r.Context(), req.Email, req.Password, req.Name)
	if !state.IsAuthenticated {
		writeJSON(w, http.StatusUnauthorized, state)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (fe *frontendServer) logoutHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, fe.auth.Logout(r.Context()))
}

func (fe *frontendServer) clearErrorHandler(w http.ResponseWriter, r *http.Request) {
	fe.auth.ClearError()
	w.WriteHeader(http.StatusNoContent)
}

func (fe *frontendServer) healthHandler(w http.ResponseWriter, r *http.Request) {
	if !fe.logins.Ping(r.Context()) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "NOT_SERVING"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "SERVING"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Error("write response")
	}
}

func renderError(w http.ResponseWriter, r *http.Request, err error, status int) {
	logger(r).WithError(err).Warn("request failed")
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
