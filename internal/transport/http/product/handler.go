package product

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/weibuddies/products-service/internal/app/product/dto"
	"github.com/weibuddies/products-service/internal/app/product/queries/get_product"
	"github.com/weibuddies/products-service/internal/app/product/queries/list_products"
	"github.com/weibuddies/products-service/internal/app/product/usecases/create_product"
	"github.com/weibuddies/products-service/internal/app/product/usecases/update_product"
)

// ItemsPerPage is the fixed page size of the product listing.
const ItemsPerPage = 10

// Commands groups write interactors.
// Keep transport layer depending on application layer only.
type Commands struct {
	Create *create_product.Interactor
	Update *update_product.Interactor
}

// Queries groups read handlers.
type Queries struct {
	Get  *get_product.Handler
	List *list_products.Handler
}

// Handler is a thin HTTP transport adapter. It parses requests, maps
// JSON <-> application DTOs and delegates to the CQRS handlers.
type Handler struct {
	commands Commands
	queries  Queries
	logger   *zap.Logger
}

func NewHandler(cmd Commands, qry Queries, logger *zap.Logger) *Handler {
	return &Handler{commands: cmd, queries: qry, logger: logger}
}

// Register wires the routes. Mutations require a verified session.
func (h *Handler) Register(mux *http.ServeMux, sessions *SessionVerifier) {
	mux.HandleFunc("GET /product", h.getProduct)
	mux.HandleFunc("GET /products", h.listProducts)
	mux.Handle("POST /product", sessions.Require(http.HandlerFunc(h.createProduct)))
	mux.Handle("PUT /product/{id}", sessions.Require(http.HandlerFunc(h.updateProduct)))
}

// productResponse is the JSON shape of a product.
type productResponse struct {
	ID             string  `json:"id"`
	OwnerID        string  `json:"ownerId"`
	Title          string  `json:"title"`
	Price          string  `json:"price"`
	Version        int64   `json:"version"`
	ReservationRef *string `json:"reservationRef,omitempty"`
	CreatedAt      *string `json:"createdAt,omitempty"`
	UpdatedAt      *string `json:"updatedAt,omitempty"`
}

func toResponse(d *dto.ProductDTO) productResponse {
	return productResponse{
		ID:             d.ProductID,
		OwnerID:        d.OwnerID,
		Title:          d.Title,
		Price:          d.Price,
		Version:        d.Version,
		ReservationRef: d.ReservationRef,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type mutationBody struct {
	Title string      `json:"title"`
	Price json.Number `json:"price"`
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	productID := r.URL.Query().Get("productId")
	if productID == "" {
		writeError(w, http.StatusBadRequest, "productId is required")
		return
	}

	d, err := h.queries.Get.Execute(r.Context(), productID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(d))
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	pageParam := r.URL.Query().Get("page")
	if pageParam == "" {
		writeError(w, http.StatusBadRequest, "page is required")
		return
	}

	page, err := strconv.Atoi(pageParam)
	if err != nil || page < 1 {
		writeError(w, http.StatusBadRequest, "page must be a positive number")
		return
	}

	// Page n spans ordinal offsets (n-1)*10 .. n*10.
	offset := (page - 1) * ItemsPerPage

	items, err := h.queries.List.Execute(r.Context(), ItemsPerPage, offset)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	out := make([]productResponse, 0, len(items))
	for _, d := range items {
		out = append(out, toResponse(d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var body mutationBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.commands.Create.Execute(r.Context(), create_product.Request{
		OwnerID: UserID(r.Context()),
		Title:   body.Title,
		Price:   body.Price.String(),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(res.Product))
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("id")

	var body mutationBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.commands.Update.Execute(r.Context(), update_product.Request{
		ProductID:   productID,
		RequesterID: UserID(r.Context()),
		Title:       body.Title,
		Price:       body.Price.String(),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(res.Product))
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	writeError(w, status, msg)
}
