package console

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"StoreAdmin/internal/catalog"
	"StoreAdmin/internal/commerce"
	"StoreAdmin/internal/orders"
	"StoreAdmin/pkg/kit"
)

const readyTimeout = 2 * time.Second

type Server struct {
	Catalog *catalog.Controller
	Deletes *catalog.Confirmations
	Orders  *orders.Book

	Gateway catalog.Lister
	Log     *zap.Logger
}

type Gateway interface {
	catalog.Gateway
	orders.Gateway
}

func NewServer(gw Gateway, log *zap.Logger) *Server {
	store := catalog.NewStore(gw, log)
	ctl := catalog.NewController(store, catalog.NewCoordinator(gw, store, log), log)

	return &Server{
		Catalog: ctl,
		Deletes: catalog.NewConfirmations(ctl, catalog.DefaultConfirmationTTL),
		Orders:  orders.NewBook(gw, log),
		Gateway: gw,
		Log:     log,
	}
}

func (s *Server) Load(ctx context.Context) error {
	_, perr := s.Catalog.Load(ctx)
	oerr := s.Orders.Load(ctx)
	return errors.Join(perr, oerr)
}

type criteriaRequest struct {
	Query    string         `json:"query"`
	MinPrice commerce.Price `json:"min_price"`
	MaxPrice commerce.Price `json:"max_price"`
}

type selectRequest struct {
	Title string `json:"title"`
}

type pageRequest struct {
	Page int `json:"page"`
}

type ordersResponse struct {
	Orders   []orders.Summary `json:"orders"`
	Total    string           `json:"total"`
	Loading  bool             `json:"loading"`
	LoadedAt time.Time        `json:"loaded_at"`
}

func (s *Server) handleView(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Catalog.View())
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	v, err := s.Catalog.Load(r.Context())
	if err != nil {
		s.fail(w, r, err, map[string]any{"view": v})
		return
	}
	kit.WriteJSON(w, http.StatusOK, v)
}

func (s *Server) handleCriteria(w http.ResponseWriter, r *http.Request) {
	var req criteriaRequest
	if !decode(w, r, &req) {
		return
	}

	bad := map[string]string{}
	minPrice, err := catalog.ParseBound(string(req.MinPrice))
	if err != nil {
		bad["min_price"] = err.Error()
	}
	maxPrice, err := catalog.ParseBound(string(req.MaxPrice))
	if err != nil {
		bad["max_price"] = err.Error()
	}
	if len(bad) > 0 {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid price bound", bad)
		return
	}

	kit.WriteJSON(w, http.StatusOK, s.Catalog.SetCriteria(catalog.Criteria{
		Query:    req.Query,
		MinPrice: minPrice,
		MaxPrice: maxPrice,
	}))
}

func (s *Server) handleSelectSuggestion(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if !decode(w, r, &req) {
		return
	}
	kit.WriteJSON(w, http.StatusOK, s.Catalog.SelectSuggestion(req.Title))
}

func (s *Server) handleNext(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Catalog.Next())
}

func (s *Server) handlePrev(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Catalog.Prev())
}

func (s *Server) handleGoTo(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if !decode(w, r, &req) {
		return
	}
	kit.WriteJSON(w, http.StatusOK, s.Catalog.GoTo(req.Page))
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var form catalog.ProductForm
	if !decode(w, r, &form) {
		return
	}

	p, err := s.Catalog.Create(r.Context(), form)
	if err != nil {
		s.fail(w, r, err, map[string]any{"product": p})
		return
	}
	kit.WriteJSON(w, http.StatusCreated, p)
}

func (s *Server) handleEditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	p, found := s.Catalog.Product(id)
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "product not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, catalog.EditForm(p))
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var form catalog.ProductForm
	if !decode(w, r, &form) {
		return
	}

	p, err := s.Catalog.Update(r.Context(), id, form)
	if err != nil {
		s.fail(w, r, err, map[string]any{"product": p})
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) handleRequestDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if _, found := s.Catalog.Product(id); !found {
		kit.WriteError(w, r, http.StatusNotFound, "product not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusCreated, s.Deletes.Request(id))
}

func (s *Server) handleConfirmDelete(w http.ResponseWriter, r *http.Request) {
	cid := chi.URLParam(r, "cid")

	if _, err := s.Deletes.Confirm(r.Context(), cid); err != nil {
		s.fail(w, r, err, nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, s.Catalog.View())
}

func (s *Server) handleCancelDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.Deletes.Cancel(chi.URLParam(r, "cid")); err != nil {
		s.fail(w, r, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleOrders(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.ordersResponse())
}

func (s *Server) handleRefreshOrders(w http.ResponseWriter, r *http.Request) {
	if err := s.Orders.Load(r.Context()); err != nil {
		s.fail(w, r, err, nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, s.ordersResponse())
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var form orders.Form
	if !decode(w, r, &form) {
		return
	}

	o, err := s.Orders.Create(r.Context(), form)
	if err != nil {
		s.fail(w, r, err, map[string]any{"order": o})
		return
	}
	kit.WriteJSON(w, http.StatusCreated, o)
}

func (s *Server) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := s.Orders.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if _, err := s.Gateway.ListProducts(ctx); err != nil {
		if s.Log != nil {
			s.Log.Warn("readyz failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusServiceUnavailable, "gateway not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) ordersResponse() ordersResponse {
	return ordersResponse{
		Orders:   orders.Summaries(s.Orders.Orders()),
		Total:    s.Orders.Total().StringFixed(2),
		Loading:  s.Orders.Loading(),
		LoadedAt: s.Orders.LoadedAt(),
	}
}

// fail maps domain and gateway errors onto a status. extra is merged into
// the details of a stale-refresh error so the caller still sees what was
// written.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, extra map[string]any) {
	var (
		verr *commerce.ValidationError
		gerr *commerce.GatewayError
	)

	switch {
	case errors.As(err, &verr):
		kit.WriteError(w, r, http.StatusBadRequest, "validation failed", verr.Details())

	case errors.Is(err, catalog.ErrUnknownConfirmation):
		kit.WriteError(w, r, http.StatusNotFound, err.Error(), nil)

	case errors.Is(err, catalog.ErrNotConfirmed):
		kit.WriteError(w, r, http.StatusConflict, err.Error(), nil)

	case errors.Is(err, catalog.ErrStaleSnapshot), errors.Is(err, orders.ErrStaleOrders):
		details := map[string]any{"cause": err.Error()}
		for k, v := range extra {
			details[k] = v
		}
		kit.WriteError(w, r, http.StatusBadGateway, "saved but refresh failed", details)

	case errors.As(err, &gerr):
		status := http.StatusBadGateway
		if gerr.NotFound() {
			status = http.StatusNotFound
		}
		details := map[string]any{"op": gerr.Op, "upstream_status": gerr.Status}
		if v, ok := extra["view"]; ok {
			details["view"] = v
		}
		kit.WriteError(w, r, status, gerr.Error(), details)

	default:
		if s.Log != nil {
			s.Log.Error("console request failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := kit.DecodeJSON(w, r, dst); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		kit.WriteError(w, r, http.StatusBadRequest, "bad id", map[string]any{param: raw})
		return 0, false
	}
	return id, true
}

