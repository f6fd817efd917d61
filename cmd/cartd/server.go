package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/cart-engine/pkg/cart"
	"github.com/Sternrassler/cart-engine/pkg/pricing"
	"github.com/Sternrassler/cart-engine/pkg/session"
	"github.com/Sternrassler/cart-engine/pkg/storage"
)

const sessionCookie = "cart_session"

// server is the thin view layer over the cart engine. It performs no pricing
// logic itself.
type server struct {
	resolver *cart.Resolver
	catalog  cart.Catalog
	sessions sessionProvider
	logger   zerolog.Logger
}

// sessionProvider hands out the actor-scoped session for a request token.
type sessionProvider interface {
	Session(token string) session.Session
}

type memorySessions struct {
	mu   sync.Mutex
	bags map[string]*session.Memory
}

func newMemorySessions() *memorySessions {
	return &memorySessions{bags: make(map[string]*session.Memory)}
}

func (m *memorySessions) Session(token string) session.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	bag, ok := m.bags[token]
	if !ok {
		bag = session.NewMemory()
		m.bags[token] = bag
	}
	return bag
}

type redisSessions struct {
	client *redis.Client
	ttl    time.Duration
}

func (r redisSessions) Session(token string) session.Session {
	return session.NewRedis(r.client, token, r.ttl)
}

// sqliteCatalog adapts the SQLite store's product table to the catalog
// contract: an unknown ID resolves to (nil, nil).
type sqliteCatalog struct {
	store *storage.SQLiteStore
}

func (c sqliteCatalog) Product(ctx context.Context, id string) (cart.Product, error) {
	p, err := c.store.ProductByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

type itemPayload struct {
	ID         string `json:"id"`
	ProductID  string `json:"product_id"`
	Quantity   int    `json:"quantity"`
	Held       bool   `json:"held"`
	InStock    bool   `json:"in_stock"`
	Price      string `json:"price"`
	TotalPrice string `json:"total_price"`
}

type cartPayload struct {
	ID          string        `json:"id"`
	UserID      string        `json:"user_id,omitempty"`
	Available   []itemPayload `json:"available_items"`
	Unavailable []itemPayload `json:"unavailable_items"`
	Held        []itemPayload `json:"held_items"`
	Price       string        `json:"price"`
	TotalPrice  string        `json:"total_price"`
	Modifiers   pricing.Trace `json:"modifiers"`
}

type addRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// resolveRequestCart binds the cookie-carried session and the identity
// header to a cart. The identity subsystem is an external collaborator; the
// view trusts its X-User-ID header.
func (s *server) resolveRequestCart(w http.ResponseWriter, r *http.Request) (*cart.Cart, error) {
	token := ""
	if c, err := r.Cookie(sessionCookie); err == nil {
		token = c.Value
	}
	if token == "" {
		token = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    token,
			Path:     "/",
			HttpOnly: true,
		})
	}

	sess := s.sessions.Session(token)
	actor := cart.Actor{UserID: r.Header.Get("X-User-ID")}
	return s.resolver.Resolve(r.Context(), sess, actor)
}

func (s *server) handleCart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	c, err := s.resolveRequestCart(w, r)
	if err != nil {
		s.serverError(w, err, "resolve cart")
		return
	}

	payload, err := s.cartPayload(r.Context(), c)
	if err != nil {
		s.serverError(w, err, "render cart")
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *server) handleItems(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleAddItem(w, r)
	case http.MethodDelete:
		s.handleRemoveItem(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, err := s.catalog.Product(r.Context(), req.ProductID)
	if err != nil {
		s.serverError(w, err, "look up product")
		return
	}
	if product == nil {
		http.Error(w, "unknown product", http.StatusNotFound)
		return
	}

	c, err := s.resolveRequestCart(w, r)
	if err != nil {
		s.serverError(w, err, "resolve cart")
		return
	}

	item, err := c.Add(r.Context(), product, req.Quantity)
	if err != nil {
		if errors.Is(err, cart.ErrInvalidQuantity) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.serverError(w, err, "add item")
		return
	}

	payload, err := itemToPayload(item)
	if err != nil {
		s.serverError(w, err, "render item")
		return
	}
	writeJSON(w, http.StatusCreated, payload)
}

func (s *server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	c, err := s.resolveRequestCart(w, r)
	if err != nil {
		s.serverError(w, err, "resolve cart")
		return
	}

	if err := c.Remove(r.Context(), req.ProductID, req.Quantity); err != nil {
		if errors.Is(err, cart.ErrItemNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		s.serverError(w, err, "remove item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	c, err := s.resolveRequestCart(w, r)
	if err != nil {
		s.serverError(w, err, "resolve cart")
		return
	}

	if err := c.Clear(r.Context()); err != nil {
		s.serverError(w, err, "clear cart")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) cartPayload(ctx context.Context, c *cart.Cart) (cartPayload, error) {
	available, unavailable, held, err := c.PartitionItems(ctx)
	if err != nil {
		return cartPayload{}, err
	}

	payload := cartPayload{
		ID:     c.ID(),
		UserID: c.UserID(),
	}
	if payload.Available, err = itemsToPayload(available); err != nil {
		return cartPayload{}, err
	}
	if payload.Unavailable, err = itemsToPayload(unavailable); err != nil {
		return cartPayload{}, err
	}
	if payload.Held, err = itemsToPayload(held); err != nil {
		return cartPayload{}, err
	}

	price, err := c.Price(ctx)
	if err != nil {
		return cartPayload{}, err
	}
	total, err := c.TotalPrice(ctx)
	if err != nil {
		return cartPayload{}, err
	}
	payload.Price = price.StringFixed(2)
	payload.TotalPrice = total.StringFixed(2)
	payload.Modifiers = c.Modifiers()
	return payload, nil
}

func itemsToPayload(items []*cart.Item) ([]itemPayload, error) {
	out := make([]itemPayload, 0, len(items))
	for _, item := range items {
		p, err := itemToPayload(item)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func itemToPayload(item *cart.Item) (itemPayload, error) {
	price, err := item.Price()
	if err != nil {
		return itemPayload{}, err
	}
	total, err := item.TotalPrice()
	if err != nil {
		return itemPayload{}, err
	}
	return itemPayload{
		ID:         item.ID(),
		ProductID:  item.ProductID(),
		Quantity:   item.Quantity(),
		Held:       item.Held(),
		InStock:    item.InStock(),
		Price:      price.StringFixed(2),
		TotalPrice: total.StringFixed(2),
	}, nil
}

func (s *server) serverError(w http.ResponseWriter, err error, action string) {
	s.logger.Error().Err(err).Str("action", action).Msg("Request failed")
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
