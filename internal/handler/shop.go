package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/hodan/capyd/internal/capy"
	"github.com/hodan/capyd/internal/model"
	"github.com/hodan/capyd/internal/shop"
	"github.com/hodan/capyd/internal/websocket"
)

type ShopHandler struct {
	rotation *shop.Rotation
	store    *capy.Store
	hub      *websocket.Hub
}

func NewShopHandler(rotation *shop.Rotation, s *capy.Store, hub *websocket.Hub) *ShopHandler {
	return &ShopHandler{rotation: rotation, store: s, hub: hub}
}

func (h *ShopHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

func (h *ShopHandler) Today(w http.ResponseWriter, r *http.Request) {
	dayKey, items, purchased := h.rotation.Today()
	if items == nil {
		items = []model.ShopItem{}
	}
	if purchased == nil {
		purchased = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"day":       dayKey,
		"items":     items,
		"purchased": purchased,
	})
}

type buyRequest struct {
	ItemID string `json:"item_id"`
}

func (h *ShopHandler) Buy(w http.ResponseWriter, r *http.Request) {
	var req buyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.ItemID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "item_id is required"})
		return
	}

	item, err := h.rotation.Buy(req.ItemID)
	switch {
	case errors.Is(err, shop.ErrNotOffered):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not offered today"})
		return
	case errors.Is(err, shop.ErrAlreadyPurchased):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "item already purchased today"})
		return
	case errors.Is(err, shop.ErrInsufficientFunds):
		writeJSON(w, http.StatusPaymentRequired, map[string]string{"error": "not enough coins"})
		return
	case err != nil:
		log.Printf("failed to buy shop item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to buy item"})
		return
	}

	h.broadcast(websocket.NewMessage("shop_item", "purchased", item.ID, nil))
	h.broadcast(statusMessage(h.store))

	writeJSON(w, http.StatusOK, item)
}
