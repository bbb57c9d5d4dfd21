package web

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
)

const hmacHeader = "X-Shopify-Hmac-Sha256"

type webhookTopic struct {
	// dropsSession marks topics after which the shop's token must be gone.
	dropsSession bool
}

var webhookTopics = map[string]webhookTopic{
	"app-uninstalled":        {dropsSession: true},
	"shop-redact":            {dropsSession: true},
	"customers-redact":       {},
	"customers-data-request": {},
}

// webhookPayload holds the shop fields of the payloads we handle. The
// uninstall payload is the shop object itself; compliance payloads carry
// shop_domain.
type webhookPayload struct {
	ShopDomain      string `json:"shop_domain"`
	MyshopifyDomain string `json:"myshopify_domain"`
}

// validHMAC checks sig, the base64 HMAC-SHA256 of body under secret.
func validHMAC(secret, body []byte, sig string) bool {
	if len(secret) == 0 || sig == "" {
		return false
	}
	want, err := base64.StdEncoding.DecodeString(sig)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), want)
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("topic")
	topic, ok := webhookTopics[name]
	if !ok {
		http.NotFound(w, r)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}
	if !validHMAC(s.secret, body, r.Header.Get(hmacHeader)) {
		log.Printf("[Web] Rejected %s webhook with invalid signature", name)
		writeError(w, http.StatusUnauthorized, "invalid webhook signature")
		return
	}

	shop := strings.TrimSpace(r.Header.Get(shopHeader))
	if shop == "" {
		var payload webhookPayload
		_ = json.Unmarshal(body, &payload)
		shop = payload.ShopDomain
		if shop == "" {
			shop = payload.MyshopifyDomain
		}
	}
	log.Printf("[Web] Webhook %s for %s", name, shop)

	if topic.dropsSession && shop != "" {
		if err := s.sessions.Delete(r.Context(), shop); err != nil {
			log.Printf("[Web] Failed to drop session of %s: %v", shop, err)
			writeError(w, http.StatusInternalServerError, "failed to drop session")
			return
		}
		if s.onUninstall != nil {
			s.onUninstall(shop)
		}
	}
	w.WriteHeader(http.StatusOK)
}
