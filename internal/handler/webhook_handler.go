package handler

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"tipfinity/internal/repository"
	"tipfinity/internal/service"
	"tipfinity/internal/ws"
	apperrors "tipfinity/pkg/errors"
	"tipfinity/pkg/response"
)

const lamportsPerSol = 1_000_000_000

type WebhookHandler struct {
	tipSvc      *service.TipService
	creatorRepo *repository.CreatorRepository
	hub         *ws.Hub
	secret      string
}

func NewWebhookHandler(tipSvc *service.TipService, creatorRepo *repository.CreatorRepository, hub *ws.Hub, secret string) *WebhookHandler {
	return &WebhookHandler{tipSvc: tipSvc, creatorRepo: creatorRepo, hub: hub, secret: secret}
}

// transferEvent is the Helius-style enhanced transaction payload the event
// source delivers. Amounts arrive in lamports.
type transferEvent struct {
	Signature       string           `json:"signature"`
	Type            string           `json:"type"`
	Description     string           `json:"description"`
	NativeTransfers []nativeTransfer `json:"nativeTransfers"`
}

type nativeTransfer struct {
	FromUserAccount string `json:"fromUserAccount"`
	ToUserAccount   string `json:"toUserAccount"`
	Amount          int64  `json:"amount"`
}

type webhookResult struct {
	Signature string `json:"signature"`
	Status    string `json:"status"` // accepted | duplicate | rejected
	Reason    string `json:"reason,omitempty"`
}

// HandleTip ingests transfer events from the webhook source. Every event is
// normalized into the same recording contract the direct endpoint uses, so a
// webhook delivery racing a client retry still yields exactly one ledger row.
// Duplicates are acknowledged, not errored: the source may redeliver freely.
func (h *WebhookHandler) HandleTip(c *gin.Context) {
	if h.secret != "" && subtle.ConstantTimeCompare([]byte(c.GetHeader("X-Webhook-Secret")), []byte(h.secret)) != 1 {
		log.Printf("[Tip webhook] rejected delivery with bad secret")
		response.FromError(c, apperrors.ErrWebhookUnauthorized)
		return
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "could not read payload")
		return
	}
	events, err := decodeEvents(body)
	if err != nil {
		log.Printf("[Tip webhook] invalid payload: %v", err)
		response.Error(c, http.StatusBadRequest, "invalid payload")
		return
	}

	results := make([]webhookResult, 0, len(events))
	for _, ev := range events {
		res, err := h.ingest(ev)
		if err != nil {
			// A storage failure must not be acknowledged as terminal: answer
			// with a 5xx so the source redelivers the whole batch. Already
			// recorded events come back as duplicates on the retry.
			log.Printf("[Tip webhook] delivery of %s failed: %v", ev.Signature, err)
			response.Error(c, http.StatusInternalServerError, "storage unavailable, retry delivery")
			return
		}
		results = append(results, res)
	}
	response.Success(c, http.StatusOK, gin.H{"results": results})
}

// ingest records one event. A returned error means the outcome is unknown
// (storage failure); a "rejected" result means the event itself is bad.
func (h *WebhookHandler) ingest(ev transferEvent) (webhookResult, error) {
	in, err := h.normalize(ev)
	if isStorageFailure(err) {
		return webhookResult{}, err
	}
	if err != nil {
		log.Printf("[Tip webhook] rejected event %s: %v", ev.Signature, err)
		return webhookResult{Signature: ev.Signature, Status: "rejected", Reason: err.Error()}, nil
	}
	tip, err := h.tipSvc.RecordTip(in)
	switch {
	case err == nil:
		log.Printf("[Tip webhook] recorded tip %d for creator %d (%.4f from %s)", tip.ID, tip.CreatorID, tip.Amount, tip.SenderWallet)
		h.hub.BroadcastTip(tip)
		return webhookResult{Signature: ev.Signature, Status: "accepted"}, nil
	case apperrors.CodeOf(err) == apperrors.CodeAlreadyExists:
		log.Printf("[Tip webhook] duplicate delivery of %s, already recorded", ev.Signature)
		return webhookResult{Signature: ev.Signature, Status: "duplicate"}, nil
	case isStorageFailure(err):
		return webhookResult{}, err
	default:
		log.Printf("[Tip webhook] rejected event %s: %v", ev.Signature, err)
		return webhookResult{Signature: ev.Signature, Status: "rejected", Reason: err.Error()}, nil
	}
}

// isStorageFailure reports whether err is an infrastructure error rather
// than a verdict about the event.
func isStorageFailure(err error) bool {
	if err == nil {
		return false
	}
	switch apperrors.CodeOf(err) {
	case apperrors.CodeUnknown, apperrors.CodeInternal:
		return true
	}
	return false
}

// normalize maps one external event onto the recording contract. The
// destination wallet resolves the creator; no creator match means the
// transfer is not for anyone we know.
func (h *WebhookHandler) normalize(ev transferEvent) (service.RecordTipInput, error) {
	var in service.RecordTipInput
	if ev.Signature == "" {
		return in, apperrors.InvalidArg("event has no signature")
	}
	for _, t := range ev.NativeTransfers {
		if t.ToUserAccount == "" || t.Amount <= 0 {
			continue
		}
		creator, err := h.creatorRepo.GetByWalletAddress(t.ToUserAccount)
		if errors.Is(err, apperrors.ErrCreatorNotFound) {
			continue
		}
		if err != nil {
			return in, err
		}
		in.CreatorID = creator.ID
		in.SenderWallet = t.FromUserAccount
		in.Amount = float64(t.Amount) / lamportsPerSol
		in.Signature = ev.Signature
		if ev.Description != "" {
			desc := ev.Description
			in.Message = &desc
		}
		return in, nil
	}
	return in, apperrors.ErrUnresolvableRecipient
}

// decodeEvents accepts the source's batch shape (array) or a single event.
func decodeEvents(body []byte) ([]transferEvent, error) {
	var events []transferEvent
	if err := json.Unmarshal(body, &events); err == nil {
		return events, nil
	}
	var single transferEvent
	if err := json.Unmarshal(body, &single); err != nil {
		return nil, err
	}
	return []transferEvent{single}, nil
}
