// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/neuradesci/ledger/business/web/errs"
	"github.com/neuradesci/ledger/foundation/bridge"
	"github.com/neuradesci/ledger/foundation/events"
	"github.com/neuradesci/ledger/foundation/ledger/state"
	"github.com/neuradesci/ledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of public endpoints.
type Handlers struct {
	Log    *zap.SugaredLogger
	State  *state.State
	Bridge *bridge.Connector
	WS     websocket.Upgrader
	Evts   *events.Events
}

// Events handles a web socket to provide ledger events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Genesis returns the settings the chain was started with.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Chain returns the full chain in order.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	chain := h.State.RetrieveChain()
	return web.Respond(ctx, w, chain, http.StatusOK)
}

// BlockByIndex returns the block at the specified index.
func (h Handlers) BlockByIndex(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	index, err := strconv.ParseUint(web.Param(r, "index"), 10, 64)
	if err != nil {
		return errs.NewTrustedf(http.StatusBadRequest, "invalid block index: %s", web.Param(r, "index"))
	}

	block, err := h.State.RetrieveBlock(index)
	if err != nil {
		return errs.NewTrusted(err, http.StatusNotFound)
	}

	return web.Respond(ctx, w, block, http.StatusOK)
}

// Mempool returns the set of uncommitted transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	pool := h.State.RetrieveMempool()
	return web.Respond(ctx, w, pool, http.StatusOK)
}

// SubmitTransaction adds a new signed transaction to the pending pool.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var st submitTx
	if err := web.Decode(r, &st); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	tx := toDatabaseTx(st)

	h.Log.Infow("add tran", "traceid", v.TraceID, "tx", tx.ID, "kind", tx.Kind, "sender", tx.Sender)
	if err := h.State.SubmitTransaction(tx); err != nil {
		if errors.Is(err, state.ErrInvalidTransaction) {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
		return err
	}

	resp := struct {
		Status string `json:"status"`
		TxID   string `json:"tx_id"`
	}{
		Status: "transaction added to pending pool",
		TxID:   tx.ID,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// FindTransaction looks a transaction up by id across the pending pool
// and the committed blocks.
func (h Handlers) FindTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	tx, err := h.State.FindTransaction(web.Param(r, "id"))
	if err != nil {
		return errs.NewTrusted(err, http.StatusNotFound)
	}

	return web.Respond(ctx, w, tx, http.StatusOK)
}

// ValidateChain re-verifies the whole chain and reports the first
// violation when there is one.
func (h Handlers) ValidateChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	report := chainReport{
		Valid:  true,
		Length: h.State.ChainLength(),
	}

	if err := h.State.Validate(); err != nil {
		report.Valid = false

		var ice *state.InvalidChainError
		if errors.As(err, &ice) {
			reason := ice.Reason.Error()
			report.FailedIndex = &ice.Index
			report.Reason = &reason
		} else {
			reason := err.Error()
			report.Reason = &reason
		}
	}

	return web.Respond(ctx, w, report, http.StatusOK)
}

// SignalMining asks the worker to start a mining operation.
func (h Handlers) SignalMining(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if h.State.Worker != nil {
		h.State.Worker.SignalStartMining()
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "mining signaled",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// AnchorTip submits the chain tip's hash to the remote ledger bridge and
// returns the receipt.
func (h Handlers) AnchorTip(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var ar anchorRequest
	if err := web.Decode(r, &ar); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	tip, err := h.State.LatestBlock()
	if err != nil {
		return errs.NewTrusted(err, http.StatusConflict)
	}

	receipt, err := h.Bridge.Submit(tip.Hash, ar.GasLimit)
	if err != nil {
		return fmt.Errorf("submitting to bridge: %w", err)
	}

	return web.Respond(ctx, w, receipt, http.StatusOK)
}
