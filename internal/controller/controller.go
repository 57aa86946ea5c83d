// Package controller orchestrates the engine: when to pull data from the
// server, how edits flow out and their authoritative results flow back
// into the store, and which presenter notifications follow. It is the only
// place that decides between the two modes, board (polling) and detail
// (polling suppressed).
package controller

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ohalin/pickdesk/internal/backend"
	"github.com/ohalin/pickdesk/internal/picking"
	"github.com/ohalin/pickdesk/internal/session"
)

// Mode is the controller's high-level state.
type Mode int

const (
	ModeLoggedOut Mode = iota
	ModeBoard
	ModeDetail
)

// Config holds controller timing.
type Config struct {
	// PollInterval is the board refresh cadence.
	PollInterval time.Duration

	// CompletionDelay is how long the completion overlay stays up before
	// the detail auto-closes back to the board.
	CompletionDelay time.Duration
}

// DefaultConfig returns controller defaults.
func DefaultConfig() Config {
	return Config{
		PollInterval:    30 * time.Second,
		CompletionDelay: 1500 * time.Millisecond,
	}
}

// Controller drives the reconciliation engine. Its methods block on
// network calls; run them off the UI thread.
type Controller struct {
	client    *backend.Client
	session   *session.Session
	presenter picking.Presenter
	keychain  *session.Keychain // nil disables token caching
	config    Config

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	mode     Mode
	stopChan chan struct{}

	// pending tracks one in-flight quantity edit per line. A map entry
	// means a request is outstanding; next holds at most one coalesced
	// follow-up value.
	pending map[int64]*pendingEdit
}

type pendingEdit struct {
	// target is the quantity that will be in effect once every queued
	// request lands. Stepper taps build on it, not on the store, so taps
	// landing while a request is in flight still accumulate.
	target float64
	next   *float64
}

// New creates a controller. keychain may be nil.
func New(client *backend.Client, sess *session.Session, presenter picking.Presenter, keychain *session.Keychain, config Config) *Controller {
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultConfig().PollInterval
	}
	if config.CompletionDelay <= 0 {
		config.CompletionDelay = DefaultConfig().CompletionDelay
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		client:    client,
		session:   sess,
		presenter: presenter,
		keychain:  keychain,
		config:    config,
		ctx:       ctx,
		cancel:    cancel,
		pending:   make(map[int64]*pendingEdit),
	}
}

// Mode returns the current controller mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Login authenticates, loads the server config, and enters board mode.
func (c *Controller) Login(password string) error {
	token, err := c.client.Login(c.ctx, password)
	if err != nil {
		return err
	}
	c.session.SetToken(token)
	if c.keychain != nil {
		if err := c.keychain.SaveToken(token); err != nil {
			log.Printf("[Controller] token cache not saved: %v", err)
		}
	}
	return c.enterBoard(true)
}

// Resume tries to restore a previous session from a cached token. It
// returns false when no usable token exists; the caller shows the login
// screen then.
func (c *Controller) Resume() (bool, error) {
	if c.keychain == nil {
		return false, nil
	}
	token, err := c.keychain.LoadToken()
	if err != nil {
		log.Printf("[Controller] token cache unreadable, dropping it: %v", err)
		_ = c.keychain.DeleteToken()
		return false, nil
	}
	if token == "" {
		return false, nil
	}

	c.client.SetToken(token)
	c.session.SetToken(token)
	if err := c.enterBoard(true); err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			// Stale token. Not an error, just log in again.
			c.session.Reset()
			c.client.SetToken("")
			_ = c.keychain.DeleteToken()
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Logout tells the server, then resets everything locally regardless of
// the server's answer.
func (c *Controller) Logout() {
	if err := c.client.Logout(c.ctx); err != nil {
		log.Printf("[Controller] logout request failed: %v", err)
	}
	c.invalidate("")
}

// Stop shuts the controller down (window close).
func (c *Controller) Stop() {
	c.mu.Lock()
	c.stopPollLocked()
	c.mode = ModeLoggedOut
	c.mu.Unlock()
	c.cancel()
}

// enterBoard loads the server config and board, starts polling, and fires
// the one-shot post-login upstream sync. Called after login/resume.
func (c *Controller) enterBoard(postLoginSync bool) error {
	cfg, err := c.client.Config(c.ctx)
	if err != nil {
		if c.checkAuth(err) {
			return err
		}
		return fmt.Errorf("load server config: %w", err)
	}
	c.session.SetServerConfig(cfg)

	if err := c.reloadBoard(); err != nil {
		if c.checkAuth(err) {
			return err
		}
		return err
	}

	c.mu.Lock()
	c.mode = ModeBoard
	c.startPollLocked()
	c.mu.Unlock()

	if postLoginSync {
		// One-shot background pull from the upstream system. Best
		// effort: the board simply stays as loaded when it fails.
		go func() {
			if _, err := c.client.SyncNow(c.ctx); err != nil {
				if !c.checkAuth(err) {
					log.Printf("[Controller] post-login sync failed: %v", err)
				}
				return
			}
			if err := c.reloadBoard(); err != nil && !c.checkAuth(err) {
				log.Printf("[Controller] board reload after sync failed: %v", err)
			}
		}()
	}
	return nil
}

// reloadBoard fetches the full listing, ingests it, and renders the board.
func (c *Controller) reloadBoard() error {
	entries, err := c.client.ListOrders(c.ctx)
	if err != nil {
		return err
	}
	store := c.session.Store()
	store.IngestBoard(entries)
	c.presenter.RenderBoard(picking.GroupBoard(store.Board(), c.session.ServerConfig()))
	return nil
}

// Refresh is the manual refresh button: trigger an upstream pull, then
// reload. Failures are swallowed; the operator keeps the stale board.
func (c *Controller) Refresh() {
	if _, err := c.client.SyncNow(c.ctx); err != nil {
		if !c.checkAuth(err) {
			log.Printf("[Controller] manual sync failed: %v", err)
		}
		return
	}
	if err := c.reloadBoard(); err != nil && !c.checkAuth(err) {
		log.Printf("[Controller] board reload failed: %v", err)
	}
}

// OpenOrder switches to detail mode: polling stops, the server is told the
// order was opened (best effort), and the full detail is loaded and
// rendered. On load failure the controller falls back to board mode with
// polling restarted.
func (c *Controller) OpenOrder(orderID int64) error {
	c.mu.Lock()
	if c.mode != ModeBoard {
		c.mu.Unlock()
		return fmt.Errorf("open order: not on the board")
	}
	c.mode = ModeDetail
	c.stopPollLocked()
	c.mu.Unlock()

	// Fire-and-forget open notification. Failure is non-fatal and not
	// surfaced; the pick continues either way.
	go func() {
		if err := c.client.OpenOrder(c.ctx, orderID); err != nil && !c.checkAuth(err) {
			log.Printf("[Controller] open notification failed: %v", err)
		}
	}()

	detail, err := c.client.OrderDetail(c.ctx, orderID)
	if err != nil {
		if c.checkAuth(err) {
			return err
		}
		c.mu.Lock()
		if c.mode == ModeDetail {
			c.mode = ModeBoard
			c.startPollLocked()
		}
		c.mu.Unlock()
		return fmt.Errorf("load order %d: %w", orderID, err)
	}

	store := c.session.Store()
	store.IngestDetail(detail)
	d, _ := store.Detail()
	c.presenter.RenderDetail(d, picking.GroupLines(d.Lines))
	return nil
}

// CloseOrder returns to the board: detail dropped, list reloaded, polling
// restarted.
func (c *Controller) CloseOrder() {
	c.mu.Lock()
	if c.mode != ModeDetail {
		c.mu.Unlock()
		return
	}
	c.mode = ModeBoard
	c.mu.Unlock()

	c.session.Store().ClearDetail()

	if err := c.reloadBoard(); err != nil && !c.checkAuth(err) {
		// Stale board is fine; the poll will catch up.
		log.Printf("[Controller] board reload on close failed: %v", err)
	}

	c.mu.Lock()
	if c.mode == ModeBoard {
		c.startPollLocked()
	}
	c.mu.Unlock()
}

// AdjustLine steps the line's collected quantity by delta steps of its
// inferred step and submits the result. The base for the step is the
// pending target when one exists, so rapid taps add up instead of all
// recomputing from the last confirmed quantity.
func (c *Controller) AdjustLine(lineID int64, deltaSteps int) error {
	store := c.session.Store()
	line, ok := store.LineByID(lineID)
	if !ok {
		return fmt.Errorf("adjust line %d: no such line in the open order", lineID)
	}
	if line.Removed {
		return fmt.Errorf("adjust line %d: line was removed upstream", lineID)
	}
	orderID := store.ActiveOrderID()
	step := picking.InferStep(line.QtyOrdered)

	c.mu.Lock()
	base := line.QtyCollected
	if p, inFlight := c.pending[lineID]; inFlight {
		base = p.target
	}
	qty := picking.ClampRound(base+float64(deltaSteps)*step, line.QtyOrdered, step)
	start := c.enqueueLocked(lineID, qty)
	c.mu.Unlock()

	if start {
		go c.submitLoop(orderID, lineID, qty)
	}
	return nil
}

// SubmitLineEdit records a new collected quantity for one line of the open
// order. The value is clamped and rounded before submission. While a
// request for the same line is in flight further edits collapse into a
// single pending value; at most one request per line is outstanding and
// responses apply in submission order.
func (c *Controller) SubmitLineEdit(lineID int64, target float64) error {
	store := c.session.Store()
	line, ok := store.LineByID(lineID)
	if !ok {
		return fmt.Errorf("edit line %d: no such line in the open order", lineID)
	}
	if line.Removed {
		return fmt.Errorf("edit line %d: line was removed upstream", lineID)
	}
	orderID := store.ActiveOrderID()

	qty := picking.ClampRound(target, line.QtyOrdered, picking.InferStep(line.QtyOrdered))

	c.mu.Lock()
	start := c.enqueueLocked(lineID, qty)
	c.mu.Unlock()

	if start {
		go c.submitLoop(orderID, lineID, qty)
	}
	return nil
}

// enqueueLocked records qty as the line's new target and reports whether
// the caller must start a submit loop for it. Caller holds c.mu.
func (c *Controller) enqueueLocked(lineID int64, qty float64) bool {
	if p, inFlight := c.pending[lineID]; inFlight {
		p.target = qty
		p.next = &qty
		return false
	}
	c.pending[lineID] = &pendingEdit{target: qty}
	return true
}

// submitLoop sends one edit and any value coalesced behind it, then
// retires the line's pending slot.
func (c *Controller) submitLoop(orderID, lineID int64, qty float64) {
	for {
		res, err := c.client.PatchLine(c.ctx, orderID, lineID, qty)
		if err != nil {
			c.mu.Lock()
			delete(c.pending, lineID)
			c.mu.Unlock()
			if !c.checkAuth(err) {
				// The edit just doesn't land; nothing was applied
				// optimistically, so there is nothing to roll back.
				log.Printf("[Controller] line edit failed: %v", err)
			}
			return
		}

		c.applyEdit(res)

		c.mu.Lock()
		p := c.pending[lineID]
		if p != nil && p.next != nil {
			qty = *p.next
			p.next = nil
			c.mu.Unlock()
			continue
		}
		delete(c.pending, lineID)
		c.mu.Unlock()
		return
	}
}

// applyEdit merges an authoritative patch result and drives the presenter.
func (c *Controller) applyEdit(res backend.PatchLineResult) {
	store := c.session.Store()

	prevBucket := picking.BucketIncomplete
	prevKnown := false
	if prev, ok := store.LineByID(res.Line.ID); ok {
		prevBucket = picking.LineBucket(prev)
		prevKnown = true
	}

	transitioned := store.ApplyLinePatch(res.Order, res.Line)

	if prevKnown && store.ActiveOrderID() == res.Order.ID {
		c.presenter.UpdateLine(picking.LinePatch{
			Line:  res.Line,
			Order: res.Order,
			Prev:  prevBucket,
			Next:  picking.LineBucket(res.Line),
		})
	}
	c.presenter.UpdateOrderCard(res.Order)

	// The server's flag is authoritative; the store's own transition
	// detection backs it up when the flag is absent.
	if res.OrderCompletedNow || transitioned {
		c.finishOrder(res.Order)
	}
}

// CompleteOrder explicitly marks the open order as picked.
func (c *Controller) CompleteOrder() error {
	orderID := c.session.Store().ActiveOrderID()
	if orderID == 0 {
		return fmt.Errorf("complete order: no order open")
	}
	order, err := c.client.CompleteOrder(c.ctx, orderID)
	if err != nil {
		if !c.checkAuth(err) {
			log.Printf("[Controller] complete order failed: %v", err)
		}
		return err
	}
	c.session.Store().ApplyOrderPatch(order)
	c.presenter.UpdateOrderCard(order)
	c.finishOrder(order)
	return nil
}

// finishOrder shows the completion overlay and schedules the auto-close
// back to the board.
func (c *Controller) finishOrder(o picking.Order) {
	c.presenter.ShowCompletion(o)
	time.AfterFunc(c.config.CompletionDelay, c.CloseOrder)
}

// startPollLocked starts the board poll ticker. At most one ticker is ever
// live; a previous one is stopped first. Caller holds c.mu.
func (c *Controller) startPollLocked() {
	c.stopPollLocked()
	stop := make(chan struct{})
	c.stopChan = stop

	go func() {
		ticker := time.NewTicker(c.config.PollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.pollTick(stop)
			case <-stop:
				return
			case <-c.ctx.Done():
				return
			}
		}
	}()
}

// pollTick is one board refresh from the ticker. A listing that was
// already on the wire when the operator opened an order must not render
// over the detail view, so after the fetch the result is dropped unless
// the controller is still on the board and this ticker is still the live
// one. Transient failures are fully silent: stale board, ticker keeps
// running.
func (c *Controller) pollTick(stop chan struct{}) {
	entries, err := c.client.ListOrders(c.ctx)
	if err != nil {
		c.checkAuth(err)
		return
	}

	// Held through the render so OpenOrder's mode flip can never slip in
	// between the check and the board render. Presenters do not call back
	// into the controller.
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != ModeBoard || c.stopChan != stop {
		return
	}

	store := c.session.Store()
	store.IngestBoard(entries)
	c.presenter.RenderBoard(picking.GroupBoard(store.Board(), c.session.ServerConfig()))
}

// stopPollLocked signals the poll ticker to stop. It does not wait for the
// goroutine: a tick that hit a 401 re-enters c.mu via invalidate, so
// waiting here would deadlock. Caller holds c.mu.
func (c *Controller) stopPollLocked() {
	if c.stopChan == nil {
		return
	}
	close(c.stopChan)
	c.stopChan = nil
}

// checkAuth reports whether err is an authentication failure, and if so
// tears the session down. Every request path funnels through this.
func (c *Controller) checkAuth(err error) bool {
	if !errors.Is(err, backend.ErrUnauthorized) {
		return false
	}
	c.invalidate("Session expired, log in again")
	return true
}

// invalidate resets to the logged-out state: poll stopped, caches cleared,
// token dropped locally and on disk. Idempotent so concurrent 401s only
// surface the login screen once.
func (c *Controller) invalidate(reason string) {
	c.mu.Lock()
	if c.mode == ModeLoggedOut {
		c.mu.Unlock()
		return
	}
	c.mode = ModeLoggedOut
	c.stopPollLocked()
	c.pending = make(map[int64]*pendingEdit)
	c.mu.Unlock()

	c.session.Reset()
	c.client.SetToken("")
	if c.keychain != nil {
		if err := c.keychain.DeleteToken(); err != nil {
			log.Printf("[Controller] token cache not removed: %v", err)
		}
	}
	c.presenter.ShowLogin(reason)
}
