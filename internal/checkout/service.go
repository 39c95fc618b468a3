package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"hoodies-be/internal/cart"
	"hoodies-be/internal/logger"
	"hoodies-be/internal/metrics"
	"hoodies-be/internal/notification"
	"hoodies-be/internal/order"
	"hoodies-be/internal/pricing"
	"hoodies-be/internal/profile"

	"go.uber.org/zap"
)

const DefaultNotifyTimeout = 30 * time.Second

var _ Service = (*Processor)(nil)

type Service interface {
	Defaults(ctx context.Context, userID, sessionID string) (*Form, error)
	PlaceOrder(ctx context.Context, req Request) (*Confirmation, error)
}

type Options struct {
	NotifyTimeout time.Duration
	Now           func() time.Time
}

// Processor implements Service.
type Processor struct {
	carts    *cart.Manager
	orders   order.Repository
	profiles profile.Repository
	notifier notification.Notifier
	metrics  *metrics.Checkout
	opts     Options

	wg sync.WaitGroup
}

// NewService wires the checkout flow. A nil notifier disables admin e-mails.
func NewService(
	carts *cart.Manager,
	orders order.Repository,
	profiles profile.Repository,
	notifier notification.Notifier,
	m *metrics.Checkout,
	opts Options,
) *Processor {
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = DefaultNotifyTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if m == nil {
		m = &metrics.Checkout{}
	}
	return &Processor{
		carts:    carts,
		orders:   orders,
		profiles: profiles,
		notifier: notifier,
		metrics:  m,
		opts:     opts,
	}
}

// Wait blocks until every in-flight notification has finished.
func (s *Processor) Wait() {
	s.wg.Wait()
}

// Defaults pre-fills the checkout form from the saved profile.
func (s *Processor) Defaults(ctx context.Context, userID, sessionID string) (*Form, error) {
	if userID == "" {
		return nil, ErrUserNotAuthenticated
	}

	form := &Form{State: StateCollecting, Address: Address{Country: DefaultCountry}}

	p, err := s.profiles.Get(ctx, userID)
	switch {
	case err == nil:
		saved := p.ShippingAddress()
		form.Address = Address{
			Address:    saved.Address,
			City:       saved.City,
			State:      saved.State,
			PostalCode: saved.PostalCode,
			Country:    saved.Country,
		}
		if form.Address.Country == "" {
			form.Address.Country = DefaultCountry
		}
	case errors.Is(err, profile.ErrProfileNotFound):
	default:
		return nil, err
	}

	store, err := s.carts.Open(ctx, Request{UserID: userID, SessionID: sessionID}.cartSession())
	if err != nil {
		return nil, err
	}
	form.Cart = cart.ViewOf(store)

	return form, nil
}

// PlaceOrder turns the user's cart into one order per line. The profile
// address update and the admin e-mail are best effort: once the orders are
// stored the checkout is reported as confirmed.
func (s *Processor) PlaceOrder(ctx context.Context, req Request) (*Confirmation, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "PlaceOrder"),
		zap.String("user_id", req.UserID),
	)
	timer := metrics.StartTimer()
	s.metrics.Attempts.Inc()

	if req.UserID == "" {
		return nil, ErrUserNotAuthenticated
	}

	addr, err := req.Address.normalize()
	if err != nil {
		log.Info("checkout validation failed", zap.Error(err))
		return nil, err
	}

	// Held until the cart is cleared so a concurrent add is either ordered
	// or left in the cart.
	store, release, err := s.carts.Acquire(ctx, req.cartSession())
	if err != nil {
		return nil, err
	}
	defer release()

	lines := store.Lines()
	if len(lines) == 0 {
		return nil, ErrCartEmpty
	}

	log.Debug("checkout state changed", zap.String("state", string(StateSubmitting)))

	shipping := order.ShippingAddress{
		Address:    addr.Address,
		City:       addr.City,
		State:      addr.State,
		PostalCode: addr.PostalCode,
		Country:    addr.Country,
	}

	pending := make([]order.Order, len(lines))
	subtotal := store.TotalPrice()
	for i, l := range lines {
		pending[i] = order.NewOrder(req.UserID, l.Product.ID, l.Size, l.Quantity, l.Product.Price, shipping)
	}

	placed, err := s.orders.InsertMany(ctx, pending)
	if err != nil {
		s.metrics.Failed.Inc()
		log.Error("failed to create orders",
			zap.String("state", string(StateCollecting)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", ErrPlaceOrderFailed, err)
	}

	if err := s.profiles.UpdateAddress(ctx, req.UserID, req.Email, profile.Address{
		Address:    addr.Address,
		City:       addr.City,
		State:      addr.State,
		PostalCode: addr.PostalCode,
		Country:    addr.Country,
	}); err != nil {
		s.metrics.ProfileUpdateFailures.Inc()
		log.Warn("orders placed but profile address was not saved", zap.Error(err))
	}

	store.ClearCart(ctx)

	ids := make([]int64, len(placed))
	for i, o := range placed {
		ids[i] = o.ID
	}

	conf := &Confirmation{
		State:    StateConfirmed,
		OrderIDs: ids,
		Summary:  pricing.Summarize(subtotal),
		PlacedAt: s.opts.Now(),
	}

	s.metrics.Placed.Inc()
	s.metrics.OrderLines.Add(uint64(len(placed)))
	log.Info("order placed",
		zap.Int64s("order_ids", ids),
		zap.String("total", conf.Summary.Total.String()),
		zap.Duration("duration", timer.Duration()),
	)

	s.notifyAsync(ctx, req, lines, conf)

	return conf, nil
}

// notifyAsync e-mails the admins on a context detached from the request so
// the send outlives the response.
func (s *Processor) notifyAsync(ctx context.Context, req Request, lines []cart.Line, conf *Confirmation) {
	if s.notifier == nil {
		return
	}

	items := make([]notification.Item, len(lines))
	for i, l := range lines {
		items[i] = notification.Item{
			ProductName: l.Product.Name,
			Size:        l.Size,
			Quantity:    l.Quantity,
			Price:       l.Subtotal(),
		}
	}

	addr, _ := req.Address.normalize()
	payload := notification.OrderPlaced{
		OrderIDs:      conf.OrderIDs,
		CustomerEmail: req.Email,
		Address:       addr.Address,
		City:          addr.City,
		State:         addr.State,
		PostalCode:    addr.PostalCode,
		Country:       addr.Country,
		Items:         items,
		TotalAmount:   conf.Summary.Total,
		OrderDate:     conf.PlacedAt,
	}

	bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.NotifyTimeout)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()

		log := logger.FromCtx(bg).With(
			zap.String("layer", "service"),
			zap.String("method", "notifyOrderPlaced"),
			zap.Int64s("order_ids", payload.OrderIDs),
		)

		if p, err := s.profiles.Get(bg, req.UserID); err == nil {
			if p.FullName != nil {
				payload.CustomerName = *p.FullName
			}
			if p.Phone != nil {
				payload.CustomerPhone = *p.Phone
			}
			if payload.CustomerEmail == "" {
				payload.CustomerEmail = p.Email
			}
		}

		if err := s.notifier.NotifyOrderPlaced(bg, payload); err != nil {
			s.metrics.NotificationFailures.Inc()
			log.Error("failed to send order notification", zap.Error(err))
			return
		}
		s.metrics.NotificationsSent.Inc()
	}()
}
