package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/solenne/boutique/internal/core"
	"github.com/solenne/boutique/internal/domain/model"
	apperrors "github.com/solenne/boutique/internal/errors"
)

// ErrOrderForbidden is returned when a user reads an order they do not own.
var ErrOrderForbidden = errors.New("order belongs to another user")

// OrderServiceOptions groups dependencies for OrderService.
type OrderServiceOptions struct {
	Orders       core.OrderRepository
	Products     core.ProductRepository
	Certificates core.CertificateIssuer
	Logger       *slog.Logger
}

// OrderService turns a vault selection into a confirmed order. Prices are
// always re-read from the catalog at checkout; client prices are decoration.
type OrderService struct {
	orders       core.OrderRepository
	products     core.ProductRepository
	certificates core.CertificateIssuer
	logger       *slog.Logger
}

// NewOrderService constructs a new OrderService.
func NewOrderService(opts OrderServiceOptions) *OrderService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderService{
		orders:       opts.Orders,
		products:     opts.Products,
		certificates: opts.Certificates,
		logger:       logger,
	}
}

// Checkout prices the selection server-side, records the order, and requests
// a certificate of authenticity. Certificate failures do not fail the
// checkout; the order stays pending until a later retry attaches one.
func (s *OrderService) Checkout(ctx context.Context, userID string, req *model.CheckoutRequest) (*model.Order, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}
	if req == nil {
		return nil, errors.New("checkout request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	products, err := s.products.GetByIDs(ctx, req.ProductIDs)
	if err != nil {
		return nil, fmt.Errorf("price selection: %w", err)
	}
	byID := make(map[string]*model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var total float64
	lines := make([]model.OrderLine, 0, len(req.ProductIDs))
	orderID := uuid.NewString()
	for _, id := range req.ProductIDs {
		p, ok := byID[id]
		if !ok {
			return nil, apperrors.NotFoundf("piece %s is no longer in the catalog", id)
		}
		if !p.Available {
			return nil, apperrors.Validation("piece " + p.Title + " is no longer available")
		}
		total += p.Price
		lines = append(lines, model.OrderLine{
			OrderID:   orderID,
			ProductID: p.ID,
			Title:     p.Title,
			Price:     p.Price,
		})
	}

	order := &model.Order{
		ID:     orderID,
		UserID: userID,
		Status: model.OrderStatusPending,
		Total:  total,
	}
	created, err := s.orders.Create(ctx, order, lines)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if s.certificates != nil {
		certID, issueErr := s.certificates.Issue(ctx, created, lines)
		if issueErr != nil {
			s.logger.WarnContext(ctx, "certificate issue failed, order stays pending",
				"order_id", created.ID, "error", issueErr)
			return created, nil
		}
		if attachErr := s.orders.AttachCertificate(ctx, created.ID, certID); attachErr != nil {
			s.logger.WarnContext(ctx, "certificate attach failed",
				"order_id", created.ID, "error", attachErr)
			return created, nil
		}
		created.CertificateID = &certID
		created.Status = model.OrderStatusConfirmed
	}

	return created, nil
}

// GetOrder retrieves an order, enforcing ownership unless admin is true.
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID string, admin bool) (*model.Order, []model.OrderLine, error) {
	if orderID == "" {
		return nil, nil, errors.New("order ID is required")
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if !admin && order.UserID != userID {
		return nil, nil, ErrOrderForbidden
	}

	lines, err := s.orders.Lines(ctx, orderID)
	if err != nil {
		return nil, nil, fmt.Errorf("load order lines: %w", err)
	}
	return order, lines, nil
}

// ListOrders retrieves a user's orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, userID string, limit, offset int) ([]*model.Order, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}
	return s.orders.ListByUser(ctx, userID, limit, offset)
}
