// Package checkout turns a cart into a customer, its order detail rows and
// the order that points at them.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"pos-storefront/cart"
	"pos-storefront/model"

	"go.uber.org/zap"
)

// OrderWriter is the backend the three checkout steps run against.
type OrderWriter interface {
	InsertCustomer(ctx context.Context, c model.Customer) (int64, error)
	InsertOrderDetails(ctx context.Context, details []model.OrderDetail) (int64, error)
	InsertOrder(ctx context.Context, o model.Order) (int64, error)
}

type Submitter struct {
	store  OrderWriter
	logger *zap.Logger
}

func NewSubmitter(store OrderWriter, logger *zap.Logger) *Submitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Submitter{store: store, logger: logger}
}

// Customer validates the checkout form. Blank optional fields become NULL.
func Customer(req model.CheckoutRequest) (model.Customer, *string, error) {
	c := model.Customer{
		Name:  strings.TrimSpace(req.Name),
		Email: optional(req.Email),
		Phone: optional(req.Phone),
	}

	if raw := strings.TrimSpace(req.Age); raw != "" {
		age, err := strconv.Atoi(raw)
		if err != nil || age < 0 {
			return model.Customer{}, nil, model.Validation("checkout", fmt.Errorf("invalid age %q", req.Age))
		}
		c.Age = &age
	}

	payment := optional(req.PaymentType)
	if payment != nil && !slices.Contains(model.PaymentTypes, *payment) {
		return model.Customer{}, nil, model.Validation("checkout", fmt.Errorf("unknown payment type %q", *payment))
	}
	return c, payment, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Submit runs customer, details and order inserts in that order. A failed
// step leaves the earlier rows in place; the error names the step.
func (s *Submitter) Submit(ctx context.Context, req model.CheckoutRequest, lines []cart.Line) (model.CheckoutResponse, error) {
	customer, payment, err := Customer(req)
	if err != nil {
		return model.CheckoutResponse{}, err
	}

	var resp model.CheckoutResponse

	resp.CustomerID, err = s.store.InsertCustomer(ctx, customer)
	if err != nil {
		return model.CheckoutResponse{}, s.fail("customer", err, resp)
	}

	if details := cart.Details(lines); len(details) > 0 {
		detailID, err := s.store.InsertOrderDetails(ctx, details)
		if err != nil {
			return model.CheckoutResponse{}, s.fail("order details", err, resp)
		}
		resp.DetailID = &detailID
	}

	total := cart.DisplayedTotal(lines)
	resp.OrderID, err = s.store.InsertOrder(ctx, model.Order{
		UserID:      resp.CustomerID,
		DetailID:    resp.DetailID,
		PaymentType: payment,
		Total:       total,
	})
	if err != nil {
		return model.CheckoutResponse{}, s.fail("order", err, resp)
	}
	resp.Total = cart.FormatCurrency(total)

	s.logger.Info("order submitted",
		zap.Int64("order_id", resp.OrderID),
		zap.Int64("customer_id", resp.CustomerID),
		zap.String("total", resp.Total),
	)
	return resp, nil
}

func (s *Submitter) fail(step string, err error, partial model.CheckoutResponse) error {
	fields := []zap.Field{zap.String("step", step), zap.Error(err)}
	if partial.CustomerID != 0 {
		fields = append(fields, zap.Int64("orphan_customer_id", partial.CustomerID))
	}
	if partial.DetailID != nil {
		fields = append(fields, zap.Int64("orphan_detail_id", *partial.DetailID))
	}
	s.logger.Warn("checkout step failed", fields...)

	var appErr *model.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return model.Backend("checkout "+step, err)
}
