package order

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/easify/storefront-bridge/internal/catalog"
	"github.com/easify/storefront-bridge/internal/config"
	"github.com/easify/storefront-bridge/internal/easify"
	"github.com/easify/storefront-bridge/internal/store"
)

// Server is the remote reference-data surface the exporter depends on.
type Server interface {
	TaxRates(ctx context.Context) ([]easify.TaxRate, error)
}

// Sender submits the flattened order form. Implemented by easify.CloudAPI.
type Sender interface {
	SendOrder(ctx context.Context, form url.Values) error
}

// Mailer sends the best-effort failure alert. Optional.
type Mailer interface {
	Send(subject, body string) error
}

// Exporter maps a local order to the flattened cloud submission and sends
// it. There is no retry queue: a failed export is logged, reported by email
// if a mailer is configured, and dropped.
type Exporter struct {
	server Server
	sender Sender
	store  store.CatalogStore
	cfg    config.Config
	mailer Mailer
	log    *zap.Logger
}

// NewExporter builds an Exporter. mailer may be nil to disable alerts.
func NewExporter(server Server, sender Sender, st store.CatalogStore, cfg config.Config, mailer Mailer, logger *zap.Logger) *Exporter {
	return &Exporter{server: server, sender: sender, store: st, cfg: cfg, mailer: mailer, log: logger}
}

// Export submits the order with the given local order number.
func (e *Exporter) Export(ctx context.Context, orderNo int) error {
	o, err := e.store.OrderByNo(orderNo)
	if err != nil {
		return fmt.Errorf("load order %d: %w", orderNo, err)
	}

	x, err := e.build(ctx, o)
	if err != nil {
		return e.fail(orderNo, err)
	}

	if err := e.sender.SendOrder(ctx, x.Values()); err != nil {
		return e.fail(orderNo, fmt.Errorf("send order %d: %w", orderNo, err))
	}
	e.log.Info("order exported", zap.Int("order_no", orderNo), zap.Int("lines", len(x.Lines)))
	return nil
}

func (e *Exporter) build(ctx context.Context, o store.Order) (*Export, error) {
	rates, err := e.server.TaxRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("pull tax rates: %w", err)
	}
	defaultRate := catalog.DefaultTaxRate(rates)

	x := &Export{
		OrderNo:                o.No,
		StatusID:               e.cfg.Orders.StatusID,
		TypeID:                 e.cfg.Orders.TypeID,
		PaymentTermsID:         e.cfg.Orders.PaymentTermsID,
		Comment:                e.cfg.Orders.Comment,
		CustomerNote:           o.CustomerNote,
		CustomerTypeID:         e.cfg.Orders.CustomerTypeID,
		CustomerRelationshipID: e.cfg.Orders.CustomerRelationshipID,
		Billing:                o.Billing,
		Delivery:               o.Shipping,
	}

	for _, item := range o.Items {
		sku, err := e.store.SKUByProductID(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("resolve sku for product %d: %w", item.ProductID, err)
		}
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		unit := decimal.NewFromFloat(item.LineSubtotal).
			Div(decimal.NewFromInt(int64(qty))).Round(4)
		taxID, taxRate := rateForClass(rates, item.TaxClass, defaultRate)
		x.Lines = append(x.Lines, Line{
			SKU:       sku,
			Qty:       qty,
			UnitPrice: unit,
			TaxID:     taxID,
			TaxRate:   taxRate,
		})
	}

	for _, line := range o.ShippingLines {
		sku := e.cfg.Shipping.SkuForMethod(line.MethodID)
		if sku == "" {
			e.log.Warn("shipping method has no mapped sku, line skipped",
				zap.Int("order_no", o.No), zap.String("method", line.MethodID))
			continue
		}
		x.Lines = append(x.Lines, Line{
			SKU:       sku,
			Qty:       1,
			UnitPrice: decimal.NewFromFloat(line.Cost).Round(4),
			TaxID:     defaultRate.TaxID,
			TaxRate:   defaultRate.Rate,
		})
	}

	for _, coupon := range o.Coupons {
		if e.cfg.Orders.DiscountSku == "" {
			e.log.Warn("no discount sku configured, coupon skipped",
				zap.Int("order_no", o.No), zap.String("coupon", coupon.Code))
			continue
		}
		x.Lines = append(x.Lines, Line{
			SKU:       e.cfg.Orders.DiscountSku,
			Qty:       1,
			UnitPrice: decimal.NewFromFloat(coupon.Value).Neg().Round(4),
			TaxID:     defaultRate.TaxID,
			TaxRate:   defaultRate.Rate,
		})
	}

	if mapping := e.cfg.PaymentMappingByName(o.PaymentMethod); mapping != nil && mapping.Enabled {
		x.Payments = append(x.Payments, Payment{
			MethodID:      mapping.MethodID,
			AccountID:     mapping.AccountID,
			Amount:        o.Total,
			Comment:       mapping.Comment,
			TransactionID: o.TransactionID,
		})
	} else {
		e.log.Info("payment method not mapped or disabled, no payment recorded",
			zap.Int("order_no", o.No), zap.String("method", o.PaymentMethod))
	}

	return x, nil
}

// fail logs the export failure and fires the alert email if configured.
func (e *Exporter) fail(orderNo int, err error) error {
	e.log.Error("order export failed", zap.Int("order_no", orderNo), zap.Error(err))
	if e.mailer != nil {
		subject := fmt.Sprintf("Order %d could not be sent to Easify", orderNo)
		body := fmt.Sprintf("Order number: %d\nError: %v\n\nThe order was not queued for retry and must be entered manually.", orderNo, err)
		if mailErr := e.mailer.Send(subject, body); mailErr != nil {
			e.log.Error("export failure alert email not sent", zap.Error(mailErr))
		}
	}
	return err
}

// rateForClass resolves the Easify tax id and percentage for a local tax
// class code, falling back to the default rate for unmapped codes.
func rateForClass(rates []easify.TaxRate, class string, fallback easify.TaxRate) (int, float64) {
	for _, r := range rates {
		if r.Code == class {
			return r.TaxID, r.Rate
		}
	}
	return fallback.TaxID, fallback.Rate
}
