package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/easify/storefront-bridge/internal/config"
	"github.com/easify/storefront-bridge/internal/easify"
	"github.com/easify/storefront-bridge/internal/store"
)

// TaxEngine reconciles remote tax rate definitions against the two local
// registries: the tax class list and the tax rate records. Rates are joined
// to local records by description text, which survives remote renumbering
// but means a remote rename creates a new local record.
type TaxEngine struct {
	server Server
	store  store.CatalogStore
	log    *zap.Logger
}

// NewTaxEngine builds a TaxEngine over a remote server and a local store.
func NewTaxEngine(server Server, st store.CatalogStore, logger *zap.Logger) *TaxEngine {
	return &TaxEngine{server: server, store: st, log: logger}
}

// RateUpdated handles a TaxRates/Added or Modified notification: pull the
// remote rate by id and create or update the matching local record. The
// returned string is the local tax class code products synced under this
// rate will carry.
func (t *TaxEngine) RateUpdated(ctx context.Context, taxID int) (string, error) {
	rate, err := t.remoteRate(ctx, taxID)
	if err != nil {
		return "", err
	}

	rec, err := t.store.TaxRateByName(rate.Description)
	switch {
	case err == nil:
		rec.Rate = rate.Rate
		rec.Class = rate.Code
		if err := t.store.UpdateTaxRate(rec); err != nil {
			return "", fmt.Errorf("update tax rate %q: %w", rate.Description, err)
		}
		t.log.Info("tax rate updated",
			zap.Int("tax_id", taxID), zap.String("class", rate.Code), zap.Float64("rate", rate.Rate))
		return rate.Code, nil
	case err != store.ErrTaxRateNotFound:
		return "", err
	}

	// New rate. The class registry is appended first so the rate record
	// never references an unknown class.
	if rate.Code != "" {
		if err := t.ensureClass(rate.Code); err != nil {
			return "", err
		}
	}
	if _, err := t.store.InsertTaxRate(store.TaxRateRecord{
		Name:     rate.Description,
		Rate:     rate.Rate,
		Class:    rate.Code,
		Shipping: true,
	}); err != nil {
		return "", fmt.Errorf("insert tax rate %q: %w", rate.Description, err)
	}
	t.log.Info("tax rate created",
		zap.Int("tax_id", taxID), zap.String("class", rate.Code), zap.Float64("rate", rate.Rate))
	return rate.Code, nil
}

// RateDeleted handles a TaxRates/Delete notification: remove the class from
// the registry and the rate record matched by description. A code that was
// never registered is a no-op.
func (t *TaxEngine) RateDeleted(ctx context.Context, taxID int) error {
	rate, err := t.remoteRate(ctx, taxID)
	if err != nil {
		return err
	}

	registered, err := t.classRegistered(rate.Code)
	if err != nil {
		return err
	}
	if !registered {
		t.log.Info("tax class not registered, nothing to delete",
			zap.Int("tax_id", taxID), zap.String("class", rate.Code))
		return nil
	}

	if err := t.store.RemoveTaxClass(rate.Code); err != nil {
		return fmt.Errorf("remove tax class %q: %w", rate.Code, err)
	}
	rec, err := t.store.TaxRateByName(rate.Description)
	if err == store.ErrTaxRateNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	if err := t.store.DeleteTaxRate(rec.ID); err != nil {
		return fmt.Errorf("delete tax rate %q: %w", rate.Description, err)
	}
	t.log.Info("tax rate deleted", zap.Int("tax_id", taxID), zap.String("class", rate.Code))
	return nil
}

func (t *TaxEngine) remoteRate(ctx context.Context, taxID int) (easify.TaxRate, error) {
	rates, err := t.server.TaxRates(ctx)
	if err != nil {
		return easify.TaxRate{}, fmt.Errorf("pull tax rates: %w", err)
	}
	for _, r := range rates {
		if r.TaxID == taxID {
			return r, nil
		}
	}
	return easify.TaxRate{}, fmt.Errorf("tax rate %d: %w", taxID, easify.ErrNotFound)
}

func (t *TaxEngine) ensureClass(code string) error {
	registered, err := t.classRegistered(code)
	if err != nil {
		return err
	}
	if registered {
		return nil
	}
	if err := t.store.AddTaxClass(code); err != nil {
		return fmt.Errorf("add tax class %q: %w", code, err)
	}
	return nil
}

func (t *TaxEngine) classRegistered(code string) (bool, error) {
	classes, err := t.store.TaxClasses()
	if err != nil {
		return false, err
	}
	for _, c := range classes {
		if c == code {
			return true, nil
		}
	}
	return false, nil
}

// DefaultTaxRate returns the rate flagged as the server default, falling
// back to the stock standard rate when none is flagged.
func DefaultTaxRate(rates []easify.TaxRate) easify.TaxRate {
	for _, r := range rates {
		if r.IsDefault {
			return r
		}
	}
	return easify.TaxRate{TaxID: config.DefaultTaxID, Rate: config.DefaultTaxRate}
}

// taxClassFor resolves the local tax class code for a remote tax id,
// falling back to the default rate's code when the id is unknown.
func taxClassFor(rates []easify.TaxRate, taxID int) string {
	for _, r := range rates {
		if r.TaxID == taxID {
			return r.Code
		}
	}
	return DefaultTaxRate(rates).Code
}
