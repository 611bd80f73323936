package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const queryTimeout = 3 * time.Second

// Connect opens the storefront database. The URL comes from configuration.
func Connect(databaseURL string) (*sql.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("no database url configured")
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// PostgresStore is the Postgres implementation of CatalogStore.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const productColumns = `id, sku, name, long_description, price, regular_price, sale_price,
	tax_status, tax_class, stock_status, stock_quantity, manage_stock, backorders,
	downloadable, virtual, visible, featured, weight, category_id, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.LongDescription, &p.Price, &p.RegularPrice,
		&p.SalePrice, &p.TaxStatus, &p.TaxClass, &p.StockStatus, &p.StockQuantity,
		&p.ManageStock, &p.Backorders, &p.Downloadable, &p.Virtual, &p.Visible,
		&p.Featured, &p.Weight, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *PostgresStore) ProductBySKU(sku string) (Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE sku = $1`
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	p, err := scanProduct(s.db.QueryRowContext(ctx, query, sku))
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, ErrProductNotFound
	}
	return p, err
}

func (s *PostgresStore) ProductExists(sku string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM products WHERE sku = $1)`
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var exists bool
	err := s.db.QueryRowContext(ctx, query, sku).Scan(&exists)
	return exists, err
}

func (s *PostgresStore) InsertProduct(p Product) (Product, error) {
	query := `INSERT INTO products (sku, name, long_description, price, regular_price, sale_price,
		tax_status, tax_class, stock_status, stock_quantity, manage_stock, backorders,
		downloadable, virtual, visible, featured, weight, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING id`
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	err := s.db.QueryRowContext(ctx, query, p.SKU, p.Name, p.LongDescription, p.Price,
		p.RegularPrice, p.SalePrice, p.TaxStatus, p.TaxClass, p.StockStatus, p.StockQuantity,
		p.ManageStock, p.Backorders, p.Downloadable, p.Virtual, p.Visible, p.Featured,
		p.Weight, p.CategoryID, p.CreatedAt, p.UpdatedAt).Scan(&p.ID)
	return p, err
}

func (s *PostgresStore) UpdateProduct(p Product) (Product, error) {
	query := `UPDATE products SET name = $1, long_description = $2, price = $3,
		regular_price = $4, sale_price = $5, tax_status = $6, tax_class = $7,
		stock_status = $8, stock_quantity = $9, manage_stock = $10, backorders = $11,
		downloadable = $12, virtual = $13, visible = $14, featured = $15, weight = $16,
		category_id = $17, updated_at = $18
		WHERE sku = $19 RETURNING id`
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	err := s.db.QueryRowContext(ctx, query, p.Name, p.LongDescription, p.Price,
		p.RegularPrice, p.SalePrice, p.TaxStatus, p.TaxClass, p.StockStatus,
		p.StockQuantity, p.ManageStock, p.Backorders, p.Downloadable, p.Virtual,
		p.Visible, p.Featured, p.Weight, p.CategoryID, p.UpdatedAt, p.SKU).Scan(&p.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, ErrProductNotFound
	}
	return p, err
}

func (s *PostgresStore) DeleteProduct(sku string) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE sku = $1`, sku)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	// Attachments are owned by the product row.
	_, err = s.db.ExecContext(ctx, `DELETE FROM product_images WHERE sku = $1`, sku)
	return err
}

func (s *PostgresStore) UpdateProductWebInfo(sku string, image []byte, htmlDescription string) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET long_description = $1, updated_at = $2 WHERE sku = $3`,
		htmlDescription, time.Now().UTC().Format(time.RFC3339), sku)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	// Replaces any previous image for the SKU.
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO product_images (sku, image) VALUES ($1, $2)
		 ON CONFLICT (sku) DO UPDATE SET image = EXCLUDED.image`, sku, image)
	return err
}

func (s *PostgresStore) EnsureCategory(name string, parentID int) (Category, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var c Category
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, slug, description, parent_id FROM categories WHERE name = $1 AND parent_id = $2`,
		name, parentID).Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.ParentID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Category{}, err
	}

	c = Category{Name: name, Slug: Slugify(name), Description: name, ParentID: parentID}
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO categories (name, slug, description, parent_id) VALUES ($1, $2, $3, $4) RETURNING id`,
		c.Name, c.Slug, c.Description, c.ParentID).Scan(&c.ID)
	return c, err
}

func (s *PostgresStore) TaxClasses() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `SELECT code FROM tax_classes ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		classes = append(classes, code)
	}
	return classes, rows.Err()
}

func (s *PostgresStore) AddTaxClass(code string) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tax_classes (code) VALUES ($1) ON CONFLICT (code) DO NOTHING`, code)
	return err
}

func (s *PostgresStore) RemoveTaxClass(code string) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `DELETE FROM tax_classes WHERE code = $1`, code)
	return err
}

func (s *PostgresStore) TaxRateByName(name string) (TaxRateRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var r TaxRateRecord
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, rate, class, country, shipping FROM tax_rates WHERE lower(name) = lower($1) LIMIT 1`,
		name).Scan(&r.ID, &r.Name, &r.Rate, &r.Class, &r.Country, &r.Shipping)
	if errors.Is(err, sql.ErrNoRows) {
		return TaxRateRecord{}, ErrTaxRateNotFound
	}
	return r, err
}

func (s *PostgresStore) InsertTaxRate(rec TaxRateRecord) (TaxRateRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO tax_rates (name, rate, class, country, shipping) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		rec.Name, rec.Rate, rec.Class, rec.Country, rec.Shipping).Scan(&rec.ID)
	return rec, err
}

func (s *PostgresStore) UpdateTaxRate(rec TaxRateRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		`UPDATE tax_rates SET name = $1, rate = $2, class = $3, country = $4, shipping = $5 WHERE id = $6`,
		rec.Name, rec.Rate, rec.Class, rec.Country, rec.Shipping, rec.ID)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrTaxRateNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteTaxRate(id int) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM tax_rates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrTaxRateNotFound
	}
	return nil
}

func (s *PostgresStore) UpdateShippingCharge(kind string, price float64) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO shipping_charges (kind, price) VALUES ($1, $2)
		 ON CONFLICT (kind) DO UPDATE SET price = EXCLUDED.price`, kind, price)
	return err
}

func (s *PostgresStore) ShippingCharge(kind string) (float64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var price float64
	err := s.db.QueryRowContext(ctx,
		`SELECT price FROM shipping_charges WHERE kind = $1`, kind).Scan(&price)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return price, err
}

func (s *PostgresStore) OrderByNo(no int) (Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var o Order
	err := s.db.QueryRowContext(ctx,
		`SELECT order_no, customer_id, payment_method, total, transaction_id, customer_note,
			billing_first_name, billing_last_name, billing_company, billing_address1, billing_address2,
			billing_city, billing_state, billing_postcode, billing_country, billing_phone, billing_email,
			shipping_first_name, shipping_last_name, shipping_company, shipping_address1, shipping_address2,
			shipping_city, shipping_state, shipping_postcode, shipping_country
		 FROM orders WHERE order_no = $1`, no).Scan(
		&o.No, &o.CustomerID, &o.PaymentMethod, &o.Total, &o.TransactionID, &o.CustomerNote,
		&o.Billing.FirstName, &o.Billing.LastName, &o.Billing.Company, &o.Billing.Address1,
		&o.Billing.Address2, &o.Billing.City, &o.Billing.State, &o.Billing.Postcode,
		&o.Billing.Country, &o.Billing.Phone, &o.Billing.Email,
		&o.Shipping.FirstName, &o.Shipping.LastName, &o.Shipping.Company, &o.Shipping.Address1,
		&o.Shipping.Address2, &o.Shipping.City, &o.Shipping.State, &o.Shipping.Postcode,
		&o.Shipping.Country)
	if errors.Is(err, sql.ErrNoRows) {
		return Order{}, ErrOrderNotFound
	}
	if err != nil {
		return Order{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT product_id, quantity, line_subtotal, tax_class FROM order_items WHERE order_no = $1`, no)
	if err != nil {
		return Order{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.LineSubtotal, &item.TaxClass); err != nil {
			return Order{}, err
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return Order{}, err
	}

	shipRows, err := s.db.QueryContext(ctx,
		`SELECT method_id, name, cost FROM order_shipping WHERE order_no = $1`, no)
	if err != nil {
		return Order{}, err
	}
	defer shipRows.Close()
	for shipRows.Next() {
		var line ShippingLine
		if err := shipRows.Scan(&line.MethodID, &line.Name, &line.Cost); err != nil {
			return Order{}, err
		}
		o.ShippingLines = append(o.ShippingLines, line)
	}
	if err := shipRows.Err(); err != nil {
		return Order{}, err
	}

	couponRows, err := s.db.QueryContext(ctx,
		`SELECT code, value FROM order_coupons WHERE order_no = $1`, no)
	if err != nil {
		return Order{}, err
	}
	defer couponRows.Close()
	for couponRows.Next() {
		var c Coupon
		if err := couponRows.Scan(&c.Code, &c.Value); err != nil {
			return Order{}, err
		}
		o.Coupons = append(o.Coupons, c)
	}
	return o, couponRows.Err()
}

func (s *PostgresStore) SKUByProductID(id int) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var sku string
	err := s.db.QueryRowContext(ctx, `SELECT sku FROM products WHERE id = $1`, id).Scan(&sku)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrProductNotFound
	}
	return sku, err
}
