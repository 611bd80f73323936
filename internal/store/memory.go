package store

import (
	"strings"
	"sync"
)

// MemoryStore is an in-memory implementation of CatalogStore. It backs the
// default development mode and the test suites.
type MemoryStore struct {
	mu         sync.Mutex
	products   []Product
	images     map[string][]byte
	categories []Category
	taxClasses []string
	taxRates   []TaxRateRecord
	shipping   map[string]float64
	orders     map[int]Order
	nextID     int
	nextTermID int
	nextRateID int
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		images:     make(map[string][]byte),
		shipping:   make(map[string]float64),
		orders:     make(map[int]Order),
		nextID:     1,
		nextTermID: 1,
		nextRateID: 1,
	}
}

func (s *MemoryStore) ProductBySKU(sku string) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return Product{}, ErrProductNotFound
}

func (s *MemoryStore) ProductExists(sku string) (bool, error) {
	_, err := s.ProductBySKU(sku)
	if err == ErrProductNotFound {
		return false, nil
	}
	return err == nil, err
}

func (s *MemoryStore) InsertProduct(p Product) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextID
	s.nextID++
	s.products = append(s.products, p)
	return p, nil
}

func (s *MemoryStore) UpdateProduct(p Product) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.products {
		if existing.SKU == p.SKU {
			p.ID = existing.ID
			s.products[i] = p
			return p, nil
		}
	}
	return Product{}, ErrProductNotFound
}

func (s *MemoryStore) DeleteProduct(sku string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.products {
		if p.SKU == sku {
			s.products = append(s.products[:i], s.products[i+1:]...)
			delete(s.images, sku)
			return nil
		}
	}
	return ErrProductNotFound
}

func (s *MemoryStore) UpdateProductWebInfo(sku string, image []byte, htmlDescription string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.products {
		if p.SKU == sku {
			s.products[i].LongDescription = htmlDescription
			s.images[sku] = image
			return nil
		}
	}
	return ErrProductNotFound
}

func (s *MemoryStore) EnsureCategory(name string, parentID int) (Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.categories {
		if c.Name == name && c.ParentID == parentID {
			return c, nil
		}
	}
	c := Category{
		ID:          s.nextTermID,
		Name:        name,
		Slug:        Slugify(name),
		Description: name,
		ParentID:    parentID,
	}
	s.nextTermID++
	s.categories = append(s.categories, c)
	return c, nil
}

func (s *MemoryStore) TaxClasses() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.taxClasses))
	copy(out, s.taxClasses)
	return out, nil
}

func (s *MemoryStore) AddTaxClass(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.taxClasses {
		if c == code {
			return nil
		}
	}
	s.taxClasses = append(s.taxClasses, code)
	return nil
}

func (s *MemoryStore) RemoveTaxClass(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.taxClasses {
		if c == code {
			s.taxClasses = append(s.taxClasses[:i], s.taxClasses[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *MemoryStore) TaxRateByName(name string) (TaxRateRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.taxRates {
		if strings.EqualFold(r.Name, name) {
			return r, nil
		}
	}
	return TaxRateRecord{}, ErrTaxRateNotFound
}

func (s *MemoryStore) InsertTaxRate(rec TaxRateRecord) (TaxRateRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.ID = s.nextRateID
	s.nextRateID++
	s.taxRates = append(s.taxRates, rec)
	return rec, nil
}

func (s *MemoryStore) UpdateTaxRate(rec TaxRateRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.taxRates {
		if r.ID == rec.ID {
			s.taxRates[i] = rec
			return nil
		}
	}
	return ErrTaxRateNotFound
}

func (s *MemoryStore) DeleteTaxRate(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.taxRates {
		if r.ID == id {
			s.taxRates = append(s.taxRates[:i], s.taxRates[i+1:]...)
			return nil
		}
	}
	return ErrTaxRateNotFound
}

func (s *MemoryStore) UpdateShippingCharge(kind string, price float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shipping[kind] = price
	return nil
}

func (s *MemoryStore) ShippingCharge(kind string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shipping[kind], nil
}

func (s *MemoryStore) OrderByNo(no int) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[no]
	if !ok {
		return Order{}, ErrOrderNotFound
	}
	return o, nil
}

func (s *MemoryStore) SKUByProductID(id int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == id {
			return p.SKU, nil
		}
	}
	return "", ErrProductNotFound
}

// SeedOrder stores an order record. Used by tests and the dev backend.
func (s *MemoryStore) SeedOrder(o Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.No] = o
}

// Products returns a copy of all product records.
func (s *MemoryStore) Products() []Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

// Categories returns a copy of all category records.
func (s *MemoryStore) Categories() []Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Category, len(s.categories))
	copy(out, s.categories)
	return out
}

// TaxRates returns a copy of all tax rate records.
func (s *MemoryStore) TaxRates() []TaxRateRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]TaxRateRecord, len(s.taxRates))
	copy(out, s.taxRates)
	return out
}

// Image returns the stored image bytes for a SKU.
func (s *MemoryStore) Image(sku string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.images[sku]
}

// Clear removes all state.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = nil
	s.categories = nil
	s.taxClasses = nil
	s.taxRates = nil
	s.images = make(map[string][]byte)
	s.shipping = make(map[string]float64)
	s.orders = make(map[int]Order)
	s.nextID = 1
	s.nextTermID = 1
	s.nextRateID = 1
}
