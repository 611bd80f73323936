// Package order exports storefront orders to the Easify cloud API as a
// single flattened form submission.
package order

import (
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/easify/storefront-bridge/internal/store"
)

// Line is one order line in the flattened submission: a product, a shipping
// charge or a coupon discount.
type Line struct {
	SKU       string
	Qty       int
	UnitPrice decimal.Decimal
	TaxID     int
	TaxRate   float64
}

// Payment is one recorded payment against the order.
type Payment struct {
	MethodID      int
	AccountID     int
	Amount        float64
	Comment       string
	TransactionID string
}

// Export is the flattened order record posted to the cloud API.
type Export struct {
	OrderNo                int
	StatusID               int
	TypeID                 int
	PaymentTermsID         int
	Comment                string
	CustomerNote           string
	CustomerTypeID         int
	CustomerRelationshipID int

	Billing  store.Address
	Delivery store.Address

	Lines    []Line
	Payments []Payment
}

// Values flattens the export into the form body the cloud API expects.
// Repeated line and payment fields use one value per line, in order.
func (x *Export) Values() url.Values {
	v := url.Values{}
	v.Set("OrderNo", strconv.Itoa(x.OrderNo))
	v.Set("StatusId", strconv.Itoa(x.StatusID))
	v.Set("OrderTypeId", strconv.Itoa(x.TypeID))
	v.Set("PaymentTermsId", strconv.Itoa(x.PaymentTermsID))
	v.Set("Comment", x.Comment)
	v.Set("CustomerNote", x.CustomerNote)
	v.Set("CustomerTypeId", strconv.Itoa(x.CustomerTypeID))
	v.Set("CustomerRelationshipId", strconv.Itoa(x.CustomerRelationshipID))

	setAddress(v, "Customer", x.Billing)
	setAddress(v, "Delivery", x.Delivery)

	for _, l := range x.Lines {
		v.Add("Sku", l.SKU)
		v.Add("Qty", strconv.Itoa(l.Qty))
		v.Add("UnitPrice", l.UnitPrice.StringFixed(4))
		v.Add("TaxId", strconv.Itoa(l.TaxID))
		v.Add("TaxRate", strconv.FormatFloat(l.TaxRate, 'f', -1, 64))
	}

	for _, p := range x.Payments {
		v.Add("PaymentMethodId", strconv.Itoa(p.MethodID))
		v.Add("PaymentAccountId", strconv.Itoa(p.AccountID))
		v.Add("PaymentAmount", strconv.FormatFloat(p.Amount, 'f', 2, 64))
		v.Add("PaymentComment", p.Comment)
		v.Add("PaymentTransactionId", p.TransactionID)
	}
	return v
}

func setAddress(v url.Values, prefix string, a store.Address) {
	v.Set(prefix+"FirstName", a.FirstName)
	v.Set(prefix+"LastName", a.LastName)
	v.Set(prefix+"Company", a.Company)
	v.Set(prefix+"Address1", a.Address1)
	v.Set(prefix+"Address2", a.Address2)
	v.Set(prefix+"Town", a.City)
	v.Set(prefix+"County", a.State)
	v.Set(prefix+"Postcode", a.Postcode)
	v.Set(prefix+"Country", a.Country)
	v.Set(prefix+"Phone", a.Phone)
	v.Set(prefix+"Email", a.Email)
}
