package domain

import "time"

// Document is one retrievable file belonging to a subscription.
type Document struct {
	ID     string
	URL    string
	Label  string
	Number string

	// Date is when the document was issued. Nil when unknown. A date
	// without a time of day is midnight in its location.
	Date *time.Time

	// Format is the file-extension hint, e.g. "pdf".
	Format string
	// Type is an optional category such as "bill" or "contract".
	Type string
	// HasFile is false when the backend cannot supply bytes for it.
	HasFile bool

	// Monetary amounts are kept as their decimal text.
	TotalPrice  string
	PreTaxPrice string
	VAT         string
	Currency    string

	DueDate    *time.Time
	StartDate  *time.Time
	FinishDate *time.Time

	Extra map[string]string
}

func (d Document) Field(name string) (Value, bool) {
	switch name {
	case "id":
		return Text(d.ID), true
	case "url":
		return textOrMissing(d.URL), true
	case "label":
		return textOrMissing(d.Label), true
	case "number":
		return textOrMissing(d.Number), true
	case "date":
		if d.Date == nil || d.Date.IsZero() {
			return NotAvailable, true
		}
		if isMidnight(*d.Date) {
			return Date(*d.Date), true
		}
		return Timestamp(*d.Date), true
	case "format":
		return textOrMissing(d.Format), true
	case "type":
		return textOrMissing(d.Type), true
	case "has_file":
		return Bool(d.HasFile), true
	case "total_price":
		return decimalOrMissing(d.TotalPrice), true
	case "pre_tax_price":
		return decimalOrMissing(d.PreTaxPrice), true
	case "vat":
		return decimalOrMissing(d.VAT), true
	case "currency":
		return textOrMissing(d.Currency), true
	case "duedate":
		return dateOrMissing(d.DueDate), true
	case "startdate":
		return dateOrMissing(d.StartDate), true
	case "finishdate":
		return dateOrMissing(d.FinishDate), true
	}
	return extraField(d.Extra, name)
}

// When returns the document date normalized to a full timestamp.
func (d Document) When() (time.Time, bool) {
	if d.Date == nil || d.Date.IsZero() {
		return time.Time{}, false
	}
	return *d.Date, true
}

// Snapshot flattens d into a plain mapping suitable for the metadata
// store. Empty attributes are left out; amounts stay decimal strings.
func (d Document) Snapshot() map[string]any {
	m := map[string]any{"id": d.ID, "has_file": d.HasFile}
	putText(m, "url", d.URL)
	putText(m, "label", d.Label)
	putText(m, "number", d.Number)
	putDate(m, "date", d.Date)
	putText(m, "format", d.Format)
	putText(m, "type", d.Type)
	putText(m, "total_price", d.TotalPrice)
	putText(m, "pre_tax_price", d.PreTaxPrice)
	putText(m, "vat", d.VAT)
	putText(m, "currency", d.Currency)
	putDate(m, "duedate", d.DueDate)
	putDate(m, "startdate", d.StartDate)
	putDate(m, "finishdate", d.FinishDate)
	putExtra(m, d.Extra)
	return m
}

func (d Document) String() string {
	if d.Label != "" {
		return d.ID + " (" + d.Label + ")"
	}
	return d.ID
}

func isMidnight(t time.Time) bool {
	h, m, s := t.Clock()
	return h == 0 && m == 0 && s == 0 && t.Nanosecond() == 0
}

func putText(m map[string]any, key, v string) {
	if v != "" {
		m[key] = v
	}
}

func putDate(m map[string]any, key string, t *time.Time) {
	if t != nil && !t.IsZero() {
		m[key] = *t
	}
}

func putExtra(m map[string]any, extra map[string]string) {
	if len(extra) == 0 {
		return
	}
	nested := make(map[string]any, len(extra))
	for k, v := range extra {
		if v != "" {
			nested[k] = v
		}
	}
	if len(nested) > 0 {
		m["extra"] = nested
	}
}
