package shopfeed

import (
	"github.com/shopfeed/shopfeed/domain/model"
)

// Dataset is an ordered sequence of rows sharing one fixed column
// schema. It is created empty at run start, grown during the run, and
// flushed once to the durable store and once to the remote surface at
// run end. Durability lives in those surfaces, not here.
type Dataset struct {
	// name is the dataset name, also used as the default table name.
	name string
	// header is the fixed column schema.
	header model.Header
	// records are the accumulated rows in arrival order.
	records []model.Record
}

// NewDataset create new Dataset.
func NewDataset(name string, header model.Header) *Dataset {
	return &Dataset{
		name:   name,
		header: header,
	}
}

// NewProductDataset creates an empty dataset with the product schema.
func NewProductDataset() *Dataset {
	return NewDataset("products", model.ProductHeader())
}

// NewVariantDataset creates an empty dataset with the variant schema.
func NewVariantDataset() *Dataset {
	return NewDataset("variants", model.VariantHeader())
}

// Name return dataset name.
func (d *Dataset) Name() string {
	return d.name
}

// Header return the column schema.
func (d *Dataset) Header() model.Header {
	return d.header
}

// Records return the accumulated rows in arrival order.
func (d *Dataset) Records() []model.Record {
	return d.records
}

// Len returns the number of accumulated rows.
func (d *Dataset) Len() int {
	return len(d.records)
}

// Append extends the dataset, preserving arrival order. Rows from an
// earlier feed always precede rows from a later one. No deduplication
// is applied: feeds are independent catalogs keyed by their own id
// space, so equal ids across feeds are retained as distinct rows.
func (d *Dataset) Append(records ...model.Record) {
	d.records = append(d.records, records...)
}

// Equal compare Dataset.
func (d *Dataset) Equal(d2 *Dataset) bool {
	if d.Name() != d2.Name() {
		return false
	}
	if !d.header.Equal(d2.header) {
		return false
	}
	if len(d.records) != len(d2.records) {
		return false
	}
	for i, record := range d.records {
		if !record.Equal(d2.records[i]) {
			return false
		}
	}
	return true
}

// Accumulator merges normalized rows from multiple source feeds into
// the two unified datasets. It trusts its input; schema validation is
// the normalizer's job.
type Accumulator struct {
	products *Dataset
	variants *Dataset
}

// NewAccumulator creates an accumulator with empty product and
// variant datasets.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		products: NewProductDataset(),
		variants: NewVariantDataset(),
	}
}

// Add appends one normalized catalog entry's rows.
func (a *Accumulator) Add(product model.ProductRow, variants []model.VariantRow) {
	a.products.Append(product.Record())
	for _, variant := range variants {
		a.variants.Append(variant.Record())
	}
}

// Products returns the accumulated product dataset.
func (a *Accumulator) Products() *Dataset {
	return a.products
}

// Variants returns the accumulated variant dataset.
func (a *Accumulator) Variants() *Dataset {
	return a.variants
}
