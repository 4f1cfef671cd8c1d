package model

import "testing"

func TestProductRow_Record(t *testing.T) {
	t.Parallel()

	row := ProductRow{
		ID:           1,
		Title:        "Espresso",
		Handle:       "espresso",
		BodyText:     "Rich",
		PublishedAt:  "2024-01-01T00:00:00Z",
		CreatedAt:    "2024-01-01T00:00:00Z",
		UpdatedAt:    "2024-01-02T00:00:00Z",
		Vendor:       "Acme",
		ProductType:  "Coffee",
		Tags:         "dark, bold",
		DateRecorded: "2024-01-01",
	}

	record := row.Record()
	if len(record) != len(ProductHeader()) {
		t.Fatalf("expected %d fields, got %d", len(ProductHeader()), len(record))
	}
	if record[0] != "1" {
		t.Errorf("expected id '1', got %s", record[0])
	}
	if record[9] != "dark, bold" {
		t.Errorf("expected tags 'dark, bold', got %s", record[9])
	}
	if record[10] != "2024-01-01" {
		t.Errorf("expected date_recorded '2024-01-01', got %s", record[10])
	}
}

func TestVariantRow_Record(t *testing.T) {
	t.Parallel()

	option := "250g"
	row := VariantRow{
		ID:               10,
		Title:            "250g",
		Option1:          &option,
		SKU:              "ESP-250",
		RequiresShipping: true,
		Taxable:          true,
		Available:        true,
		Price:            "9.99",
		Grams:            250,
		Position:         1,
		ProductID:        1,
		CreatedAt:        "2024-01-01T00:00:00Z",
		UpdatedAt:        "2024-01-01T00:00:00Z",
		DateRecorded:     "2024-01-01",
	}

	record := row.Record()
	if len(record) != len(VariantHeader()) {
		t.Fatalf("expected %d fields, got %d", len(VariantHeader()), len(record))
	}

	// Null fields render as empty cells.
	for i, column := range VariantHeader() {
		switch column {
		case "option2", "option3", "featured_image_src", "compare_at_price":
			if record[i] != "" {
				t.Errorf("expected empty %s, got %q", column, record[i])
			}
		}
	}
	if record[2] != "250g" {
		t.Errorf("expected option1 '250g', got %s", record[2])
	}
	if record[6] != "true" {
		t.Errorf("expected requires_shipping 'true', got %s", record[6])
	}
	if record[14] != "1" {
		t.Errorf("expected product_id '1', got %s", record[14])
	}
}

func TestHeader_Equal(t *testing.T) {
	t.Parallel()

	h := NewHeader([]string{"a", "b"})
	if !h.Equal(NewHeader([]string{"a", "b"})) {
		t.Error("expected headers to be equal")
	}
	if h.Equal(NewHeader([]string{"a"})) {
		t.Error("expected headers of different length to be not equal")
	}
	if h.Equal(NewHeader([]string{"a", "c"})) {
		t.Error("expected headers with different columns to be not equal")
	}
}

func TestRecord_Equal(t *testing.T) {
	t.Parallel()

	r := NewRecord([]string{"1", "x"})
	if !r.Equal(NewRecord([]string{"1", "x"})) {
		t.Error("expected records to be equal")
	}
	if r.Equal(NewRecord([]string{"1"})) {
		t.Error("expected records of different length to be not equal")
	}
	if r.Equal(NewRecord([]string{"2", "x"})) {
		t.Error("expected records with different values to be not equal")
	}
}
