package model

import "strconv"

// ProductHeader returns the fixed column schema for product rows.
func ProductHeader() Header {
	return Header{
		"id",
		"title",
		"handle",
		"body_html",
		"published_at",
		"created_at",
		"updated_at",
		"vendor",
		"product_type",
		"tags",
		"date_recorded",
	}
}

// VariantHeader returns the fixed column schema for variant rows.
func VariantHeader() Header {
	return Header{
		"id",
		"title",
		"option1",
		"option2",
		"option3",
		"sku",
		"requires_shipping",
		"taxable",
		"featured_image_src",
		"available",
		"price",
		"grams",
		"compare_at_price",
		"position",
		"product_id",
		"created_at",
		"updated_at",
		"date_recorded",
	}
}

// ProductRow is one normalized catalog entry. Timestamps keep their
// ISO-8601 string form from the feed; BodyText holds the description
// after markup stripping. Tags is the comma-joined serialization of
// the feed's tag list (lossy when a tag itself contains a comma).
type ProductRow struct {
	ID           int64
	Title        string
	Handle       string
	BodyText     string
	PublishedAt  string
	CreatedAt    string
	UpdatedAt    string
	Vendor       string
	ProductType  string
	Tags         string
	DateRecorded string
}

// Record renders the row in ProductHeader order.
func (p ProductRow) Record() Record {
	return Record{
		strconv.FormatInt(p.ID, 10),
		p.Title,
		p.Handle,
		p.BodyText,
		p.PublishedAt,
		p.CreatedAt,
		p.UpdatedAt,
		p.Vendor,
		p.ProductType,
		p.Tags,
		p.DateRecorded,
	}
}

// VariantRow is one purchasable SKU. ProductID is a weak reference to
// the ID of a ProductRow normalized in the same call; it is a lookup
// key only. Nullable fields are pointers and render as empty strings.
type VariantRow struct {
	ID               int64
	Title            string
	Option1          *string
	Option2          *string
	Option3          *string
	SKU              string
	RequiresShipping bool
	Taxable          bool
	FeaturedImageSrc *string
	Available        bool
	Price            string
	Grams            int64
	CompareAtPrice   *string
	Position         int64
	ProductID        int64
	CreatedAt        string
	UpdatedAt        string
	DateRecorded     string
}

// Record renders the row in VariantHeader order.
func (v VariantRow) Record() Record {
	return Record{
		strconv.FormatInt(v.ID, 10),
		v.Title,
		nullableText(v.Option1),
		nullableText(v.Option2),
		nullableText(v.Option3),
		v.SKU,
		strconv.FormatBool(v.RequiresShipping),
		strconv.FormatBool(v.Taxable),
		nullableText(v.FeaturedImageSrc),
		strconv.FormatBool(v.Available),
		v.Price,
		strconv.FormatInt(v.Grams, 10),
		nullableText(v.CompareAtPrice),
		strconv.FormatInt(v.Position, 10),
		strconv.FormatInt(v.ProductID, 10),
		v.CreatedAt,
		v.UpdatedAt,
		v.DateRecorded,
	}
}

// nullableText renders an optional text field; nil is an empty cell.
func nullableText(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
