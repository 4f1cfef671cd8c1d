package shopfeed

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopfeed/shopfeed/domain/model"
)

// RawRecord is one catalog entry as decoded from a feed's JSON body.
type RawRecord map[string]any

// dateOnly is the calendar-date layout used for the date_recorded
// column.
const dateOnly = "2006-01-02"

// NormalizeProduct flattens one raw catalog entry into a product row
// and one variant row per entry in its variants collection. It is a
// pure function of the input: normalizing the same entry twice yields
// identical rows.
//
// Missing or ill-shaped required fields fail with ErrMalformedRecord;
// an unparsable created_at fails with ErrInvalidTimestamp. Either
// aborts normalization of this record only.
func NormalizeProduct(raw RawRecord) (model.ProductRow, []model.VariantRow, error) {
	var product model.ProductRow

	id, err := intField(raw, "id")
	if err != nil {
		return product, nil, err
	}
	title, err := textField(raw, "title")
	if err != nil {
		return product, nil, err
	}
	handle, err := textField(raw, "handle")
	if err != nil {
		return product, nil, err
	}
	bodyHTML, err := textField(raw, "body_html")
	if err != nil {
		return product, nil, err
	}
	publishedAt, err := textField(raw, "published_at")
	if err != nil {
		return product, nil, err
	}
	createdAt, err := textField(raw, "created_at")
	if err != nil {
		return product, nil, err
	}
	updatedAt, err := textField(raw, "updated_at")
	if err != nil {
		return product, nil, err
	}
	vendor, err := textField(raw, "vendor")
	if err != nil {
		return product, nil, err
	}
	productType, err := textField(raw, "product_type")
	if err != nil {
		return product, nil, err
	}
	tags, err := tagsField(raw)
	if err != nil {
		return product, nil, err
	}
	dateRecorded, err := recordedDate(createdAt)
	if err != nil {
		return product, nil, err
	}

	product = model.ProductRow{
		ID:           id,
		Title:        title,
		Handle:       handle,
		BodyText:     StripHTML(bodyHTML),
		PublishedAt:  publishedAt,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
		Vendor:       vendor,
		ProductType:  productType,
		Tags:         tags,
		DateRecorded: dateRecorded,
	}

	variants, err := normalizeVariants(raw)
	if err != nil {
		return model.ProductRow{}, nil, err
	}
	return product, variants, nil
}

// normalizeVariants flattens the record's variants collection. An
// absent collection yields zero variant rows.
func normalizeVariants(raw RawRecord) ([]model.VariantRow, error) {
	value, ok := raw["variants"]
	if !ok || value == nil {
		return nil, nil
	}
	entries, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: field %q is not a list", ErrMalformedRecord, "variants")
	}

	variants := make([]model.VariantRow, 0, len(entries))
	for i, entry := range entries {
		rawVariant, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: variant %d is not an object", ErrMalformedRecord, i)
		}
		variant, err := normalizeVariant(RawRecord(rawVariant))
		if err != nil {
			return nil, fmt.Errorf("variant %d: %w", i, err)
		}
		variants = append(variants, variant)
	}
	return variants, nil
}

// normalizeVariant flattens one variant entry.
func normalizeVariant(raw RawRecord) (model.VariantRow, error) {
	var variant model.VariantRow

	id, err := intField(raw, "id")
	if err != nil {
		return variant, err
	}
	title, err := textField(raw, "title")
	if err != nil {
		return variant, err
	}
	sku, err := textField(raw, "sku")
	if err != nil {
		return variant, err
	}
	requiresShipping, err := boolField(raw, "requires_shipping")
	if err != nil {
		return variant, err
	}
	taxable, err := boolField(raw, "taxable")
	if err != nil {
		return variant, err
	}
	available, err := boolField(raw, "available")
	if err != nil {
		return variant, err
	}
	price, err := decimalField(raw, "price")
	if err != nil {
		return variant, err
	}
	grams, err := intField(raw, "grams")
	if err != nil {
		return variant, err
	}
	position, err := intField(raw, "position")
	if err != nil {
		return variant, err
	}
	productID, err := intField(raw, "product_id")
	if err != nil {
		return variant, err
	}
	createdAt, err := textField(raw, "created_at")
	if err != nil {
		return variant, err
	}
	updatedAt, err := textField(raw, "updated_at")
	if err != nil {
		return variant, err
	}
	dateRecorded, err := recordedDate(createdAt)
	if err != nil {
		return variant, err
	}

	return model.VariantRow{
		ID:               id,
		Title:            title,
		Option1:          optionalText(raw, "option1"),
		Option2:          optionalText(raw, "option2"),
		Option3:          optionalText(raw, "option3"),
		SKU:              sku,
		RequiresShipping: requiresShipping,
		Taxable:          taxable,
		FeaturedImageSrc: featuredImageSrc(raw),
		Available:        available,
		Price:            price,
		Grams:            grams,
		CompareAtPrice:   optionalDecimal(raw, "compare_at_price"),
		Position:         position,
		ProductID:        productID,
		CreatedAt:        createdAt,
		UpdatedAt:        updatedAt,
		DateRecorded:     dateRecorded,
	}, nil
}

// recordedDate derives the date_recorded column from an ISO-8601
// timestamp. It never substitutes a default date for unparsable input.
func recordedDate(timestamp string) (string, error) {
	t, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimestamp, timestamp)
	}
	return t.Format(dateOnly), nil
}

// tagsField serializes the record's tag list as a single comma-joined
// string. An absent field is an empty tag list. The serialization is
// lossy when a tag itself contains a comma.
func tagsField(raw RawRecord) (string, error) {
	value, ok := raw["tags"]
	if !ok || value == nil {
		return "", nil
	}
	switch tags := value.(type) {
	case []any:
		parts := make([]string, 0, len(tags))
		for _, tag := range tags {
			s, ok := tag.(string)
			if !ok {
				return "", fmt.Errorf("%w: non-text tag %v", ErrMalformedRecord, tag)
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ", "), nil
	case string:
		// Some feeds ship tags pre-joined.
		return tags, nil
	default:
		return "", fmt.Errorf("%w: field %q is not a list", ErrMalformedRecord, "tags")
	}
}

// featuredImageSrc extracts the src of the variant's optional image
// object. Absent or null image objects yield a null field.
func featuredImageSrc(raw RawRecord) *string {
	value, ok := raw["featured_image"]
	if !ok || value == nil {
		return nil
	}
	image, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	src, ok := image["src"].(string)
	if !ok {
		return nil
	}
	return &src
}

// textField reads a required text field. published_at is nullable in
// some feeds, so null collapses to empty text rather than failing.
func textField(raw RawRecord, key string) (string, error) {
	value, ok := raw[key]
	if !ok {
		return "", fmt.Errorf("%w: missing field %q", ErrMalformedRecord, key)
	}
	if value == nil {
		return "", nil
	}
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%w: field %q is not text", ErrMalformedRecord, key)
	}
	return s, nil
}

// optionalText reads a nullable text field; absent and null are both
// null.
func optionalText(raw RawRecord, key string) *string {
	value, ok := raw[key]
	if !ok || value == nil {
		return nil
	}
	s, ok := value.(string)
	if !ok {
		return nil
	}
	return &s
}

// intField reads a required integer field. JSON numbers arrive as
// float64 from encoding/json, or as json.Number when the decoder is
// configured for it.
func intField(raw RawRecord, key string) (int64, error) {
	value, ok := raw[key]
	if !ok || value == nil {
		return 0, fmt.Errorf("%w: missing field %q", ErrMalformedRecord, key)
	}
	switch n := value.(type) {
	case float64:
		return int64(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: field %q is not an integer", ErrMalformedRecord, key)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("%w: field %q is not a number", ErrMalformedRecord, key)
	}
}

// boolField reads a required boolean field.
func boolField(raw RawRecord, key string) (bool, error) {
	value, ok := raw[key]
	if !ok || value == nil {
		return false, fmt.Errorf("%w: missing field %q", ErrMalformedRecord, key)
	}
	b, ok := value.(bool)
	if !ok {
		return false, fmt.Errorf("%w: field %q is not a boolean", ErrMalformedRecord, key)
	}
	return b, nil
}

// decimalField reads a required decimal-as-text field. Feeds usually
// quote prices, but a bare number is accepted and rendered verbatim.
func decimalField(raw RawRecord, key string) (string, error) {
	value, ok := raw[key]
	if !ok || value == nil {
		return "", fmt.Errorf("%w: missing field %q", ErrMalformedRecord, key)
	}
	switch v := value.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case json.Number:
		return v.String(), nil
	default:
		return "", fmt.Errorf("%w: field %q is not a decimal", ErrMalformedRecord, key)
	}
}

// optionalDecimal reads a nullable decimal-as-text field.
func optionalDecimal(raw RawRecord, key string) *string {
	s, err := decimalField(raw, key)
	if err != nil {
		return nil
	}
	return &s
}
