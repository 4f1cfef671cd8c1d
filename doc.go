// Package shopfeed retrieves product catalogs from storefronts that
// expose a public JSON product feed, flattens them into two tabular
// datasets (products and their purchasable variants), appends the
// rows to local delimited history files, and mirrors the current
// run's datasets into a remote spreadsheet.
//
// The package is organized around a single normalization pass per
// run: every configured feed is fetched and normalized exactly once,
// and the resulting in-memory datasets feed both the durable store
// (append semantics) and the remote surface (replace semantics).
//
// Example usage:
//
//	pipe := shopfeed.NewPipeline(shopfeed.NewHTTPRetriever(nil))
//	report, err := pipe.Run(ctx, shopfeed.RunConfig{
//		FeedURLs:     []string{"https://example.com/products.json"},
//		ProductsPath: "dataset/products.csv",
//		VariantsPath: "dataset/variants.csv",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("normalized %d products\n", report.Products)
package shopfeed
