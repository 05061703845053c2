package core

// Product 是商品目录中的一件可售商品。
// 加载后不可变；全链路只持有 Catalog 的引用，通过 ID 查询，不做拷贝
// （RecentlyViewed 的快照是唯一例外，见 viewed 包）。
type Product struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Slug     string   `json:"slug,omitempty"`
	Category string   `json:"category"`
	Price    float64  `json:"price"`
	Image    string   `json:"image,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Style    string   `json:"style,omitempty"`
	Rating   float64  `json:"rating,omitempty"`
}
