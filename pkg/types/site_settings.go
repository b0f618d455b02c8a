package types

// SocialLinks holds the storefront's social profile URLs, stored as jsonb.
type SocialLinks struct {
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	TikTok    string `json:"tiktok,omitempty"`
}

// ShippingRates holds per-method shipping costs in kobo, stored as jsonb.
type ShippingRates struct {
	StandardKobo int64 `json:"standard_kobo"`
	ExpressKobo  int64 `json:"express_kobo"`
}
