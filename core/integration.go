package core

type IntegrationType string

const (
	IntegrationEtsy      IntegrationType = "etsy"
	IntegrationShopify   IntegrationType = "shopify"
	IntegrationPrintful  IntegrationType = "printful"
	IntegrationRedbubble IntegrationType = "redbubble"
	IntegrationAmazon    IntegrationType = "amazon"
	IntegrationStripe    IntegrationType = "stripe"
)

type IntegrationStatus string

const (
	IntegrationConnected    IntegrationStatus = "connected"
	IntegrationDisconnected IntegrationStatus = "disconnected"
	IntegrationError        IntegrationStatus = "error"
)

// Integration is a marketplace connection record. IsMock marks simulated
// connections that never talk to the real platform.
type Integration struct {
	ID          string            `json:"id"`
	Type        IntegrationType   `json:"type"`
	Name        string            `json:"name"`
	Status      IntegrationStatus `json:"status"`
	IsMock      bool              `json:"isMock"`
	ConnectedAt *Date             `json:"connectedAt"`
	LastSynced  *Date             `json:"lastSynced"`
	Settings    map[string]string `json:"settings,omitempty"`
}

// DisplayName maps a platform type to its user-facing name.
func (t IntegrationType) DisplayName() string {
	switch t {
	case IntegrationEtsy:
		return "Etsy"
	case IntegrationShopify:
		return "Shopify"
	case IntegrationPrintful:
		return "Printful"
	case IntegrationRedbubble:
		return "Redbubble"
	case IntegrationAmazon:
		return "Amazon"
	case IntegrationStripe:
		return "Stripe"
	default:
		return string(t)
	}
}
