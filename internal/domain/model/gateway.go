package model

// GatewayStatus describes transaction state reported by the external
// payment provider.
type GatewayStatus string

const (
	GatewayStatusPending   GatewayStatus = "PENDING"
	GatewayStatusSucceeded GatewayStatus = "SUCCEEDED"
	GatewayStatusFailed    GatewayStatus = "FAILED"
)

// GatewayTransaction encapsulates provider-side transaction details.
type GatewayTransaction struct {
	Ref    string
	Status GatewayStatus
}
