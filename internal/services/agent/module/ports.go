package module

import (
	"notary/internal/adapters/agentlink"

	"notary/internal/services/agent/client"
	adom "notary/internal/services/agent/domain"
	stampdom "notary/internal/services/stamping/domain"
	verdom "notary/internal/services/verification/domain"
)

// Ports declares the workflows the provider executes
type Ports struct {
	Stamping     stampdom.ServicePort
	Verification verdom.ServicePort
}

// Exposed is the port set the agent module offers
type Exposed struct {
	Provider adom.ProviderPort
	Client   *client.Client
	Link     *agentlink.Transport
}
