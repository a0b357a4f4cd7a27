package types

import "time"

const (
	// TopicTaxConfigurationChanged carries TaxConfigurationEvent payloads
	TopicTaxConfigurationChanged = "tax_configuration.changed"
)

type TaxConfigurationEventName string

const (
	TaxConfigurationEventCreated TaxConfigurationEventName = "tax_configuration.created"
	TaxConfigurationEventUpdated TaxConfigurationEventName = "tax_configuration.updated"
	TaxConfigurationEventDeleted TaxConfigurationEventName = "tax_configuration.deleted"
)

// TaxConfigurationEvent announces that calculations for an organization may
// no longer be current
type TaxConfigurationEvent struct {
	ID                 string                    `json:"id"`
	EventName          TaxConfigurationEventName `json:"event_name"`
	OrganizationID     string                    `json:"organization_id"`
	TaxConfigurationID string                    `json:"tax_configuration_id"`
	ServiceType        ServiceType               `json:"service_type"`
	Timestamp          time.Time                 `json:"timestamp"`
}

func NewTaxConfigurationEvent(name TaxConfigurationEventName, organizationID, configurationID string, serviceType ServiceType) *TaxConfigurationEvent {
	return &TaxConfigurationEvent{
		ID:                 GenerateUUIDWithPrefix(UUID_PREFIX_EVENT),
		EventName:          name,
		OrganizationID:     organizationID,
		TaxConfigurationID: configurationID,
		ServiceType:        serviceType,
		Timestamp:          time.Now().UTC(),
	}
}
