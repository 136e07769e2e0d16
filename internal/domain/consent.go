package domain

// ConsentRegistry is the platform-wide singleton tracking how many consent
// capabilities have ever been issued and revoked. Created at bootstrap next
// to the Admin record.
type ConsentRegistry struct {
	Meta
	TotalIssued  uint64 `json:"total_issued"`
	TotalRevoked uint64 `json:"total_revoked"`
}

func NewConsentRegistry() *ConsentRegistry { return &ConsentRegistry{} }

func (c *ConsentRegistry) Key() RecordKey { return ConsentRegistryKey() }

func (c *ConsentRegistry) Validate() error { return nil }
