// Package scope defines the closed registry of permission scopes
// recognized by the Hearth security core. A scope string outside this
// registry is rejected before any cryptographic work happens, both at
// issuance and at validation.
package scope

// Vault collections with read/write scopes in the registry.
const (
	CollectionEmail    = "email"
	CollectionCalendar = "calendar"
	CollectionContacts = "contacts"
	CollectionMemory   = "memory"
	CollectionFinance  = "finance"
)

// Agent capability and miscellaneous scopes.
const (
	AgentEmailCompose    = "agent.email.compose"
	AgentCalendarExtract = "agent.calendar.extract"
	AgentFinanceAnalyze  = "agent.finance.analyze"
	AgentMemoryChat      = "agent.memory.chat"
	CustomTemporary      = "custom.temporary"
)

var collections = []string{
	CollectionEmail,
	CollectionCalendar,
	CollectionContacts,
	CollectionMemory,
	CollectionFinance,
}

var registry = buildRegistry()

func buildRegistry() map[string]struct{} {
	r := make(map[string]struct{})
	for _, c := range collections {
		r[Read(c)] = struct{}{}
		r[Write(c)] = struct{}{}
	}
	for _, s := range []string{
		AgentEmailCompose,
		AgentCalendarExtract,
		AgentFinanceAnalyze,
		AgentMemoryChat,
		CustomTemporary,
	} {
		r[s] = struct{}{}
	}
	return r
}

// IsKnown reports whether s is a registered scope.
func IsKnown(s string) bool {
	_, ok := registry[s]
	return ok
}

// Read returns the vault read scope for a collection, e.g.
// "vault.read.email". The result is only a registered scope for the
// collections declared in this package.
func Read(collection string) string {
	return "vault.read." + collection
}

// Write returns the vault write scope for a collection.
func Write(collection string) string {
	return "vault.write." + collection
}

// All returns the registered scopes in no particular order.
func All() []string {
	out := make([]string, 0, len(registry))
	for s := range registry {
		out = append(out, s)
	}
	return out
}
