package domain

// AgentResult is the output of executing one granted domain's action. Text may
// carry an access-denied explanation when the granted scopes do not cover the
// detected sub-intent; that is still a result, not a denial note.
type AgentResult struct {
	Domain      AgentDomain
	DisplayName string
	Scopes      []string
	Text        string
}

// DenialNote records a domain the exchange refused, with the exact scopes that
// were requested and turned down.
type DenialNote struct {
	Domain          AgentDomain
	DisplayName     string
	RequestedScopes []string
	Reason          string
}

// DispatchResult aggregates one request's per-domain outcomes in catalog order.
// Errored lists domains whose exchange failed outright; they count in neither
// the success nor the denial bucket.
type DispatchResult struct {
	Results []AgentResult
	Denials []DenialNote
	Errored []AgentDomain
}
