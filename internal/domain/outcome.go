package domain

// ExchangeStatus tags the result of one domain's token exchange.
type ExchangeStatus string

const (
	ExchangeGranted ExchangeStatus = "granted"
	ExchangeDenied  ExchangeStatus = "denied"
	ExchangeErrored ExchangeStatus = "error"
)

// ExchangeReply is the raw answer from the token exchange collaborator for a
// single domain. Treated as untrusted input by the gate.
type ExchangeReply struct {
	Success      bool
	AccessDenied bool
	Scopes       []string
	Audience     string
	Error        string
	DemoMode     bool
}

// ExchangeOutcome is the gate's classified verdict for one requested domain.
// RequestedScopes always echoes the ScopeRequest; GrantedScopes is only set
// when Status is ExchangeGranted.
type ExchangeOutcome struct {
	Domain          AgentDomain
	DisplayName     string
	Status          ExchangeStatus
	RequestedScopes []string
	GrantedScopes   []string
	Audience        string
	Reason          string
	DemoMode        bool
}

// Granted reports whether the domain may be dispatched.
func (o ExchangeOutcome) Granted() bool {
	return o.Status == ExchangeGranted
}

// Denied reports whether the exchange was a policy denial.
func (o ExchangeOutcome) Denied() bool {
	return o.Status == ExchangeDenied
}

// HasScope reports whether a specific scope was granted.
func (o ExchangeOutcome) HasScope(scope string) bool {
	for _, s := range o.GrantedScopes {
		if s == scope {
			return true
		}
	}
	return false
}
