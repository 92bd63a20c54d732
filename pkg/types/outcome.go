package types

// Outcome tags the result of an idempotent provisioning call.
type Outcome string

const (
	OutcomeCreated       Outcome = "created"
	OutcomeAlreadyExists Outcome = "already_exists"
	OutcomeFailed        Outcome = "failed"
)

// Succeeded reports whether the resource is usable after the call.
func (o Outcome) Succeeded() bool {
	return o == OutcomeCreated || o == OutcomeAlreadyExists
}
