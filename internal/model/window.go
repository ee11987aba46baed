package model

// Window is one training example: Size tokens of context and the token
// that follows them.
type Window struct {
	Context []TokenIndex
	Target  TokenIndex
}
