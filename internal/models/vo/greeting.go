// Package vo defines view objects exposed to upper layers.
package vo

// Greeting encapsulates the message returned to API consumers.
type Greeting struct {
	ID      int64
	Message string
}
