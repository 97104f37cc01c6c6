package kaspi

import "errors"

// Error kinds surfaced by the analyzer. All of them are terminal for the
// call; the route layer maps them to HTTP statuses with errors.Is.
var (
	// ErrInvalidInput covers bad URLs, unsupported hosts, missing shop names
	// and unparseable product ids. No network call has been made.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUpstreamEmpty means page 0 returned zero offers: the product has no
	// sellers or the upstream changed response shape. Distinct from the
	// target shop missing among sellers, which is a valid not-found result.
	ErrUpstreamEmpty = errors.New("upstream returned no offers")

	// ErrUpstreamUnavailable means a single page fetch failed even after the
	// full retry budget, or pagination hit the defensive page cap.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrNoLeader guards the invariant that a successful pagination pass has
	// always captured a page-0 leader.
	ErrNoLeader = errors.New("leader could not be determined")
)
