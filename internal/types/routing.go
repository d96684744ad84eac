package types

// RoutingDecision is the single authoritative path chosen for one request.
// It is derived per call and never persisted.
type RoutingDecision int

// Precedence order, highest first. The dispatcher evaluates these
// top-to-bottom and the first matching rule wins.
const (
	RouteAudio RoutingDecision = iota
	RouteBot
	RouteAgent
	RouteToolAwareSearch
	RouteStandard
)

func (d RoutingDecision) String() string {
	switch d {
	case RouteAudio:
		return "audio"
	case RouteBot:
		return "bot"
	case RouteAgent:
		return "agent"
	case RouteToolAwareSearch:
		return "search"
	case RouteStandard:
		return "standard"
	default:
		return "unknown"
	}
}
