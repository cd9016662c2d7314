package bot

import "strings"

// Callback tags are the wire contract with the inline keyboard. Tags
// carrying a username use a "<tag>_" prefix.
const (
	TagAddConnection    = "add_connection"
	TagShowConnections  = "show_connections"
	TagDeleteConnection = "delete_connection"
	TagShowMovies       = "show_movies"
	TagLike             = "like"
	TagSkip             = "skip"
	TagBackToMenu       = "back_to_menu"

	prefixDeletePartner = "delete_"
	prefixMatchPartner  = "match_"
)

type ActionKind int

const (
	ActionUnknown ActionKind = iota
	ActionAddConnection
	ActionShowConnections
	ActionDeleteConnection
	ActionShowMovies
	ActionLike
	ActionSkip
	ActionBackToMenu
	ActionDeletePartner
	ActionMatchPartner
)

// Action is the structured form of a button press. Handle is only set
// for the partner-scoped kinds.
type Action struct {
	Kind   ActionKind
	Handle string
}

// ParseCallback turns raw callback data into an Action. Prefix trimming
// rather than separator splitting keeps usernames containing "_" intact.
func ParseCallback(data string) Action {
	switch data {
	case TagAddConnection:
		return Action{Kind: ActionAddConnection}
	case TagShowConnections:
		return Action{Kind: ActionShowConnections}
	case TagDeleteConnection:
		return Action{Kind: ActionDeleteConnection}
	case TagShowMovies:
		return Action{Kind: ActionShowMovies}
	case TagLike:
		return Action{Kind: ActionLike}
	case TagSkip:
		return Action{Kind: ActionSkip}
	case TagBackToMenu:
		return Action{Kind: ActionBackToMenu}
	}

	if handle := strings.TrimPrefix(data, prefixDeletePartner); handle != data && handle != "" {
		return Action{Kind: ActionDeletePartner, Handle: handle}
	}
	if handle := strings.TrimPrefix(data, prefixMatchPartner); handle != data && handle != "" {
		return Action{Kind: ActionMatchPartner, Handle: handle}
	}
	return Action{Kind: ActionUnknown}
}
