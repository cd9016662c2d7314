package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"moviematch-bot/kinopoisk"
	"moviematch-bot/state"
	"moviematch-bot/store"
	"moviematch-bot/utils"
)

const (
	msgMenu               = "Choose an action:"
	msgAskPartner         = "Enter your partner's username:"
	msgUserNotFound       = "User not found."
	msgSelfConnection     = "You cannot add a connection to yourself."
	msgNoConnections      = "You have no connections yet. Add one first."
	msgPickMatchPartner   = "Pick a connection to look for matches:"
	msgPickDeletePartner  = "Pick a connection to delete:"
	msgLoadingMovie       = "🔄 Loading movie info..."
	msgCatalogUnavailable = "The movie catalog is unavailable right now. Try again later."
	msgCatalogEmpty       = "The catalog returned no movies. Try again."
	msgNoCurrentMovie     = "Pick a movie first."
	msgUnexpectedText     = "I wasn't expecting a message. Use the menu below."
	msgSomethingWrong     = "Something went wrong. Try again."
)

type InboundKind int

const (
	InboundCommand InboundKind = iota
	InboundButton
	InboundFreeText
)

// Inbound is one user action delivered by the messaging gateway.
type Inbound struct {
	UserID   int64
	Username string
	Kind     InboundKind
	Command  string
	Callback string
	Text     string
}

// Catalog is the movie source as seen by the dispatcher.
type Catalog interface {
	SampleMovie(ctx context.Context) (int64, error)
	FetchDetails(ctx context.Context, movieID int64) (kinopoisk.Details, error)
}

// EventSink receives activity events for the analytics stream. A nil
// sink drops them.
type EventSink func(action string, payload map[string]any)

// Dispatcher routes inbound actions to the store, the catalog and the
// state registry, and renders replies through the gateway. Every failure
// ends as a user-visible message; none is fatal.
type Dispatcher struct {
	store   *store.Store
	catalog Catalog
	cache   *kinopoisk.DetailCache
	states  *state.Registry
	gateway Gateway
	events  EventSink
}

func NewDispatcher(st *store.Store, catalog Catalog, cache *kinopoisk.DetailCache, states *state.Registry, gateway Gateway, events EventSink) *Dispatcher {
	return &Dispatcher{
		store:   st,
		catalog: catalog,
		cache:   cache,
		states:  states,
		gateway: gateway,
		events:  events,
	}
}

func (d *Dispatcher) Handle(ctx context.Context, in Inbound) {
	switch in.Kind {
	case InboundCommand:
		d.handleCommand(ctx, in)
	case InboundButton:
		d.handleButton(ctx, in)
	case InboundFreeText:
		d.handleFreeText(ctx, in)
	}
}

func (d *Dispatcher) handleCommand(ctx context.Context, in Inbound) {
	if in.Command != "start" {
		d.sendMenu(in.UserID)
		return
	}
	if err := d.store.UpsertUser(ctx, in.UserID, utils.NormalizeHandle(in.Username)); err != nil {
		log.Printf("upsert user %d: %v", in.UserID, err)
		d.send(in.UserID, Reply{Text: msgSomethingWrong})
		return
	}
	d.emit("user_registered", map[string]any{"user_id": in.UserID})
	d.sendMenu(in.UserID)
}

func (d *Dispatcher) handleButton(ctx context.Context, in Inbound) {
	action := ParseCallback(in.Callback)
	switch action.Kind {
	case ActionAddConnection:
		d.states.Apply(in.UserID, state.Event{Kind: state.PartnerPromptShown})
		d.send(in.UserID, Reply{Text: msgAskPartner})
	case ActionShowConnections:
		d.handleShowConnections(ctx, in.UserID)
	case ActionDeleteConnection:
		d.handleDeleteMenu(ctx, in.UserID)
	case ActionShowMovies, ActionSkip:
		d.showNextMovie(ctx, in.UserID)
	case ActionLike:
		d.handleLike(ctx, in.UserID)
	case ActionBackToMenu:
		d.states.Apply(in.UserID, state.Event{Kind: state.MenuOpened})
		d.sendMenu(in.UserID)
	case ActionDeletePartner:
		d.handleDeletePartner(ctx, in.UserID, action.Handle)
	case ActionMatchPartner:
		d.handleMatchPartner(ctx, in.UserID, action.Handle)
	default:
		d.sendMenu(in.UserID)
	}
}

// handleFreeText consumes one message as a partner handle when the user
// was asked for one; any other free text gets a hint back to the menu.
func (d *Dispatcher) handleFreeText(ctx context.Context, in Inbound) {
	if d.states.Get(in.UserID).Kind != state.AwaitingPartnerHandle {
		d.send(in.UserID, Reply{Text: msgUnexpectedText})
		d.sendMenu(in.UserID)
		return
	}
	d.states.Apply(in.UserID, state.Event{Kind: state.PartnerHandleConsumed})

	handle := utils.NormalizeHandle(in.Text)
	partnerID, err := d.store.ResolveHandle(ctx, handle)
	if errors.Is(err, store.ErrNotFound) {
		d.send(in.UserID, Reply{Text: msgUserNotFound})
		return
	}
	if err != nil {
		log.Printf("resolve handle %q: %v", handle, err)
		d.send(in.UserID, Reply{Text: msgSomethingWrong})
		return
	}
	if partnerID == in.UserID {
		d.send(in.UserID, Reply{Text: msgSelfConnection})
		return
	}
	if err := d.store.AddConnection(ctx, in.UserID, handle); err != nil {
		log.Printf("add connection %d -> %q: %v", in.UserID, handle, err)
		d.send(in.UserID, Reply{Text: msgSomethingWrong})
		return
	}
	d.emit("connection_added", map[string]any{"user_id": in.UserID, "partner": handle})
	d.send(in.UserID, Reply{Text: fmt.Sprintf("Connection to %s added!", handle)})
}

func (d *Dispatcher) handleShowConnections(ctx context.Context, userID int64) {
	handles, err := d.store.ListConnections(ctx, userID)
	if err != nil {
		log.Printf("list connections %d: %v", userID, err)
		d.send(userID, Reply{Text: msgSomethingWrong})
		return
	}
	if len(handles) == 0 {
		d.send(userID, Reply{Text: msgNoConnections})
		return
	}
	d.send(userID, Reply{
		Text:     msgPickMatchPartner,
		Keyboard: partnerKeyboard(handles, prefixMatchPartner),
	})
}

func (d *Dispatcher) handleDeleteMenu(ctx context.Context, userID int64) {
	handles, err := d.store.ListConnections(ctx, userID)
	if err != nil {
		log.Printf("list connections %d: %v", userID, err)
		d.send(userID, Reply{Text: msgSomethingWrong})
		return
	}
	if len(handles) == 0 {
		d.send(userID, Reply{Text: msgNoConnections})
		return
	}
	d.send(userID, Reply{
		Text:     msgPickDeletePartner,
		Keyboard: partnerKeyboard(handles, prefixDeletePartner),
	})
}

func (d *Dispatcher) handleDeletePartner(ctx context.Context, userID int64, handle string) {
	err := d.store.DeleteConnection(ctx, userID, handle)
	if errors.Is(err, store.ErrNotFound) {
		d.send(userID, Reply{Text: msgUserNotFound})
		return
	}
	if err != nil {
		log.Printf("delete connection %d -> %q: %v", userID, handle, err)
		d.send(userID, Reply{Text: msgSomethingWrong})
		return
	}
	d.emit("connection_deleted", map[string]any{"user_id": userID, "partner": handle})
	d.send(userID, Reply{Text: fmt.Sprintf("Connection with %s removed!", handle)})
}

// handleMatchPartner prints the raw catalog identifiers of the mutual
// likes, matching the established bot behavior.
func (d *Dispatcher) handleMatchPartner(ctx context.Context, userID int64, handle string) {
	movieIDs, err := d.store.MutualLikes(ctx, userID, handle)
	if errors.Is(err, store.ErrNotFound) {
		d.send(userID, Reply{Text: msgUserNotFound})
		return
	}
	if err != nil {
		log.Printf("mutual likes %d / %q: %v", userID, handle, err)
		d.send(userID, Reply{Text: msgSomethingWrong})
		return
	}
	d.emit("match_queried", map[string]any{"user_id": userID, "partner": handle, "matches": len(movieIDs)})
	if len(movieIDs) == 0 {
		d.send(userID, Reply{Text: fmt.Sprintf("You have no mutual movies with %s yet.", handle)})
		return
	}
	ids := make([]string, len(movieIDs))
	for i, movieID := range movieIDs {
		ids[i] = fmt.Sprint(movieID)
	}
	d.send(userID, Reply{Text: fmt.Sprintf("Mutual movies with %s: %s", handle, strings.Join(ids, ", "))})
}

func (d *Dispatcher) handleLike(ctx context.Context, userID int64) {
	current := d.states.Get(userID)
	if current.Kind != state.ViewingMovie {
		d.send(userID, Reply{Text: msgNoCurrentMovie})
		d.sendMenu(userID)
		return
	}
	if err := d.store.AddLike(ctx, userID, current.MovieID); err != nil {
		log.Printf("add like %d / %d: %v", userID, current.MovieID, err)
		d.send(userID, Reply{Text: msgSomethingWrong})
		return
	}
	d.emit("like_added", map[string]any{"user_id": userID, "movie_id": current.MovieID})
	d.showNextMovie(ctx, userID)
}

// showNextMovie samples a fresh movie and renders its card. On any
// catalog failure the current state is left untouched.
func (d *Dispatcher) showNextMovie(ctx context.Context, userID int64) {
	loadingRef, loadingErr := d.gateway.Send(userID, Reply{Text: msgLoadingMovie})
	removeLoading := func() {
		if loadingErr == nil {
			d.gateway.Delete(userID, loadingRef)
		}
	}

	movieID, err := d.catalog.SampleMovie(ctx)
	if err != nil {
		removeLoading()
		d.send(userID, Reply{Text: catalogErrorText(err)})
		return
	}

	details, cached := d.cache.Get(ctx, movieID)
	if !cached {
		details, err = d.catalog.FetchDetails(ctx, movieID)
		if err != nil {
			removeLoading()
			d.send(userID, Reply{Text: catalogErrorText(err)})
			return
		}
		d.cache.Put(ctx, details)
	}

	d.states.Apply(userID, state.Event{Kind: state.MovieShown, MovieID: movieID})
	removeLoading()
	d.send(userID, Reply{
		Text:     movieCard(details),
		PhotoURL: details.PosterURL,
		Keyboard: [][]Button{
			{{Label: "❤️ Like", Data: TagLike}},
			{{Label: "➡️ Skip", Data: TagSkip}},
			{{Label: "🔙 Back", Data: TagBackToMenu}},
		},
	})
}

func (d *Dispatcher) sendMenu(userID int64) {
	d.send(userID, Reply{
		Text: msgMenu,
		Keyboard: [][]Button{
			{{Label: "🔗 Add connection", Data: TagAddConnection}},
			{{Label: "📋 Show connections", Data: TagShowConnections}},
			{{Label: "❌ Delete connection", Data: TagDeleteConnection}},
			{{Label: "🎬 Show movie", Data: TagShowMovies}},
		},
	})
}

func (d *Dispatcher) send(userID int64, reply Reply) {
	if _, err := d.gateway.Send(userID, reply); err != nil {
		log.Printf("send to %d: %v", userID, err)
	}
}

func (d *Dispatcher) emit(action string, payload map[string]any) {
	if d.events != nil {
		d.events(action, payload)
	}
}

func catalogErrorText(err error) string {
	if errors.Is(err, kinopoisk.ErrEmptyResult) {
		return msgCatalogEmpty
	}
	return msgCatalogUnavailable
}

func movieCard(details kinopoisk.Details) string {
	return fmt.Sprintf(
		"🎬 Title: %s\n"+
			"📅 Year: %s\n"+
			"⭐ Rating: %s\n"+
			"🌍 Countries: %s\n"+
			"🎭 Genres: %s\n"+
			"📖 %s\n"+
			"🔗 [Movie page](%s)",
		details.Title,
		details.Year,
		details.Rating,
		details.Countries,
		details.Genres,
		details.Description,
		details.WebURL,
	)
}

func partnerKeyboard(handles []string, prefix string) [][]Button {
	keyboard := make([][]Button, 0, len(handles))
	for _, handle := range handles {
		keyboard = append(keyboard, []Button{{Label: handle, Data: prefix + handle}})
	}
	return keyboard
}
