package listener

import (
	"context"
	"log"

	"moviematch-bot/bot"
	"moviematch-bot/event"
	"moviematch-bot/store"
)

var (
	BroadcastChannel = make(chan event.ChannelData)
)

// Broadcast fans every message from the broadcast queue out as a text
// message to all registered users. Used for ops announcements.
func Broadcast(st *store.Store, gateway bot.Gateway) {
	for data := range BroadcastChannel {
		userIDs, err := st.ListUserIDs(context.Background())
		if err != nil {
			log.Printf("broadcast: list users: %v", err)
			continue
		}
		for _, userID := range userIDs {
			if _, err := gateway.Send(userID, bot.Reply{Text: string(data.Data)}); err != nil {
				log.Printf("broadcast to %d: %v", userID, err)
			}
		}
	}
}
