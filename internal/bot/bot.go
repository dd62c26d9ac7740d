package bot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/VakeDomen/FlatScraper/internal/domain/events"
	"github.com/VakeDomen/FlatScraper/internal/domain/models"
	"github.com/VakeDomen/FlatScraper/internal/repositories"
	"github.com/asaskevich/EventBus"
	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

type subscriptionRegistry interface {
	Subscribe(userID int64, url string) (repositories.SubscribeResult, error)
	Unsubscribe(userID int64, url string) repositories.UnsubscribeResult
	List(userID int64) []string
}

type Bot struct {
	api           *botApi.BotAPI
	bus           EventBus.Bus
	subscriptions subscriptionRegistry
}

const helpText = `I watch nepremicnine.net searches and message you when new listings appear.

/subscribe <search url> - watch a search results page
/unsubscribe <search url> - stop watching it
/list - show the searches you watch
/help - this message

The first check after subscribing only records what is already listed; you are notified about listings that appear after that.`

func NewBot(token string, bus EventBus.Bus, subscriptions subscriptionRegistry) (*Bot, error) {

	api, err := botApi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	log.Infof("Authorized on account %s", api.Self.UserName)

	err = botApi.SetLogger(log.StandardLogger())
	if err != nil {
		return nil, err
	}

	if bus == nil {
		return nil, errors.New("bus is nil")
	}

	if subscriptions == nil {
		return nil, errors.New("subscription registry is nil")
	}

	createdBot := &Bot{api: api, bus: bus, subscriptions: subscriptions}

	// Async subscription: every found listing becomes its own fire-and-forget
	// delivery task, failures land in the log only.
	err = bus.SubscribeAsync(events.ListingFoundTopic, createdBot.onListingFound, false)
	if err != nil {
		return nil, err
	}
	return createdBot, nil
}

func (b *Bot) Run() {

	updateConfig := botApi.NewUpdate(0)
	updateConfig.Timeout = 60

	updates := b.api.GetUpdatesChan(updateConfig)

	for update := range updates {

		if update.Message == nil {
			continue
		}

		if update.Message.Chat.IsGroup() || update.Message.Chat.IsSuperGroup() {
			continue
		}

		go b.handleMessage(update.Message)
	}
}

func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
}

func (b *Bot) handleMessage(message *botApi.Message) {

	reply := b.handleCommand(message.From.ID, message.Command(), strings.TrimSpace(message.CommandArguments()))
	_, _ = sendWithLogError(b.api, botApi.NewMessage(message.Chat.ID, reply))
}

func (b *Bot) handleCommand(userID int64, command string, args string) string {

	switch command {
	case "start", "help":
		return helpText

	case "subscribe":
		result, err := b.subscriptions.Subscribe(userID, args)
		if err != nil {
			return "That doesn't look like a search URL. Send /subscribe followed by a nepremicnine.net search results link."
		}
		if result == repositories.SubscriptionExists {
			return "You are already watching this search."
		}
		return "Subscribed! I'll message you when new listings appear in this search."

	case "unsubscribe":
		if b.subscriptions.Unsubscribe(userID, args) == repositories.SubscriptionNotFound {
			return "You are not watching this search."
		}
		return "Unsubscribed."

	case "list":
		urls := b.subscriptions.List(userID)
		if len(urls) == 0 {
			return "You are not watching any searches yet. Use /subscribe <url> to add one."
		}
		lines := lo.Map(urls, func(url string, i int) string {
			return fmt.Sprintf("%d. %s", i+1, url)
		})
		return "You are watching:\n" + strings.Join(lines, "\n")

	default:
		return "Unknown command! Send /help to see what I can do."
	}
}

func (b *Bot) onListingFound(event events.ListingFound) {
	msg := botApi.NewMessage(event.UserID, formatListing(event.Listing))
	_, _ = sendWithLogError(b.api, msg)
}

func formatListing(listing models.Listing) string {

	lines := []string{"New listing found!"}

	if listing.Location != "" {
		lines = append(lines, listing.Location)
	}
	if listing.Price != "" {
		lines = append(lines, listing.Price)
	}
	if listing.Size != "" {
		lines = append(lines, listing.Size)
	}
	if listing.Href != "" {
		lines = append(lines, listing.Href)
	}

	return strings.Join(lines, "\n")
}
