package handlers

import (
	tgbot "github.com/go-telegram/bot"
)

// RegisteredHandler bundles a command handler with its registration
// parameters and middleware.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

// RegisterAllCommands returns the map of all bot commands.
func RegisterAllCommands(deps *Deps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)

	handlers["/start"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "start",
		Handler:     NewStartHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}
	handlers["/help"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "help",
		Handler:     NewHelpHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}
	handlers["/reset"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "reset",
		Handler:     NewResetHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}
	handlers["/personality"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "personality",
		Handler:     NewPersonalityHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}

	groupAdmin := []tgbot.Middleware{GroupAdminOnly(deps)}

	handlers["/enable"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "enable",
		Handler:     NewEnableHandler(deps, true),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Middleware:  groupAdmin,
	}
	handlers["/disable"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "disable",
		Handler:     NewEnableHandler(deps, false),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Middleware:  groupAdmin,
	}

	return handlers
}
