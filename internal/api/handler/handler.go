// Package handler exposes the chat-facing HTTP routes: token minting,
// the websocket upgrade, and the alarm/review surfaces. Match and
// profile CRUD live in other services.
package handler

import (
	"log/slog"

	"matchday/backend/internal/alarm"
	"matchday/backend/internal/chathub"
	"matchday/backend/internal/config"
	"matchday/backend/internal/review"
	"matchday/backend/internal/storage"
)

type Handler struct {
	Log        *slog.Logger
	Hub        *chathub.Manager
	Controller *chathub.SessionController
	Storage    storage.Storage
	Alarms     *alarm.Service
	Reviews    *review.Service
	Cfg        config.Config
}

func NewHandler(log *slog.Logger, hub *chathub.Manager, controller *chathub.SessionController,
	s storage.Storage, alarms *alarm.Service, reviews *review.Service, cfg config.Config) *Handler {
	return &Handler{
		Log:        log.With("component", "api"),
		Hub:        hub,
		Controller: controller,
		Storage:    s,
		Alarms:     alarms,
		Reviews:    reviews,
		Cfg:        cfg,
	}
}
