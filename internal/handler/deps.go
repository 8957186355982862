package handler

import (
	"amazingchat/internal/app/chat"
	"amazingchat/internal/configs"
)

type AppDeps struct {
	Room    *chat.Room
	Config  *configs.AppConfig
	Servers []configs.ServerEntry
}
