package telegram

import (
	"net/http"
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
	"gopkg.in/telebot.v3/middleware"
)

// Telegram 降级模式通知通道：本地修改无法同步到服务端时提醒用户
type Telegram struct {
	logger   *zap.Logger
	settings Settings
	client   *tele.Bot
}

type Settings struct {
	Token  string
	Client *http.Client
}

func NewTelegram(logger *zap.Logger, settings Settings) (*Telegram, error) {
	poller := &tele.LongPoller{Timeout: 10 * time.Second}

	client, err := tele.NewBot(tele.Settings{
		ParseMode: tele.ModeMarkdown,
		Token:     settings.Token,
		Poller:    poller,
		Client:    settings.Client,
	})
	if err != nil {
		return nil, err
	}

	client.Use(middleware.AutoRespond())

	err = client.SetCommands([]tele.Command{
		{Text: "/start", Description: "启动机器人"},
		{Text: "/help", Description: "获取帮助信息"},
	})
	if err != nil {
		return nil, err
	}

	return &Telegram{
		logger:   logger,
		settings: settings,
		client:   client,
	}, nil
}

func (r *Telegram) Start() {
	go r.client.Start()
}

// Notify 发送纯文本通知
func (r *Telegram) Notify(chatId, msg string) error {
	_chatId := cast.ToInt(chatId)
	_, err := r.client.Send(tele.ChatID(_chatId), msg, &tele.SendOptions{ParseMode: tele.ModeMarkdown})
	return err
}
