package app

import (
	"context"
	"fmt"
	"log/slog"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/iamvkosarev/reply-genie-bot/config"
	httpapi "github.com/iamvkosarev/reply-genie-bot/internal/api"
	"github.com/iamvkosarev/reply-genie-bot/internal/events"
	"github.com/iamvkosarev/reply-genie-bot/internal/prompt"
	in_memory "github.com/iamvkosarev/reply-genie-bot/internal/storage/in-memory"
	key_value "github.com/iamvkosarev/reply-genie-bot/internal/storage/key-value"
	"github.com/iamvkosarev/reply-genie-bot/internal/usecase"
	"github.com/redis/go-redis/v9"
	"github.com/sourcegraph/conc/pool"
)

// Run wires everything from cfg and blocks until ctx is done or the HTTP
// server or the bot fails.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	draftStorage, closeStorage, err := newDraftStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStorage()

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.NATS.URL != "" {
		natsClient, err := events.NewClient(ctx, cfg.NATS.URL, cfg.NATS.Token, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer natsClient.Close()
		publisher = natsClient
		logger.Info("NATS connected", "url", cfg.NATS.URL)
	}

	var completer usecase.Completer
	if cfg.OpenAI.HasKey() {
		openAIUsecase, err := usecase.NewOpenAIUsecase(cfg.OpenAI)
		if err != nil {
			return fmt.Errorf("failed to create openai usecase: %w", err)
		}
		completer = openAIUsecase
		logger.Info("openai client ready", "model", cfg.OpenAI.OpenAIModel, "key_status", cfg.OpenAI.KeyStatus())
	} else {
		logger.Warn("running with placeholder replies", "key_status", cfg.OpenAI.KeyStatus())
	}

	replyUsecase := usecase.NewReplyUsecase(
		cfg.OpenAI, usecase.ReplyUsecaseDeps{
			Completer: completer,
			Composer:  prompt.NewComposer(nil),
			Publisher: publisher,
			Logger:    logger,
		},
	)

	draftUsecase := usecase.NewDraftUsecase(
		usecase.DraftUsecaseDeps{
			DraftStorage: draftStorage,
			Generator:    replyUsecase,
		},
	)

	userUsecase := usecase.NewUserUsecase(
		usecase.UserUsecaseDeps{
			DraftStorage: draftStorage,
		},
		cfg.Telegram,
	)

	server := httpapi.NewServer(
		cfg.HTTP.Port, cfg.OpenAI, httpapi.ServerDeps{
			Replies: replyUsecase,
			Drafts:  draftUsecase,
			Logger:  logger,
		},
	)

	var telegramUsecase *usecase.TelegramUsecase
	if cfg.Telegram.TelegramAPIToken != "" {
		bot, err := api.NewBotAPI(cfg.Telegram.TelegramAPIToken)
		if err != nil {
			return fmt.Errorf("failed to create new bot: %w", err)
		}
		logger.Info("authorized on telegram", "account", bot.Self.UserName)

		telegramUsecase, err = usecase.NewTelegramUsecase(
			cfg.Telegram, cfg.OpenAI, usecase.TelegramUsecaseDeps{
				User:   userUsecase,
				Draft:  draftUsecase,
				Bot:    bot,
				Logger: logger,
			},
		)
		if err != nil {
			return fmt.Errorf("failed to create telegram usecase: %w", err)
		}
	} else {
		logger.Warn("telegram token not set, running HTTP API only")
	}

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(server.Start)
	if telegramUsecase != nil {
		p.Go(telegramUsecase.Run)
	}
	return p.Wait()
}

func newDraftStorage(ctx context.Context, cfg *config.Config) (usecase.DraftStorage, func(), error) {
	switch cfg.Storage.Backend {
	case config.StorageRedis:
		rdb := redis.NewClient(
			&redis.Options{
				Addr:     cfg.Redis.Endpoint,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			},
		)
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis %s: %w", cfg.Redis.Endpoint, err)
		}
		return key_value.NewDraftStorage(rdb, cfg.Redis.DraftTTL), func() { rdb.Close() }, nil
	default:
		return in_memory.NewDraftStorage(), func() {}, nil
	}
}
