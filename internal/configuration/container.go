package configuration

import (
	"context"
	"fmt"
	"time"

	"github.com/Rishu1724/TextMeIfYouCan/internal/chat"
	"github.com/Rishu1724/TextMeIfYouCan/internal/db"
	"github.com/Rishu1724/TextMeIfYouCan/internal/handler"
	"github.com/Rishu1724/TextMeIfYouCan/internal/hub"
	"github.com/Rishu1724/TextMeIfYouCan/internal/identity"
	"github.com/Rishu1724/TextMeIfYouCan/internal/model"
	"github.com/Rishu1724/TextMeIfYouCan/internal/repo"
	"github.com/Rishu1724/TextMeIfYouCan/internal/service"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Container wires config, logging, storage, services, handlers and the
// relay hub together.
type Container struct {
	Config   *Config
	Logger   *zap.Logger
	Hub      *hub.Hub
	Identity identity.Provider

	AuthHandler         handler.AuthHandler
	UserHandler         handler.UserHandler
	ConversationHandler handler.ConversationHandler
	MessageHandler      handler.MessageHandler
	MonitorHandler      handler.MonitorHandler

	// private - for cleanup
	mongoDB *mongo.Database
}

func BuildContainer(configPath string) (*Container, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	con, err := db.OpenConnection(config.Mongo.URI, config.Mongo.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	messageRepo := repo.NewMessageRepository(
		db.NewRepository[model.Message](con, config.Mongo.MessagesCollection), logger)
	conversationRepo := repo.NewConversationRepository(
		db.NewRepository[model.Conversation](con, config.Mongo.ConversationsCollection), logger)
	userRepo := repo.NewUserRepository(
		db.NewRepository[model.User](con, config.Mongo.UsersCollection), logger)

	provider := identity.NewJWTProvider(config.Auth.JWTSecret, config.Auth.TokenTTL)

	lifecycle := chat.NewLifecycle(conversationRepo, logger)
	summary := chat.NewSummaryTracker()

	chatService := service.NewChatService(lifecycle, summary, messageRepo, conversationRepo, userRepo, logger)
	userService := service.NewUserService(userRepo, provider, logger)

	// Relay wiring: registry -> router/presence -> gateway -> hub
	registry := hub.NewRegistry()
	router := hub.NewRouter(registry, logger)

	var scope hub.PresenceScope = hub.GlobalScope{}
	if config.Relay.PresenceScope == PresenceScopeConversation {
		scope = hub.NewConversationScope(conversationRepo, logger)
	}
	presence := hub.NewPresenceBroadcaster(registry, scope, logger)
	gateway := hub.NewGateway(registry, router, presence, logger)
	relayHub := hub.NewHub(registry, gateway, config.Server.AllowedOrigins, logger)

	monitorService := hub.NewMonitorService(registry)

	return &Container{
		Config:              config,
		Logger:              logger,
		Hub:                 relayHub,
		Identity:            provider,
		AuthHandler:         handler.NewAuthHandler(userService, logger),
		UserHandler:         handler.NewUserHandler(userService, logger),
		ConversationHandler: handler.NewConversationHandler(chatService, logger),
		MessageHandler:      handler.NewMessageHandler(chatService, logger),
		MonitorHandler:      handler.NewMonitorHandler(monitorService),
		mongoDB:             con,
	}, nil
}

// Close gracefully shuts down all connections.
func (c *Container) Close() error {
	// Stop the hub first (closes all WebSocket connections)
	if c.Hub != nil {
		c.Hub.Stop()
	}

	if c.Logger != nil {
		_ = c.Logger.Sync()
	}

	if c.mongoDB != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := c.mongoDB.Client().Disconnect(ctx); err != nil {
			return fmt.Errorf("failed to close MongoDB connection: %w", err)
		}
	}

	return nil
}
