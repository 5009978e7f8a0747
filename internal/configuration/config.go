package configuration

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// PresenceScopeGlobal broadcasts presence to everyone;
// PresenceScopeConversation restricts it to co-participants.
const (
	PresenceScopeGlobal       = "global"
	PresenceScopeConversation = "conversation"
)

type ServerConfig struct {
	AppPort        int      `mapstructure:"app_port"`
	SocketPort     int      `mapstructure:"socket_port"`
	SocketRoute    string   `mapstructure:"socket_route"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type MongoConfig struct {
	URI                     string `mapstructure:"uri"`
	Database                string `mapstructure:"database"`
	MessagesCollection      string `mapstructure:"messages_collection"`
	ConversationsCollection string `mapstructure:"conversations_collection"`
	UsersCollection         string `mapstructure:"users_collection"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

type RelayConfig struct {
	PresenceScope string `mapstructure:"presence_scope"`
}

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Mongo  MongoConfig  `mapstructure:"mongo"`
	Auth   AuthConfig   `mapstructure:"auth"`
	Relay  RelayConfig  `mapstructure:"relay"`
}

// LoadConfig reads config.yaml from path, with CHAT_-prefixed
// environment variables overriding file values.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)

	v.SetEnvPrefix("CHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.app_port", 5000)
	v.SetDefault("server.socket_port", 5001)
	v.SetDefault("server.socket_route", "ws")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("mongo.messages_collection", "messages")
	v.SetDefault("mongo.conversations_collection", "conversations")
	v.SetDefault("mongo.users_collection", "users")
	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("relay.presence_scope", PresenceScopeGlobal)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// missing file is fine, env + defaults carry it
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Mongo.URI == "" {
		return nil, fmt.Errorf("mongo.uri is required")
	}
	if config.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth.jwt_secret is required")
	}

	return &config, nil
}
