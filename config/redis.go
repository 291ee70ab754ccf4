package config

import "time"

// RedisConfig contains the Redis connection used for session snapshots.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
}

// SessionConfig controls session snapshot persistence.
type SessionConfig struct {
	// Persist stores signed-in sessions in redis so they survive gateway restarts.
	Persist bool `env:"SESSION_PERSIST" envDefault:"false"`

	// TTL is how long a stored session is kept.
	TTL time.Duration `env:"SESSION_TTL" envDefault:"168h"`

	// KeyPrefix namespaces snapshot keys.
	KeyPrefix string `env:"SESSION_KEY_PREFIX" envDefault:"blogfront:session:"`
}

// Sanitize applies guardrails to session persistence settings.
func (c *SessionConfig) Sanitize() {
	if c.TTL < time.Minute {
		c.TTL = 7 * 24 * time.Hour
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = "blogfront:session:"
	}
}
