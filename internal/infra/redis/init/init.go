package infra_redis_init

import (
	"fmt"
	"log"
	"net"
	"time"

	"github.com/go-redis/redis"
	"github.com/humanbelnik/kinoreview/internal/config"
)

const logtag = "[redis]"

// MustEstablishConn connects to the shared cache and session store and exits
// when it does not answer a ping.
func MustEstablishConn(cfg config.RedisCache) *redis.Client {
	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DialTimeout: 5 * time.Second,
	})

	if err := client.Ping().Err(); err != nil {
		log.Fatalf("%s %v", logtag, fmt.Errorf("failed to ping %s: %w", addr, err))
	}

	log.Printf("%s connected to %s", logtag, addr)
	return client
}
