package server

import (
	"time"

	"github.com/opst/todofab/pkg/loop/recurring"
)

// ServerConfig is an immutable configuration of todofab.
//
// To get ServerConfig, use LoadServerConfig or TrySeal(*ServerConfigMarshall).
type ServerConfig struct {
	port     int32
	cors     *CORSConfig
	database *DatabaseConfig
	auth     *AuthConfig
	loops    *LoopsConfig
}

// port where the API server listens.
func (c *ServerConfig) Port() int32 {
	return c.port
}

func (c *ServerConfig) CORS() *CORSConfig {
	return c.cors
}

func (c *ServerConfig) Database() *DatabaseConfig {
	return c.database
}

func (c *ServerConfig) Auth() *AuthConfig {
	return c.auth
}

func (c *ServerConfig) Loops() *LoopsConfig {
	return c.loops
}

type CORSConfig struct {
	allowOrigins []string
}

// origins allowed to call API with credentials. Empty means any origin.
func (c *CORSConfig) AllowOrigins() []string {
	return append([]string{}, c.allowOrigins...)
}

type DatabaseConfig struct {
	uri            string
	connectTimeout time.Duration
}

// Connection string for database.
func (d *DatabaseConfig) URI() string {
	return d.uri
}

// how long to retry connecting database at startup.
func (d *DatabaseConfig) ConnectTimeout() time.Duration {
	return d.connectTimeout
}

type AuthConfig struct {
	accessToken  *TokenConfig
	refreshToken *TokenConfig
	bcryptCost   int
	secureCookie bool
}

func (a *AuthConfig) AccessToken() *TokenConfig {
	return a.accessToken
}

func (a *AuthConfig) RefreshToken() *TokenConfig {
	return a.refreshToken
}

func (a *AuthConfig) BcryptCost() int {
	return a.bcryptCost
}

// whether the refresh token cookie is sent only over https.
func (a *AuthConfig) SecureCookie() bool {
	return a.secureCookie
}

type TokenConfig struct {
	secret []byte
	ttl    time.Duration
}

// HS256 key.
func (t *TokenConfig) Secret() []byte {
	return append([]byte{}, t.secret...)
}

func (t *TokenConfig) TTL() time.Duration {
	return t.ttl
}

type LoopsConfig struct {
	goalGeneration  recurring.Policy
	goalStats       recurring.Policy
	goalCleanup     recurring.Policy
	retentionMonths int
	timeout         time.Duration
}

func (l *LoopsConfig) GoalGeneration() recurring.Policy {
	return l.goalGeneration
}

func (l *LoopsConfig) GoalStats() recurring.Policy {
	return l.goalStats
}

func (l *LoopsConfig) GoalCleanup() recurring.Policy {
	return l.goalCleanup
}

// Done goal tasks older than this are purged by goal cleanup.
func (l *LoopsConfig) RetentionMonths() int {
	return l.retentionMonths
}

// timeout per cycle of loops.
func (l *LoopsConfig) Timeout() time.Duration {
	return l.timeout
}
