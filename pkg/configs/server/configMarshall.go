package server

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/opst/todofab/pkg/loop/recurring"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort            = 5000
	DefaultConnectTimeout  = 30 * time.Second
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 30 * 24 * time.Hour
	DefaultBcryptCost      = 10
	DefaultRetentionMonths = 3
	DefaultLoopTimeout     = 5 * time.Minute

	// goals have their own timezones, so "today" begins at any hour of UTC.
	DefaultGoalGenerationPolicy = "hourly:01"
	DefaultGoalStatsPolicy      = "hourly:00"
	DefaultGoalCleanupPolicy    = "weekly:sun:02:00"
)

type Marshalled[S any] interface {
	trySeal(string) S
}

// seal marshalled object.
//
// this function CAN CAUSE PANIC if misconfiguration is found.
func TrySeal[S any](conf Marshalled[S]) S {
	return conf.trySeal("(root)")
}

// Duration is time.Duration in yaml.
//
// It accepts Go duration syntax ("15m", "1h30m") and days ("30d").
type Duration time.Duration

func ParseDuration(s string) (time.Duration, error) {
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("%q is not a duration: %w", s, err)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not a duration: %w", s, err)
	}
	return d, nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Configuration of todofab.
//
// This type is marshalling value and mutable.
// Seal it with TrySeal to get ServerConfig.
type ServerConfigMarshall struct {
	Port     int32                   `yaml:"port,omitempty"`
	CORS     *CORSConfigMarshall     `yaml:"cors,omitempty"`
	Database *DatabaseConfigMarshall `yaml:"database"`
	Auth     *AuthConfigMarshall     `yaml:"auth"`
	Loops    *LoopsConfigMarshall    `yaml:"loops,omitempty"`
}

var _ Marshalled[*ServerConfig] = &ServerConfigMarshall{}

func (s *ServerConfigMarshall) trySeal(path string) *ServerConfig {
	port := s.Port
	if port == 0 {
		port = DefaultPort
	}
	cors := s.CORS
	if cors == nil {
		cors = &CORSConfigMarshall{}
	}
	loops := s.Loops
	if loops == nil {
		loops = &LoopsConfigMarshall{}
	}
	return &ServerConfig{
		port:     port,
		cors:     cors.trySeal(path + ".cors"),
		database: nonnil(s.Database, path+".database").trySeal(path + ".database"),
		auth:     nonnil(s.Auth, path+".auth").trySeal(path + ".auth"),
		loops:    loops.trySeal(path + ".loops"),
	}
}

type CORSConfigMarshall struct {
	AllowOrigins []string `yaml:"allowOrigins,omitempty"`
}

func (c *CORSConfigMarshall) trySeal(string) *CORSConfig {
	return &CORSConfig{allowOrigins: append([]string{}, c.AllowOrigins...)}
}

type DatabaseConfigMarshall struct {
	URI            string   `yaml:"uri"`
	ConnectTimeout Duration `yaml:"connectTimeout,omitempty"`
}

func (d *DatabaseConfigMarshall) trySeal(path string) *DatabaseConfig {
	timeout := time.Duration(d.ConnectTimeout)
	if timeout == 0 {
		timeout = DefaultConnectTimeout
	}
	return &DatabaseConfig{
		uri:            required(d.URI, path+".uri"),
		connectTimeout: timeout,
	}
}

type AuthConfigMarshall struct {
	AccessToken  *TokenConfigMarshall `yaml:"accessToken"`
	RefreshToken *TokenConfigMarshall `yaml:"refreshToken"`
	BcryptCost   int                  `yaml:"bcryptCost,omitempty"`
	SecureCookie bool                 `yaml:"secureCookie,omitempty"`
}

func (a *AuthConfigMarshall) trySeal(path string) *AuthConfig {
	cost := a.BcryptCost
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	access := nonnil(a.AccessToken, path+".accessToken").trySeal(path+".accessToken", DefaultAccessTokenTTL)
	refresh := nonnil(a.RefreshToken, path+".refreshToken").trySeal(path+".refreshToken", DefaultRefreshTokenTTL)
	if string(access.secret) == string(refresh.secret) {
		panic(path + ".accessToken.secret and " + path + ".refreshToken.secret should be different")
	}
	return &AuthConfig{
		accessToken:  access,
		refreshToken: refresh,
		bcryptCost:   cost,
		secureCookie: a.SecureCookie,
	}
}

type TokenConfigMarshall struct {
	Secret string   `yaml:"secret"`
	TTL    Duration `yaml:"ttl,omitempty"`
}

func (t *TokenConfigMarshall) trySeal(path string, defaultTTL time.Duration) *TokenConfig {
	ttl := time.Duration(t.TTL)
	if ttl == 0 {
		ttl = defaultTTL
	}
	if ttl < 0 {
		panic(fmt.Sprintf("%s.ttl should be positive: %s", path, ttl))
	}
	return &TokenConfig{
		secret: []byte(required(t.Secret, path+".secret")),
		ttl:    ttl,
	}
}

type LoopsConfigMarshall struct {
	GoalGeneration  string   `yaml:"goalGeneration,omitempty"`
	GoalStats       string   `yaml:"goalStats,omitempty"`
	GoalCleanup     string   `yaml:"goalCleanup,omitempty"`
	RetentionMonths int      `yaml:"retentionMonths,omitempty"`
	Timeout         Duration `yaml:"timeout,omitempty"`
}

func (l *LoopsConfigMarshall) trySeal(path string) *LoopsConfig {
	retention := l.RetentionMonths
	if retention == 0 {
		retention = DefaultRetentionMonths
	}
	if retention < 0 {
		panic(fmt.Sprintf("%s.retentionMonths should be positive: %d", path, retention))
	}
	timeout := time.Duration(l.Timeout)
	if timeout == 0 {
		timeout = DefaultLoopTimeout
	}
	return &LoopsConfig{
		goalGeneration:  policy(l.GoalGeneration, DefaultGoalGenerationPolicy, path+".goalGeneration"),
		goalStats:       policy(l.GoalStats, DefaultGoalStatsPolicy, path+".goalStats"),
		goalCleanup:     policy(l.GoalCleanup, DefaultGoalCleanupPolicy, path+".goalCleanup"),
		retentionMonths: retention,
		timeout:         timeout,
	}
}

func policy(notation string, defaultNotation string, path string) recurring.Policy {
	if notation == "" {
		notation = defaultNotation
	}
	p, err := recurring.ParsePolicy(notation)
	if err != nil {
		panic(fmt.Errorf("%s can not be parsed: %w", path, err))
	}
	return p
}

func nonnil[T any](v *T, path string) *T {
	if v == nil {
		panic(path + " is required")
	}
	return v
}

func required[T comparable](v T, path string) T {
	if v == *new(T) {
		panic(path + " is required")
	}
	return v
}
