package server

import (
	"os"

	"gopkg.in/yaml.v3"
)

// environment variables overriding config file.
const (
	EnvDatabaseURI        = "TODOFAB_DB_URI"
	EnvAccessTokenSecret  = "TODOFAB_ACCESS_TOKEN_SECRET"
	EnvRefreshTokenSecret = "TODOFAB_REFRESH_TOKEN_SECRET"
)

// Override modifies marshalled config before sealing.
type Override func(*ServerConfigMarshall)

// FromEnv overrides database uri and token secrets with environment variables.
//
// lookup is a function like os.LookupEnv.
func FromEnv(lookup func(string) (string, bool)) Override {
	return func(m *ServerConfigMarshall) {
		if v, ok := lookup(EnvDatabaseURI); ok && v != "" {
			if m.Database == nil {
				m.Database = &DatabaseConfigMarshall{}
			}
			m.Database.URI = v
		}
		if v, ok := lookup(EnvAccessTokenSecret); ok && v != "" {
			tokenOf(m, func(a *AuthConfigMarshall) **TokenConfigMarshall { return &a.AccessToken }).Secret = v
		}
		if v, ok := lookup(EnvRefreshTokenSecret); ok && v != "" {
			tokenOf(m, func(a *AuthConfigMarshall) **TokenConfigMarshall { return &a.RefreshToken }).Secret = v
		}
	}
}

func tokenOf(m *ServerConfigMarshall, field func(*AuthConfigMarshall) **TokenConfigMarshall) *TokenConfigMarshall {
	if m.Auth == nil {
		m.Auth = &AuthConfigMarshall{}
	}
	t := field(m.Auth)
	if *t == nil {
		*t = &TokenConfigMarshall{}
	}
	return *t
}

// load todofab config from a file, with overrides from environment variables.
//
// When filepath is empty, config is built only from environment variables and defaults.
//
// It panics when required values are missing.
func LoadServerConfig(filepath string) (*ServerConfig, error) {
	content := []byte{}
	if filepath != "" {
		c, err := os.ReadFile(filepath)
		if err != nil {
			return nil, err
		}
		content = c
	}
	return Unmarshal(content, FromEnv(os.LookupEnv))
}

func Unmarshal(conf []byte, overrides ...Override) (*ServerConfig, error) {
	var m *ServerConfigMarshall
	if err := yaml.Unmarshal(conf, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = &ServerConfigMarshall{}
	}
	for _, o := range overrides {
		o(m)
	}
	return TrySeal(m), nil
}
