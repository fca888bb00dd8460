package flags

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func envFrom(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestFlags_URL(t *testing.T) {
	conf := Default()
	assert.Equal(t, "http://localhost:9200", conf.URL())

	conf.ElasticScheme = "https"
	conf.ElasticHost = "es.example.com"
	conf.ElasticPort = 9243
	assert.Equal(t, "https://es.example.com:9243", conf.URL())

	conf.ElasticURL = "http://other:9200"
	assert.Equal(t, "http://other:9200", conf.URL())
}

func TestFlags_Credentials(t *testing.T) {
	tests := []struct {
		name     string
		user     string
		pass     string
		env      map[string]string
		wantUser string
		wantPass string
	}{
		{
			name: "unset env is anonymous",
			env:  map[string]string{},
		},
		{
			name: "only user set is anonymous",
			env:  map[string]string{EnvUser: "elastic"},
		},
		{
			name:     "both env set",
			env:      map[string]string{EnvUser: "elastic", EnvPassword: "changeme"},
			wantUser: "elastic",
			wantPass: "changeme",
		},
		{
			name:     "flags win over env",
			user:     "admin",
			pass:     "secret",
			env:      map[string]string{EnvUser: "elastic", EnvPassword: "changeme"},
			wantUser: "admin",
			wantPass: "secret",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := Default()
			conf.ElasticUser = tt.user
			conf.ElasticPass = tt.pass

			user, pass := conf.Credentials(envFrom(tt.env))
			assert.Equal(t, tt.wantUser, user)
			assert.Equal(t, tt.wantPass, pass)
		})
	}
}

func TestFlags_Timeouts(t *testing.T) {
	conf := Default()
	assert.Equal(t, 5*time.Second, conf.ConnectTimeout())
	assert.Equal(t, 60*time.Second, conf.ReadTimeout())
	assert.Equal(t, 2*time.Second, conf.KeepAlive())
}
