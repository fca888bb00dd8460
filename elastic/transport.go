package elastic

import (
	"crypto/tls"
	"encoding/base64"
	"net"
	"net/http"
	"time"
)

// Config holds everything needed to open a connection. It is built once at
// startup and not modified afterwards.
type Config struct {
	URL            string
	Username       string
	Password       string
	VerifySSL      bool
	ClientCrt      string
	ClientKey      string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	KeepAlive      time.Duration
	Trace          bool
}

// HasCredentials reports whether basic auth should be sent. An empty
// password is valid.
func (c Config) HasCredentials() bool {
	return c.Username != ""
}

// BasicAuth returns the Authorization header value for the credentials.
func (c Config) BasicAuth() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(c.Username+":"+c.Password))
}

// NewHTTPClient builds the HTTP client shared by all server backends.
// The client has no overall timeout so requests never expire while queued
// for a connection; only connect and read are bounded.
func NewHTTPClient(cfg Config) (*http.Client, error) {
	tlsCfg := &tls.Config{
		InsecureSkipVerify: !cfg.VerifySSL,
	}

	if cfg.ClientCrt != "" && cfg.ClientKey != "" {
		cert, err := tls.LoadX509KeyPair(cfg.ClientCrt, cfg.ClientKey)
		if err != nil {
			return nil, err
		}
		tlsCfg.Certificates = []tls.Certificate{cert}
	}

	dialer := &net.Dialer{
		Timeout:   cfg.ConnectTimeout,
		KeepAlive: cfg.KeepAlive,
	}

	tr := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSClientConfig:       tlsCfg,
		TLSHandshakeTimeout:   cfg.ConnectTimeout,
		ResponseHeaderTimeout: cfg.ReadTimeout,
		IdleConnTimeout:       cfg.KeepAlive,
		MaxIdleConnsPerHost:   1,
	}

	return &http.Client{Transport: tr}, nil
}
