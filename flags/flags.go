package flags

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatRAW  = "raw"
)

const (
	EnvUser     = "ES_USER"
	EnvPassword = "ES_PASSWORD"
)

type Flags struct {
	ElasticURL        string `cli:"connect" cliAlt:"c" usage:"ElasticSearch URL, overrides scheme, host and port"`
	ElasticScheme     string `cli:"scheme" usage:"ElasticSearch scheme [http|https]"`
	ElasticHost       string `cli:"host" usage:"ElasticSearch host"`
	ElasticPort       int    `cli:"port" usage:"ElasticSearch port"`
	ElasticVersion    int    `cli:"esversion" usage:"ElasticSearch major version [7|8|9]"`
	Embedded          bool   `cli:"embedded" usage:"Use an in-process search engine instead of an ElasticSearch server"`
	ElasticUser       string `cli:"user" usage:"ElasticSearch Username, defaults to ES_USER"`
	ElasticPass       string `cli:"pass" usage:"ElasticSearch Password, defaults to ES_PASSWORD"`
	ElasticVerifySSL  bool   `cli:"verifySSL" usage:"Verify SSL certificate"`
	ElasticClientCrt  string `cli:"clientcrt" usage:"Path to client certificate"`
	ElasticClientKey  string `cli:"clientkey" usage:"Path to client key"`
	ConnectTimeoutSec int    `cli:"connect-timeout" usage:"Connect timeout in seconds"`
	ReadTimeoutSec    int    `cli:"read-timeout" usage:"Read timeout in seconds"`
	KeepAliveSec      int    `cli:"keepalive" usage:"Seconds an idle connection is kept open"`
	Index             string `cli:"index" cliAlt:"i" usage:"ElasticSearch Index to (re)create"`
	Fixture           string `cli:"fixture" usage:"Path to countries fixture file (JSON or YAML), empty uses the built-in one"`
	Field             string `cli:"field" usage:"Field to search with an exact term query"`
	Value             string `cli:"value" usage:"Value the search field must match exactly"`
	OutFormat         string `cli:"outformat" cliAlt:"f" usage:"Format of the search report. [csv|json|raw]"`
	Outfile           string `cli:"outfile" cliAlt:"o" usage:"Path to report file, - for stdout"`
	Fieldlist         string `cli:"fields" usage:"Fields to include in CSV report as comma separated list"`
	Progress          bool   `cli:"progress" usage:"Show a progress bar while indexing"`
	Trace             bool   `cli:"trace" usage:"Log ElasticSearch requests and responses"`
	LogLevel          string `cli:"loglevel" usage:"Log level [debug|info|warn|error]"`
	LogJSON           bool   `cli:"logjson" usage:"Write logs as JSON"`
}

// Default returns the flags the example runs with when nothing is overridden.
func Default() Flags {
	return Flags{
		ElasticScheme:     "http",
		ElasticHost:       "localhost",
		ElasticPort:       9200,
		ElasticVersion:    8,
		ConnectTimeoutSec: 5,
		ReadTimeoutSec:    60,
		KeepAliveSec:      2,
		Index:             "countries",
		Field:             "country",
		Value:             "Bahamas",
		OutFormat:         FormatCSV,
		Outfile:           "-",
		Fieldlist:         "country,states",
		LogLevel:          "info",
	}
}

// URL returns the explicit connect URL or one built from scheme, host and port.
func (f *Flags) URL() string {
	if f.ElasticURL != "" {
		return f.ElasticURL
	}
	return fmt.Sprintf("%s://%s", f.ElasticScheme, net.JoinHostPort(f.ElasticHost, strconv.Itoa(f.ElasticPort)))
}

// Credentials resolves the basic auth pair. Flags win, then ES_USER and
// ES_PASSWORD if both are set, otherwise both are empty.
func (f *Flags) Credentials(lookupEnv func(string) (string, bool)) (string, string) {
	if f.ElasticUser != "" && f.ElasticPass != "" {
		return f.ElasticUser, f.ElasticPass
	}

	user, userOK := lookupEnv(EnvUser)
	pass, passOK := lookupEnv(EnvPassword)
	if userOK && passOK {
		return user, pass
	}

	return "", ""
}

func (f *Flags) ConnectTimeout() time.Duration {
	return time.Duration(f.ConnectTimeoutSec) * time.Second
}

func (f *Flags) ReadTimeout() time.Duration {
	return time.Duration(f.ReadTimeoutSec) * time.Second
}

func (f *Flags) KeepAlive() time.Duration {
	return time.Duration(f.KeepAliveSec) * time.Second
}
