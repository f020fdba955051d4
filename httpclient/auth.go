package httpclient

import (
	"net/http"

	"github.com/kbukum/geokit/util"
)

// Credential attaches a provider key to an outgoing request. String must
// mask the secret so credentials can be logged.
type Credential interface {
	Apply(req *http.Request)
	String() string
}

// QueryKey sends Key as the query parameter Param, the way most geocoding
// services take their keys.
type QueryKey struct {
	Param string
	Key   string
}

// Apply implements Credential.
func (k QueryKey) Apply(req *http.Request) {
	q := req.URL.Query()
	q.Set(k.Param, k.Key)
	req.URL.RawQuery = q.Encode()
}

func (k QueryKey) String() string { return "query " + k.Param + "=" + util.MaskSecret(k.Key, 4) }

// Bearer sends an "Authorization: Bearer" token, as ipinfo expects.
type Bearer string

// Apply implements Credential.
func (b Bearer) Apply(req *http.Request) { req.Header.Set("Authorization", "Bearer "+string(b)) }

func (b Bearer) String() string { return "bearer " + util.MaskSecret(string(b), 4) }

// Basic sends HTTP basic credentials, as MaxMind's account and license
// pair expects.
type Basic struct {
	User     string
	Password string
}

// Apply implements Credential.
func (b Basic) Apply(req *http.Request) { req.SetBasicAuth(b.User, b.Password) }

func (b Basic) String() string { return "basic " + b.User + ":" + util.MaskSecret(b.Password, 0) }
