package config

import (
	"crypto"
	"crypto/x509"
	"encoding/base64"
	"encoding/xml"
	"os"
	"strings"

	"golang.org/x/crypto/pkcs12"
)

// PublishSettings is the parsed form of a publish-settings file.
type PublishSettings struct {
	XMLName  xml.Name         `xml:"PublishData"`
	Profiles []PublishProfile `xml:"PublishProfile"`
}

// PublishProfile groups subscriptions sharing a management endpoint.
type PublishProfile struct {
	SchemaVersion string                `xml:"SchemaVersion,attr"`
	PublishMethod string                `xml:"PublishMethod,attr"`
	Subscriptions []PublishSubscription `xml:"Subscription"`
}

// PublishSubscription is one subscription entry.
type PublishSubscription struct {
	ID                    string `xml:"Id,attr"`
	Name                  string `xml:"Name,attr"`
	ServiceManagementURL  string `xml:"ServiceManagementUrl,attr"`
	ManagementCertificate string `xml:"ManagementCertificate,attr"`
}

// Subscription is a resolved subscription with its decoded management
// certificate. Certificate and Key are nil when the entry carries none.
type Subscription struct {
	ID          string
	Name        string
	Certificate *x509.Certificate
	Key         crypto.PrivateKey
}

// LoadPublishSettings reads a publish-settings file.
func LoadPublishSettings(path string) (*PublishSettings, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigurationError{Field: "settings", Reason: "cannot read " + path, Err: err}
	}
	return ParsePublishSettings(data)
}

// ParsePublishSettings decodes publish-settings XML.
func ParsePublishSettings(data []byte) (*PublishSettings, error) {
	var ps PublishSettings
	if err := xml.Unmarshal(data, &ps); err != nil {
		return nil, &ConfigurationError{Field: "settings", Reason: "invalid publish settings", Err: err}
	}
	return &ps, nil
}

// Subscription returns the subscription with the given id, or the first one
// when id is empty. A missing subscription is a ConfigurationError.
func (ps *PublishSettings) Subscription(id string) (*Subscription, error) {
	for _, p := range ps.Profiles {
		for _, s := range p.Subscriptions {
			if id != "" && !strings.EqualFold(s.ID, id) {
				continue
			}
			return s.resolve()
		}
	}
	if id == "" {
		return nil, Invalid("settings", "no subscription in publish settings")
	}
	return nil, Invalid("subscription-id", "subscription "+id+" not found in publish settings")
}

func (s PublishSubscription) resolve() (*Subscription, error) {
	sub := &Subscription{ID: s.ID, Name: s.Name}
	if s.ManagementCertificate == "" {
		return sub, nil
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s.ManagementCertificate))
	if err != nil {
		return nil, &ConfigurationError{Field: "settings", Reason: "management certificate is not base64", Err: err}
	}
	key, cert, err := pkcs12.Decode(raw, "")
	if err != nil {
		return nil, &ConfigurationError{Field: "settings", Reason: "cannot decode management certificate", Err: err}
	}
	sub.Certificate = cert
	sub.Key = key
	return sub, nil
}
