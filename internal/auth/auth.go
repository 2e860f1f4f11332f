// Package auth issues and checks the organizer bearer tokens that guard approvals,
// event deletion and the audit trail.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	EventIdsClaim = "event_ids"
	AllEvents     = "*"

	issuer = "fairpass"
)

var (
	ErrUnauthorized = errors.New("missing or invalid organizer token")
	ErrForbidden    = errors.New("organizer token does not cover this event")
)

type AuthConfigJson struct {
	OrganizerSecret string `json:"organizer_secret" env:"ORGANIZER_SECRET"`
}

type AuthConfig struct {
	OrganizerSecret []byte
}

func (acj AuthConfigJson) ConvertToDomain() AuthConfig {
	return AuthConfig{OrganizerSecret: []byte(acj.OrganizerSecret)}
}

func (ac AuthConfig) Enabled() bool {
	return len(ac.OrganizerSecret) > 0
}

// Organizer is the verified content of a token.
type Organizer struct {
	Subject  string
	EventIds []string
}

func (o Organizer) CanManage(eventId string) bool {
	for _, id := range o.EventIds {
		if id == AllEvents || id == eventId {
			return true
		}
	}
	return false
}

// IssueOrganizerToken signs an HS256 token for subject covering eventIds.
func IssueOrganizerToken(secret []byte, subject string, eventIds []string, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("organizer secret is empty")
	}
	now := time.Now()
	tok, err := jwt.NewBuilder().
		Issuer(issuer).
		Subject(subject).
		IssuedAt(now).
		Expiration(now.Add(ttl)).
		Claim(EventIdsClaim, eventIds).
		Build()
	if err != nil {
		return "", fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return string(signed), nil
}

// VerifyOrganizerToken checks signature, issuer and expiry, then reads the event scope.
func VerifyOrganizerToken(secret []byte, raw string) (Organizer, error) {
	tok, err := jwt.Parse([]byte(raw),
		jwt.WithKey(jwa.HS256, secret),
		jwt.WithValidate(true),
		jwt.WithIssuer(issuer),
		jwt.WithAcceptableSkew(30*time.Second),
	)
	if err != nil {
		return Organizer{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	claim, ok := tok.Get(EventIdsClaim)
	if !ok {
		return Organizer{}, fmt.Errorf("%w: no %s claim", ErrUnauthorized, EventIdsClaim)
	}
	list, ok := claim.([]interface{})
	if !ok {
		return Organizer{}, fmt.Errorf("%w: %s claim is not a list", ErrUnauthorized, EventIdsClaim)
	}

	organizer := Organizer{Subject: tok.Subject()}
	for _, v := range list {
		s, ok := v.(string)
		if !ok {
			return Organizer{}, fmt.Errorf("%w: %s claim holds a non-string", ErrUnauthorized, EventIdsClaim)
		}
		organizer.EventIds = append(organizer.EventIds, s)
	}
	return organizer, nil
}
