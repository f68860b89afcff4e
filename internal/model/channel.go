// Package model defines the weekly sales ledger and its channel records.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// Channel identifies one of the fixed sales channels.
type Channel int

// The tracked channels, in display order.
const (
	WhatsappBroadcasting Channel = iota
	MetaAds
	GoogleAds
	TeleCalling
	RelationshipSales
	CommunityConversion
	OrganicSales
	AcademicSchools

	NumChannels = 8
)

// ErrUnknownChannel is returned when a channel name does not match any channel.
var ErrUnknownChannel = errors.New("unknown channel")

var channelNames = [NumChannels]string{
	WhatsappBroadcasting: "Whatsapp Broadcasting",
	MetaAds:              "Meta Ads",
	GoogleAds:            "Google Ads",
	TeleCalling:          "Tele Calling",
	RelationshipSales:    "Relationship Sales",
	CommunityConversion:  "Community Conversion",
	OrganicSales:         "Organic Sales",
	AcademicSchools:      "Academic Schools",
}

// Channels returns every channel in display order.
func Channels() []Channel {
	out := make([]Channel, NumChannels)
	for i := range out {
		out[i] = Channel(i)
	}
	return out
}

// Valid reports whether c is one of the tracked channels.
func (c Channel) Valid() bool {
	return c >= 0 && c < NumChannels
}

// String returns the display name, e.g. "Tele Calling".
func (c Channel) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Channel(%d)", int(c))
	}
	return channelNames[c]
}

// Key returns the slug used in URLs and config, e.g. "tele_calling".
func (c Channel) Key() string {
	return strings.ReplaceAll(strings.ToLower(c.String()), " ", "_")
}

// ActivityField is the activity input a channel records alongside spend and sales.
// Tele Calling counts calls; every other channel counts visits or reach.
func (c Channel) ActivityField() Field {
	if c == TeleCalling {
		return FieldCallsMade
	}
	return FieldSiteVisits
}

// ParseChannel resolves a display name ("Meta Ads"), a slug ("meta_ads") or a
// compact name ("MetaAds"). Matching is case-insensitive.
func ParseChannel(s string) (Channel, error) {
	want := normalizeName(s)
	for _, c := range Channels() {
		if normalizeName(c.String()) == want {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownChannel, s)
}

func normalizeName(s string) string {
	r := strings.NewReplacer(" ", "", "_", "", "-", "")
	return strings.ToLower(r.Replace(strings.TrimSpace(s)))
}

// MarshalText implements encoding.TextMarshaler using the channel slug.
func (c Channel) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownChannel, int(c))
	}
	return []byte(c.Key()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Channel) UnmarshalText(b []byte) error {
	parsed, err := ParseChannel(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ConversionBasis names the activity volume a channel's conversion rate divides by.
type ConversionBasis int

const (
	// BasisUnknown is the zero value; no channel may map to it.
	BasisUnknown ConversionBasis = iota
	// BasisReach divides sales by site visits or reach.
	BasisReach
	// BasisCalls divides sales by calls made.
	BasisCalls
	// BasisTarget divides sales by the ledger's weekly target.
	BasisTarget
)

func (b ConversionBasis) String() string {
	switch b {
	case BasisReach:
		return "reach"
	case BasisCalls:
		return "calls"
	case BasisTarget:
		return "target"
	default:
		return "unknown"
	}
}

var conversionBasis = [NumChannels]ConversionBasis{
	WhatsappBroadcasting: BasisTarget,
	MetaAds:              BasisReach,
	GoogleAds:            BasisReach,
	TeleCalling:          BasisCalls,
	RelationshipSales:    BasisReach,
	CommunityConversion:  BasisReach,
	OrganicSales:         BasisTarget,
	AcademicSchools:      BasisReach,
}

// ConversionBasisFor returns the conversion formula kind for c.
func ConversionBasisFor(c Channel) ConversionBasis {
	if !c.Valid() {
		return BasisUnknown
	}
	return conversionBasis[c]
}
