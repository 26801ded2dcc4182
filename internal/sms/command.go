// Package sms turns raw inbound text messages into a closed set of
// commands, decoupled from the presence state transitions that act on them.
package sms

import "strings"

type CommandKind int

const (
	KindUnrecognized CommandKind = iota
	KindRegister                 // REGISTER <name...> <vehicle>
	KindSetLocation              // ON <location...>
	KindGoOffline                // OFF (exact)
)

// Command is the parsed form of one inbound message. Fields beyond Kind
// are only set for the kinds that carry them.
type Command struct {
	Kind     CommandKind
	Name     string // Register: original casing preserved
	Vehicle  string // Register: last token
	Location string // SetLocation: upper-cased, may be empty
}

const (
	prefixRegister = "REGISTER "
	prefixOn       = "ON "
	wordOff        = "OFF"
)

// Parse matches on the upper-cased message. A REGISTER needs at least
// three tokens (command, name, vehicle); the last token is the vehicle and
// everything between is the name, keeping the sender's casing. "OFF NOW"
// and other trailing text fall through to Unrecognized.
func Parse(raw string) Command {
	raw = strings.TrimSpace(raw)
	upper := strings.ToUpper(raw)

	switch {
	case upper == wordOff:
		return Command{Kind: KindGoOffline}
	case strings.HasPrefix(upper, prefixOn):
		// Any string is a valid location label, including an empty one.
		return Command{Kind: KindSetLocation, Location: strings.TrimSpace(upper[len(prefixOn):])}
	case strings.HasPrefix(upper, prefixRegister):
		parts := strings.Fields(raw)
		if len(parts) < 3 {
			return Command{Kind: KindRegister}
		}
		return Command{
			Kind:    KindRegister,
			Vehicle: parts[len(parts)-1],
			Name:    strings.Join(parts[1:len(parts)-1], " "),
		}
	}
	return Command{Kind: KindUnrecognized}
}

// Valid reports whether a Register command carried both a name and a
// vehicle; other kinds are always valid.
func (c Command) Valid() bool {
	if c.Kind == KindRegister {
		return c.Name != "" && c.Vehicle != ""
	}
	return true
}

// NormalizePhone strips the configured country-code prefix and all spaces
// so web, webhook and SMS senders resolve to the same driver.
func NormalizePhone(phone, countryCode string) string {
	phone = strings.ReplaceAll(phone, " ", "")
	if countryCode != "" {
		phone = strings.TrimPrefix(phone, countryCode)
	}
	return phone
}
