package viz

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownKind    = errors.New("viz: unknown visualization")
	ErrNotInitialized = errors.New("viz: Tick before Init")
)

// Kind names one of the built-in visualizations.
type Kind int

const (
	KindStops Kind = iota
	KindTrips
	KindAudio
)

var kindNames = [...]string{
	KindStops: "stops",
	KindTrips: "trips",
	KindAudio: "audio",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind resolves a visualization name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownKind, s, strings.Join(KindNames(), ", "))
}

func Kinds() []Kind {
	return []Kind{KindStops, KindTrips, KindAudio}
}

func KindNames() []string {
	out := make([]string, len(kindNames))
	copy(out, kindNames[:])
	return out
}

// QuitWhenDone reports whether the driving loop should close once the
// visualization runs out of frames. The stops view exits; the others leave
// their last frame on screen.
func (k Kind) QuitWhenDone() bool {
	return k == KindStops
}
