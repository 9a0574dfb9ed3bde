package models

import "math"

// Session is a pause/run state machine over a decaying balance of seconds.
// StartedAt is a unix timestamp; the zero value means the session is paused
// and the balance is frozen. Exactly one of paused/running holds at any time.
//
// The same rules govern the owner-wide aggregate session and each per-order
// session. All transitions are pure: they return the next state and leave the
// receiver untouched, so they can be tested without storage.
type Session struct {
	RemainingSecs uint64 `json:"remaining_secs"`
	StartedAt     uint64 `json:"started_at"`
}

// OrderSession is the per-order variant of Session.
type OrderSession struct {
	OrderID       uint64 `json:"order_id"`
	RemainingSecs uint64 `json:"remaining_secs"`
	StartedAt     uint64 `json:"started_at"`
}

// Access is the derived "expires at" view of a running session.
// ExpiresAt is 0 while paused.
type Access struct {
	Owner     string `json:"owner"`
	ExpiresAt uint64 `json:"expires_at"`
}

// SatAdd returns a+b clamped at the uint64 ceiling.
func SatAdd(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}

// SatSub returns a-b floored at zero.
func SatSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}

// Running reports whether the session is consuming time.
func (s Session) Running() bool { return s.StartedAt > 0 }

// RemainingAt returns the virtual remaining balance at now without mutating
// anything: the stored balance while paused, otherwise the stored balance
// minus elapsed running time, floored at zero. A clock reading earlier than
// StartedAt counts as zero elapsed.
func (s Session) RemainingAt(now uint64) uint64 {
	if !s.Running() {
		return s.RemainingSecs
	}
	return SatSub(s.RemainingSecs, SatSub(now, s.StartedAt))
}

// ActiveAt reports whether the session is running with a positive virtual
// balance at now.
func (s Session) ActiveAt(now uint64) bool {
	return s.Running() && s.RemainingAt(now) > 0
}

// Started returns the state after a start request at now and whether the
// state changed. Starting is a no-op when the virtual balance is exhausted or
// the session is already running; a repeated start never resets the original
// start stamp.
func (s Session) Started(now uint64) (Session, bool) {
	if s.RemainingAt(now) == 0 {
		return s, false
	}
	if s.Running() {
		return s, false
	}
	return Session{RemainingSecs: s.RemainingSecs, StartedAt: now}, true
}

// Paused returns the state after a pause request at now and whether the state
// changed. Pausing checkpoints the elapsed running time into the stored
// balance (saturating both ways) and clears the start stamp. A no-op while
// already paused.
func (s Session) Paused(now uint64) (Session, bool) {
	if !s.Running() {
		return s, false
	}
	elapsed := SatSub(now, s.StartedAt)
	return Session{RemainingSecs: SatSub(s.RemainingSecs, elapsed), StartedAt: 0}, true
}

// Credited returns the state with secs added to the stored balance, clamped
// at the representable ceiling.
func (s Session) Credited(secs uint64) Session {
	return Session{RemainingSecs: SatAdd(s.RemainingSecs, secs), StartedAt: s.StartedAt}
}

// AccessAt derives the access view: the predicted expiry moment while
// running, 0 while paused. The sum saturates instead of wrapping.
func (s Session) AccessAt(owner string) Access {
	if !s.Running() {
		return Access{Owner: owner}
	}
	return Access{Owner: owner, ExpiresAt: SatAdd(s.StartedAt, s.RemainingSecs)}
}

// Session returns the embedded scope-independent state machine.
func (o OrderSession) Session() Session {
	return Session{RemainingSecs: o.RemainingSecs, StartedAt: o.StartedAt}
}

// WithSession returns the order session with its state replaced by s.
func (o OrderSession) WithSession(s Session) OrderSession {
	return OrderSession{OrderID: o.OrderID, RemainingSecs: s.RemainingSecs, StartedAt: s.StartedAt}
}
