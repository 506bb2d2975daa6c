// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import "context"

// RegisterVoter authorizes addr to vote. Only the admin may register others.
func (l *Ledger) RegisterVoter(ctx context.Context, caller, addr Address) error {
	const op = "register voter"

	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock.Now()

	if err := l.requireAdmin(op, caller); err != nil {
		return l.reject(op, err)
	}
	if !addr.Valid() {
		return l.reject(op, validationError(op, "invalid voter address %q", addr))
	}
	if _, ok := l.voters[addr]; ok {
		return l.reject(op, stateError(op, "voter %s is already registered", addr))
	}
	if err := l.commit(ctx, op, caller, now, Event{Type: EventVoterRegistered, Voter: addr}); err != nil {
		return l.reject(op, err)
	}
	return nil
}

// RegisterVoters registers a batch of addresses and returns how many were
// newly added. Invalid, already registered and repeated addresses are skipped.
func (l *Ledger) RegisterVoters(ctx context.Context, caller Address, addrs []Address) (int, error) {
	const op = "register voters"

	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock.Now()

	if err := l.requireAdmin(op, caller); err != nil {
		return 0, l.reject(op, err)
	}

	seen := make(map[Address]struct{}, len(addrs))
	var events []Event
	for _, addr := range addrs {
		if !addr.Valid() {
			continue
		}
		if _, ok := l.voters[addr]; ok {
			continue
		}
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		events = append(events, Event{Type: EventVoterRegistered, Voter: addr})
	}
	if len(events) == 0 {
		return 0, nil
	}
	if err := l.commit(ctx, op, caller, now, events...); err != nil {
		return 0, l.reject(op, err)
	}
	return len(events), nil
}

// RegisterSelf registers the caller as a voter.
func (l *Ledger) RegisterSelf(ctx context.Context, caller Address) error {
	const op = "register self"

	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock.Now()

	if caller == "" {
		return l.reject(op, authError(op, "caller identity required"))
	}
	if !caller.Valid() {
		return l.reject(op, validationError(op, "invalid voter address %q", caller))
	}
	if _, ok := l.voters[caller]; ok {
		return l.reject(op, stateError(op, "voter %s is already registered", caller))
	}
	if err := l.commit(ctx, op, caller, now, Event{Type: EventVoterRegistered, Voter: caller}); err != nil {
		return l.reject(op, err)
	}
	return nil
}

// IsRegistered reports whether addr may vote.
func (l *Ledger) IsRegistered(addr Address) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.voters[addr]
	return ok
}
