package league

import (
	"errors"
	"fmt"
)

var (
	ErrNotInDraft        = errors.New("league is not in draft phase")
	ErrNotAMember        = errors.New("user is not a member of the league")
	ErrRosterFull        = errors.New("member roster is full")
	ErrChefAlreadyTaken  = errors.New("chef is already drafted in this league")
	ErrLeagueFull        = errors.New("league has reached max members")
	ErrInvalidTransition = errors.New("invalid league status transition")
	ErrVersionConflict   = errors.New("league version conflict")
)

// ValidateTransition checks the lifecycle state machine: draft -> active ->
// completed, with completed terminal. It does not require full rosters before
// activation; starting the season with open slots is an admin decision.
func ValidateTransition(from, to Status) error {
	switch {
	case from == StatusDraft && to == StatusActive:
		return nil
	case from == StatusActive && to == StatusCompleted:
		return nil
	default:
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
}

// CheckDraftPick validates the assign preconditions in their fixed order.
// The first failing check determines the error, so callers can surface a
// precise rejection reason to draft clients.
func CheckDraftPick(l League, userID, chefID string) error {
	if l.Status != StatusDraft {
		return fmt.Errorf("%w: status=%s", ErrNotInDraft, l.Status)
	}

	member, ok := l.MemberByUser(userID)
	if !ok {
		return fmt.Errorf("%w: user=%s", ErrNotAMember, userID)
	}
	if len(member.Roster) >= l.MaxRosterSize {
		return fmt.Errorf("%w: size=%d max=%d", ErrRosterFull, len(member.Roster), l.MaxRosterSize)
	}
	if holder, taken := l.RosterHolder(chefID); taken {
		return fmt.Errorf("%w: chef=%s holder=%s", ErrChefAlreadyTaken, chefID, holder)
	}

	return nil
}

// CheckJoin validates open enrollment by invite code. Joining is allowed in
// draft and active phases as long as the league is not full.
func CheckJoin(l League, userID string) error {
	if l.Status == StatusCompleted {
		return fmt.Errorf("%w: %s -> join", ErrInvalidTransition, l.Status)
	}
	if l.HasMember(userID) {
		return fmt.Errorf("user %s is already a member of league %s", userID, l.ID)
	}
	if len(l.Members) >= l.MaxMembers {
		return fmt.Errorf("%w: members=%d max=%d", ErrLeagueFull, len(l.Members), l.MaxMembers)
	}

	return nil
}
