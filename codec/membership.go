package codec

import serial "github.com/bridgekit/serial"

// Membership is the room membership state of a user.
type Membership string

const (
	MembershipJoin   Membership = "join"
	MembershipLeave  Membership = "leave"
	MembershipInvite Membership = "invite"
	MembershipBan    Membership = "ban"
	MembershipKnock  Membership = "knock"
)

// Memberships is the closed variant set for Membership. Decoding any other
// string fails with an invalid_variant error.
var Memberships = serial.NewEnum(
	MembershipJoin,
	MembershipLeave,
	MembershipInvite,
	MembershipBan,
	MembershipKnock,
)
