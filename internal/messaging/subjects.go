package messaging

import "fmt"

// BroadcastSubject carries packets addressed to every connected player.
const BroadcastSubject = "realm.broadcast"

// PlayerSubject is the per-connection delivery subject.
func PlayerSubject(instance string) string {
	return fmt.Sprintf("realm.player.%s", instance)
}

// RegionSubject carries packets for everyone whose neighborhood includes
// the region.
func RegionSubject(region int) string {
	return fmt.Sprintf("realm.region.%d", region)
}

// PrivateMessageSubject carries cross-server private message relays,
// keyed by recipient username.
func PrivateMessageSubject(username string) string {
	return fmt.Sprintf("realm.pm.%s", username)
}
